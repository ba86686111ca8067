package main

import (
	"context"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/pesio-ai/be-contracts/internal/client"
)

var (
	serverAddr string
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "contractctl",
	Short: "Manage contract blueprints and lifecycles over gRPC",
	Long: `contractctl talks to the contracts service gRPC API.

Examples:
  contractctl blueprint create --name NDA --field "Party:text" --field "Signed on:date:optional"
  contractctl contract list --group pending
  contractctl contract get <id>
  contractctl contract approve <id>
  contractctl contract transition <id> SENT`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "addr", envOr("CONTRACTS_GRPC_ADDR", "localhost:9086"), "contracts service gRPC address")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "per-call timeout")

	rootCmd.AddCommand(blueprintCmd)
	rootCmd.AddCommand(contractCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

// withClient dials the service and runs fn with a call-scoped context.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, c client.ContractsClientInterface) error) error {
	c, err := client.NewContractsGRPCClient(serverAddr)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	return fn(ctx, c)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
