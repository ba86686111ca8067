package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/pesio-ai/be-contracts/internal/client"
	"github.com/pesio-ai/be-contracts/internal/lifecycle"
	"github.com/pesio-ai/be-contracts/internal/repository"
)

var contractCmd = &cobra.Command{
	Use:   "contract",
	Short: "Inspect contracts and move them through their lifecycle",
}

var contractGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a contract with its timeline and available actions",
	Args:  cobra.ExactArgs(1),
	RunE:  runContractGet,
}

var contractListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contracts, most recently updated first",
	RunE:  runContractList,
}

var contractTransitionCmd = &cobra.Command{
	Use:   "transition <id> <status>",
	Short: "Move a contract to a status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransition(cmd, args[0], args[1])
	},
}

var (
	listGroup  string
	listStatus string
	listQuery  string
)

// actionTargets maps the shortcut subcommands to the status they move to.
var actionTargets = []struct {
	name   string
	target lifecycle.Status
	short  string
}{
	{"approve", lifecycle.StatusApproved, "Approve a created contract"},
	{"send", lifecycle.StatusSent, "Send an approved contract"},
	{"sign", lifecycle.StatusSigned, "Mark a sent contract as signed"},
	{"lock", lifecycle.StatusLocked, "Lock a signed contract against edits"},
	{"revoke", lifecycle.StatusCreated, "Revoke an approval"},
}

func init() {
	contractListCmd.Flags().StringVar(&listGroup, "group", "", "status group: all, active, pending, signed")
	contractListCmd.Flags().StringVar(&listStatus, "status", "", "exact status")
	contractListCmd.Flags().StringVarP(&listQuery, "query", "q", "", "case-insensitive name search")

	contractCmd.AddCommand(contractGetCmd, contractListCmd, contractTransitionCmd)

	for _, a := range actionTargets {
		target := a.target
		contractCmd.AddCommand(&cobra.Command{
			Use:   a.name + " <id>",
			Short: a.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runTransition(cmd, args[0], target.String())
			},
		})
	}
}

func runContractGet(cmd *cobra.Command, args []string) error {
	return withClient(cmd, func(ctx context.Context, c client.ContractsClientInterface) error {
		view, err := c.GetContract(ctx, args[0])
		if err != nil {
			return err
		}

		contract := view.Contract
		pterm.DefaultHeader.WithFullWidth().Printf("%s", contract.Name)
		pterm.Info.Printf("ID: %s\n", contract.ID)
		pterm.Info.Printf("Blueprint: %s\n", contract.BlueprintName)
		pterm.Info.Printf("Status: %s  Locked: %t\n", contract.Status, view.Locked)
		pterm.Println()

		if err := renderValues(view); err != nil {
			return err
		}
		pterm.Println()
		if err := renderTimeline(view.Timeline); err != nil {
			return err
		}
		pterm.Println()

		if len(view.Actions) == 0 {
			pterm.Info.Println("No further actions available")
			return nil
		}
		names := make([]string, len(view.Actions))
		for i, a := range view.Actions {
			names[i] = a.ID
		}
		pterm.Info.Printf("Available actions: %s\n", strings.Join(names, ", "))
		return nil
	})
}

func runContractList(cmd *cobra.Command, _ []string) error {
	return withClient(cmd, func(ctx context.Context, c client.ContractsClientInterface) error {
		list, err := c.ListContracts(ctx, client.ListContractsRequest{
			Group:  listGroup,
			Status: listStatus,
			Query:  listQuery,
		})
		if err != nil {
			return err
		}
		if list.Total == 0 {
			pterm.Info.Println("No contracts found")
			return nil
		}
		return renderContracts(list.Contracts)
	})
}

func runTransition(cmd *cobra.Command, id, rawStatus string) error {
	target, err := lifecycle.ParseStatus(rawStatus)
	if err != nil {
		return err
	}
	return withClient(cmd, func(ctx context.Context, c client.ContractsClientInterface) error {
		contract, err := c.Transition(ctx, id, target.String())
		if err != nil {
			return err
		}
		pterm.Success.Printf("%s is now %s\n", contract.Name, contract.Status)
		return nil
	})
}

func renderContracts(contracts []*repository.Contract) error {
	data := pterm.TableData{{"Name", "Blueprint", "Status", "Updated", "ID"}}
	for _, ct := range contracts {
		data = append(data, []string{
			ct.Name,
			ct.BlueprintName,
			ct.Status.String(),
			ct.UpdatedAt.Format("2006-01-02 15:04"),
			ct.ID,
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// renderValues prints field values in blueprint order. Values for fields the
// blueprint no longer has are not shown.
func renderValues(view *client.ContractView) error {
	if view.Blueprint == nil || len(view.Blueprint.Fields) == 0 {
		return nil
	}
	data := pterm.TableData{{"Field", "Type", "Value"}}
	for _, f := range view.Blueprint.Fields {
		value := ""
		if v, ok := view.Contract.FieldValues[f.ID]; ok && v != nil {
			value = fmt.Sprint(v)
		}
		data = append(data, []string{f.Label, f.Type.DisplayName(), value})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func renderTimeline(steps []lifecycle.Step) error {
	data := pterm.TableData{{"Step", "State"}}
	for _, s := range steps {
		state := "upcoming"
		switch {
		case s.Active:
			state = "current"
		case s.Completed:
			state = "done"
		}
		data = append(data, []string{s.Label, state})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
