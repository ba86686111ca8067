package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/pesio-ai/be-contracts/internal/client"
	"github.com/pesio-ai/be-contracts/internal/repository"
	"github.com/pesio-ai/be-contracts/internal/service"
)

var blueprintCmd = &cobra.Command{
	Use:   "blueprint",
	Short: "Manage contract blueprints",
}

var blueprintCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a blueprint from field specs",
	Long: `Create a blueprint. Each --field is "Label:type" with an optional
":optional" suffix; type is one of text, date, checkbox, signature.
Fields are required unless marked optional.`,
	RunE: runBlueprintCreate,
}

var (
	blueprintName   string
	blueprintFields []string
)

func init() {
	blueprintCreateCmd.Flags().StringVar(&blueprintName, "name", "", "blueprint name")
	blueprintCreateCmd.Flags().StringArrayVar(&blueprintFields, "field", nil, `field spec "Label:type[:optional]" (repeatable)`)
	_ = blueprintCreateCmd.MarkFlagRequired("name")

	blueprintCmd.AddCommand(blueprintCreateCmd)
}

func runBlueprintCreate(cmd *cobra.Command, _ []string) error {
	builder, err := buildFields(blueprintFields)
	if err != nil {
		return err
	}

	return withClient(cmd, func(ctx context.Context, c client.ContractsClientInterface) error {
		bp, err := c.CreateBlueprint(ctx, &client.NewBlueprint{
			Name:   blueprintName,
			Fields: builder.Fields(),
		})
		if err != nil {
			return err
		}

		pterm.Success.Printf("Created blueprint %q (%s)\n", bp.Name, bp.ID)
		return renderFields(bp.Fields)
	})
}

// buildFields turns field specs into a FieldBuilder, in order.
func buildFields(specs []string) (*service.FieldBuilder, error) {
	builder := service.NewFieldBuilder()
	for _, spec := range specs {
		label, fieldType, required, err := parseFieldSpec(spec)
		if err != nil {
			return nil, err
		}
		f := builder.Add(fieldType)
		builder.SetLabel(f.ID, label)
		builder.SetRequired(f.ID, required)
	}
	return builder, nil
}

// parseFieldSpec parses "Label:type[:optional|:required]". The label may
// itself contain colons.
func parseFieldSpec(spec string) (string, repository.FieldType, bool, error) {
	parts := strings.Split(spec, ":")
	required := true

	switch strings.ToLower(strings.TrimSpace(parts[len(parts)-1])) {
	case "optional":
		required = false
		parts = parts[:len(parts)-1]
	case "required":
		parts = parts[:len(parts)-1]
	}

	if len(parts) < 2 {
		return "", "", false, fmt.Errorf("invalid field spec %q: want Label:type[:optional]", spec)
	}

	fieldType := repository.FieldType(strings.ToLower(strings.TrimSpace(parts[len(parts)-1])))
	if !fieldType.Valid() {
		return "", "", false, fmt.Errorf("invalid field spec %q: unknown type %q", spec, fieldType)
	}

	label := strings.TrimSpace(strings.Join(parts[:len(parts)-1], ":"))
	return label, fieldType, required, nil
}

func renderFields(fields []repository.Field) error {
	data := pterm.TableData{{"#", "Label", "Type", "Required", "ID"}}
	for i, f := range fields {
		data = append(data, []string{
			fmt.Sprint(i + 1),
			f.Label,
			f.Type.DisplayName(),
			fmt.Sprint(f.Required),
			f.ID,
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
