package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func (a *App) newModelsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Inspect available models",
		Long:  `List, inspect, and delete models available to the configured API key.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available models",
		RunE:  a.runModelsList,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get <model-id>",
		Short: "Show one model",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runModelsGet,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <model-id>",
		Short: "Delete a fine-tuned model",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runModelsDelete,
	})

	return cmd
}

func (a *App) runModelsList(cmd *cobra.Command, args []string) error {
	client, err := a.client()
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}

	list, err := client.ListModels(cmd.Context())
	if err != nil {
		return a.handleRequestError(err)
	}

	if a.jsonOutput {
		return a.outputJSON(list)
	}

	for _, m := range list.Data {
		fmt.Fprintf(a.stdout, "%-40s %s\n", m.ID, m.OwnedBy)
	}
	return nil
}

func (a *App) runModelsGet(cmd *cobra.Command, args []string) error {
	client, err := a.client()
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}

	model, err := client.GetModel(cmd.Context(), args[0])
	if err != nil {
		return a.handleRequestError(err)
	}

	if a.jsonOutput {
		return a.outputJSON(model)
	}

	fmt.Fprintln(a.stdout, model.ID)
	fmt.Fprintf(a.stdout, "  owned by: %s\n", model.OwnedBy)
	fmt.Fprintf(a.stdout, "  created:  %s\n", model.Created.Format(time.RFC3339))
	return nil
}

func (a *App) runModelsDelete(cmd *cobra.Command, args []string) error {
	client, err := a.client()
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}

	del, err := client.DeleteModel(cmd.Context(), args[0])
	if err != nil {
		return a.handleRequestError(err)
	}

	if a.jsonOutput {
		return a.outputJSON(del)
	}

	fmt.Fprintf(a.stdout, "Deleted %s\n", del.ID)
	return nil
}
