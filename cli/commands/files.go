package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skiff-ai/skiff"
)

func (a *App) newFilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Manage uploaded files",
		Long:  `Upload, list, and delete files stored by the service.`,
	}

	upload := &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a file",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runFilesUpload,
	}
	upload.Flags().StringVar(&a.filePurpose, "purpose", skiff.FilePurposeAssistants, "Purpose of the uploaded file")

	cmd.AddCommand(upload)
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List uploaded files",
		RunE:  a.runFilesList,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <file-id>",
		Short: "Delete an uploaded file",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runFilesDelete,
	})

	return cmd
}

func (a *App) runFilesUpload(cmd *cobra.Command, args []string) error {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return exitWithCode(ExitValidation, fmt.Errorf("failed to read %s: %w", path, err))
	}

	client, err := a.client()
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}

	file, err := client.UploadFile(cmd.Context(), &skiff.FileUploadRequest{
		Filename: filepath.Base(path),
		Data:     data,
		Purpose:  a.filePurpose,
	})
	if err != nil {
		return a.handleRequestError(err)
	}

	if a.jsonOutput {
		return a.outputJSON(file)
	}

	fmt.Fprintf(a.stdout, "Uploaded %s (%d bytes) as %s\n", file.Filename, file.Bytes, file.ID)
	return nil
}

func (a *App) runFilesList(cmd *cobra.Command, args []string) error {
	client, err := a.client()
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}

	list, err := client.ListFiles(cmd.Context())
	if err != nil {
		return a.handleRequestError(err)
	}

	if a.jsonOutput {
		return a.outputJSON(list)
	}

	for _, f := range list.Data {
		fmt.Fprintf(a.stdout, "%-30s %-12s %10d  %s\n", f.ID, f.Purpose, f.Bytes, f.Filename)
	}
	return nil
}

func (a *App) runFilesDelete(cmd *cobra.Command, args []string) error {
	client, err := a.client()
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}

	del, err := client.DeleteFile(cmd.Context(), args[0])
	if err != nil {
		return a.handleRequestError(err)
	}

	if a.jsonOutput {
		return a.outputJSON(del)
	}

	fmt.Fprintf(a.stdout, "Deleted %s\n", del.ID)
	return nil
}
