package main

import (
	"fmt"

	"github.com/spf13/cobra"

	aiprovider "github.com/hexnote/hexnote-ai-go"
	"github.com/hexnote/hexnote-ai-go/localmodel"
)

func newModelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Manage local GGUF model weights",
	}
	cmd.AddCommand(newModelStatusCmd())
	cmd.AddCommand(newModelDownloadCmd())
	cmd.AddCommand(newModelDeleteCmd())
	return cmd
}

// localProviderArg parses and validates a local provider argument.
func localProviderArg(arg string) (aiprovider.ProviderID, error) {
	id, err := aiprovider.ParseProviderID(arg)
	if err != nil {
		return "", err
	}
	if !id.IsLocal() {
		return "", fmt.Errorf("%s is not a local model provider", id)
	}
	return id, nil
}

// localReadiness summarizes a local provider's weights state for the list view.
func localReadiness(id aiprovider.ProviderID, a *app) string {
	downloaded, err := localmodel.IsDownloaded(id.String(), a.settings)
	if err != nil {
		return "unknown"
	}
	if !downloaded {
		return "not downloaded"
	}
	return "yes"
}

func newModelStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the download state of every local model",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			for _, id := range aiprovider.AllProviders() {
				if !id.IsLocal() {
					continue
				}
				status, err := localmodel.GetStatus(id.String(), a.settings)
				if err != nil {
					return err
				}
				if status.IsDownloaded {
					fmt.Printf("%s: downloaded (%d bytes) at %s\n", id, status.FileSize, status.Path)
				} else {
					fmt.Printf("%s: not downloaded\n", id)
				}
			}
			return nil
		},
	}
}

func newModelDownloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download <id>",
		Short: "Download a local model's GGUF weights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			id, err := localProviderArg(args[0])
			if err != nil {
				return err
			}

			path, err := localmodel.Download(cmd.Context(), id.String(), a.settings, func(p localmodel.Progress) {
				if p.TotalBytes != nil {
					fmt.Printf("\r%s: %.1f%% (%d / %d bytes)", id, p.Percentage, p.BytesDownloaded, *p.TotalBytes)
				} else {
					fmt.Printf("\r%s: %d bytes", id, p.BytesDownloaded)
				}
			})
			if err != nil {
				fmt.Println()
				return err
			}
			fmt.Printf("\nDownloaded %s to %s\n", id, path)
			return nil
		},
	}
}

func newModelDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a local model's downloaded weights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			id, err := localProviderArg(args[0])
			if err != nil {
				return err
			}
			if err := localmodel.Delete(id.String(), a.settings); err != nil {
				return err
			}
			fmt.Printf("Deleted weights for %s\n", id)
			return nil
		},
	}
}
