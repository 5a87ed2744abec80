package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	aiprovider "github.com/hexnote/hexnote-ai-go"
)

func newProviderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provider",
		Short: "Inspect and select the active provider",
	}
	cmd.AddCommand(newProviderListCmd())
	cmd.AddCommand(newProviderSetCmd())
	cmd.AddCommand(newProviderModelCmd())
	return cmd
}

func newProviderListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known providers and their readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			active, hasActive := a.router.ActiveProvider()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tKIND\tREADY\tACTIVE")
			for _, id := range aiprovider.AllProviders() {
				kind := "cloud"
				ready := "yes"
				switch {
				case id.IsLocal():
					kind = "local"
					ready = localReadiness(id, a)
				case id == aiprovider.ProviderLorem:
					kind = "mock"
				default:
					if !a.creds.HasAPIKey(id.String()) {
						ready = "no key"
					}
				}

				mark := ""
				if hasActive && id == active {
					mark = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", id, id.DisplayName(), kind, ready, mark)
			}
			return w.Flush()
		},
	}
}

func newProviderSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <id>",
		Short: "Select the provider used by chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			id, err := aiprovider.ParseProviderID(args[0])
			if err != nil {
				return err
			}
			if err := a.router.SetActiveProvider(id); err != nil {
				return err
			}
			fmt.Printf("Active provider: %s\n", id.DisplayName())
			return nil
		},
	}
}

func newProviderModelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "model <id> [model]",
		Short: "Show or override the model used by a cloud provider",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			id, err := aiprovider.ParseProviderID(args[0])
			if err != nil {
				return err
			}

			if len(args) == 2 {
				if err := a.settings.SetProviderModel(id.String(), args[1]); err != nil {
					return err
				}
			}
			fmt.Printf("%s: %s\n", id, a.settings.ProviderModel(id.String()))
			return nil
		},
	}
}
