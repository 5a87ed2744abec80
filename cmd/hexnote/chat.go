package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	var docContext string

	cmd := &cobra.Command{
		Use:   "chat <prompt>",
		Short: "Run one streaming chat turn against the active provider",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			prompt := strings.Join(args, " ")
			events, err := a.router.Invoke(cmd.Context(), prompt, docContext)
			if err != nil {
				return err
			}

			var streamErr error
			for event := range events {
				if event.Error != nil && streamErr == nil {
					streamErr = event.Error
				}
				if event.Tool != nil {
					fmt.Printf("\n[%s] %s\n", event.Tool.Name, event.Tool.Output)
					if event.Tool.Err != nil {
						fmt.Printf("[%s] error: %v\n", event.Tool.Name, event.Tool.Err)
					}
				}
				if event.Chunk != nil && !event.Chunk.Done {
					fmt.Print(event.Chunk.Chunk)
				}
			}
			fmt.Println()
			return streamErr
		},
	}
	cmd.Flags().StringVarP(&docContext, "context", "c", "", "current note content passed as context")
	return cmd
}
