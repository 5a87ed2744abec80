// hexnote is a command line front end for the note assistant: pick a
// provider, manage local model weights, and run streaming chat turns against
// the note store.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	aiprovider "github.com/hexnote/hexnote-ai-go"
	"github.com/hexnote/hexnote-ai-go/keystore"
	"github.com/hexnote/hexnote-ai-go/notes"
	"github.com/hexnote/hexnote-ai-go/providers/anthropic"
	"github.com/hexnote/hexnote-ai-go/providers/google"
	"github.com/hexnote/hexnote-ai-go/providers/local"
	"github.com/hexnote/hexnote-ai-go/providers/lorem"
	"github.com/hexnote/hexnote-ai-go/providers/openai"
	"github.com/hexnote/hexnote-ai-go/settings"
)

// app bundles the long-lived pieces every command needs.
type app struct {
	creds    *keystore.EnvStore
	settings *settings.Manager
	store    notes.Store
	router   *aiprovider.Router
}

// newApp wires the router with every known backend. Cloud providers share the
// env keystore; local providers share the settings-driven engine.
func newApp() (*app, error) {
	creds := keystore.NewEnvStore()
	mgr, err := settings.NewManager("")
	if err != nil {
		return nil, err
	}

	store := notes.NewMemoryStore()
	executor := aiprovider.NewExecutor(aiprovider.NewRegistry(), store)
	tools := executor.Registry().Definitions()

	router := aiprovider.NewRouter(aiprovider.RouterOptions{Credentials: creds})
	router.Register(openai.NewProvider(creds, mgr, executor, tools))
	router.Register(anthropic.NewProvider(creds, mgr))
	router.Register(google.NewProvider(creds, mgr))
	router.Register(local.NewEngine(local.Config{Provider: aiprovider.ProviderPoro2, Settings: mgr}))
	router.Register(local.NewEngine(local.Config{Provider: aiprovider.ProviderFinChat, Settings: mgr}))
	router.Register(lorem.NewProvider(mgr, executor))

	return &app{creds: creds, settings: mgr, store: store, router: router}, nil
}

func newRootCmd() *cobra.Command {
	var quiet bool

	root := &cobra.Command{
		Use:          "hexnote",
		Short:        "Streaming AI assistant for sticky notes",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if quiet {
				log.SetOutput(io.Discard)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress diagnostic logging")

	root.AddCommand(newChatCmd())
	root.AddCommand(newProviderCmd())
	root.AddCommand(newModelCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
