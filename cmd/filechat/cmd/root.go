// Package cmd implements the filechat CLI.
package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rvail/filechat-go/internal/adapters/docstore"
	"github.com/rvail/filechat-go/internal/adapters/ollama"
	"github.com/rvail/filechat-go/internal/adapters/textdecode"
	"github.com/rvail/filechat-go/internal/domain/ports"
	"github.com/rvail/filechat-go/internal/domain/usecases"
	"github.com/rvail/filechat-go/internal/infrastructure/config"
)

var (
	cfgFile string
	verbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "filechat",
	Short: "Chat with a local Ollama model about an uploaded document",
	Long: `filechat is a single-user chat client for a local Ollama server where an
uploaded text document supplies the conversation context.

Uploaded documents are fingerprinted and cached together with a model-written
summary, so re-uploading the same file is instant and survives restarts.

Quick Start:
  filechat chat                    # interactive REPL
  filechat serve                   # JSON API with SSE chat streaming
  filechat export --format md      # dump the document cache`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}

		var err error
		cfg, err = config.Load(cfgFile)
		return err
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: $HOME/.filechat.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// newStore builds the configured document store and loads the persisted
// cache. A corrupt cache degrades to an empty store with a warning, never
// a failed startup.
func newStore() (ports.DocumentStore, error) {
	var store ports.DocumentStore
	switch cfg.Cache.Backend {
	case "sqlite":
		s, err := docstore.NewSQLiteStore(cfg.Cache.Path)
		if err != nil {
			return nil, fmt.Errorf("opening cache: %w", err)
		}
		store = s
	case "memory":
		store = docstore.NewMemoryStore()
	default:
		store = docstore.NewFileStore(cfg.Cache.Path)
	}

	if err := store.Load(); err != nil {
		log.Warn("cache unreadable, starting empty", "path", cfg.Cache.Path, "err", err)
	}
	return store, nil
}

// newSession wires the session controller with the configured adapters.
func newSession(store ports.DocumentStore, provider *ollama.Adapter) *usecases.Session {
	return usecases.NewSession(uuid.NewString(), store, provider, textdecode.NewDecoder())
}
