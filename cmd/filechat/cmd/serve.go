package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rvail/filechat-go/internal/adapters/filewatcher"
	"github.com/rvail/filechat-go/internal/adapters/ollama"
	"github.com/rvail/filechat-go/internal/domain/ports"
	httpserver "github.com/rvail/filechat-go/internal/infrastructure/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON API server",
	Long: `Run the filechat HTTP server: document upload, model selection and
SSE-streamed chat turns over a JSON API.

When watch.dir is configured, documents dropped into that directory are
uploaded into the session automatically.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newStore()
	if err != nil {
		return err
	}
	provider := ollama.NewAdapter(cfg.Ollama.URL)
	session := newSession(store, provider)

	if cfg.Chat.Model != "" {
		if warn := session.SelectModel(ctx, cfg.Chat.Model); warn != nil {
			log.Warn("summary update not persisted", "err", warn)
		}
	}

	addr := cfg.Server.Addr
	if flagAddr, _ := cmd.Flags().GetString("addr"); flagAddr != "" {
		addr = flagAddr
	}

	server := httpserver.NewServer(session, provider, store, addr)

	if cfg.Watch.Dir != "" {
		if err := startWatcher(ctx, server); err != nil {
			log.Warn("drop-directory watcher disabled", "dir", cfg.Watch.Dir, "err", err)
		}
	}

	if err := server.Start(ctx); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// startWatcher uploads documents dropped into the watch directory.
func startWatcher(ctx context.Context, server *httpserver.Server) error {
	if err := os.MkdirAll(cfg.Watch.Dir, 0755); err != nil {
		return err
	}

	watcher, err := filewatcher.NewFSNotifyWatcher(cfg.Watch.Extensions)
	if err != nil {
		return err
	}

	events, err := watcher.Watch(ctx, cfg.Watch.Dir)
	if err != nil {
		watcher.Stop()
		return err
	}

	log.Info("watching drop directory", "dir", cfg.Watch.Dir)

	go func() {
		defer watcher.Stop()
		for ev := range events {
			if ev.Operation == ports.FileDeleted {
				continue
			}

			data, err := os.ReadFile(ev.Path)
			if err != nil {
				log.Warn("cannot read dropped file", "path", ev.Path, "err", err)
				continue
			}

			result, err := server.UploadDocument(ctx, filepath.Base(ev.Path), data)
			if err != nil {
				log.Warn("dropped file rejected", "path", ev.Path, "err", err)
				continue
			}
			if result.Warning != nil {
				log.Warn("cache persistence failed", "err", result.Warning)
			}
			log.Info("document loaded from drop directory",
				"file", result.Record.Filename,
				"fingerprint", result.Record.Fingerprint.Short(),
				"cache_hit", result.CacheHit)
		}
	}()

	return nil
}
