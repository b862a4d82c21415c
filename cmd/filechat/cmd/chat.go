package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rvail/filechat-go/internal/adapters/ollama"
	"github.com/rvail/filechat-go/internal/domain/entities"
	"github.com/rvail/filechat-go/internal/domain/usecases"
	"github.com/rvail/filechat-go/internal/export"
)

var (
	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session against the local Ollama server.

Slash commands:
  /upload <path>          load a document as chat context
  /remove                 drop the document and clear history
  /model <name>           select a model (or show the current one)
  /models                 list installed models
  /export [format] [file] export the transcript (json, yaml, md)
  /quit                   leave`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

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

	printModels(ctx, provider)
	fmt.Println(statusStyle.Render("Type a message, /upload <path> for context, /quit to leave."))

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print(promptStyle.Render("you> "))
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if quit := runCommand(ctx, session, provider, line); quit {
				return nil
			}
			continue
		}

		submitTurn(ctx, session, line)
	}
}

// submitTurn streams one chat turn to stdout.
func submitTurn(ctx context.Context, session *usecases.Session, prompt string) {
	fmt.Print(assistantStyle.Render(session.Model() + "> "))
	_, err := session.SubmitPrompt(ctx, prompt, func(fragment string) {
		fmt.Print(assistantStyle.Render(fragment))
	})
	fmt.Println()
	if err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
	}
}

// runCommand executes a slash command. Reports whether to exit.
func runCommand(ctx context.Context, session *usecases.Session, provider *ollama.Adapter, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true

	case "/upload":
		if len(fields) < 2 {
			fmt.Println(errorStyle.Render("usage: /upload <path>"))
			return false
		}
		uploadFile(ctx, session, strings.Join(fields[1:], " "))

	case "/remove":
		session.RemoveDocument()
		fmt.Println(statusStyle.Render("Document removed. Context and chat history cleared."))

	case "/model":
		if len(fields) < 2 {
			if m := session.Model(); m != "" {
				fmt.Println(statusStyle.Render("Current model: " + m))
			} else {
				fmt.Println(statusStyle.Render("No model selected."))
			}
			return false
		}
		selectModel(ctx, session, fields[1])

	case "/models":
		printModels(ctx, provider)

	case "/export":
		exportTranscript(session, fields[1:])

	default:
		fmt.Println(errorStyle.Render("Unknown command: " + fields[0]))
	}
	return false
}

func uploadFile(ctx context.Context, session *usecases.Session, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println(errorStyle.Render("Cannot read file: " + err.Error()))
		return
	}

	result, err := session.Upload(ctx, filepath.Base(path), data)
	if err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		return
	}
	if result.Warning != nil {
		log.Warn("cache persistence failed", "err", result.Warning)
	}

	if result.CacheHit {
		fmt.Println(statusStyle.Render("Document loaded from cache."))
	} else {
		fmt.Println(statusStyle.Render("Document loaded. Chat history cleared."))
	}
	if entities.IsSummaryPending(result.Record.Summary) {
		fmt.Println(statusStyle.Render("Summary pending until a model is selected."))
	} else {
		fmt.Println(statusStyle.Render("Summary: " + result.Record.Summary))
	}
}

func selectModel(ctx context.Context, session *usecases.Session, id string) {
	if warn := session.SelectModel(ctx, id); warn != nil {
		log.Warn("summary update not persisted", "err", warn)
	}
	if m := session.Model(); m != "" {
		fmt.Println(statusStyle.Render("Model set to " + m))
		if rec, ok := session.ActiveDocument(); ok && rec.HasFinalSummary() {
			fmt.Println(statusStyle.Render("Summary: " + rec.Summary))
		}
	} else {
		fmt.Println(statusStyle.Render("Model selection cleared."))
	}
}

func printModels(ctx context.Context, provider *ollama.Adapter) {
	models, err := provider.ListModels(ctx)
	if err != nil {
		log.Warn("model listing failed", "err", err)
		fmt.Println(statusStyle.Render("No models available (is Ollama running?)."))
		return
	}
	if len(models) == 0 {
		fmt.Println(statusStyle.Render("No models installed."))
		return
	}
	fmt.Println(statusStyle.Render("Installed models: " + strings.Join(models, ", ")))
}

func exportTranscript(session *usecases.Session, args []string) {
	format := "md"
	if len(args) > 0 {
		format = args[0]
	}

	exporter, err := export.NewExporter(format)
	if err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		return
	}

	out := os.Stdout
	if len(args) > 1 {
		f, err := os.Create(args[1])
		if err != nil {
			fmt.Println(errorStyle.Render("Cannot create file: " + err.Error()))
			return
		}
		defer f.Close()
		out = f
	}

	if err := exporter.ExportTranscript(session.Transcript(), out); err != nil {
		fmt.Println(errorStyle.Render("Export failed: " + err.Error()))
	}
}
