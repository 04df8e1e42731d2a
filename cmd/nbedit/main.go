package main

import (
	"bufio"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"nbedit/internal/assist"
	"nbedit/internal/auth"
	"nbedit/internal/config"
	"nbedit/internal/logger"
	"nbedit/internal/preview"
	"nbedit/internal/server"
	"nbedit/internal/store"
	"nbedit/internal/tui"
)

//go:embed system_prompt.txt
var systemPromptContent string

const usage = `Usage:
  nbedit [-c config] [document]   edit a document in the terminal
  nbedit [-c config] serve        run the HTTP backend
  nbedit [-c config] run <prompt> rewrite stdin with the prompt
  nbedit [-c config] docs         list saved documents
  nbedit [-c config] login        store an Anthropic API key
  nbedit [-c config] logout       remove the stored API key
  nbedit [-c config] config       print the effective configuration
`

func main() {
	// Parse command line arguments
	args := os.Args[1:]
	configPath := ""
	if len(args) >= 2 && (args[0] == "-c" || args[0] == "--config") {
		configPath = args[1]
		args = args[2:]
	}

	command := ""
	if len(args) > 0 {
		command = args[0]
	}
	if command == "help" || command == "-h" || command == "--help" {
		fmt.Print(usage)
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// The server logs to stderr, everything else to files so the TUI stays clean
	if command == "serve" {
		logger.Use(logger.NewWriterLogger(os.Stderr, cfg.Debug))
	} else if err := logger.Init(cfg.LogDir, cfg.Debug); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.Debug("Starting nbedit...")

	switch command {
	case "serve":
		err = runServer(cfg)
	case "run":
		err = runNonInteractive(cfg, args[1:])
	case "docs":
		err = runDocs(cfg)
	case "config":
		err = runConfig(cfg)
	case "login":
		err = runLogin()
	case "logout":
		err = runLogout()
	default:
		err = runTUI(cfg, args)
	}

	logger.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openStore opens the write folder with its index
func openStore(cfg *config.Config) (*store.Store, error) {
	if err := os.MkdirAll(cfg.WriteFolder, 0755); err != nil {
		return nil, fmt.Errorf("failed to create write folder: %w", err)
	}
	idx, err := store.OpenIndex(filepath.Join(cfg.WriteFolder, store.IndexFile))
	if err != nil {
		return nil, err
	}
	st, err := store.New(cfg.WriteFolder, store.WithIndex(idx))
	if err != nil {
		idx.Close()
		return nil, err
	}
	return st, nil
}

// newProcessor builds the Claude processor. Without credentials it returns
// nil and the editor reports the missing key when AI is used.
func newProcessor(cfg *config.Config) (assist.Processor, error) {
	storage, err := authStorage()
	if err != nil {
		logger.Error("Stored credentials unavailable: %v", err)
	}
	key, source := auth.ResolveAPIKey(cfg.AI.APIKey, storage)
	logger.Info("Anthropic credentials: %s", source)

	client, err := assist.NewClient(key)
	if errors.Is(err, assist.ErrNoCredentials) {
		logger.Info("No API key configured, AI requests are disabled")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	systemPrompt, err := cfg.SystemPrompt()
	if err != nil {
		return nil, err
	}
	if systemPrompt == "" {
		systemPrompt = systemPromptContent
	}

	return assist.NewClaude(&client,
		assist.WithModel(cfg.AI.Model),
		assist.WithMaxTokens(cfg.AI.MaxTokens),
		assist.WithSystemPrompt(systemPrompt),
	), nil
}

func runTUI(cfg *config.Config, args []string) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Index().Close()

	processor, err := newProcessor(cfg)
	if err != nil {
		return err
	}

	opts := tui.Options{
		Store:            st,
		Processor:        processor,
		ModelName:        cfg.AI.Model,
		HistorySize:      cfg.Editor.HistorySize,
		DebounceDelay:    cfg.Editor.DebounceDelay.Duration,
		ContextWindow:    cfg.Editor.ContextWindow,
		DropFilter:       cfg.Editor.DropFilter,
		PreviewStyle:     cfg.Preview.Style,
		PreviewFormatter: cfg.Preview.Formatter,
	}

	if len(args) > 0 {
		opts.Document = strings.Join(args, " ")
		doc, err := st.LoadDocument(opts.Document)
		switch {
		case err == nil:
			opts.Content = doc.Content
			if doc.Title != "" {
				opts.Document = doc.Title
			}
			logger.Info("Loaded %s", doc.Path)
		case errors.Is(err, store.ErrNotFound):
			logger.Info("Starting new document %q", opts.Document)
		default:
			return err
		}
	}

	content, err := tui.Run(opts)
	if err != nil {
		return err
	}
	logger.Info("Closed with %d runes", len([]rune(content)))
	return nil
}

func runServer(cfg *config.Config) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Index().Close()

	processor, err := newProcessor(cfg)
	if err != nil {
		return err
	}

	srv := server.New(st,
		server.WithProcessor(processor, cfg.AI.Model),
		server.WithPreview(preview.New(preview.WithStyle(cfg.Preview.Style))),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Serving %s on http://%s\n", st.Root(), cfg.Server.Addr)
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

func runNonInteractive(cfg *config.Config, args []string) error {
	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		return errors.New("no prompt provided")
	}

	// Text to rewrite from stdin; none means generate
	var text string
	if info, err := os.Stdin.Stat(); err == nil && info.Mode()&os.ModeCharDevice == 0 {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		text = strings.Join(lines, "\n")
	}

	processor, err := newProcessor(cfg)
	if err != nil {
		return err
	}
	if processor == nil {
		return assist.ErrNoCredentials
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := processor.Process(ctx, assist.Request{Text: text, Prompt: prompt, Attempt: 1})
	if err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return errors.New("request timed out after 60 seconds")
		case errors.Is(ctx.Err(), context.Canceled):
			return errors.New("request was cancelled")
		}
		return err
	}
	fmt.Println(result)
	return nil
}

func runDocs(cfg *config.Config) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Index().Close()

	entries, err := st.Index().Documents()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("No documents saved in %s\n", st.Root())
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DOCUMENT\tTITLE\tSAVED\tSAVES\tIMAGES")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", e.Slug, e.Title, e.SavedAt.Format("2006-01-02 15:04"), e.Saves, e.Images)
	}
	return w.Flush()
}

func runConfig(cfg *config.Config) error {
	data, err := cfg.Encode()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func authStorage() (*auth.Storage, error) {
	path, err := auth.DefaultPath()
	if err != nil {
		return nil, err
	}
	return auth.NewStorage(path), nil
}

func runLogin() error {
	storage, err := authStorage()
	if err != nil {
		return err
	}
	_, err = auth.Login(os.Stdin, os.Stdout, storage, auth.OpenBrowser)
	return err
}

func runLogout() error {
	storage, err := authStorage()
	if err != nil {
		return err
	}
	removed, err := storage.Remove(auth.ProviderAnthropic)
	if err != nil {
		return err
	}
	if removed {
		fmt.Println("Removed stored Anthropic API key")
	} else {
		fmt.Println("No stored API key")
	}
	return nil
}
