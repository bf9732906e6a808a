package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/priyamverma/studyscout/internal/config"
	"github.com/priyamverma/studyscout/internal/llm"
	"github.com/priyamverma/studyscout/internal/profile"
	"github.com/priyamverma/studyscout/internal/tui"
)

func main() {
	defaultSnapshot := filepath.Join(".", "study-session.json")
	snapshotPath := flag.String("snapshot", defaultSnapshot, "where Ctrl+S saves the chat conversation")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	provider := flag.String("provider", "", "model backend: gemini or ollama (default gemini)")
	model := flag.String("model", "", "override the backend's default model")
	endpoint := flag.String("endpoint", "", "custom API endpoint or Ollama host")
	flag.Parse()

	// A missing .env is fine, the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("failed to read configuration:", err)
		os.Exit(1)
	}
	if *provider != "" {
		cfg.Provider = *provider
	}
	if *model != "" {
		cfg.Model = *model
	}
	if *endpoint != "" {
		cfg.Endpoint = *endpoint
	}

	var store *profile.Store
	if cfg.ConfigDir != "" {
		store, err = profile.NewStoreAt(cfg.ConfigDir)
	} else {
		store, err = profile.NewStore()
	}
	if err != nil {
		fmt.Println("failed to prepare the config directory:", err)
		os.Exit(1)
	}

	// Unreadable state degrades like missing state: start fresh rather
	// than refuse to start.
	learner, err := store.LoadProfile()
	if err != nil {
		fmt.Println("profile state unreadable, starting fresh:", err)
		learner = profile.Profile{}
	}
	theme, err := store.LoadTheme()
	if err != nil {
		fmt.Println("theme state unreadable, using the default:", err)
		theme = profile.ThemeMidnight
	}
	if cfg.Theme != "" {
		theme = profile.NormalizeTheme(cfg.Theme)
	}

	var warning string
	client, err := llm.New(llm.Config{
		Provider: cfg.Provider,
		APIKey:   cfg.GeminiAPIKey,
		Model:    cfg.Model,
		Endpoint: cfg.Endpoint,
	})
	if err != nil {
		warning = fmt.Sprintf("Model backend disabled: %v. Set GEMINI_API_KEY to enable generation.", err)
		client = nil
	}

	absSnapshot, err := filepath.Abs(*snapshotPath)
	if err != nil {
		fmt.Println("failed to resolve snapshot path:", err)
		os.Exit(1)
	}

	opts := []tea.ProgramOption{}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Store:        store,
			Profile:      learner,
			Theme:        theme,
			LLM:          client,
			LLMWarning:   warning,
			SnapshotPath: absSnapshot,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		fmt.Println("program error:", err)
		os.Exit(1)
	}
}
