package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/kpauljoseph/flashgen/internal/config"
	"github.com/kpauljoseph/flashgen/internal/pdf"
	"github.com/kpauljoseph/flashgen/pkg/client"
	"github.com/kpauljoseph/flashgen/pkg/logger"
	"github.com/kpauljoseph/flashgen/pkg/models"
)

type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	serverURL  string
	verbose    bool
	debug      bool

	cfg       *config.Config
	log       *logger.Logger
	api       *client.Client
	inspector pdf.DocumentInspector
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr}
}

// setup resolves the configuration (file, then environment, then flags)
// and builds the API client.
func (a *app) setup() error {
	a.log = logger.New(
		logger.WithOutput(a.stderr),
		logger.WithPrefix("[flashgen] "),
		logger.WithFlags(log.LstdFlags),
	)
	a.log.SetVerbose(a.verbose)
	if a.debug {
		a.log.SetLevel(logger.LevelTrace)
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if a.serverURL != "" {
		cfg.ServerURL = a.serverURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.log.Debug("Using server %s%s (timeout %s)", cfg.ServerURL, cfg.Prefix(), cfg.Timeout)

	a.api, err = client.New(cfg.ServerURL,
		client.WithPathPrefix(cfg.Prefix()),
		client.WithTimeout(cfg.Timeout),
		client.WithFallbackMessage(cfg.FallbackErrorMessage),
		client.WithLogger(a.log),
	)
	if err != nil {
		return err
	}

	if a.inspector == nil {
		a.inspector = pdf.NewInspector(a.log)
	}
	return nil
}

func (a *app) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func readFlashcards(path string) ([]models.Flashcard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cards []models.Flashcard
	if err := json.Unmarshal(data, &cards); err != nil {
		return nil, fmt.Errorf("failed to parse %s: expected a JSON array of {question, answer}: %w", path, err)
	}
	return cards, nil
}
