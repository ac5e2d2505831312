package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/flashgen/pkg/client"
	"github.com/kpauljoseph/flashgen/pkg/models"
	"github.com/kpauljoseph/flashgen/pkg/version"
)

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "flashgen",
		Short:         "Client for the flashcard generation service",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "config.yaml", "path to config file")
	flags.StringVar(&a.serverURL, "server", "", "server URL (overrides config)")
	flags.BoolVar(&a.verbose, "verbose", false, "enable verbose logging")
	flags.BoolVar(&a.debug, "debug", false, "enable debug mode with trace logging")

	root.AddCommand(
		newHealthCommand(a),
		newUploadCommand(a),
		newUploadDirCommand(a),
		newGenerateCommand(a),
		newListCommand(a),
		newSaveCommand(a),
		newUpdateCommand(a),
		newDeleteCommand(a),
		newAddCommand(a),
		newEnhanceCommand(a),
		newExportCommand(a),
		newImportCommand(a),
		newParseCommand(a),
		newVersionCommand(a),
	)
	return root
}

func sessionFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "session", "s", "", "session id returned by upload, import or parse")
	_ = cmd.MarkFlagRequired("session")
}

func newHealthCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the service is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			health, err := a.api.HealthCheck(cmd.Context())
			if err != nil {
				return err
			}
			return a.printJSON(health)
		},
	}
}

func newGenerateCommand(a *app) *cobra.Command {
	var sessionID, text string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate flashcards from the uploaded document or from --text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := a.api.GenerateFlashcards(cmd.Context(), sessionID, text)
			if err != nil {
				return err
			}
			a.log.Info("Generated %d flashcards", set.Count)
			return a.printJSON(set)
		},
	}
	sessionFlag(cmd, &sessionID)
	cmd.Flags().StringVar(&text, "text", "", "source text (defaults to the text extracted at upload)")
	return cmd
}

func newListCommand(a *app) *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the session's flashcards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := a.api.GetFlashcards(cmd.Context(), sessionID)
			if err != nil {
				return err
			}
			return a.printJSON(set)
		},
	}
	sessionFlag(cmd, &sessionID)
	return cmd
}

func newSaveCommand(a *app) *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "save <cards.json>",
		Short: "Replace the session's flashcards with the cards in a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cards, err := readFlashcards(args[0])
			if err != nil {
				return err
			}
			res, err := a.api.SaveFlashcards(cmd.Context(), sessionID, cards)
			if err != nil {
				return err
			}
			return a.printJSON(res)
		},
	}
	sessionFlag(cmd, &sessionID)
	return cmd
}

func newUpdateCommand(a *app) *cobra.Command {
	var (
		sessionID        string
		index            int
		question, answer string
	)
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Replace the flashcard at --index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.api.UpdateFlashcard(cmd.Context(), sessionID, index, question, answer)
			if err != nil {
				return err
			}
			return a.printJSON(res)
		},
	}
	sessionFlag(cmd, &sessionID)
	cmd.Flags().IntVar(&index, "index", 0, "zero-based card index")
	cmd.Flags().StringVarP(&question, "question", "q", "", "new question")
	cmd.Flags().StringVarP(&answer, "answer", "a", "", "new answer")
	_ = cmd.MarkFlagRequired("index")
	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	var (
		sessionID string
		index     int
	)
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Remove the flashcard at --index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.api.DeleteFlashcard(cmd.Context(), sessionID, index)
			if err != nil {
				return err
			}
			return a.printJSON(res)
		},
	}
	sessionFlag(cmd, &sessionID)
	cmd.Flags().IntVar(&index, "index", 0, "zero-based card index")
	_ = cmd.MarkFlagRequired("index")
	return cmd
}

func newAddCommand(a *app) *cobra.Command {
	var sessionID, question, answer string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a flashcard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.api.AddFlashcard(cmd.Context(), sessionID, question, answer)
			if err != nil {
				return err
			}
			return a.printJSON(res)
		},
	}
	sessionFlag(cmd, &sessionID)
	cmd.Flags().StringVarP(&question, "question", "q", "", "question")
	cmd.Flags().StringVarP(&answer, "answer", "a", "", "answer")
	_ = cmd.MarkFlagRequired("question")
	_ = cmd.MarkFlagRequired("answer")
	return cmd
}

func newEnhanceCommand(a *app) *cobra.Command {
	var (
		sessionID string
		indices   []int
	)
	cmd := &cobra.Command{
		Use:   "enhance",
		Short: "Run the AI enhancement pass over the session's flashcards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.api.EnhanceFlashcards(cmd.Context(), sessionID, indices...)
			if err != nil {
				return err
			}
			return a.printJSON(res)
		},
	}
	sessionFlag(cmd, &sessionID)
	cmd.Flags().IntSliceVar(&indices, "indices", nil, "card indices to enhance (default all)")
	return cmd
}

func newExportCommand(a *app) *cobra.Command {
	var sessionID, format, outDir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the session's deck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !models.ExportFormat(format).Known() {
				a.log.Warn("Format %q is not one of %v, sending it anyway", format, models.ExportFormats)
			}

			export, err := a.api.ExportFlashcards(cmd.Context(), sessionID, format)
			if err != nil {
				return err
			}

			if outDir == "" {
				outDir = a.cfg.ExportDir
			}
			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			path := filepath.Join(outDir, exportFilename(export, format))
			if err := os.WriteFile(path, export.Data, 0644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}

			a.log.Info("Exported %d bytes to %s", len(export.Data), path)
			fmt.Fprintln(a.stdout, path)
			return nil
		},
	}
	sessionFlag(cmd, &sessionID)
	cmd.Flags().StringVarP(&format, "format", "f", string(models.FormatJSON), "export format (json, txt, tsv, csv)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (defaults to export_dir)")
	return cmd
}

// exportFilename prefers the server's attachment name but never lets it
// escape the output directory.
func exportFilename(export *models.Export, format string) string {
	name := filepath.Base(export.Filename)
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "flashcards_anki." + format
	}
	return name
}

func newImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <cards.json>",
		Short: "Start a session from a JSON file of flashcards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cards, err := readFlashcards(args[0])
			if err != nil {
				return err
			}
			valid := models.ValidFlashcards(cards)
			if skipped := len(cards) - len(valid); skipped > 0 {
				a.log.Warn("Skipping %d flashcards without a question or answer", skipped)
			}
			if len(valid) == 0 {
				return fmt.Errorf("no valid flashcards in %s", args[0])
			}

			res, err := a.api.ImportJSON(cmd.Context(), valid)
			if err != nil {
				return err
			}
			return a.printJSON(res)
		},
	}
}

func newParseCommand(a *app) *cobra.Command {
	var text, file, separator string
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Split delimited lines into flashcards on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				text = string(data)
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("nothing to parse: pass --text or --file")
			}

			set, err := a.api.ParseText(cmd.Context(), text, separator)
			if err != nil {
				return err
			}
			a.log.Info("Parsed %d flashcards into session %s", set.Count, set.SessionID)
			return a.printJSON(set)
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "text to parse, one card per line")
	cmd.Flags().StringVar(&file, "file", "", "read the text from a file")
	cmd.Flags().StringVar(&separator, "separator", client.DefaultSeparator, "separator between question and answer")
	cmd.MarkFlagsMutuallyExclusive("text", "file")
	return cmd
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(a.stdout, version.GetDetailedVersionInfo())
		},
	}
}
