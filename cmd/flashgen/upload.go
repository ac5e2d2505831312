package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/flashgen/internal/scanner"
	"github.com/kpauljoseph/flashgen/pkg/client"
	"github.com/kpauljoseph/flashgen/pkg/logger"
	"github.com/kpauljoseph/flashgen/pkg/models"
)

type UploadedDocument struct {
	Path   string               `json:"path"`
	Result *models.UploadResult `json:"result,omitempty"`
	Error  string               `json:"error,omitempty"`
}

type UploadReport struct {
	StartTime time.Time          `json:"-"`
	EndTime   time.Time          `json:"-"`
	Documents []UploadedDocument `json:"documents"`
	Uploaded  int                `json:"uploaded"`
	Failed    int                `json:"failed"`
}

func (r *UploadReport) TimeTaken() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

func (r *UploadReport) Print(log *logger.Logger) {
	log.Info("Upload complete:")
	log.Info("- Documents found: %d", len(r.Documents))
	log.Info("- Uploaded: %d", r.Uploaded)
	log.Info("- Failed: %d", r.Failed)
	log.Info("- Time Taken: %v", r.TimeTaken())
}

func newUploadCommand(a *app) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document (pdf, pptx, ppt, json, txt) and start a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var progress client.ProgressFunc
			if !quiet {
				progress = a.progressLine(args[0])
			}
			res, err := a.upload(cmd.Context(), args[0], progress)
			if err != nil {
				return err
			}
			a.log.Info("Uploaded %s, session %s", res.Filename, res.SessionID)
			return a.printJSON(res)
		},
	}
	cmd.Flags().BoolVar(&quiet, "quiet", false, "do not print upload progress")
	return cmd
}

func newUploadDirCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload-dir <dir>",
		Short: "Upload every supported document under a directory, one session each",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report := &UploadReport{StartTime: time.Now()}

			a.log.Info("Scanning directory: %s", args[0])
			docs, err := scanner.New(a.log).FindDocuments(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.log.Info("Found %d documents to upload", len(docs))

			for _, doc := range docs {
				entry := UploadedDocument{Path: doc.RelativePath}
				res, err := a.upload(cmd.Context(), doc.AbsolutePath, nil)
				if errors.Is(err, context.Canceled) {
					return err
				}
				if err != nil {
					a.log.Info("Error uploading %s: %v", doc.RelativePath, err)
					entry.Error = err.Error()
					report.Failed++
				} else {
					entry.Result = res
					report.Uploaded++
				}
				report.Documents = append(report.Documents, entry)
			}

			report.EndTime = time.Now()
			report.Print(a.log)
			if err := a.printJSON(report); err != nil {
				return err
			}
			if report.Failed > 0 {
				return fmt.Errorf("failed to upload %d out of %d documents", report.Failed, len(docs))
			}
			return nil
		},
	}
}

// upload checks the file against the server's limits, inspects PDFs for
// extractable text and sends it.
func (a *app) upload(ctx context.Context, path string, progress client.ProgressFunc) (*models.UploadResult, error) {
	doc, err := scanner.CheckUpload(path, a.cfg.UploadLimitBytes())
	if err != nil {
		return nil, err
	}

	if doc.IsPDF() {
		report, err := a.inspector.Inspect(ctx, doc.AbsolutePath)
		switch {
		case errors.Is(err, context.Canceled):
			return nil, err
		case err != nil:
			a.log.Warn("Could not inspect %s: %v", doc.RelativePath, err)
		case !report.HasText():
			a.log.Warn("%s has no extractable text on any of its %d pages; generation will likely fail", doc.RelativePath, report.Pages)
		default:
			a.log.Debug("%s: %d of %d pages carry text", doc.RelativePath, report.TextPages, report.Pages)
		}
	}

	return a.api.UploadPath(ctx, doc.AbsolutePath, progress)
}

func (a *app) progressLine(name string) client.ProgressFunc {
	last := -1
	return func(percent int) {
		if percent == last {
			return
		}
		last = percent
		fmt.Fprintf(a.stderr, "\rUploading %s: %3d%%", name, percent)
		if percent == 100 {
			fmt.Fprintln(a.stderr)
		}
	}
}
