package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kpauljoseph/flashgen/pkg/logger"
)

// SupportedExtensions are the document types the service accepts at upload.
var SupportedExtensions = []string{".pdf", ".pptx", ".ppt", ".json", ".txt"}

type Document struct {
	AbsolutePath string
	RelativePath string
	Size         int64
}

func (d Document) IsPDF() bool {
	return strings.EqualFold(filepath.Ext(d.AbsolutePath), ".pdf")
}

type DirectoryScanner struct {
	logger *logger.Logger
}

func New(logger *logger.Logger) *DirectoryScanner {
	return &DirectoryScanner{
		logger: logger,
	}
}

// FindDocuments walks dir and returns every uploadable document under it.
func (s *DirectoryScanner) FindDocuments(ctx context.Context, dir string) ([]Document, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	var docs []Document
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			s.logger.Trace("Scanning directory: %s", path)
			return nil
		}

		if !IsSupported(path) {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			relPath = path
		}
		s.logger.Debug("Found document (%d): %s", len(docs)+1, relPath)

		docs = append(docs, Document{
			AbsolutePath: path,
			RelativePath: relPath,
			Size:         info.Size(),
		})
		return nil
	})

	if err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("no supported documents found in %s or its subdirectories", dir)
	}

	return docs, nil
}

func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// CheckUpload rejects what the server would refuse before any bytes are sent.
func CheckUpload(path string, limitBytes int64) (Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Document{}, err
	}
	if info.IsDir() {
		return Document{}, fmt.Errorf("%s is a directory", path)
	}
	if !IsSupported(path) {
		return Document{}, fmt.Errorf("unsupported file type %q, expected one of %s",
			filepath.Ext(path), strings.Join(SupportedExtensions, ", "))
	}
	if limitBytes > 0 && info.Size() > limitBytes {
		return Document{}, fmt.Errorf("%s is %d bytes, above the %d byte upload limit",
			filepath.Base(path), info.Size(), limitBytes)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return Document{
		AbsolutePath: abs,
		RelativePath: filepath.Base(path),
		Size:         info.Size(),
	}, nil
}
