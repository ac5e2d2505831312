package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-resty/resty/v2"

	"github.com/kpauljoseph/flashgen/pkg/models"
)

const uploadField = "file"

// ProgressFunc receives the upload progress as a whole percentage.
type ProgressFunc func(percent int)

type progressKey struct{}

// UploadFile sends content as the multipart field "file" under filename.
// onProgress may be nil; otherwise it is called as the body is written to
// the connection, with non-decreasing values ending at 100.
func (c *Client) UploadFile(ctx context.Context, filename string, content io.Reader, onProgress ProgressFunc) (*models.UploadResult, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(uploadField, filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode form: %w", err)
	}

	if onProgress != nil {
		ctx = context.WithValue(ctx, progressKey{}, onProgress)
	}

	var out models.UploadResult
	req := c.request(ctx).
		SetHeader("Content-Type", w.FormDataContentType()).
		SetBody(body.Bytes()).
		SetResult(&out)
	if _, err := c.do(req, http.MethodPost, "/upload"); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadPath uploads the local file at path.
func (c *Client) UploadPath(ctx context.Context, path string, onProgress ProgressFunc) (*models.UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return c.UploadFile(ctx, filepath.Base(path), f, onProgress)
}

// attachUploadProgress wraps the outgoing body right before it reaches the
// transport so progress tracks bytes actually handed to the connection.
func attachUploadProgress(_ *resty.Client, req *http.Request) error {
	report, ok := req.Context().Value(progressKey{}).(ProgressFunc)
	if !ok || req.Body == nil || req.Body == http.NoBody {
		return nil
	}
	req.Body = &progressReader{ReadCloser: req.Body, total: req.ContentLength, report: report}
	return nil
}

type progressReader struct {
	io.ReadCloser
	total  int64
	loaded int64
	report ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.ReadCloser.Read(b)
	if n > 0 {
		p.loaded += int64(n)
		p.report(percent(p.loaded, p.total))
	}
	return n, err
}

func percent(loaded, total int64) int {
	if total <= 0 || loaded >= total {
		return 100
	}
	return int(math.Round(float64(loaded) * 100 / float64(total)))
}
