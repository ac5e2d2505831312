package pdf

import (
	"context"
)

type DocumentInspector interface {
	Inspect(ctx context.Context, pdfPath string) (Report, error)
}
