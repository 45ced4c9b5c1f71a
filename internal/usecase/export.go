package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ObjectStore receives exported artifacts and reports where they landed.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// ExportResult lists the locations written by Exporter.Export.
type ExportResult struct {
	HTML string
	PDF  string
}

// Exporter saves the rendered HTML and its PDF under a timestamped name.
type Exporter struct {
	preview *Preview
	store   ObjectStore
	log     *zap.Logger
	now     func() time.Time
}

func NewExporter(preview *Preview, store ObjectStore, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{preview: preview, store: store, log: log.Named("export"), now: time.Now}
}

// Export writes resume_<ts>.html before rendering so the HTML is kept even
// when PDF conversion fails.
func (e *Exporter) Export(ctx context.Context, mode ExportMode) (ExportResult, error) {
	var res ExportResult
	html, ts, loc, err := e.writeHTML(ctx)
	res.HTML = loc
	if err != nil {
		return res, err
	}

	pdf, err := e.preview.ToPDF(ctx, html, mode)
	if err != nil {
		e.log.Error("pdf export failed", zap.String("mode", string(mode)), zap.Error(err))
		return res, err
	}
	res.PDF, err = e.store.Put(ctx, fmt.Sprintf("resume_%s.pdf", ts), "application/pdf", pdf)
	if err != nil {
		return res, fmt.Errorf("store pdf: %w", err)
	}
	e.log.Info("exported resume", zap.String("html", res.HTML), zap.String("pdf", res.PDF), zap.Int("bytes", len(pdf)))
	return res, nil
}

// ExportHTML stores only the rendered page.
func (e *Exporter) ExportHTML(ctx context.Context) (string, error) {
	_, _, loc, err := e.writeHTML(ctx)
	return loc, err
}

func (e *Exporter) writeHTML(ctx context.Context) (html, ts, loc string, err error) {
	html, err = e.preview.RenderHTML(ctx)
	if err != nil {
		return "", "", "", err
	}
	ts = e.now().Format("20060102T150405")
	loc, err = e.store.Put(ctx, fmt.Sprintf("resume_%s.html", ts), "text/html; charset=utf-8", []byte(html))
	if err != nil {
		return "", "", "", fmt.Errorf("store html: %w", err)
	}
	return html, ts, loc, nil
}
