package infrastructure

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// A4: 210mm x 297mm -> inches: 8.27 x 11.69
const (
	a4WidthIn  = 8.27
	a4HeightIn = 11.69
)

type ChromedpRenderer struct {
	execPath string
	timeout  time.Duration
	log      *zap.Logger
}

// NewChromedpRenderer launches headless Chrome per render. An empty
// execPath uses the browser chromedp finds on PATH.
func NewChromedpRenderer(execPath string, timeout time.Duration, log *zap.Logger) *ChromedpRenderer {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ChromedpRenderer{execPath: execPath, timeout: timeout, log: log.Named("chromedp")}
}

// RenderHTMLToPDF prints the document the way the browser print dialog
// would, paginated onto A4.
func (r *ChromedpRenderer) RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	var pdfBuf []byte
	err := r.run(ctx, func(ctx context.Context, dir string) error {
		url, err := writePage(dir, "index.html", html)
		if err != nil {
			return err
		}
		return chromedp.Run(ctx,
			chromedp.Navigate(url),
			chromedp.WaitReady("body", chromedp.ByQuery),
			printToPDF(&pdfBuf),
		)
	})
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}

// RasterizeHTMLToPDF screenshots the element matching selector and places
// the image on a single A4 page, scaled to fit.
func (r *ChromedpRenderer) RasterizeHTMLToPDF(ctx context.Context, html, selector string) ([]byte, error) {
	var pdfBuf []byte
	err := r.run(ctx, func(ctx context.Context, dir string) error {
		url, err := writePage(dir, "index.html", html)
		if err != nil {
			return err
		}
		var png []byte
		if err := chromedp.Run(ctx,
			chromedp.Navigate(url),
			chromedp.WaitReady(selector, chromedp.ByQuery),
			chromedp.Screenshot(selector, &png, chromedp.NodeVisible, chromedp.ByQuery),
		); err != nil {
			return fmt.Errorf("capture %s: %w", selector, err)
		}
		r.log.Debug("captured document image", zap.Int("bytes", len(png)))

		imgURL, err := writePage(dir, "canvas.html", canvasPage(png))
		if err != nil {
			return err
		}
		return chromedp.Run(ctx,
			chromedp.Navigate(imgURL),
			chromedp.WaitReady("img", chromedp.ByQuery),
			printToPDF(&pdfBuf),
		)
	})
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}

func (r *ChromedpRenderer) run(ctx context.Context, fn func(ctx context.Context, dir string) error) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.execPath != "" {
		opts = append(opts, chromedp.ExecPath(r.execPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	tctx, cancelTimeout := context.WithTimeout(cctx, r.timeout)
	defer cancelTimeout()

	tmpDir, err := os.MkdirTemp("", "resume-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	return fn(tctx, tmpDir)
}

func writePage(dir, name, html string) (string, error) {
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(html), 0o644); err != nil {
		return "", err
	}
	return "file://" + p, nil
}

func printToPDF(out *[]byte) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		*out, _, err = page.PrintToPDF().WithPrintBackground(true).
			WithPaperWidth(a4WidthIn).
			WithPaperHeight(a4HeightIn).
			WithPreferCSSPageSize(true).
			Do(ctx)
		return err
	})
}

// canvasPage embeds png in a page that fits it onto one A4 sheet.
func canvasPage(png []byte) string {
	return `<!DOCTYPE html><html><head><style>` +
		`@page{size:A4;margin:0}html,body{margin:0;width:210mm;height:297mm;overflow:hidden}` +
		`img{display:block;max-width:210mm;max-height:297mm;width:auto;height:auto;margin:0 auto}` +
		`</style></head><body><img src="data:image/png;base64,` +
		base64.StdEncoding.EncodeToString(png) + `"></body></html>`
}
