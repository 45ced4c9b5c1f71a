package usecase

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

//go:embed templates/resume.html templates/style.css
var templateFS embed.FS

// ExportMode selects how the rendered document becomes a PDF.
type ExportMode string

const (
	// ExportPrint prints the document through the browser print pipeline.
	ExportPrint ExportMode = "print"
	// ExportRaster screenshots the document and fits the image on one page.
	ExportRaster ExportMode = "raster"
)

// PrintRoot is the element holding the printable document.
const PrintRoot = "#pdfContent"

type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
	RasterizeHTMLToPDF(ctx context.Context, html, selector string) ([]byte, error)
}

// Preview builds the print layout of the current section list.
type Preview struct {
	repo     domain.SectionRepository
	catalog  *Catalog
	renderer Renderer
	tplDir   string
	log      *zap.Logger
}

// NewPreview creates a preview. When tplDir holds resume.html or style.css
// they replace the embedded defaults.
func NewPreview(repo domain.SectionRepository, catalog *Catalog, renderer Renderer, tplDir string, log *zap.Logger) *Preview {
	if log == nil {
		log = zap.NewNop()
	}
	return &Preview{repo: repo, catalog: catalog, renderer: renderer, tplDir: tplDir, log: log.Named("preview")}
}

// Document returns the print layout model.
func (p *Preview) Document(ctx context.Context) (model.Document, error) {
	list, err := p.repo.List(ctx)
	if err != nil {
		return model.Document{}, fmt.Errorf("list sections: %w", err)
	}
	return p.layout(list), nil
}

func (p *Preview) layout(list []domain.Section) model.Document {
	doc := model.Document{Sections: []model.SectionView{}}
	for _, s := range list {
		switch {
		case s.Type == domain.SectionHero:
			if doc.Hero == nil {
				hero := s
				doc.Hero = &hero
			}
		case s.Type == domain.SectionTechnologies:
			doc.Technologies = append(doc.Technologies, model.TechnologySectionView{
				ID:           s.ID,
				Title:        s.Title,
				Technologies: p.resolve(s.Technologies),
			})
		default:
			view := model.SectionView{Section: s}
			for _, pr := range s.Projects {
				view.Projects = append(view.Projects, model.ProjectView{Project: pr, Technologies: p.resolve(pr.Technologies)})
			}
			if s.Type == domain.SectionContacts {
				view.Contacts = ContactLines(s.Content)
			}
			doc.Sections = append(doc.Sections, view)
		}
	}
	return doc
}

func (p *Preview) resolve(names []string) []model.Technology {
	out := make([]model.Technology, 0, len(names))
	for _, n := range names {
		t := model.Technology{Name: n}
		if p.catalog != nil {
			t.Icon, _ = p.catalog.Icon(n)
		}
		out = append(out, t)
	}
	return out
}

// RenderHTML renders the document with the stylesheet inlined.
func (p *Preview) RenderHTML(ctx context.Context) (string, error) {
	doc, err := p.Document(ctx)
	if err != nil {
		return "", err
	}
	tplSrc, err := p.asset("resume.html")
	if err != nil {
		return "", err
	}
	tpl, err := template.New("resume").Funcs(template.FuncMap{"imageURL": imageURL}).Parse(string(tplSrc))
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	html := buf.String()

	css, err := p.asset("style.css")
	if err != nil {
		p.log.Warn("no stylesheet found", zap.Error(err))
		return html, nil
	}
	block := "<style>" + string(css) + "</style>"
	if strings.Contains(strings.ToLower(html), "<head>") {
		return strings.Replace(html, "<head>", "<head>"+block, 1), nil
	}
	return block + html, nil
}

func (p *Preview) asset(name string) ([]byte, error) {
	if p.tplDir != "" {
		if b, err := os.ReadFile(filepath.Join(p.tplDir, name)); err == nil {
			return b, nil
		}
	}
	return templateFS.ReadFile("templates/" + name)
}

// Export renders the document and converts it to PDF with mode.
func (p *Preview) Export(ctx context.Context, mode ExportMode) (html string, pdf []byte, err error) {
	html, err = p.RenderHTML(ctx)
	if err != nil {
		return "", nil, err
	}
	pdf, err = p.ToPDF(ctx, html, mode)
	return html, pdf, err
}

// ToPDF converts rendered HTML to PDF. Output without a PDF signature is an
// error.
func (p *Preview) ToPDF(ctx context.Context, html string, mode ExportMode) ([]byte, error) {
	if p.renderer == nil {
		return nil, fmt.Errorf("no renderer configured")
	}
	var (
		pdf []byte
		err error
	)
	switch mode {
	case ExportRaster:
		pdf, err = p.renderer.RasterizeHTMLToPDF(ctx, html, PrintRoot)
	case ExportPrint, "":
		pdf, err = p.renderer.RenderHTMLToPDF(ctx, html)
	default:
		return nil, fmt.Errorf("unknown export mode %q", mode)
	}
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		return nil, fmt.Errorf("invalid PDF output (len=%d)", len(pdf))
	}
	return pdf, nil
}

// imageURL admits data:image URIs and http(s) URLs into src attributes.
func imageURL(s string) template.URL {
	switch {
	case strings.HasPrefix(s, "data:image/"),
		strings.HasPrefix(s, "https://"),
		strings.HasPrefix(s, "http://"):
		return template.URL(s)
	}
	return ""
}

// ContactLines splits contacts content into lines and turns links and
// e-mail addresses into anchors with a short label.
func ContactLines(content string) []model.ContactLine {
	var out []model.ContactLine
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, contactLine(line))
	}
	return out
}

func contactLine(line string) model.ContactLine {
	cl := model.ContactLine{Text: line}
	if strings.ContainsAny(line, " \t") {
		return cl
	}
	if strings.Contains(line, "@") && !strings.Contains(line, "/") {
		cl.URL = "mailto:" + strings.TrimPrefix(line, "mailto:")
		cl.Label = strings.TrimPrefix(line, "mailto:")
		return cl
	}
	candidate := line
	bare := !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://")
	if bare {
		candidate = "https://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil || u.Hostname() == "" || !strings.Contains(u.Hostname(), ".") {
		return cl
	}
	host := strings.ToLower(u.Hostname())
	if bare && !linkableHost(host) {
		return cl
	}
	cl.URL = candidate
	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		cl.Label = strings.TrimPrefix(etld, "www.")
	} else {
		cl.Label = strings.TrimPrefix(host, "www.")
	}
	if path := strings.Trim(u.Path, "/"); path != "" {
		cl.Label += "/" + path
	}
	return cl
}

// linkableHost accepts a scheme-less host only when it starts with www. or
// ends in a registered public suffix. Phone numbers and dotted names stay
// plain text.
func linkableHost(host string) bool {
	if strings.Trim(host, "0123456789.+-") == "" {
		return false
	}
	if strings.HasPrefix(host, "www.") {
		return true
	}
	suffix, icann := publicsuffix.PublicSuffix(host)
	return icann && suffix != host
}
