package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resume-builder/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	out      []byte
	err      error
	calls    []string
	selector string
}

func (f *fakeRenderer) RenderHTMLToPDF(_ context.Context, html string) ([]byte, error) {
	f.calls = append(f.calls, "print")
	return f.out, f.err
}

func (f *fakeRenderer) RasterizeHTMLToPDF(_ context.Context, html, selector string) ([]byte, error) {
	f.calls = append(f.calls, "raster")
	f.selector = selector
	return f.out, f.err
}

func seedDocument(t *testing.T) (*Store, *Catalog) {
	t.Helper()
	ctx := context.Background()
	store := NewStore(ctx, nil, nil, sequentialIDs())
	catalog := NewCatalog(ctx, nil, nil)

	summary, _ := store.Add(ctx, domain.SectionSummary)
	hero, _ := store.Add(ctx, domain.SectionHero)
	tech, _ := store.Add(ctx, domain.SectionTechnologies)
	proj, _ := store.Add(ctx, domain.SectionProjects)
	contacts, _ := store.Add(ctx, domain.SectionContacts)

	require.NoError(t, store.Update(ctx, hero.ID, domain.SectionPatch{
		Title:     strPtr("Jane Doe"),
		AvatarURL: strPtr("data:image/png;base64,AAAA"),
	}))
	require.NoError(t, store.Update(ctx, summary.ID, domain.ContentPatch("I build <things>.")))
	require.NoError(t, store.Update(ctx, tech.ID, domain.TechnologiesPatch([]string{"Go", "Homegrown"})))
	require.NoError(t, store.Update(ctx, proj.ID, domain.ProjectsPatch([]domain.Project{{
		ProjectName:  "Payments",
		Role:         "Lead",
		Technologies: []string{"Redis"},
		Tasks:        []string{"Designed ledger"},
	}})))
	require.NoError(t, store.Update(ctx, contacts.ID, domain.ContentPatch("jane@example.com\nhttps://www.linkedin.com/in/jane\n+1 555 0100")))
	return store, catalog
}

func strPtr(s string) *string { return &s }

func TestPreviewDocumentLayout(t *testing.T) {
	store, catalog := seedDocument(t)
	p := NewPreview(store, catalog, nil, "", nil)

	doc, err := p.Document(context.Background())
	require.NoError(t, err)

	require.NotNil(t, doc.Hero)
	assert.Equal(t, "Jane Doe", doc.Hero.Title)

	var types []domain.SectionType
	for _, s := range doc.Sections {
		types = append(types, s.Type)
	}
	assert.Equal(t, []domain.SectionType{domain.SectionSummary, domain.SectionProjects, domain.SectionContacts}, types)

	require.Len(t, doc.Technologies, 1)
	techs := doc.Technologies[0].Technologies
	require.Len(t, techs, 2)
	assert.NotEmpty(t, techs[0].Icon)
	assert.Equal(t, "Homegrown", techs[1].Name)
	assert.Empty(t, techs[1].Icon)

	require.Len(t, doc.Sections[1].Projects, 1)
	assert.NotEmpty(t, doc.Sections[1].Projects[0].Technologies[0].Icon)

	contacts := doc.Sections[2].Contacts
	require.Len(t, contacts, 3)
	assert.Equal(t, "mailto:jane@example.com", contacts[0].URL)
	assert.Equal(t, "linkedin.com/in/jane", contacts[1].Label)
	assert.Empty(t, contacts[2].URL)
}

func TestPreviewRenderHTML(t *testing.T) {
	store, catalog := seedDocument(t)
	p := NewPreview(store, catalog, nil, "", nil)

	html, err := p.RenderHTML(context.Background())
	require.NoError(t, err)

	assert.Contains(t, html, `<head><style>`)
	assert.Contains(t, html, `id="pdfContent"`)
	assert.Contains(t, html, `src="data:image/png;base64,AAAA"`)
	assert.Contains(t, html, "I build &lt;things&gt;.")
	assert.Contains(t, html, "Payments")
	assert.Contains(t, html, "Designed ledger")
	assert.Contains(t, html, `href="mailto:jane@example.com"`)
	assert.Less(t, strings.Index(html, "Jane Doe</h1>"), strings.Index(html, "About me:"))
}

func TestPreviewTemplateOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.css"), []byte("body{color:red}"), 0o644))
	store, catalog := seedDocument(t)

	html, err := NewPreview(store, catalog, nil, dir, nil).RenderHTML(context.Background())
	require.NoError(t, err)
	assert.Contains(t, html, "body{color:red}")
}

func TestImageURLRejectsScripts(t *testing.T) {
	assert.Equal(t, "", string(imageURL("javascript:alert(1)")))
	assert.Equal(t, "", string(imageURL("data:text/html;base64,AAAA")))
	assert.Equal(t, "https://x.io/a.png", string(imageURL("https://x.io/a.png")))
}

func TestPreviewExportModes(t *testing.T) {
	store, catalog := seedDocument(t)
	r := &fakeRenderer{out: []byte("%PDF-1.7 fake")}
	p := NewPreview(store, catalog, r, "", nil)
	ctx := context.Background()

	_, pdf, err := p.Export(ctx, ExportPrint)
	require.NoError(t, err)
	assert.Equal(t, r.out, pdf)

	_, _, err = p.Export(ctx, ExportRaster)
	require.NoError(t, err)
	assert.Equal(t, []string{"print", "raster"}, r.calls)
	assert.Equal(t, PrintRoot, r.selector)

	_, _, err = p.Export(ctx, ExportMode("fax"))
	assert.Error(t, err)
}

func TestPreviewExportRejectsInvalidPDF(t *testing.T) {
	store, catalog := seedDocument(t)
	ctx := context.Background()

	_, _, err := NewPreview(store, catalog, &fakeRenderer{out: []byte("<html>")}, "", nil).Export(ctx, ExportPrint)
	assert.ErrorContains(t, err, "invalid PDF output")

	_, _, err = NewPreview(store, catalog, &fakeRenderer{err: errors.New("chrome gone")}, "", nil).Export(ctx, ExportPrint)
	assert.ErrorContains(t, err, "chrome gone")

	_, _, err = NewPreview(store, catalog, nil, "", nil).Export(ctx, ExportPrint)
	assert.Error(t, err)
}

func TestContactLines(t *testing.T) {
	lines := ContactLines("  github.com/jane  \n\nTelegram @jane\nlocalhost\nhttps://blog.jane.co.uk")
	require.Len(t, lines, 4)
	assert.Equal(t, "https://github.com/jane", lines[0].URL)
	assert.Equal(t, "github.com/jane", lines[0].Label)
	assert.Empty(t, lines[1].URL)
	assert.Empty(t, lines[2].URL)
	assert.Equal(t, "jane.co.uk", lines[3].Label)
}

func TestContactLinesKeepsPlainText(t *testing.T) {
	for _, line := range []string{"555.123.4567", "+380.67.123.4567", "John.Smith", "v1.2.3", "192.168.0.1"} {
		t.Run(line, func(t *testing.T) {
			lines := ContactLines(line)
			require.Len(t, lines, 1)
			assert.Equal(t, line, lines[0].Text)
			assert.Empty(t, lines[0].URL)
			assert.Empty(t, lines[0].Label)
		})
	}
}

func TestContactLinesLinksDomains(t *testing.T) {
	lines := ContactLines("www.jane.dev\nlinkedin.com/in/jane\nhttps://192.168.0.1/cv\njane@example.com")
	require.Len(t, lines, 4)
	assert.Equal(t, "https://www.jane.dev", lines[0].URL)
	assert.Equal(t, "jane.dev", lines[0].Label)
	assert.Equal(t, "https://linkedin.com/in/jane", lines[1].URL)
	assert.Equal(t, "linkedin.com/in/jane", lines[1].Label)
	assert.Equal(t, "https://192.168.0.1/cv", lines[2].URL)
	assert.Equal(t, "mailto:jane@example.com", lines[3].URL)
}
