package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryObjects struct {
	objects map[string][]byte
	failOn  string
}

func (m *memoryObjects) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	if key == m.failOn {
		return "", errors.New("bucket unavailable")
	}
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[key] = data
	return "mem://" + key, nil
}

func fixedExporter(p *Preview, store ObjectStore) *Exporter {
	e := NewExporter(p, store, nil)
	e.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }
	return e
}

func TestExporterWritesHTMLAndPDF(t *testing.T) {
	store, catalog := seedDocument(t)
	objects := &memoryObjects{}
	p := NewPreview(store, catalog, &fakeRenderer{out: []byte("%PDF-1.4")}, "", nil)

	res, err := fixedExporter(p, objects).Export(context.Background(), ExportPrint)
	require.NoError(t, err)

	assert.Equal(t, "mem://resume_20240506T070809.html", res.HTML)
	assert.Equal(t, "mem://resume_20240506T070809.pdf", res.PDF)
	assert.Equal(t, []byte("%PDF-1.4"), objects.objects["resume_20240506T070809.pdf"])
	assert.Contains(t, string(objects.objects["resume_20240506T070809.html"]), "Jane Doe")
}

func TestExporterKeepsHTMLWhenRenderFails(t *testing.T) {
	store, catalog := seedDocument(t)
	objects := &memoryObjects{}
	p := NewPreview(store, catalog, &fakeRenderer{err: errors.New("no chrome")}, "", nil)

	res, err := fixedExporter(p, objects).Export(context.Background(), ExportRaster)
	assert.Error(t, err)
	assert.NotEmpty(t, res.HTML)
	assert.Empty(t, res.PDF)
	assert.Len(t, objects.objects, 1)
}

func TestExporterStoreFailure(t *testing.T) {
	store, catalog := seedDocument(t)
	objects := &memoryObjects{failOn: "resume_20240506T070809.pdf"}
	p := NewPreview(store, catalog, &fakeRenderer{out: []byte("%PDF")}, "", nil)

	_, err := fixedExporter(p, objects).Export(context.Background(), ExportPrint)
	assert.ErrorContains(t, err, "store pdf")
}

func TestExporterHTMLOnly(t *testing.T) {
	store, catalog := seedDocument(t)
	objects := &memoryObjects{}
	p := NewPreview(store, catalog, nil, "", nil)

	loc, err := fixedExporter(p, objects).ExportHTML(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mem://resume_20240506T070809.html", loc)
	assert.Len(t, objects.objects, 1)
}
