package infrastructure

import (
	"encoding/base64"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanvasPageEmbedsImage(t *testing.T) {
	html := canvasPage([]byte{0x89, 'P', 'N', 'G'})
	assert.Contains(t, html, "@page{size:A4;margin:0}")
	assert.Contains(t, html, "data:image/png;base64,"+base64.StdEncoding.EncodeToString([]byte{0x89, 'P', 'N', 'G'}))
}

func TestWritePage(t *testing.T) {
	dir := t.TempDir()
	url, err := writePage(dir, "index.html", "<p>x</p>")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "file://"))

	b, err := os.ReadFile(strings.TrimPrefix(url, "file://"))
	require.NoError(t, err)
	assert.Equal(t, "<p>x</p>", string(b))
}

func TestNewChromedpRendererDefaults(t *testing.T) {
	r := NewChromedpRenderer("", 0, nil)
	assert.Equal(t, 60*time.Second, r.timeout)
	assert.NotNil(t, r.log)
}
