package web

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	var buf bytes.Buffer
	err := Index(&Globals{MinRomBytes: 100_000, MaxRomBytes: 8 << 20, SessionTTL: "30m0s"}).Render(context.Background(), &buf)
	require.NoError(t, err)

	page := buf.String()
	assert.Contains(t, page, "<title>Sensible Soccer team editor</title>")
	assert.Contains(t, page, "ROM images between 100 kB and 8.4 MB")
	assert.Contains(t, page, "after 30m0s of inactivity")
	assert.Contains(t, page, `<script src="/assets/editor.js"></script>`)
}

func TestEditorScript(t *testing.T) {
	js, err := EditorScript()
	require.NoError(t, err)
	assert.NotEmpty(t, js)
	assert.Less(t, len(js), len(editorSource))
	assert.Contains(t, string(js), "/api/upload-rom")
	assert.Contains(t, string(js), "modified_rom.bin")
}

func TestIndexEscapesGlobals(t *testing.T) {
	var buf bytes.Buffer
	err := Index(&Globals{MinRomBytes: 1, MaxRomBytes: 2, SessionTTL: "<b>"}).Render(context.Background(), &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "after &lt;b&gt; of inactivity")
}
