package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupViewers(t *testing.T) *env {
	t.Helper()

	e := setupEnv(t)
	e.writeApp(t, "viewer.desktop", desktopFile("Viewer", "viewer %f", "image/png;image/x-openit-raw;"))
	e.writeApp(t, "editor.desktop", desktopFile("Editor", "editor %f", "image/x-openit-raw;text/x-openit;")+
		"Actions=batch;\n\n[Desktop Action batch]\nName=Batch Convert\nExec=editor --batch %F\n")
	e.writeMimeApps(t, "[Default Applications]\nimage/x-openit-raw=editor.desktop;\n")

	return e
}

func TestGet_JSON(t *testing.T) {
	setupViewers(t)

	out, err := execute(t, "get", "image/x-openit-raw", "--json")
	require.NoError(t, err)

	var got getOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	assert.Equal(t, "image/x-openit-raw", got.MimeType)
	assert.Equal(t, []string{"editor.desktop"}, got.XDGAssociations)
	require.Len(t, got.Applications, 2)
	assert.Equal(t, "Editor", got.Applications[0].Name)
	assert.True(t, got.Applications[0].IsDefault)
	assert.Equal(t, "Viewer", got.Applications[1].Name)
}

func TestGet_Actions(t *testing.T) {
	setupViewers(t)

	out, err := execute(t, "get", "image/x-openit-raw", "--json", "--actions")
	require.NoError(t, err)

	var got getOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	require.Len(t, got.Applications, 3)
	assert.Equal(t, "Editor - Batch Convert", got.Applications[1].Name)
	assert.Equal(t, "batch", got.Applications[1].ActionID)
}

func TestGet_Text(t *testing.T) {
	e := setupViewers(t)

	out, err := execute(t, "get", "image/x-openit-raw")
	require.NoError(t, err)

	assert.Contains(t, out, "MIME type: image/x-openit-raw")
	assert.Contains(t, out, "Available applications (2):")
	assert.Contains(t, out, "★ Editor")
	assert.Contains(t, out, "  Viewer")
	assert.Contains(t, out, "Exec: viewer %f")
	assert.Contains(t, out, "Desktop file: "+e.apps+"/viewer.desktop")
	assert.Contains(t, out, legend)
}

func TestGet_NoApplications(t *testing.T) {
	setupViewers(t)

	out, err := execute(t, "get", "application/x-openit-nothing")
	require.NoError(t, err)
	assert.Contains(t, out, "No applications found")
}

func TestGet_Pattern(t *testing.T) {
	setupViewers(t)

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "get", "image/x-openit-*", "--json")
		require.NoError(t, err)

		var got getPatternOutput
		require.NoError(t, json.Unmarshal([]byte(out), &got))

		assert.Equal(t, "image/x-openit-*", got.Pattern)
		assert.Equal(t, []string{"image/x-openit-raw"}, got.MatchingMimes)
		require.Contains(t, got.Results, "image/x-openit-raw")
		assert.Len(t, got.Results["image/x-openit-raw"], 2)
	})

	t.Run("text", func(t *testing.T) {
		out, err := execute(t, "get", "text/x-openit*")
		require.NoError(t, err)

		assert.Contains(t, out, "Pattern: text/x-openit*")
		assert.Contains(t, out, "Matching MIME types: 1")
		assert.Contains(t, out, "text/x-openit (1 applications):")
	})

	t.Run("no match", func(t *testing.T) {
		out, err := execute(t, "get", "video/x-openit-*", "--json")
		require.NoError(t, err)

		var got getPatternOutput
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Empty(t, got.MatchingMimes)
		assert.NotNil(t, got.MatchingMimes)
	})
}
