package cmd

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/openit/internal/codes"
	"github.com/Norgate-AV/openit/internal/finder"
	"github.com/Norgate-AV/openit/internal/mimeapps"
	"github.com/Norgate-AV/openit/internal/mimetype"
)

func TestSet(t *testing.T) {
	e := setupEditors(t)

	out, err := execute(t, "set", ".txt", "alpha.desktop")
	require.NoError(t, err)

	assert.Contains(t, out, "Set default handler for text/plain -> alpha.desktop")
	assert.Equal(t, "[Default Applications]\ntext/plain=alpha.desktop;\n\n", e.readMimeApps(t))
}

func TestSet_ValidatesHandler(t *testing.T) {
	t.Run("unknown handler is rejected", func(t *testing.T) {
		e := setupEditors(t)

		_, err := execute(t, "set", "text/plain", "missing.desktop")
		require.Error(t, err)

		assert.True(t, errors.Is(err, finder.ErrHandlerNotFound))
		assert.Equal(t, codes.HandlerNotFound, codes.FromError(err))
		assert.Equal(t, "[Default Applications]\ntext/plain=beta.desktop;\n", e.readMimeApps(t), "file is untouched")
	})

	t.Run("validation can be skipped", func(t *testing.T) {
		e := setupEditors(t)
		t.Setenv(SkipHandlerValidationEnv, "1")

		_, err := execute(t, "set", "text/plain", "missing.desktop")
		require.NoError(t, err)
		assert.Contains(t, e.readMimeApps(t), "text/plain=missing.desktop;")
	})

	t.Run("existing path is accepted", func(t *testing.T) {
		e := setupEditors(t)
		path := e.writeFile(t, "custom.desktop")

		_, err := execute(t, "add", "text/plain", path)
		require.NoError(t, err)
		assert.Contains(t, e.readMimeApps(t), "text/plain=beta.desktop;"+path+";")
	})
}

func TestSet_InvalidMime(t *testing.T) {
	setupEditors(t)

	_, err := execute(t, "set", "invalid/", "alpha.desktop")
	require.Error(t, err)

	assert.True(t, errors.Is(err, mimetype.ErrInvalidMime))
	assert.Equal(t, codes.InvalidInput, codes.FromError(err))
}

func TestAddRemoveUnset(t *testing.T) {
	e := setupEditors(t)

	_, err := execute(t, "add", "text/plain", "alpha.desktop")
	require.NoError(t, err)
	assert.Contains(t, e.readMimeApps(t), "text/plain=beta.desktop;alpha.desktop;")

	_, err = execute(t, "add", "text/plain", "alpha.desktop")
	require.NoError(t, err)
	assert.Contains(t, e.readMimeApps(t), "text/plain=beta.desktop;alpha.desktop;\n")

	out, err := execute(t, "remove", "text/plain", "beta.desktop")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed handler beta.desktop from text/plain")
	assert.Contains(t, e.readMimeApps(t), "text/plain=alpha.desktop;")

	out, err = execute(t, "unset", "text/plain")
	require.NoError(t, err)
	assert.Contains(t, out, "Unset handlers for text/plain")
	assert.Empty(t, e.readMimeApps(t))
}

func TestSet_ExpandWildcards(t *testing.T) {
	e := setupEnv(t)
	t.Setenv(SkipHandlerValidationEnv, "1")
	e.writeMimeApps(t, "[Default Applications]\nimage/png=old.desktop;\nimage/jpeg=old.desktop;\ntext/plain=old.desktop;\n")

	_, err := execute(t, "set", "image/*", "viewer.desktop", "--expand-wildcards")
	require.NoError(t, err)

	assert.Equal(t,
		"[Default Applications]\nimage/jpeg=viewer.desktop;\nimage/png=viewer.desktop;\ntext/plain=old.desktop;\n\n",
		e.readMimeApps(t))
}

func TestList(t *testing.T) {
	e := setupEnv(t)
	e.writeMimeApps(t, `[Default Applications]
text/plain=beta.desktop;alpha.desktop;
image/png=viewer.desktop;

[Added Associations]
text/html=browser.desktop;
`)

	t.Run("text", func(t *testing.T) {
		out, err := execute(t, "list")
		require.NoError(t, err)

		assert.Equal(t, "image/png: viewer.desktop\ntext/plain: beta.desktop; alpha.desktop\n", out)
	})

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "list", "--json")
		require.NoError(t, err)

		var got listOutput
		require.NoError(t, json.Unmarshal([]byte(out), &got))

		assert.Equal(t, []mimeMapping{
			{Mime: "image/png", Handlers: []string{"viewer.desktop"}},
			{Mime: "text/plain", Handlers: []string{"beta.desktop", "alpha.desktop"}},
		}, got.DefaultApps)
		assert.Equal(t, []mimeMapping{
			{Mime: "text/html", Handlers: []string{"browser.desktop"}},
		}, got.AddedAssociations)
	})
}

func TestList_Empty(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No default handlers")
}

func TestEditRejectsBlankHandler(t *testing.T) {
	const original = "[Default Applications]\ntext/plain=beta.desktop;alpha.desktop;\n"

	tests := []struct {
		name string
		args []string
		skip bool
	}{
		{"remove with empty handler", []string{"remove", "text/plain", ""}, false},
		{"remove with blank handler", []string{"remove", "text/plain", "  "}, false},
		{"set with empty handler and validation skipped", []string{"set", "text/plain", ""}, true},
		{"set with blank handler and validation skipped", []string{"set", "text/plain", "  "}, true},
		{"add with empty handler", []string{"add", "text/plain", ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := setupEditors(t)
			e.writeMimeApps(t, original)
			if tt.skip {
				t.Setenv(SkipHandlerValidationEnv, "1")
			}

			_, err := execute(t, tt.args...)
			require.Error(t, err)

			assert.True(t, errors.Is(err, mimeapps.ErrEmptyHandler))
			assert.Equal(t, codes.InvalidInput, codes.FromError(err))
			assert.Equal(t, original, e.readMimeApps(t), "file is untouched")
		})
	}
}
