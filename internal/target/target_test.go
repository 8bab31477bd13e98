package target

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func realTempDir(t *testing.T) string {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	return dir
}

func TestParse(t *testing.T) {
	dir := realTempDir(t)
	file := filepath.Join(dir, "report.pdf")
	require.NoError(t, os.WriteFile(file, []byte("%PDF"), 0o644))

	link := filepath.Join(dir, "link.pdf")
	require.NoError(t, os.Symlink(file, link))

	odd := filepath.Join(dir, "note:1")
	require.NoError(t, os.WriteFile(odd, []byte("x"), 0o644))

	tests := []struct {
		name     string
		input    string
		wantKind Kind
		wantArg  string
		wantMime string
		wantErr  bool
	}{
		{name: "absolute path", input: file, wantKind: File, wantArg: file, wantMime: "application/pdf"},
		{name: "symlink resolved", input: link, wantKind: File, wantArg: file, wantMime: "application/pdf"},
		{name: "file uri", input: "file://" + file, wantKind: File, wantArg: file, wantMime: "application/pdf"},
		{name: "directory", input: dir, wantKind: File, wantArg: dir, wantMime: "inode/directory"},
		{name: "existing path with colon", input: odd, wantKind: File, wantArg: odd, wantMime: "application/octet-stream"},
		{name: "https", input: "https://example.com/a?b=c", wantKind: URI, wantArg: "https://example.com/a?b=c", wantMime: "x-scheme-handler/https"},
		{name: "mailto", input: "mailto:someone@example.com", wantKind: URI, wantArg: "mailto:someone@example.com", wantMime: "x-scheme-handler/mailto"},
		{name: "missing file", input: filepath.Join(dir, "missing.txt"), wantErr: true},
		{name: "remote file uri", input: "file://server/share/x", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantArg, got.Argument())
			assert.Equal(t, tt.wantMime, got.MimeType())
		})
	}
}

func TestParse_RelativePath(t *testing.T) {
	dir := realTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	t.Chdir(dir)

	got, err := Parse("notes.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "notes.txt"), got.Path)
	assert.Equal(t, "notes.txt", got.DisplayName())
}

func TestDisplayName_URI(t *testing.T) {
	got, err := Parse("https://example.com")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", got.DisplayName())
	assert.Equal(t, "https://example.com", got.String())
}
