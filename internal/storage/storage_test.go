package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_UploadPDF(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir, "http://localhost:8080/files/")

	url, err := s.UploadPDF(context.Background(), []byte("%PDF-1.3"), "INV-202401-0001.pdf", "wo-1")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/wo-1/INV-202401-0001.pdf", url)

	b, err := os.ReadFile(filepath.Join(dir, "wo-1", "INV-202401-0001.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(b))
}

func TestLocalStorage_RejectsEmptyAndTraversal(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir, "http://files")

	_, err := s.UploadPDF(context.Background(), nil, "a.pdf", "x")
	assert.Error(t, err)

	url, err := s.UploadPDF(context.Background(), []byte("x"), "../../escape.pdf", "../owner")
	require.NoError(t, err)
	assert.Equal(t, "http://files/owner/escape.pdf", url)
	_, err = os.Stat(filepath.Join(dir, "owner", "escape.pdf"))
	assert.NoError(t, err)
}
