package fs_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeithOmondi/principle-registry/pkg/models"
	"github.com/KeithOmondi/principle-registry/pkg/storage/fs"
)

func TestStoreRetrieve(t *testing.T) {
	s, err := fs.New(t.TempDir())
	require.NoError(t, err)

	body := []byte("%PDF-1.4 archived gazette")
	file := models.GazetteFile{
		ScanId:   "abc-123",
		FileName: "gazette-12.pdf",
		Reader:   bytes.NewReader(body),
	}
	require.NoError(t, s.Store(file))

	// Store rewinds the reader for the caller.
	pos, err := file.Reader.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.EqualValues(t, 0, pos)

	got, err := s.Retrieve("abc-123")
	require.NoError(t, err)
	data, err := io.ReadAll(got.Reader)
	require.NoError(t, err)
	assert.Equal(t, body, data)
	assert.Equal(t, "abc-123", got.ScanId)
}

func TestRetrieveMissing(t *testing.T) {
	s, err := fs.New(t.TempDir())
	require.NoError(t, err)

	_, err = s.Retrieve("no-such-scan")
	assert.Error(t, err)
}
