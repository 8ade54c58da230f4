package pdftext_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KeithOmondi/principle-registry/pkg/pdftext"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a b c", pdftext.Normalize("  a\n\tb   c\r\n"))
	assert.Equal(t, "", pdftext.Normalize(" \n "))
	assert.Equal(t, "unchanged", pdftext.Normalize("unchanged"))
}

// Garbage input surfaces as an error, never as a panic.
func TestExtract_MalformedPdf(t *testing.T) {
	data := []byte("%PDF-1.4 this is not a real pdf body")
	_, err := pdftext.Extract(context.Background(), bytes.NewReader(data), int64(len(data)))
	assert.Error(t, err)
}

// blockingReaderAt never returns, standing in for a pathological decode.
type blockingReaderAt struct {
	release chan struct{}
}

func (b *blockingReaderAt) ReadAt(p []byte, off int64) (int, error) {
	<-b.release
	return 0, io.EOF
}

func TestExtract_ContextExpired(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &blockingReaderAt{release: make(chan struct{})}
	defer close(r.release)

	_, err := pdftext.Extract(ctx, r, 1024)
	assert.ErrorIs(t, err, pdftext.ErrTimeout)
}
