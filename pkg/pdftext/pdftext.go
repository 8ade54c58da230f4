// Package pdftext decodes the text layer of an uploaded gazette PDF and
// normalizes it into the single whitespace-collapsed string the
// reconciliation pipeline consumes.
package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dslipak/pdf"
	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger().WithField("package", "pdftext")

// ErrTimeout reports that decoding exceeded the scan's time budget. It is
// distinct from a parse failure.
var ErrTimeout = errors.New("pdf text extraction timed out")

// Extract decodes the plain text of a PDF. The caller bounds the work with
// ctx (the scan budget, 30s by default); on expiry the scan fails with
// ErrTimeout while the decode goroutine is left to finish and be discarded.
func Extract(ctx context.Context, ra io.ReaderAt, size int64) (string, error) {
	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		text, err := decode(ra, size)
		ch <- result{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
	case res := <-ch:
		return res.text, res.err
	}
}

func decode(ra io.ReaderAt, size int64) (text string, err error) {
	// The underlying parser panics on malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			log.Warnf("pdf parser panicked: %v", r)
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(ra, size)
	if err != nil {
		return "", fmt.Errorf("reading pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("decoding pdf text: %w", err)
	}
	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, plain); err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	return buf.String(), nil
}

// Normalize collapses all whitespace runs to single spaces and trims.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
