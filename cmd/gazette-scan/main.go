package main

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/sirupsen/logrus"

	"github.com/KeithOmondi/principle-registry/pkg/gazette"
	"github.com/KeithOmondi/principle-registry/pkg/pdftext"
)

// Offline extraction: decode a gazette PDF (or read pre-extracted text),
// run the pipeline's extraction stages without any database and print what
// the scan would assert.
var args struct {
	InputFile string        `arg:"positional,required"`
	Timeout   time.Duration `arg:"-t,--timeout" default:"30s"`
}

var log = logrus.New()

type output struct {
	VolumeNo      string                  `json:"volumeNo"`
	DatePublished time.Time               `json:"datePublished"`
	TotalRecords  int                     `json:"totalRecords"`
	Cases         []gazette.ExtractedCase `json:"cases"`
}

func main() {
	arg.MustParse(&args)

	text, err := readInput(args.InputFile)
	if err != nil {
		log.Fatalf("unable to read %s: %v", args.InputFile, err)
	}
	text = pdftext.Normalize(text)

	meta := gazette.ExtractMetadata(text, time.Now())
	blocks := gazette.Segment(text)

	out := output{
		VolumeNo:      meta.VolumeNo,
		DatePublished: meta.DatePublished,
		TotalRecords:  len(blocks),
	}
	for _, b := range blocks {
		c := gazette.ExtractFields(b)
		c.VolumeNo = meta.VolumeNo
		c.DatePublished = meta.DatePublished
		out.Cases = append(out.Cases, c)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("unable to encode JSON: %v", err)
	}
}

func readInput(path string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		b, err := os.ReadFile(path)
		return string(b), err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), args.Timeout)
	defer cancel()
	return pdftext.Extract(ctx, f, info.Size())
}
