// Package pdftext recovers lines and tables from the text layer of a PDF.
// It reads positioned text fragments and reassembles them geometrically:
// fragments sharing a baseline become a row, rows separated by small
// vertical gaps become a block, and blocks whose rows align into at least
// two column bands are reported as tables. Everything else is still
// available as plain lines, so free-text schedules can be scanned too.
package pdftext

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// Document is the extracted text layer of one PDF file.
type Document struct {
	Pages []Page
}

// Page holds one page's content in reading order. Tables contains the
// blocks that aligned into a grid; Lines contains every row of the page,
// table rows included.
type Page struct {
	Lines  []string
	Tables [][][]string
}

// Parse reads the whole PDF reachable through ra. The underlying reader
// panics on some malformed files, so the panic is converted into an error
// and the caller decides whether the file is worth reporting.
func Parse(ra io.ReaderAt, size int64) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("pdftext: malformed document: %v", r)
		}
	}()

	rd, err := pdf.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("pdftext: %w", err)
	}

	doc = &Document{}
	for i := 1; i <= rd.NumPage(); i++ {
		p := rd.Page(i)
		if p.V.IsNull() {
			continue
		}
		doc.Pages = append(doc.Pages, buildPage(collect(p.Content())))
	}
	return doc, nil
}

// ParseBytes is Parse over an in-memory file.
func ParseBytes(b []byte) (*Document, error) {
	return Parse(bytes.NewReader(b), int64(len(b)))
}

// fragment is one positioned piece of text. Coordinates are PDF points
// with the origin at the bottom left, so larger y means higher on the page.
type fragment struct {
	x, y, w float64
	size    float64
	s       string
}

// collect keeps whitespace fragments: the reader reports every glyph,
// including spaces, and dropping them would glue adjacent words together.
func collect(content pdf.Content) []fragment {
	frags := make([]fragment, 0, len(content.Text))
	for _, t := range content.Text {
		if t.S == "" {
			continue
		}
		frags = append(frags, fragment{x: t.X, y: t.Y, w: t.W, size: t.FontSize, s: t.S})
	}
	return frags
}
