package catalog

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
)

// ErrRead means the underlying reader failed while the feed was being
// streamed. Unlike a truncation it says nothing about the document.
var ErrRead = errors.New("xml read error")

// TruncationError reports that the XML stream was malformed part way
// through. Rows produced before the error are still valid.
type TruncationError struct {
	Rows int
	Err  error
}

func (e *TruncationError) Error() string {
	return fmt.Sprintf("xml stream truncated after %d rows: %v", e.Rows, e.Err)
}

func (e *TruncationError) Unwrap() error { return e.Err }

// Extractor streams <row> elements out of an XML document.
type Extractor struct {
	src     *errReader
	dec     *xml.Decoder
	err     error
	emitted int
	used    bool
}

func NewExtractor(r io.Reader) *Extractor {
	src := &errReader{r: r}
	return &Extractor{src: src, dec: xml.NewDecoder(src)}
}

// Rows yields one Record per <row> element in document order. The sequence
// can be ranged over once; it stops early on a parse or read error, which
// is then available from Err.
//
// Adjacent text and CDATA pieces of one element form a single value.
func (e *Extractor) Rows() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		if e.used {
			return
		}
		e.used = true

		var (
			inRow   bool
			current Record
			field   string
			text    strings.Builder
		)
		flush := func() {
			if inRow && field != "" && strings.TrimSpace(text.String()) != "" {
				current[field] = text.String()
			}
			text.Reset()
		}

		for {
			tok, err := e.dec.Token()
			if err != nil {
				e.fail(err)
				return
			}

			switch t := tok.(type) {
			case xml.StartElement:
				flush()
				if !inRow && t.Name.Local == rowTag {
					inRow = true
					current = Record{}
				} else if inRow {
					field = t.Name.Local
				}
			case xml.EndElement:
				flush()
				if inRow && t.Name.Local == rowTag {
					inRow = false
					field = ""
					e.emitted++
					if !yield(current) {
						return
					}
					current = nil
				}
			case xml.CharData:
				if inRow && field != "" {
					text.Write(t)
				}
			}
		}
	}
}

func (e *Extractor) fail(err error) {
	switch {
	case e.src.err != nil:
		e.err = fmt.Errorf("%w after %d rows: %w", ErrRead, e.emitted, e.src.err)
	case errors.Is(err, io.EOF):
		// end of document
	default:
		e.err = &TruncationError{Rows: e.emitted, Err: err}
	}
}

// Err returns a *TruncationError if the stream stopped on malformed input,
// or an error wrapping ErrRead if reading the stream failed.
func (e *Extractor) Err() error {
	return e.err
}

// Extract reads every row of r. On malformed input it returns the rows
// read so far together with the *TruncationError.
func Extract(r io.Reader) ([]Record, error) {
	ex := NewExtractor(r)
	var out []Record
	for rec := range ex.Rows() {
		out = append(out, rec)
	}
	return out, ex.Err()
}

// errReader remembers the first non-EOF error of the wrapped reader so a
// transport failure is not mistaken for malformed XML.
type errReader struct {
	r   io.Reader
	err error
}

func (r *errReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && r.err == nil {
		r.err = err
	}
	return n, err
}
