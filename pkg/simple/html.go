package simple

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Encode serializes the document as a small HTML page: one <a> element per
// entry in insertion order, preceded by an <h1> heading when the document has
// a title. The output is deterministic for a given document and is accepted
// back by Decode without loss.
func (d *Document) Encode() []byte {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n  <body>\n")
	if d.title != "" {
		fmt.Fprintf(&buf, "    <h1>%s</h1>\n", html.EscapeString(d.title))
	}
	for _, e := range d.entries {
		// EscapeString already turns `"` into &#34;, so the attribute can be
		// quoted verbatim without another escaping layer.
		fmt.Fprintf(&buf, "    <a href=\"%s\">%s</a>\n",
			html.EscapeString(e.Href), html.EscapeString(e.Text))
	}
	buf.WriteString("  </body>\n</html>\n")
	return buf.Bytes()
}

// Decode parses an HTML link list into a document. It accepts both documents
// produced by Encode and real-world index pages (PyPI's simple API): every
// <a> element contributes one entry, keyed by its text content with the first
// occurrence winning, and the first <h1> becomes the title. Empty input
// yields an empty document.
func Decode(data []byte) (*Document, error) {
	doc := NewDocument("")
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}

	z := html.NewTokenizer(bytes.NewReader(data))
	var (
		inAnchor  bool
		inHeading bool
		href      string
		text      strings.Builder
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			// The tokenizer reports end of input as an ErrorToken wrapping
			// io.EOF; anything else is a read failure.
			if errors.Is(z.Err(), io.EOF) {
				return doc, nil
			}
			return nil, fmt.Errorf("parse index document: %w", z.Err())
		case html.StartTagToken:
			tok := z.Token()
			switch tok.Data {
			case "a":
				inAnchor = true
				href = ""
				text.Reset()
				for _, attr := range tok.Attr {
					if attr.Key == "href" {
						href = attr.Val
					}
				}
			case "h1":
				inHeading = true
				text.Reset()
			}
		case html.TextToken:
			if inAnchor || inHeading {
				text.Write(z.Text())
			}
		case html.EndTagToken:
			tok := z.Token()
			switch tok.Data {
			case "a":
				if inAnchor {
					if name := strings.TrimSpace(text.String()); name != "" {
						doc.Insert(name, href)
					}
					inAnchor = false
				}
			case "h1":
				if inHeading {
					if doc.title == "" {
						doc.title = strings.TrimSpace(text.String())
					}
					inHeading = false
				}
			}
		}
	}
}
