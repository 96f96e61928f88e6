package fetch

import (
	"bytes"
	"io"

	"golang.org/x/net/html/charset"
)

// DecodeHTML converts an HTML body to UTF-8, sniffing the encoding from a
// BOM or <meta charset>. Bodies that cannot be decoded are returned as is.
func DecodeHTML(body []byte, contentType string) []byte {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return body
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return body
	}
	return out
}
