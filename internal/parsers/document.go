// Package parsers turns untrusted markup from the metagame sources into
// dataset values. Nothing in here returns an error: a layout that cannot be
// understood produces an empty result.
package parsers

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NewDocument parses body as html, malformed input yields an empty document.
func NewDocument(body []byte) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		doc, _ = goquery.NewDocumentFromReader(strings.NewReader(""))
	}
	return doc
}

var percentage = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*%`)

// findPercentage returns the first percentage in s in the form "21.3%".
func findPercentage(s string) (string, bool) {
	groups := percentage.FindStringSubmatch(s)
	if len(groups) < 2 {
		return "", false
	}
	return strings.ReplaceAll(groups[1], ",", ".") + "%", true
}
