package parsers

import (
	"bytes"
	"strings"

	"metagame-tracker/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const commentMarker = "//"

// ParseDecklistMarkup returns the text of every card line marker in doc.
// Section headers are kept, use dataset.IsSectionHeader to tell them apart.
func ParseDecklistMarkup(doc *goquery.Document) []string {
	lines := []string{}
	doc.Find(".deck_line").Each(func(_ int, line *goquery.Selection) {
		text := htmlutil.SelectionText(line)
		if text == "" {
			return
		}
		lines = append(lines, text)
	})
	return lines
}

// ParseDecklistText parses line oriented export text, blank lines and
// comments are dropped.
func ParseDecklistText(text string) []string {
	lines := []string{}
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, commentMarker) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// ParseDecklist picks the shape of body from its content type, falling back
// to sniffing for markup.
func ParseDecklist(body []byte, contentType string) []string {
	contentType = strings.ToLower(contentType)
	switch {
	case strings.HasPrefix(contentType, "text/plain"):
		return ParseDecklistText(string(body))
	case strings.Contains(contentType, "html"):
		return ParseDecklistMarkup(NewDocument(body))
	}
	if bytes.Contains(body, []byte("<")) {
		return ParseDecklistMarkup(NewDocument(body))
	}
	return ParseDecklistText(string(body))
}
