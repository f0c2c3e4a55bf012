package export

import (
	"net/url"
	"strings"
)

const moxfieldImport = "https://www.moxfield.com/decks/import"

// PlainText serializes a decklist the way deck builders expect to paste it.
func PlainText(lines []string) string {
	return strings.Join(lines, "\n")
}

// ImportURL returns a link that opens the list in moxfield's importer.
func ImportURL(lines []string) string {
	return moxfieldImport + "?decklist=" + escape(PlainText(lines))
}

// escape percent-encodes s for a query value, spaces become %20 instead of +.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
