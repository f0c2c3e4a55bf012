package parsers

import (
	"strings"

	"metagame-tracker/internal/dataset"
	"metagame-tracker/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// ArchetypeStrategy understands one layout of a metagame summary page.
type ArchetypeStrategy struct {
	Name  string
	Parse func(doc *goquery.Document) []dataset.ArchetypeShare
}

// ArchetypeStrategies are tried in order, the first one that yields a
// usable share wins.
var ArchetypeStrategies = []ArchetypeStrategy{
	{Name: "tiles", Parse: ParseArchetypeTiles},
	{Name: "table", Parse: ParseArchetypeTable},
	{Name: "permissive", Parse: ParseArchetypePermissive},
}

// navigationLabels are link texts that show up next to percentages but are
// not archetypes.
var navigationLabels = map[string]struct{}{
	"decks":         {},
	"metagame":      {},
	"home":          {},
	"more":          {},
	"articles":      {},
	"prices":        {},
	"login":         {},
	"sign up":       {},
	"full metagame": {},
	"other":         {},
	"see all":       {},
	"budget":        {},
	"tournaments":   {},
}

func isNavigationLabel(name string) bool {
	_, ok := navigationLabels[strings.ToLower(name)]
	return ok
}

// ParseArchetypes returns the metagame shares found in doc, or an empty
// slice if no strategy understands the layout.
func ParseArchetypes(doc *goquery.Document) []dataset.ArchetypeShare {
	for _, strategy := range ArchetypeStrategies {
		shares := finalizeShares(strategy.Parse(doc))
		if len(shares) > 0 {
			return shares
		}
	}
	return []dataset.ArchetypeShare{}
}

func finalizeShares(shares []dataset.ArchetypeShare) []dataset.ArchetypeShare {
	seen := make(map[string]struct{}, len(shares))
	out := make([]dataset.ArchetypeShare, 0, len(shares))
	for _, share := range shares {
		share.Name = htmlutil.CleanText(share.Name)
		if share.Name == "" || isNavigationLabel(share.Name) {
			continue
		}
		if _, exists := seen[share.Name]; exists {
			continue
		}
		seen[share.Name] = struct{}{}
		out = append(out, share)
	}
	return out
}

// ParseArchetypeTiles handles the tile grid layout.
func ParseArchetypeTiles(doc *goquery.Document) []dataset.ArchetypeShare {
	var shares []dataset.ArchetypeShare
	doc.Find(".archetype-tile").Each(func(_ int, tile *goquery.Selection) {
		name := htmlutil.SelectionText(tile.Find(".deck-price-paper a").First())
		if name == "" {
			name = htmlutil.SelectionText(tile.Find(".archetype-tile-title a").First())
		}
		stat := tile.Find(".metagame-percentage-column").First()
		if stat.Length() == 0 {
			stat = tile.Find(".archetype-tile-statistic-value").First()
		}
		pct, ok := findPercentage(stat.Text())
		if name == "" || !ok {
			return
		}
		shares = append(shares, dataset.ArchetypeShare{Name: name, Pct: pct})
	})
	return shares
}

// ParseArchetypeTable handles data tables with the name in the first column
// and the share in the second.
func ParseArchetypeTable(doc *goquery.Document) []dataset.ArchetypeShare {
	var shares []dataset.ArchetypeShare
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td")
		if cells.Length() < 2 {
			return
		}
		nameCell := cells.Eq(0)
		name := htmlutil.SelectionText(nameCell.Find("a").First())
		if name == "" {
			name = htmlutil.SelectionText(nameCell)
		}
		pct, ok := findPercentage(htmlutil.SelectionText(cells.Eq(1)))
		if name == "" || !ok {
			return
		}
		shares = append(shares, dataset.ArchetypeShare{Name: name, Pct: pct})
	})
	return shares
}

// ParseArchetypePermissive accepts any row-like element holding exactly one
// named link and one percentage. Containers of several rows are ignored
// since they hold more than one of either.
func ParseArchetypePermissive(doc *goquery.Document) []dataset.ArchetypeShare {
	var shares []dataset.ArchetypeShare
	doc.Find("tr, li, div").Each(func(_ int, row *goquery.Selection) {
		anchors := row.Find("a[href]")
		if anchors.Length() != 1 {
			return
		}
		text := htmlutil.SelectionText(row)
		if len(percentage.FindAllString(text, 2)) != 1 {
			return
		}
		name := htmlutil.SelectionText(anchors)
		pct, _ := findPercentage(text)
		if name == "" {
			return
		}
		shares = append(shares, dataset.ArchetypeShare{Name: name, Pct: pct})
	})
	return shares
}
