package export

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlainText(t *testing.T) {
	require.Equal(t, "4 Fireball\nSideboard\n2 Negate", PlainText([]string{"4 Fireball", "Sideboard", "2 Negate"}))
	require.Equal(t, "", PlainText(nil))
}

func TestImportURL(t *testing.T) {
	lines := []string{"4 Fireball", "1 Fable of the Mirror-Breaker // Reflection of Kiki-Jiki", "1 Sol+Ring"}
	link := ImportURL(lines)

	require.Equal(
		t,
		"https://www.moxfield.com/decks/import?decklist=4%20Fireball%0A1%20Fable%20of%20the%20Mirror-Breaker%20%2F%2F%20Reflection%20of%20Kiki-Jiki%0A1%20Sol%2BRing",
		link,
	)

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	require.Equal(t, PlainText(lines), parsed.Query().Get("decklist"))
}
