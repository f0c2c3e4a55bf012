package syncer

import (
	"fmt"
	"net/url"
	"strings"

	"metagame-tracker/internal/dataset"
	"metagame-tracker/internal/formats"
)

const (
	DefaultMetagameBaseUrl = "https://www.mtggoldfish.com"
	DefaultEventsBaseUrl   = "https://www.mtgtop8.com"
)

// Sources builds the urls of the two document sources.
type Sources struct {
	MetagameBaseUrl string `json:"metagame_base_url"`
	EventsBaseUrl   string `json:"events_base_url"`
}

func (s Sources) metagameBase() string {
	if s.MetagameBaseUrl == "" {
		return DefaultMetagameBaseUrl
	}
	return strings.TrimSuffix(s.MetagameBaseUrl, "/")
}

func (s Sources) eventsBase() string {
	if s.EventsBaseUrl == "" {
		return DefaultEventsBaseUrl
	}
	return strings.TrimSuffix(s.EventsBaseUrl, "/")
}

// EventsBase is the url relative listing links are resolved against.
func (s Sources) EventsBase() *url.URL {
	base, err := url.Parse(s.eventsBase() + "/")
	if err != nil {
		return nil
	}
	return base
}

func (s Sources) MetagameUrl(format formats.Format, lookback formats.Lookback) string {
	query := url.Values{}
	query.Set("days", fmt.Sprint(lookback.Days()))
	return fmt.Sprintf("%s/metagame/%s?%s", s.metagameBase(), format.Slug, query.Encode())
}

func (s Sources) EventsUrl(format formats.Format, lookback formats.Lookback) string {
	query := url.Values{}
	query.Set("f", format.Code)
	query.Set("days", fmt.Sprint(lookback.Days()))
	return fmt.Sprintf("%s/format?%s", s.eventsBase(), query.Encode())
}

// DeckUrl is the html page of one placement. For an event reference it is
// the event page, which shows the event's top list.
func (s Sources) DeckUrl(record dataset.EventRecord) string {
	query := url.Values{}
	if record.RefKind == dataset.RefEvent {
		query.Set("e", record.ReferenceID)
	} else {
		query.Set("d", record.ReferenceID)
	}
	query.Set("f", record.Format)
	return fmt.Sprintf("%s/event?%s", s.eventsBase(), query.Encode())
}

// ExportUrl is the plain-text export of one placement. Only deck references
// have one.
func (s Sources) ExportUrl(record dataset.EventRecord) (string, bool) {
	if record.RefKind != dataset.RefDeck {
		return "", false
	}
	query := url.Values{}
	query.Set("d", record.ReferenceID)
	return fmt.Sprintf("%s/mtgo?%s", s.eventsBase(), query.Encode()), true
}
