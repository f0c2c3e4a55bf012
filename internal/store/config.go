package store

import (
	"fmt"

	"metagame-tracker/internal/components/telemetry"
)

const DefaultLocation = "metagame.json"

type Config struct {
	// Kind is one of "http", "sqlite", "libsql" or "memory".
	Kind string `json:"kind"`
	// Url is the key-blob endpoint for http, the database url for libsql and
	// the database file for sqlite.
	Url   string `json:"url"`
	Token string `json:"token"`
	// Location names the object inside the backend.
	Location string `json:"location"`
}

// OpenBackend builds the backend described by config. An http backend with
// missing fields is still returned, it fails with ErrUnavailable on use.
func OpenBackend(config Config, tel telemetry.API) (Backend, error) {
	location := config.Location
	if location == "" {
		location = DefaultLocation
	}

	switch config.Kind {
	case "", "http":
		return NewHTTPBackend(config.Url, config.Token, location, tel), nil
	case "sqlite":
		path := config.Url
		if path == "" {
			path = "metagame.db"
		}
		return OpenSQLite(path, location)
	case "libsql":
		return OpenLibSQL(config.Url, config.Token, location)
	case "memory":
		return NewMemoryBackend(), nil
	}
	return nil, fmt.Errorf("unknown store kind %q", config.Kind)
}
