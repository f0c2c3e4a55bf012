package fetcher

import (
	"fmt"
	"strings"
)

// Identity is the operating system / browser family a client presents itself as.
type Identity struct {
	OS      string `json:"os"`
	Browser string `json:"browser"`
}

var DefaultIdentity = Identity{OS: "windows", Browser: "chrome"}

type fingerprint struct {
	userAgent string
	// platform is the sec-ch-ua-platform value, only chromium browsers send client hints.
	platform string
}

var fingerprints = map[Identity]fingerprint{
	{OS: "windows", Browser: "chrome"}: {
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
		platform:  `"Windows"`,
	},
	{OS: "windows", Browser: "firefox"}: {
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	},
	{OS: "macos", Browser: "chrome"}: {
		userAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
		platform:  `"macOS"`,
	},
	{OS: "macos", Browser: "safari"}: {
		userAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	},
	{OS: "linux", Browser: "chrome"}: {
		userAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
		platform:  `"Linux"`,
	},
	{OS: "linux", Browser: "firefox"}: {
		userAgent: "Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
	},
}

func (i Identity) normalized() Identity {
	return Identity{
		OS:      strings.ToLower(strings.TrimSpace(i.OS)),
		Browser: strings.ToLower(strings.TrimSpace(i.Browser)),
	}
}

func (i Identity) String() string {
	return fmt.Sprintf("%s/%s", i.OS, i.Browser)
}

// Headers returns the request headers a real browser of this identity would send.
func (i Identity) Headers() (map[string]string, error) {
	fp, ok := fingerprints[i.normalized()]
	if !ok {
		return nil, fmt.Errorf("unsupported client identity: %s", i)
	}

	headers := map[string]string{
		"User-Agent":                fp.userAgent,
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Upgrade-Insecure-Requests": "1",
	}
	if fp.platform != "" {
		headers["Sec-Ch-Ua"] = `"Chromium";v="123", "Google Chrome";v="123", "Not:A-Brand";v="8"`
		headers["Sec-Ch-Ua-Mobile"] = "?0"
		headers["Sec-Ch-Ua-Platform"] = fp.platform
	}
	return headers, nil
}
