package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

type Kind int

const (
	KindTimeout Kind = iota
	KindHttpStatus
	KindNetworkFailure
	KindAntiBotBlock
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindHttpStatus:
		return "http status"
	case KindNetworkFailure:
		return "network failure"
	case KindAntiBotBlock:
		return "anti-bot block"
	}
	return "unknown"
}

type FetchError struct {
	Kind Kind
	URL  string
	// StatusCode is 0 when no response was received.
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (%d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a FetchError of the given kind.
func IsKind(err error, kind Kind) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr) && fetchErr.Kind == kind
}

func transportError(url string, err error) *FetchError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &FetchError{Kind: KindTimeout, URL: url, Err: err}
	}
	return &FetchError{Kind: KindNetworkFailure, URL: url, Err: err}
}

// interstitialMarkers are lowercase fragments only found on challenge pages
// that stand in for the requested document.
var interstitialMarkers = []string{
	"cf-browser-verification",
	"cf_chl_opt",
	"<title>just a moment",
	"attention required! | cloudflare",
	"enable javascript and cookies to continue",
}

// widgetMarkers are captcha widgets. Ordinary pages embed them in login or
// newsletter forms, so they only mean a block on an error response.
var widgetMarkers = []string{
	"g-recaptcha",
	"h-captcha",
	"px-captcha",
}

func containsAny(lowered string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

func isChallengePage(status int, body []byte) bool {
	lowered := strings.ToLower(string(body))
	if containsAny(lowered, interstitialMarkers) {
		return true
	}
	ok := status >= 200 && status < 300
	return !ok && containsAny(lowered, widgetMarkers)
}

// classifyResponse returns nil when the response is a usable document.
func classifyResponse(url string, status int, body []byte) *FetchError {
	if status == http.StatusForbidden || isChallengePage(status, body) {
		return &FetchError{Kind: KindAntiBotBlock, URL: url, StatusCode: status}
	}
	if status < 200 || status >= 300 {
		return &FetchError{Kind: KindHttpStatus, URL: url, StatusCode: status}
	}
	return nil
}
