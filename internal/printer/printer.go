// Package printer polls 3D-printer monitoring services (OctoPrint, PrusaLink)
// and projects their job status onto a common Reading.
//
// A backend is chosen at configuration time; shared formatting code never
// branches on backend identity, it only talks to Backend and State.
package printer

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/deimosfr/i3-status-info/internal/errors"
	"github.com/deimosfr/i3-status-info/internal/threshold"
)

// DefaultTimeout bounds every status request. Status bars poll often, so a
// printer that is slow to answer is treated as absent.
const DefaultTimeout = time.Second

// MaxTimeout is the largest accepted request timeout.
const MaxTimeout = time.Second

// Backend queries one printer service.
type Backend interface {
	Name() string
	Poll(ctx context.Context) (*Reading, error)
}

// State is a backend specific job state. Every state has a non-empty Label.
type State interface {
	// String is the state name as sent by the service.
	String() string
	// Label is the glyph or text shown in the status bar.
	Label() string
	// Severity overrides the bar colour for notable states. Idle otherwise.
	Severity() threshold.Severity
	// Printing reports whether completion and remaining time are shown.
	Printing() bool
	// RequiresJob reports whether the response must carry job progress.
	RequiresJob() bool
}

// Reading is the unified job status of one printer.
type Reading struct {
	Backend string
	State   State
	// Completion is a percentage in [0, 100].
	Completion float64
	// RemainingTime is in seconds.
	RemainingTime int64
}

// Options configures a backend.
type Options struct {
	BaseURL  string
	APIKey   string
	Login    string
	Password string
	Timeout  time.Duration
	// Transport replaces the HTTP transport, for tests.
	Transport http.RoundTripper
}

// AuthScheme is how requests are authenticated.
type AuthScheme int

const (
	AuthNone AuthScheme = iota
	AuthAPIKey
	AuthDigest
)

func (a AuthScheme) String() string {
	switch a {
	case AuthAPIKey:
		return "api-key"
	case AuthDigest:
		return "digest"
	default:
		return "none"
	}
}

// Auth returns the configured scheme. It does not validate the combination.
func (o Options) Auth() AuthScheme {
	switch {
	case o.APIKey != "":
		return AuthAPIKey
	case o.Login != "" || o.Password != "":
		return AuthDigest
	default:
		return AuthNone
	}
}

// Validate checks the options before any network call. Exactly one of an API
// key or a login/password pair must be set.
func (o Options) Validate(digestAllowed bool) error {
	if strings.TrimSpace(o.BaseURL) == "" {
		return errors.New(errors.ErrConfig, "No URL provided", "Pass --url, e.g. --url http://printer.local")
	}
	if !strings.HasPrefix(o.BaseURL, "http://") && !strings.HasPrefix(o.BaseURL, "https://") {
		return errors.New(errors.ErrConfig, "Invalid URL: "+o.BaseURL, "The URL must start with http:// or https://")
	}

	hasKey := o.APIKey != ""
	hasLogin := o.Login != "" || o.Password != ""

	switch {
	case hasKey && hasLogin:
		return errors.New(errors.ErrConfig, "Both token and login/password provided",
			"Use either --token or --login/--password, not both.")
	case hasLogin && !digestAllowed:
		return errors.New(errors.ErrConfig, "Login/password authentication is not supported by this backend",
			"Pass --apikey instead.")
	case hasLogin && (o.Login == "" || o.Password == ""):
		return errors.New(errors.ErrConfig, "No token or login/password provided",
			"Both --login and --password are required for digest authentication.")
	case !hasKey && !hasLogin:
		if digestAllowed {
			return errors.New(errors.ErrConfig, "No token or login/password provided",
				"Pass --token, or both --login and --password.")
		}
		return errors.New(errors.ErrConfig, "No api key provided", "Pass --apikey.")
	}

	if o.Timeout < 0 || o.Timeout > MaxTimeout {
		return errors.New(errors.ErrConfig, "Timeout must be between 0 and 1s, got "+o.Timeout.String(),
			"Status bars poll often; keep requests short.")
	}
	return nil
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

func (o Options) endpoint(path string) string {
	return strings.TrimRight(o.BaseURL, "/") + path
}
