package printer

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"

	"github.com/icholy/digest"

	"github.com/deimosfr/i3-status-info/internal/errors"
	"github.com/deimosfr/i3-status-info/internal/logger"
)

// ErrorKind classifies a failed poll. Each kind has its own downstream handling.
type ErrorKind int

const (
	// ConnectionRefused: nothing listens, the printer is probably off. Suppressed.
	ConnectionRefused ErrorKind = iota + 1
	// ConnectionTimeout: no answer in time, or a 408/504. Suppressed.
	ConnectionTimeout
	// InvalidCredentials: 401 or 403.
	InvalidCredentials
	// InvalidResponse: any other non-200 status, or a transport failure after connecting.
	InvalidResponse
	// DeserializationError: the body does not match the expected schema.
	DeserializationError
	// InvalidConnection: the request could not be built.
	InvalidConnection
)

func (k ErrorKind) String() string {
	switch k {
	case ConnectionRefused:
		return "ConnectionRefused"
	case ConnectionTimeout:
		return "ConnectionTimeout"
	case InvalidCredentials:
		return "InvalidCredentials"
	case InvalidResponse:
		return "InvalidResponse"
	case DeserializationError:
		return "DeserializationError"
	case InvalidConnection:
		return "InvalidConnection"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ClientError is a classified poll failure.
type ClientError struct {
	Backend string
	Kind    ErrorKind
	// Status is the HTTP status code, when a response was received.
	Status int
	Detail string
	Err    error
}

func (e *ClientError) Error() string {
	switch e.Kind {
	case ConnectionRefused:
		return "Connection refused"
	case ConnectionTimeout:
		return "Connection timeout"
	case InvalidCredentials:
		if e.Detail != "" {
			return e.Detail
		}
		return "Invalid credentials"
	case InvalidResponse:
		return "Invalid response: " + e.Detail
	case DeserializationError:
		return "Deserialization error: " + e.Detail
	case InvalidConnection:
		return "Invalid connection: " + e.Detail
	default:
		return e.Detail
	}
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// ErrorCode maps the kind onto the error taxonomy. Refused and timed out
// connections are NETWORK errors, which produce no output.
func (e *ClientError) ErrorCode() string {
	switch e.Kind {
	case ConnectionRefused, ConnectionTimeout:
		return errors.ErrNetwork
	case InvalidCredentials:
		return errors.ErrAuth
	case InvalidConnection:
		return errors.ErrConfig
	default:
		return errors.ErrProtocol
	}
}

// client is the HTTP plumbing shared by both backends.
type client struct {
	backend string
	opts    Options
	http    *http.Client
	log     logger.Logger
	// forbidden is the message shown on 401/403.
	forbidden string
}

func newClient(backend string, opts Options, log logger.Logger) *client {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	transport := base
	if opts.Auth() == AuthDigest {
		transport = &digest.Transport{
			Username:  opts.Login,
			Password:  opts.Password,
			Transport: base,
		}
	}

	if log == nil {
		log = logger.Noop()
	}

	return &client{
		backend: backend,
		opts:    opts,
		http: &http.Client{
			Timeout:   opts.timeout(),
			Transport: transport,
		},
		log: log,
	}
}

// getJSON fetches path and decodes a 200 response into out.
func (c *client) getJSON(ctx context.Context, path string, out interface{}) error {
	url := c.opts.endpoint(path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return c.fail(InvalidConnection, 0, err.Error(), err)
	}
	req.Header.Set("Accept", "application/json")
	if c.opts.Auth() == AuthAPIKey {
		req.Header.Set("X-Api-Key", c.opts.APIKey)
	}

	c.log.Debug("GET %s (auth: %s, timeout: %s)", url, c.opts.Auth(), c.http.Timeout)

	resp, err := c.http.Do(req)
	if err != nil {
		return c.classifyTransport(err)
	}
	defer resp.Body.Close()

	c.log.Debug("%s answered %s", url, resp.Status)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return c.fail(ConnectionTimeout, resp.StatusCode, resp.Status, nil)
	case http.StatusUnauthorized, http.StatusForbidden:
		return c.fail(InvalidCredentials, resp.StatusCode, c.forbidden, nil)
	default:
		return c.fail(InvalidResponse, resp.StatusCode, "Error: "+resp.Status, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.classifyTransport(err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return c.fail(DeserializationError, resp.StatusCode, err.Error(), err)
	}
	return nil
}

// classifyTransport turns a failed round trip into a ClientError.
func (c *client) classifyTransport(err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return c.fail(ConnectionTimeout, 0, err.Error(), err)
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return c.fail(ConnectionTimeout, 0, err.Error(), err)
	}

	if stderrors.Is(err, syscall.ECONNREFUSED) {
		return c.fail(ConnectionRefused, 0, err.Error(), err)
	}

	// Any failure while dialing means the service is not there.
	var opErr *net.OpError
	if stderrors.As(err, &opErr) && opErr.Op == "dial" {
		return c.fail(ConnectionRefused, 0, err.Error(), err)
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "timeout"):
		return c.fail(ConnectionTimeout, 0, err.Error(), err)
	case strings.Contains(errStr, "connection refused"),
		strings.Contains(errStr, "no route to host"),
		strings.Contains(errStr, "network is unreachable"),
		strings.Contains(errStr, "host is down"):
		return c.fail(ConnectionRefused, 0, err.Error(), err)
	}

	return c.fail(InvalidResponse, 0, err.Error(), err)
}

func (c *client) fail(kind ErrorKind, status int, detail string, cause error) *ClientError {
	ce := &ClientError{Backend: c.backend, Kind: kind, Status: status, Detail: detail, Err: cause}
	c.log.Debug("%s: %s (%v)", c.backend, kind, ce)
	return ce
}

func decodeError(backend, detail string) *ClientError {
	return &ClientError{Backend: backend, Kind: DeserializationError, Status: http.StatusOK, Detail: detail}
}
