package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/useradmin/internal/client/models"
	"github.com/dmitrijs2005/useradmin/internal/common"
	"github.com/dmitrijs2005/useradmin/internal/logging"
)

// Options configure an HTTPClient.
type Options struct {
	// BaseURL is the API root, e.g. "https://reqres.in/api".
	BaseURL string
	// APIKey is sent in the x-api-key header when non-empty.
	APIKey string
	// Timeout bounds a single call. Zero disables it.
	Timeout time.Duration
	// RatePerSecond throttles outgoing calls. Zero or less disables throttling.
	RatePerSecond float64
	Burst         int

	HTTPClient *http.Client
	Logger     logging.Logger
}

// HTTPClient implements Client over the REST/JSON contract.
// It is safe for concurrent use.
type HTTPClient struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	http    *http.Client
	limiter *rate.Limiter
	log     logging.Logger

	mu    sync.RWMutex
	token string
}

type operation struct {
	name     string
	fallback string
}

var (
	opLogin  = operation{name: "login", fallback: MsgLoginFailed}
	opList   = operation{name: "list_users", fallback: MsgFetchFailed}
	opUpdate = operation{name: "update_user", fallback: MsgUpdateFailed}
	opDelete = operation{name: "delete_user", fallback: MsgDeleteFailed}
)

// errorBody is the failure payload of the remote API: {"error": "..."}.
type errorBody struct {
	Error string `json:"error"`
}

func NewHTTPClient(opts Options) (*HTTPClient, error) {
	u, err := url.Parse(opts.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", opts.BaseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}

	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RatePerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		timeout: opts.Timeout,
		http:    hc,
		limiter: limiter,
		log:     log.With("component", "api_client"),
	}, nil
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}

	err := c.send(ctx, opLogin, http.MethodPost, "/login", creds, &resp)
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) && reqErr.StatusCode != 0 {
			return "", &AuthError{Err: reqErr}
		}
		return "", err
	}

	if resp.Token == "" {
		return "", &AuthError{Err: &RequestError{
			Op:         opLogin.name,
			StatusCode: http.StatusOK,
			Message:    opLogin.fallback,
			Err:        ErrUnauthorized,
		}}
	}
	return resp.Token, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context, page int) (*models.UserPage, error) {
	path := "/users?" + url.Values{"page": []string{strconv.Itoa(page)}}.Encode()

	var resp models.UserPage
	if err := c.send(ctx, opList, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, id int, fields models.UserFields) (map[string]any, error) {
	var echo map[string]any
	if err := c.send(ctx, opUpdate, http.MethodPut, "/users/"+strconv.Itoa(id), fields, &echo); err != nil {
		return nil, err
	}
	return echo, nil
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id int) (bool, error) {
	if err := c.send(ctx, opDelete, http.MethodDelete, "/users/"+strconv.Itoa(id), nil, nil); err != nil {
		return false, err
	}
	return true, nil
}

// send performs a single request. A non-nil body is encoded as JSON; a
// non-nil out receives the decoded JSON response (an empty body leaves it untouched).
func (c *HTTPClient) send(ctx context.Context, op operation, method, path string, body any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return c.transportError(op, err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &RequestError{Op: op.name, Message: op.fallback, Err: err}
		}
		reader = bytes.NewReader(b)
	}

	requestID := uuid.NewString()
	ctx = logging.WithRequestID(ctx, requestID)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &RequestError{Op: op.name, Message: op.fallback, Err: err}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(common.APIKeyHeaderName, c.apiKey)
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.log.With("op", op.name, "method", method, "path", path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "err", err, "duration", time.Since(start))
		return c.transportError(op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn(ctx, "reading response failed", "err", err)
		return c.transportError(op, err)
	}

	log.Debug(ctx, "request completed", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(op, resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &RequestError{Op: op.name, StatusCode: resp.StatusCode, Message: op.fallback, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *HTTPClient) transportError(op operation, err error) error {
	sentinel := ErrUnavailable
	if errors.Is(err, context.DeadlineExceeded) {
		sentinel = ErrTimeout
	}
	return &RequestError{Op: op.name, Message: op.fallback, Err: fmt.Errorf("%w: %w", sentinel, err)}
}

// decodeError maps a non-success response to a RequestError, preferring the
// server's own error text over the per-operation fallback.
func decodeError(op operation, status int, data []byte) error {
	e := &RequestError{Op: op.name, StatusCode: status, Message: op.fallback}

	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil && strings.TrimSpace(body.Error) != "" {
		e.Message = body.Error
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		e.Err = ErrUnauthorized
	default:
		e.Err = fmt.Errorf("unexpected status: %d", status)
	}
	return e
}
