package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/folio/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenSource supplies the bearer token for authorized requests.
type TokenSource interface {
	Token() string
}

// Client talks to the portfolio backend REST API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger attaches a logger for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Client for baseURL. tokens may be nil for
// unauthenticated use (login only).
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, opts ...Option) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		tokens: tokens,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		Username string `json:"username"`
	} `json:"user"`
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, username, password string) (domain.Session, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", loginRequest{Username: username, Password: password}, &resp, false)
	if err != nil {
		return domain.Session{}, err
	}
	if resp.Token == "" {
		return domain.Session{}, errors.New("login response carried no token")
	}
	name := resp.User.Username
	if name == "" {
		name = username
	}
	return domain.Session{Token: resp.Token, Username: name, IssuedAt: time.Now().UTC()}, nil
}

// ListItems fetches the orderable items of a content type.
func (c *Client) ListItems(ctx context.Context, ct domain.ContentType) ([]domain.Item, error) {
	var items []domain.Item
	if err := c.do(ctx, http.MethodGet, ct.ListPath(), nil, &items, true); err != nil {
		return nil, err
	}
	return items, nil
}

type orderRequest struct {
	Items []domain.OrderEntry `json:"items"`
}

// UpdateOrder replaces the display order of a content type. Only success or
// failure of the response is interpreted.
func (c *Client) UpdateOrder(ctx context.Context, ct domain.ContentType, entries []domain.OrderEntry) error {
	if entries == nil {
		entries = []domain.OrderEntry{}
	}
	return c.do(ctx, http.MethodPut, ct.OrderPath(), orderRequest{Items: entries}, nil, true)
}

// Dispatch sends an admin command and returns the raw response body.
func (c *Client) Dispatch(ctx context.Context, cmd domain.Command) (json.RawMessage, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}
	var method string
	switch cmd.Action {
	case domain.ActionCreate:
		method = http.MethodPost
	case domain.ActionUpdate:
		method = http.MethodPut
	case domain.ActionDelete:
		method = http.MethodDelete
	}
	var body any
	if len(cmd.Payload) > 0 {
		body = cmd.Payload
	}
	var out json.RawMessage
	if err := c.do(ctx, method, cmd.Path(), body, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches a single resource record.
func (c *Client) Get(ctx context.Context, r domain.Resource, id string) (json.RawMessage, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, r.ItemPath(id), nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// List fetches a resource collection.
func (c *Client) List(ctx context.Context, r domain.Resource) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, r.Path(), nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadResult describes a stored file.
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Upload stores a file on the backend through a multipart form.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return UploadResult{}, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return UploadResult{}, fmt.Errorf("reading %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/upload", &buf, true)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var res UploadResult
	if err := c.send(req, &res); err != nil {
		return UploadResult{}, err
	}
	if res.Filename == "" {
		res.Filename = filename
	}
	return res, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, auth bool) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := c.newRequest(ctx, method, path, body, auth)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, auth bool) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if auth && c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return req, nil
}

func (c *Client) send(req *http.Request, out any) error {
	start := time.Now()
	path := req.URL.Path
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed",
			zap.String("method", req.Method),
			zap.String("path", path),
			zap.String("request_id", req.Header.Get("X-Request-ID")),
			zap.Error(err))
		return classify(req.Context(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	c.logger.Debug("backend request",
		zap.String("method", req.Method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.String("request_id", req.Header.Get("X-Request-ID")))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Method:     req.Method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
		}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], data...)
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", path, err)
	}
	return nil
}

const maxErrorMessage = 200

// errorMessage pulls a message out of a JSON error body, falling back to the
// raw text.
func errorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	s := []rune(strings.TrimSpace(string(data)))
	if len(s) > maxErrorMessage {
		s = s[:maxErrorMessage]
	}
	return string(s)
}

func classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || isTimeout(err) {
		return ErrTimeout
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
