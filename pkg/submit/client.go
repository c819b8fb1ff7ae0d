package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-contactform/pkg/model"
)

var (
	// ErrSubmissionFailed wraps every failed delivery: transport errors and
	// non-2xx responses alike.
	ErrSubmissionFailed = errors.New("submit: form submission failed")
	// ErrBusy is returned while another submission is still in flight.
	ErrBusy = errors.New("submit: submission already in progress")
)

// ResponseError reports a non-2xx answer from the form endpoint together with
// any messages it returned.
type ResponseError struct {
	Status   int
	Messages []string
}

func (e *ResponseError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("submit: endpoint responded %d", e.Status)
	}
	return fmt.Sprintf("submit: endpoint responded %d: %s", e.Status, strings.Join(e.Messages, "; "))
}

// Unwrap lets errors.Is match ErrSubmissionFailed.
func (e *ResponseError) Unwrap() error {
	return ErrSubmissionFailed
}

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Result describes an accepted submission.
type Result struct {
	ID     string `json:"id"`
	Status int    `json:"status"`
	// Next is the redirect target some endpoints return on success.
	Next string `json:"next,omitempty"`
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the form's endpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(endpoint); trimmed != "" {
			c.endpoint = trimmed
		}
	}
}

// WithDoer overrides the HTTP client.
func WithDoer(doer Doer) Option {
	return func(c *Client) {
		if doer != nil {
			c.doer = doer
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithIDGenerator overrides how submission ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// Client posts collected form data to a third-party form endpoint.
type Client struct {
	endpoint string
	method   string
	payload  []model.PayloadField
	doer     Doer
	logger   *slog.Logger
	newID    func() string
}

// New builds a Client for form.
func New(form model.Form, opts ...Option) (*Client, error) {
	c := &Client{
		endpoint: strings.TrimSpace(form.Endpoint),
		method:   strings.ToUpper(strings.TrimSpace(form.Method)),
		payload:  append([]model.PayloadField(nil), form.Payload...),
		logger:   slog.Default(),
		newID:    func() string { return uuid.NewString() },
	}
	if c.method == "" {
		c.method = http.MethodPost
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.endpoint == "" {
		return nil, errors.New("submit: endpoint is required")
	}
	if c.doer == nil {
		c.doer = NewHTTPClient(c.logger)
	}
	return c, nil
}

// Endpoint reports where submissions are sent.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Pairs returns the payload that Submit would send for data.
func (c *Client) Pairs(data model.Data) []Pair {
	return Pairs(c.payload, data)
}

type endpointResponse struct {
	OK     bool   `json:"ok"`
	Next   string `json:"next"`
	Error  string `json:"error"`
	Errors []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Submit encodes data as multipart/form-data and posts it, asking for a JSON
// answer. Any non-2xx status is a *ResponseError.
func (c *Client) Submit(ctx context.Context, data model.Data) (Result, error) {
	id := c.newID()
	body, contentType, err := Encode(c.Pairs(data))
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, c.method, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("submit: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.doer.Do(req)
	if err != nil {
		c.logger.Error("form submission failed", "submission", id, "error", err)
		return Result{}, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var decoded endpointResponse
	_ = json.Unmarshal(raw, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rerr := &ResponseError{Status: resp.StatusCode, Messages: responseMessages(decoded)}
		c.logger.Error("form submission rejected", "submission", id, "status", resp.StatusCode, "error", rerr)
		return Result{}, rerr
	}

	c.logger.Info("form submitted", "submission", id, "status", resp.StatusCode, "endpoint", c.endpoint)
	return Result{ID: id, Status: resp.StatusCode, Next: decoded.Next}, nil
}

func responseMessages(resp endpointResponse) []string {
	var out []string
	if msg := strings.TrimSpace(resp.Error); msg != "" {
		out = append(out, msg)
	}
	for _, e := range resp.Errors {
		msg := strings.TrimSpace(e.Message)
		if msg == "" {
			continue
		}
		if e.Field != "" {
			msg = e.Field + ": " + msg
		}
		out = append(out, msg)
	}
	return out
}
