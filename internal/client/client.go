// Package client is the HTTP client for the parts backend. It is the only
// place that knows the wire protocol; the session layer above it sees Part
// records or an error.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"partsdesk/internal/apierror"
	"partsdesk/internal/dto"
)

// TransportError covers everything that can go wrong between the session and
// the backend: unreachable server, malformed response, or a non-2xx status.
type TransportError struct {
	Op     string
	Status int // 0 when the request never completed
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: backend returned %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// errNoBody marks a 2xx response that carried no body where one was expected.
var errNoBody = errors.New("empty response body")

// Client talks to the parts backend. A bearer token, once set, is attached
// to every mutating request.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken installs the bearer credential used for mutating requests.
func (c *Client) SetToken(token string) { c.token = token }

// HasToken reports whether a bearer credential is installed.
func (c *Client) HasToken() bool { return c.token != "" }

// Login authenticates and installs the returned token on the client.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body, _ := json.Marshal(dto.LoginRequest{Username: username, Password: password})
	var resp dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/login", body, false, &resp); err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

// Register creates a new operator account. It does not log in.
func (c *Client) Register(ctx context.Context, username, password string) error {
	body, _ := json.Marshal(dto.RegisterRequest{Username: username, Password: password})
	return c.do(ctx, http.MethodPost, "/register", body, false, nil)
}

// FetchParts retrieves the full part collection in server order.
func (c *Client) FetchParts(ctx context.Context) ([]dto.Part, error) {
	var parts []dto.Part
	if err := c.do(ctx, http.MethodGet, "/parts", nil, false, &parts); err != nil {
		return nil, err
	}
	return parts, nil
}

// SellPart records the sale of a part and returns the updated record.
// A 2xx acknowledgment without a body is success with a nil record; the
// caller computes the sold shape locally.
func (c *Client) SellPart(ctx context.Context, id int64, price decimal.Decimal) (*dto.Part, error) {
	body, _ := json.Marshal(dto.SellPartRequest{SoldPrice: price})
	var part dto.Part
	path := fmt.Sprintf("/parts/%d/sell", id)
	if err := c.do(ctx, http.MethodPatch, path, body, true, &part); err != nil {
		if errors.Is(err, errNoBody) {
			return nil, nil
		}
		return nil, err
	}
	return &part, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, withAuth bool, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withAuth && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		// Surface the backend's detail message when it sent one.
		var apiErr apierror.APIError
		detail := "request failed"
		if json.NewDecoder(res.Body).Decode(&apiErr) == nil && apiErr.Detail != "" {
			detail = apiErr.Detail
		}
		return &TransportError{
			Op:     method + " " + path,
			Status: res.StatusCode,
			Err:    fmt.Errorf("%s", detail),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return &TransportError{Op: method + " " + path, Err: errNoBody}
		}
		return &TransportError{Op: method + " " + path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
