// internal/infrastructure/backend/client.go
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/BeingRelentless/QKart-Shopping/internal/config"
	"github.com/BeingRelentless/QKart-Shopping/internal/domain/cart"
	"github.com/BeingRelentless/QKart-Shopping/internal/domain/product"
	"github.com/BeingRelentless/QKart-Shopping/internal/pkg/auth"
)

// LoginResponse is what the backend returns for a successful login
type LoginResponse struct {
	Success  bool    `json:"success"`
	Token    string  `json:"token"`
	Username string  `json:"username"`
	Balance  float64 `json:"balance"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// anySuccess accepts every 2xx status
const anySuccess = 0

// Client talks to the storefront REST backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a backend client. Outgoing requests are traced.
func NewClient(cfg config.BackendConfig, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

// Login exchanges credentials for a token
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.call(ctx, http.MethodPost, "/auth/login", "", credentials{username, password}, http.StatusCreated, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a backend account
func (c *Client) Register(ctx context.Context, username, password string) error {
	return c.call(ctx, http.MethodPost, "/auth/register", "", credentials{username, password}, http.StatusCreated, nil)
}

// ListProducts returns the whole catalog
func (c *Client) ListProducts(ctx context.Context) ([]product.Product, error) {
	var products []product.Product
	if err := c.call(ctx, http.MethodGet, "/products", "", nil, anySuccess, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// SearchProducts searches the catalog. The backend answers 404 when
// nothing matches, which is an empty result here.
func (c *Client) SearchProducts(ctx context.Context, query string) ([]product.Product, error) {
	var products []product.Product
	path := "/products/search?value=" + url.QueryEscape(query)
	if err := c.call(ctx, http.MethodGet, path, "", nil, anySuccess, &products); err != nil {
		if IsNotFound(err) {
			return []product.Product{}, nil
		}
		return nil, err
	}
	return products, nil
}

// GetCart returns the signed-in user's cart
func (c *Client) GetCart(ctx context.Context, token string) ([]cart.Entry, error) {
	var entries []cart.Entry
	if err := c.call(ctx, http.MethodGet, "/cart", token, nil, anySuccess, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// UpsertCartEntry sets the quantity of one product in the signed-in
// user's cart (0 removes it) and returns the whole cart.
func (c *Client) UpsertCartEntry(ctx context.Context, token, productID string, qty int) ([]cart.Entry, error) {
	var entries []cart.Entry
	body := cart.Entry{ProductID: productID, Quantity: qty}
	if err := c.call(ctx, http.MethodPost, "/cart", token, body, anySuccess, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// call makes one API call. A non-2xx status is a *RemoteError. Failing to
// get or read a response, or a 2xx other than want, is a *TransportError.
func (c *Client) call(ctx context.Context, method, path, token string, in interface{}, want int, out interface{}) error {
	op := method + " " + path

	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request data: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", auth.BearerHeader(token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("op", op).Warn("Backend request failed")
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.WithFields(logrus.Fields{
		"op":     op,
		"status": resp.StatusCode,
	}).Debug("Backend request completed")

	if !accepted(resp.StatusCode, want) {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return &TransportError{Op: op, Err: fmt.Errorf("unexpected status %d, want %d", resp.StatusCode, want)}
		}
		return remoteError(resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("invalid response body: %w", err)}
	}
	return nil
}

func accepted(status, want int) bool {
	if want == anySuccess {
		return status >= 200 && status < 300
	}
	return status == want
}

func remoteError(status int, raw []byte) error {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return &RemoteError{StatusCode: status, Message: body.Message}
	}
	return &RemoteError{StatusCode: status, Message: http.StatusText(status)}
}

// AsRemote extracts a *RemoteError from err
func AsRemote(err error) (*RemoteError, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// AsTransport extracts a *TransportError from err
func AsTransport(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
