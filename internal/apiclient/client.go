package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront-web/internal/domain"
	"storefront-web/internal/logging"

	"go.uber.org/zap"
)

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// Error is a failed call to the storefront API. Message is the server's own
// text when it sent one and is shown to customers verbatim.
type Error struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is maps authentication failures onto domain.ErrUnauthorized.
func (e *Error) Is(target error) bool {
	return target == domain.ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Client talks to the storefront API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// New returns a Client rooted at baseURL.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logging.OrNop(logger).Named("apiclient"),
	}
}

// LoginResult is what the API returns for valid credentials.
type LoginResult struct {
	Token string          `json:"token"`
	User  domain.Identity `json:"user"`
}

// Login exchanges credentials for an API token and the customer's identity.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var out LoginResult
	if err := c.doJSON(ctx, "login", http.MethodPost, "/api/auth/login", "", body, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, &Error{Op: "login", Status: http.StatusBadGateway, Message: "login response did not include a token"}
	}
	return &out, nil
}

// ForToken returns the customer-scoped collaborators bound to an API token.
func (c *Client) ForToken(token string) *UserClient {
	return &UserClient{client: c, token: token}
}

func (c *Client) doJSON(ctx context.Context, op, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, op, token, out)
}

func (c *Client) do(req *http.Request, op, token string, out any) error {
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("op", op), zap.Error(err))
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return &Error{Op: op, Message: "The request was cancelled before the store answered", Err: ctxErr}
		}
		return &Error{Op: op, Message: "Unable to reach the store, please try again", Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("request done",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(op, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return &Error{Op: op, Status: resp.StatusCode, Message: "The store sent an unreadable response", Err: err}
	}
	return nil
}

func decodeError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if json.Unmarshal(raw, &payload) == nil {
		msg = strings.TrimSpace(payload.Message)
		if msg == "" {
			msg = strings.TrimSpace(payload.Error)
		}
	}
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return &Error{Op: op, Status: resp.StatusCode, Message: msg}
}
