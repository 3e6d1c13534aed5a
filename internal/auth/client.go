package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	// DefaultEndpoint is the hosted Identity Toolkit service
	DefaultEndpoint = "https://identitytoolkit.googleapis.com"
	// RequestTimeout bounds each backend call when the caller sets no deadline
	RequestTimeout = 30 * time.Second
)

// Backend performs the three operations behind the dialog
type Backend interface {
	SignIn(ctx context.Context, email, password string) (*User, error)
	Register(ctx context.Context, username, email, password string) (*User, error)
	SendPasswordReset(ctx context.Context, email string) error
}

// User is an authenticated account
type User struct {
	ID          string
	Email       string
	DisplayName string
	Token       *oauth2.Token
}

// Config holds client configuration
type Config struct {
	Endpoint   string
	APIKey     string
	HTTPClient *http.Client
	Logger     *logrus.Entry
}

// Client talks to an Identity Toolkit compatible backend
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	log      *logrus.Entry
	now      func() time.Time
}

var _ Backend = (*Client)(nil)

// NewClient creates a client. Empty fields take defaults.
func NewClient(cfg Config) *Client {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: RequestTimeout}
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.WithField("component", "auth")
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
		http:     httpClient,
		log:      log,
		now:      time.Now,
	}
}

// SignIn authenticates with email and password
func (c *Client) SignIn(ctx context.Context, email, password string) (*User, error) {
	var resp TokenResponse
	err := c.call(ctx, OpSignInWithPassword, PasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("sign in failed: %w", err)
	}
	c.log.WithField("user", resp.LocalID).Info("signed in")
	return c.userFrom(resp), nil
}

// Register creates an account. A non-empty username becomes the display
// name through a follow-up update call; if that call fails the new
// account is still returned, without a display name.
func (c *Client) Register(ctx context.Context, username, email, password string) (*User, error) {
	var resp TokenResponse
	err := c.call(ctx, OpSignUp, PasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	user := c.userFrom(resp)
	c.log.WithField("user", user.ID).Info("registered")

	if username == "" {
		return user, nil
	}

	var updated TokenResponse
	err = c.call(ctx, OpUpdate, UpdateRequest{
		IDToken:           resp.IDToken,
		DisplayName:       username,
		ReturnSecureToken: true,
	}, &updated)
	if err != nil {
		// The account exists and the user is signed in; only the name is missing
		c.log.WithError(err).WithField("user", user.ID).Warn("failed to set display name")
		return user, nil
	}
	user.DisplayName = updated.DisplayName
	if updated.IDToken != "" {
		user.Token = c.tokenFrom(updated)
	}
	return user, nil
}

// SendPasswordReset asks the backend to send a reset code to email
func (c *Client) SendPasswordReset(ctx context.Context, email string) error {
	var resp OobCodeResponse
	err := c.call(ctx, OpSendOobCode, OobCodeRequest{
		RequestType: RequestTypePasswordReset,
		Email:       email,
	}, &resp)
	if err != nil {
		return fmt.Errorf("password reset failed: %w", err)
	}
	c.log.Info("password reset requested")
	return nil
}

// ConfirmPasswordReset sets a new password using a code from
// SendPasswordReset and returns the account email
func (c *Client) ConfirmPasswordReset(ctx context.Context, code, newPassword string) (string, error) {
	var resp ResetPasswordResponse
	err := c.call(ctx, OpResetPassword, ResetPasswordRequest{
		OobCode:     code,
		NewPassword: newPassword,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("password reset failed: %w", err)
	}
	return resp.Email, nil
}

// call posts body to the operation endpoint and decodes the reply into out
func (c *Client) call(ctx context.Context, op string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.operationURL(op), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.WithField("op", op).Debug("calling auth backend")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(data, &errResp); err != nil || errResp.Error.Message == "" {
			return &APIError{Status: resp.StatusCode, Code: http.StatusText(resp.StatusCode)}
		}
		return newAPIError(resp.StatusCode, errResp.Error.Message)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *Client) operationURL(op string) string {
	u := c.endpoint + "/v1/accounts:" + op
	if c.apiKey == "" {
		return u
	}
	return u + "?" + url.Values{"key": {c.apiKey}}.Encode()
}

func (c *Client) userFrom(resp TokenResponse) *User {
	return &User{
		ID:          resp.LocalID,
		Email:       resp.Email,
		DisplayName: resp.DisplayName,
		Token:       c.tokenFrom(resp),
	}
}

// tokenFrom converts the id/refresh token pair into an oauth2 token
func (c *Client) tokenFrom(resp TokenResponse) *oauth2.Token {
	token := &oauth2.Token{
		AccessToken:  resp.IDToken,
		TokenType:    "Bearer",
		RefreshToken: resp.RefreshToken,
	}
	if secs, err := strconv.Atoi(resp.ExpiresIn); err == nil && secs > 0 {
		token.Expiry = c.now().Add(time.Duration(secs) * time.Second)
	}
	return token
}
