package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prepwise/sessionauth"
)

// Config parameterizes the provider adapter.
type Config struct {
	Endpoint string
	ClientID string

	// CallTimeout bounds each provider round trip.
	CallTimeout time.Duration

	// ReadyPollInterval and ReadyMaxAttempts bound the startup readiness
	// wait against the provider health endpoint.
	ReadyPollInterval time.Duration
	ReadyMaxAttempts  int

	// HTTPClient overrides the transport, primarily for tests.
	HTTPClient *http.Client
}

// Client talks JSON-over-HTTP to the identity provider and implements
// sessionauth.IdentityClient. The zero value is not usable; construct with
// NewClient.
type Client struct {
	cfg  Config
	http *http.Client

	readyCh  chan struct{}
	readyErr error
}

// interface conformance
var _ sessionauth.IdentityClient = (*Client)(nil)

// NewClient starts the readiness probe immediately so the bounded wait
// overlaps application startup. Operations called before readiness resolves
// block on it; once the attempt budget is spent they fail fast with the
// NotReady code instead of hanging.
func NewClient(cfg Config) *Client {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 10 * time.Second
	}
	if cfg.ReadyPollInterval <= 0 {
		cfg.ReadyPollInterval = 100 * time.Millisecond
	}
	if cfg.ReadyMaxAttempts <= 0 {
		cfg.ReadyMaxAttempts = 50
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.CallTimeout}
	}

	c := &Client{
		cfg:     cfg,
		http:    httpClient,
		readyCh: make(chan struct{}),
	}
	go c.probeReady()

	return c
}

// probeReady polls the health endpoint at the configured interval until it
// answers or the attempt budget runs out. One probe serves every caller;
// there are no per-operation retry loops.
func (c *Client) probeReady() {
	defer close(c.readyCh)

	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/health"
	for attempt := 0; attempt < c.cfg.ReadyMaxAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(c.cfg.ReadyPollInterval)
		}

		resp, err := c.http.Get(url)
		if err != nil {
			continue
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			return
		}
	}

	c.readyErr = &sessionauth.ProviderError{
		Code:    sessionauth.ProviderCodeNotReady,
		Message: "identity provider readiness wait exhausted",
	}
}

// ensureReady blocks until the readiness probe resolves, then returns its
// verdict. After a failed probe every call fails fast with the same error.
func (c *Client) ensureReady(ctx context.Context) error {
	select {
	case <-c.readyCh:
		return c.readyErr
	case <-ctx.Done():
		return &sessionauth.ProviderError{
			Code:    sessionauth.ProviderCodeNetwork,
			Message: ctx.Err().Error(),
		}
	}
}

func (c *Client) Register(ctx context.Context, email, password string) error {
	return c.call(ctx, targetRegister, registerRequest{Email: email, Password: password}, nil)
}

func (c *Client) ConfirmRegistration(ctx context.Context, email, code string) error {
	return c.call(ctx, targetConfirmRegistration, confirmRegistrationRequest{Email: email, Code: code}, nil)
}

func (c *Client) ResendConfirmationCode(ctx context.Context, email string) error {
	return c.call(ctx, targetResendCode, resendCodeRequest{Email: email}, nil)
}

func (c *Client) SignIn(ctx context.Context, email, password string) (sessionauth.TokenBundle, error) {
	var resp tokenResponse
	if err := c.call(ctx, targetSignIn, signInRequest{Email: email, Password: password}, &resp); err != nil {
		return sessionauth.TokenBundle{}, err
	}
	return sessionauth.TokenBundle{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		IDToken:      resp.IDToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (sessionauth.TokenBundle, error) {
	var resp tokenResponse
	if err := c.call(ctx, targetRefresh, refreshRequest{RefreshToken: refreshToken}, &resp); err != nil {
		return sessionauth.TokenBundle{}, err
	}
	return sessionauth.TokenBundle{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		IDToken:      resp.IDToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.call(ctx, targetRequestPasswordReset, passwordResetRequest{Email: email}, nil)
}

func (c *Client) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	return c.call(ctx, targetConfirmPasswordReset, confirmPasswordResetRequest{
		Email:       email,
		Code:        code,
		NewPassword: newPassword,
	}, nil)
}

// call runs one provider operation: readiness gate, bounded round trip,
// and normalization of every failure into *sessionauth.ProviderError.
func (c *Client) call(ctx context.Context, target string, payload interface{}, out interface{}) error {
	if err := c.ensureReady(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return &sessionauth.ProviderError{Code: "SerializationError", Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return &sessionauth.ProviderError{Code: sessionauth.ProviderCodeNetwork, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerTarget, target)
	req.Header.Set(headerClientID, c.cfg.ClientID)
	req.Header.Set(headerRequestID, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return &sessionauth.ProviderError{Code: sessionauth.ProviderCodeNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &sessionauth.ProviderError{Code: sessionauth.ProviderCodeNetwork, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var provErr errorResponse
		if err := json.Unmarshal(data, &provErr); err != nil || provErr.Code == "" {
			return &sessionauth.ProviderError{
				Code:    "HTTP" + strconv.Itoa(resp.StatusCode),
				Message: resp.Status,
			}
		}
		return &sessionauth.ProviderError{Code: provErr.Code, Message: provErr.Message}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &sessionauth.ProviderError{Code: "MalformedResponse", Message: err.Error()}
		}
	}

	return nil
}
