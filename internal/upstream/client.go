// Package upstream talks to the external user and billing API. Every call is
// a single attempt: no retry, no caching.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"incognitify/portal/internal/config"
	"incognitify/portal/internal/ids"
)

const correlationHeader = "X-Correlation-Id"

// Response is an upstream answer read in full.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

func (r Response) IsJSON() bool {
	return strings.Contains(r.ContentType, "application/json")
}

func (r Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Decode unmarshals a JSON body into v.
func (r Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode upstream body: %w", err)
	}
	return nil
}

type Client struct {
	baseURL   string
	probePath string
	http      *http.Client
	log       zerolog.Logger
}

// New builds a client. A zero cfg.Timeout leaves calls unbounded.
func New(cfg config.UpstreamConfig, log zerolog.Logger) *Client {
	return NewWithHTTPClient(cfg, &http.Client{Timeout: cfg.Timeout}, log)
}

func NewWithHTTPClient(cfg config.UpstreamConfig, httpClient *http.Client, log zerolog.Logger) *Client {
	probe := cfg.ProbePath
	if probe == "" {
		probe = "/"
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		probePath: probe,
		http:      httpClient,
		log:       log.With().Str("component", "upstream").Logger(),
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// Do sends one request. A non-nil body is sent as JSON; a non-empty bearer
// token is sent as Authorization. Transport failures come back as *NetworkError.
func (c *Client) Do(ctx context.Context, method, path, bearer string, body any) (Response, error) {
	target := c.baseURL + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return Response{}, fmt.Errorf("encode upstream body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return Response{}, fmt.Errorf("build upstream request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	correlationID := ids.New()
	req.Header.Set(correlationHeader, correlationID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).
			Str("method", method).
			Str("url", target).
			Str("correlation_id", correlationID).
			Msg("upstream unreachable")
		return Response{}, newNetworkError(method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, newNetworkError(method, target, err)
	}

	c.log.Debug().
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Str("correlation_id", correlationID).
		Msg("upstream call")

	return Response{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Do(ctx, http.MethodGet, c.probePath, "", nil)
	return err
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (Response, error) {
	return c.Do(ctx, http.MethodPost, "/users/login", "", req)
}

type RegisterRequest struct {
	DisplayName   string `json:"displayName"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	ProjectName   string `json:"projectName"`
	WorkspaceName string `json:"workspaceName"`
	Language      string `json:"language"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (Response, error) {
	return c.Do(ctx, http.MethodPost, "/users", "", req)
}

func (c *Client) Me(ctx context.Context, bearer string) (Response, error) {
	return c.Do(ctx, http.MethodGet, "/users/me", bearer, nil)
}

type PasswordResetRequest struct {
	Email       string `json:"email"`
	ProjectName string `json:"projectName"`
	Language    string `json:"language"`
}

func (c *Client) RequestPasswordReset(ctx context.Context, req PasswordResetRequest) (Response, error) {
	return c.Do(ctx, http.MethodPost, "/users/request-password-reset", "", req)
}

func (c *Client) VerifyEmail(ctx context.Context, token string) (Response, error) {
	return c.Do(ctx, http.MethodGet, "/users/verify-email?token="+url.QueryEscape(token), "", nil)
}

func (c *Client) SendVerification(ctx context.Context, bearer string) (Response, error) {
	return c.Do(ctx, http.MethodPost, "/users/send-verification-email", bearer, nil)
}

type attachRequest struct {
	PaymentMethodID string `json:"paymentMethodId"`
}

func (c *Client) AttachPaymentMethod(ctx context.Context, bearer, workspaceID, paymentMethodID string) (Response, error) {
	path := "/billing/workspaces/" + url.PathEscape(workspaceID) + "/payment-methods/attach"
	return c.Do(ctx, http.MethodPost, path, bearer, attachRequest{PaymentMethodID: paymentMethodID})
}
