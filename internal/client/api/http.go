package api

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

	"github.com/grovellows/tendertrack/internal/client/models"
)

const defaultRequestTimeout = 12 * time.Second

// HTTPClient implements Client over the backend's JSON REST API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

// WithHTTPClient substitutes the underlying *http.Client (tests, custom
// transports).
func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTPClient) { c.http = h }
}

// NewHTTPClient constructs a client for the given base URL,
// e.g. "http://localhost:8081".
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultRequestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	MFACode  string `json:"mfa_code,omitempty"`
}

type loginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	User        json.RawMessage `json:"user"`
	MFARequired bool            `json:"mfa_required"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// doJSON performs one round trip: marshals in (when non-nil), attaches the
// bearer token (when non-empty), and unmarshals the response into out
// (when non-nil). Status codes are mapped onto the package sentinels.
func (c *HTTPClient) doJSON(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapStatus(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) mapStatus(resp *http.Response) error {
	msg := serverMessage(resp.Body)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusLocked:
		if msg == "" {
			return ErrUnauthorized
		}
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	default:
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("server error: %s", msg)
	}
}

func serverMessage(r io.Reader) string {
	var e errorResponse
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return ""
	}
	return e.Error
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte, mfaCode string) (*LoginResult, error) {
	req := loginRequest{Email: email, Password: string(password), MFACode: mfaCode}

	var resp loginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", "", req, &resp); err != nil {
		return nil, err
	}

	if resp.MFARequired {
		return &LoginResult{MFARequired: true}, nil
	}

	if resp.AccessToken == "" {
		return nil, fmt.Errorf("login response missing access token")
	}
	user, err := models.DecodeUserProfile(resp.User)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: resp.AccessToken, User: user}, nil
}

func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/logout", token, nil, nil)
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*models.UserProfile, error) {
	return c.fetchProfile(ctx, http.MethodGet, "/api/auth/me", token, nil)
}

func (c *HTTPClient) UpdatePreferences(ctx context.Context, token string, prefs models.NotificationPreferences) (*models.UserProfile, error) {
	return c.fetchProfile(ctx, http.MethodPut, "/api/auth/preferences", token, prefs)
}

func (c *HTTPClient) UpdateLinkedIn(ctx context.Context, token string, url string) (*models.UserProfile, error) {
	body := map[string]string{"linkedin_url": url}
	return c.fetchProfile(ctx, http.MethodPut, "/api/auth/linkedin", token, body)
}

// fetchProfile runs a request whose response body is a profile and validates
// it before returning.
func (c *HTTPClient) fetchProfile(ctx context.Context, method, path, token string, in any) (*models.UserProfile, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, method, path, token, in, &raw); err != nil {
		return nil, err
	}
	return models.DecodeUserProfile(raw)
}

func (c *HTTPClient) ListTenders(ctx context.Context, token string, filter models.TenderFilter) ([]models.Tender, error) {
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Location != "" {
		q.Set("location", filter.Location)
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}

	path := "/api/tenders"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var tenders []models.Tender
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &tenders); err != nil {
		return nil, err
	}
	return tenders, nil
}

func (c *HTTPClient) GetTender(ctx context.Context, token string, id string) (*models.Tender, error) {
	var t models.Tender
	if err := c.doJSON(ctx, http.MethodGet, "/api/tenders/"+url.PathEscape(id), token, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *HTTPClient) UpdateTender(ctx context.Context, token string, id string, status, notes string) error {
	body := map[string]string{}
	if status != "" {
		body["status"] = status
	}
	if notes != "" {
		body["notes"] = notes
	}
	return c.doJSON(ctx, http.MethodPut, "/api/tenders/"+url.PathEscape(id), token, body, nil)
}

func (c *HTTPClient) AddFavorite(ctx context.Context, token string, tenderID string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/favorites/"+url.PathEscape(tenderID), token, nil, nil)
}

func (c *HTTPClient) RemoveFavorite(ctx context.Context, token string, tenderID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/favorites/"+url.PathEscape(tenderID), token, nil, nil)
}

func (c *HTTPClient) ListFavorites(ctx context.Context, token string) ([]models.Tender, error) {
	var tenders []models.Tender
	if err := c.doJSON(ctx, http.MethodGet, "/api/favorites", token, nil, &tenders); err != nil {
		return nil, err
	}
	return tenders, nil
}

type shareRequest struct {
	TenderID   string   `json:"tender_id"`
	SharedWith []string `json:"shared_with"`
	Message    string   `json:"message,omitempty"`
}

func (c *HTTPClient) ShareTender(ctx context.Context, token string, tenderID string, sharedWith []string, message string) error {
	req := shareRequest{TenderID: tenderID, SharedWith: sharedWith, Message: message}
	return c.doJSON(ctx, http.MethodPost, "/api/share", token, req, nil)
}

func (c *HTTPClient) ListShares(ctx context.Context, token string) ([]models.Share, error) {
	var shares []models.Share
	if err := c.doJSON(ctx, http.MethodGet, "/api/shares", token, nil, &shares); err != nil {
		return nil, err
	}
	return shares, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context, token string) ([]models.UserProfile, error) {
	var raw []json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/api/users", token, nil, &raw); err != nil {
		return nil, err
	}

	users := make([]models.UserProfile, 0, len(raw))
	for _, r := range raw {
		u, err := models.DecodeUserProfile(r)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
