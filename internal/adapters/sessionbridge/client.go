// Package sessionbridge implements the session ports against an MTProto
// bridge sidecar: a separate process that holds the actual Telegram client
// connections and exposes them over a small HTTP API.
package sessionbridge

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
	"time"

	"github.com/soloviev-vladislav/telegram-userbot-api/internal/core"
	"github.com/soloviev-vladislav/telegram-userbot-api/internal/domain/model"
)

const (
	defaultTimeout = 35 * time.Second
	maxErrorBody   = 4096
)

// Config holds session bridge client configuration.
type Config struct {
	// BaseURL is the bridge's root endpoint, e.g. "http://127.0.0.1:8181".
	BaseURL string
	// Timeout bounds every bridge call. The default leaves headroom for the
	// bridge's own MTProto round trips.
	Timeout time.Duration
	// Client allows injecting a custom HTTP client (useful for testing).
	Client *http.Client
}

// Dialer opens bridge-backed sessions. It implements core.SessionDialer.
type Dialer struct {
	baseURL string
	client  *http.Client
}

// NewDialer creates a session bridge dialer.
func NewDialer(cfg Config) (*Dialer, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("bridge base URL is required")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid bridge URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid bridge URL scheme: %s", u.Scheme)
	}
	if strings.TrimSpace(u.Host) == "" {
		return nil, errors.New("invalid bridge URL: missing host")
	}

	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &Dialer{baseURL: base, client: client}, nil
}

// Dial registers the session string with the bridge and returns a live
// session handle bound to the bridge-assigned session id.
func (d *Dialer) Dial(ctx context.Context, sessionString string) (core.ClientSession, error) {
	if strings.TrimSpace(sessionString) == "" {
		return nil, errors.New("session string is required")
	}

	reqBody := struct {
		SessionString string `json:"session_string"`
	}{SessionString: sessionString}

	var resp struct {
		SessionID string `json:"session_id"`
	}
	if err := d.do(ctx, http.MethodPost, d.baseURL+"/v1/sessions", reqBody, &resp); err != nil {
		return nil, fmt.Errorf("open bridge session: %w", err)
	}
	if resp.SessionID == "" {
		return nil, errors.New("bridge returned empty session id")
	}

	return &Session{
		dialer:    d,
		sessionID: resp.SessionID,
	}, nil
}

// Session is one live bridge-backed session. It implements core.ClientSession.
type Session struct {
	dialer    *Dialer
	sessionID string
}

func (s *Session) contactsURL() string {
	return s.dialer.baseURL + "/v1/sessions/" + url.PathEscape(s.sessionID) + "/contacts"
}

// ImportContact adds a temporary contact through the bridge.
func (s *Session) ImportContact(ctx context.Context, imp core.ContactImport) (int64, error) {
	reqBody := struct {
		Phone     string `json:"phone"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}{Phone: imp.Phone, FirstName: imp.FirstName, LastName: imp.LastName}

	var resp struct {
		ContactID int64 `json:"contact_id"`
	}
	if err := s.dialer.do(ctx, http.MethodPost, s.contactsURL(), reqBody, &resp); err != nil {
		return 0, err
	}
	return resp.ContactID, nil
}

// ListContacts enumerates the session's contact list.
func (s *Session) ListContacts(ctx context.Context) ([]model.Contact, error) {
	var resp struct {
		Contacts []model.Contact `json:"contacts"`
	}
	if err := s.dialer.do(ctx, http.MethodGet, s.contactsURL(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Contacts, nil
}

// DeleteContact removes a contact previously added through the bridge.
func (s *Session) DeleteContact(ctx context.Context, contactID int64) error {
	u := fmt.Sprintf("%s/%d", s.contactsURL(), contactID)
	return s.dialer.do(ctx, http.MethodDelete, u, nil, nil)
}

// Close releases the bridge session. The stored authorization stays valid.
func (s *Session) Close(ctx context.Context) error {
	u := s.dialer.baseURL + "/v1/sessions/" + url.PathEscape(s.sessionID)
	return s.dialer.do(ctx, http.MethodDelete, u, nil, nil)
}

// do performs one bridge request, decoding a JSON response into out when out
// is non-nil. HTTP 429 responses are mapped to *model.FloodWaitError so the
// engine can honor the platform's cooldown.
func (d *Dialer) do(ctx context.Context, method, u string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("bridge request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return floodWaitFromResponse(resp)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = resp.Status
		}
		err := fmt.Errorf("bridge returned %d: %s", resp.StatusCode, msg)
		if readErr != nil {
			err = errors.Join(err, fmt.Errorf("read error body: %w", readErr))
		}
		return err
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// floodWaitFromResponse extracts the mandated cooldown from a 429 body.
func floodWaitFromResponse(resp *http.Response) error {
	var payload struct {
		RetryAfterSeconds int `json:"retry_after_seconds"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&payload); err != nil || payload.RetryAfterSeconds <= 0 {
		// No usable body, fall back to a minimal cooldown.
		return &model.FloodWaitError{RetryAfter: time.Second}
	}
	return &model.FloodWaitError{RetryAfter: time.Duration(payload.RetryAfterSeconds) * time.Second}
}

var (
	_ core.SessionDialer = (*Dialer)(nil)
	_ core.ClientSession = (*Session)(nil)
)
