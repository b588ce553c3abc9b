// Package api is the HTTP client for the fleet backend. Every call
// except Login requires an active session and fails fast without one.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"slgps/internal/session"
)

// Client talks to the fleet REST backend.
type Client struct {
	BaseURL  string
	HTTP     *http.Client
	Sessions *session.Store
}

// NewClient creates a client against the given base URL, for example
// "http://localhost:8080/api".
func NewClient(baseURL string, sessions *session.Store) *Client {
	return &Client{
		BaseURL:  baseURL,
		HTTP:     &http.Client{Timeout: 15 * time.Second},
		Sessions: sessions,
	}
}

// Login authenticates and stores the returned token and user in the
// session store. It is the only call that sends no bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (session.User, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return session.User{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return session.User{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return session.User{}, fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return session.User{}, err
	}

	var result struct {
		Token string       `json:"token"`
		User  session.User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return session.User{}, &FormatError{Detail: "invalid login response body"}
	}
	if result.Token == "" {
		return session.User{}, &FormatError{Detail: "login response missing token"}
	}

	c.Sessions.SetSession(result.Token, result.User)
	return result.User, nil
}

// Logout tells the server to revoke the session, then clears the local
// store. The local session is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.send(ctx, http.MethodPost, "/logout", nil, nil)
	c.Sessions.Clear()
	return err
}

// getData issues an authenticated GET and unwraps the data envelope
// into out.
func (c *Client) getData(ctx context.Context, path string, out any) error {
	return c.send(ctx, http.MethodGet, path, nil, out)
}

// send issues an authenticated request. body is marshaled as JSON when
// non-nil; out, when non-nil, receives the response's data field.
func (c *Client) send(ctx context.Context, method, path string, body any, out any) error {
	token, err := c.Sessions.Token()
	if err != nil {
		return err
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return &FormatError{Detail: "invalid JSON body"}
	}
	if envelope.Data == nil {
		return &FormatError{Detail: "response missing data field"}
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &FormatError{Detail: "data field has unexpected shape"}
	}
	return nil
}

// checkStatus maps non-2xx responses to the error taxonomy. 422 becomes
// a ValidationError, everything else a StatusError.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	if resp.StatusCode == http.StatusUnprocessableEntity {
		var body struct {
			Errors map[string][]string `json:"errors"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && len(body.Errors) > 0 {
			return &ValidationError{Fields: body.Errors}
		}
		return &ValidationError{}
	}

	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return &StatusError{Code: resp.StatusCode, Message: body.Error}
}
