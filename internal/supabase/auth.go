// Package supabase talks to the Supabase Auth (GoTrue) REST endpoints.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// AuthClient handles sign-up, sign-in and sign-out
type AuthClient struct {
	authURL string
	anonKey string
	http    *http.Client
}

// NewAuthClient creates a client for the project at projectURL
func NewAuthClient(projectURL, anonKey string, timeout time.Duration) *AuthClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &AuthClient{
		authURL: strings.TrimRight(projectURL, "/") + "/auth/v1",
		anonKey: anonKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// SignUp creates a new user. When email confirmation is enabled the returned
// session has no access token and only User is set.
func (a *AuthClient) SignUp(ctx context.Context, req SignUpRequest) (*Session, error) {
	respBody, err := a.request(ctx, http.MethodPost, "/signup", req, "")
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if session.AccessToken == "" && session.User == nil {
		var user User
		if err := json.Unmarshal(respBody, &user); err != nil {
			return nil, fmt.Errorf("unmarshal user: %w", err)
		}
		session.User = &user
	}

	return &session, nil
}

// SignInWithPassword authenticates a user with email/password
func (a *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	req := map[string]string{
		"email":    email,
		"password": password,
	}

	respBody, err := a.request(ctx, http.MethodPost, "/token?grant_type=password", req, "")
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if session.AccessToken == "" {
		return nil, fmt.Errorf("sign in response carried no access token")
	}

	return &session, nil
}

// RefreshSession exchanges refreshToken for a new session
func (a *AuthClient) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	req := map[string]string{"refresh_token": refreshToken}

	respBody, err := a.request(ctx, http.MethodPost, "/token?grant_type=refresh_token", req, "")
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if session.AccessToken == "" {
		return nil, fmt.Errorf("refresh response carried no access token")
	}

	return &session, nil
}

// GetUser retrieves the user owning accessToken
func (a *AuthClient) GetUser(ctx context.Context, accessToken string) (*User, error) {
	respBody, err := a.request(ctx, http.MethodGet, "/user", nil, accessToken)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(respBody, &user); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &user, nil
}

// SignOut revokes accessToken
func (a *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	_, err := a.request(ctx, http.MethodPost, "/logout", nil, accessToken)
	return err
}

func (a *AuthClient) request(ctx context.Context, method, path string, in any, accessToken string) ([]byte, error) {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.authURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", a.anonKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	} else {
		req.Header.Set("Authorization", "Bearer "+a.anonKey)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, parseError(respBody, resp.StatusCode)
	}
	return respBody, nil
}

// parseError reads the several error shapes GoTrue uses
func parseError(body []byte, statusCode int) error {
	if !gjson.ValidBytes(body) {
		return &Error{StatusCode: statusCode, Code: "unknown", Message: strings.TrimSpace(string(body))}
	}

	root := gjson.ParseBytes(body)
	msg := ""
	for _, path := range []string{"error_description", "msg", "message", "error"} {
		if r := root.Get(path); r.Type == gjson.String && r.String() != "" {
			msg = r.String()
			break
		}
	}

	code := root.Get("error_code").String()
	if code == "" {
		code = root.Get("error").String()
	}

	return &Error{StatusCode: statusCode, Code: code, Message: msg}
}
