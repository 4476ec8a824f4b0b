package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// storedSession is the session persisted between runs
type storedSession struct {
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
}

// sessionFile keeps the signed-in session on disk. It is the CLI's token
// source and clears itself when the API rejects the token.
type sessionFile struct {
	path string
	out  io.Writer
	now  func() time.Time
}

func newSessionFile(path string, out io.Writer) *sessionFile {
	return &sessionFile{path: path, out: out, now: time.Now}
}

// Load returns the stored session, or nil when there is none
func (f *sessionFile) Load() (*storedSession, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var s storedSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	return &s, nil
}

// Save replaces the stored session
func (f *sessionFile) Save(s storedSession) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}

// Remove forgets the stored session
func (f *sessionFile) Remove() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Token returns the stored access token, or "" when signed out or expired
func (f *sessionFile) Token(ctx context.Context) (string, error) {
	s, err := f.Load()
	if err != nil || s == nil {
		return "", err
	}
	if !s.ExpiresAt.IsZero() && !f.now().Before(s.ExpiresAt) {
		return "", nil
	}
	return s.AccessToken, nil
}

// InvalidateSession deletes the rejected session and points at signin
func (f *sessionFile) InvalidateSession(ctx context.Context) {
	if err := f.Remove(); err != nil {
		fmt.Fprintf(f.out, "warning: could not remove %s: %v\n", f.path, err)
	}
	fmt.Fprintln(f.out, "Your session has expired. Run `lexictl signin` to sign in again.")
}
