package github

import (
	"context"
	"testing"
)

func TestResolveAuthToken(t *testing.T) {
	t.Run("explicit token wins", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "env-token")
		tok, src, err := ResolveAuthToken(context.Background(), "  explicit-token ")
		if err != nil {
			t.Fatalf("ResolveAuthToken failed: %v", err)
		}
		if tok != "explicit-token" || src != AuthTokenSourceExplicit {
			t.Fatalf("got %q from %q, want explicit-token from explicit", tok, src)
		}
	})

	t.Run("env token used when no explicit token", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "env-token")
		tok, src, err := ResolveAuthToken(context.Background(), "")
		if err != nil {
			t.Fatalf("ResolveAuthToken failed: %v", err)
		}
		if tok != "env-token" || src != AuthTokenSourceEnv {
			t.Fatalf("got %q from %q, want env-token from env", tok, src)
		}
	})
}

func TestNewClient(t *testing.T) {
	t.Run("nil context rejected", func(t *testing.T) {
		//nolint:staticcheck // deliberately passing nil
		if _, err := NewClient(nil, "tok"); err == nil {
			t.Fatal("expected error for nil context")
		}
	})

	t.Run("base URL override", func(t *testing.T) {
		c, err := NewClient(context.Background(), "", WithBaseURL("http://127.0.0.1:9999/api/v3"))
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		if got := c.Client.BaseURL.String(); got != "http://127.0.0.1:9999/api/v3/" {
			t.Fatalf("base URL = %q", got)
		}
	})

	t.Run("invalid base URL rejected", func(t *testing.T) {
		if _, err := NewClient(context.Background(), "", WithBaseURL("://bad")); err == nil {
			t.Fatal("expected error for invalid base URL")
		}
	})
}
