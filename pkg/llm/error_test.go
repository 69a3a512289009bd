package llm

import (
	"context"
	"errors"
	"testing"
)

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, false},
		{"plain", errors.New("boom"), false},
		{"rate limited", &ProviderError{Status: 429}, true},
		{"server error", &ProviderError{Status: 503}, true},
		{"client error", &ProviderError{Status: 401}, false},
		{"temporary flag", &ProviderError{Temporary: true}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsTransient(tc.err); got != tc.want {
				t.Fatalf("IsTransient(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestMockAdapterResponses(t *testing.T) {
	a := NewMockAdapterWithResponses(map[string]string{"ping": "pong"}, "")

	got, err := a.Generate(context.Background(), "mock-1", "ping")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "pong" {
		t.Fatalf("got %q, want pong", got)
	}

	got, err = a.Generate(context.Background(), "mock-1", "other")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got == "" {
		t.Fatal("expected default response")
	}
}
