package mail

import (
	"context"
	"testing"

	"github.com/e20residents/campaign-backend/internal/config"
)

func TestNewSESSender_DisabledWithoutCredentials(t *testing.T) {
	cases := []config.SESConfig{
		{},
		{AccessKey: "AKIA..."},
		{SecretKey: "secret"},
	}
	for _, cfg := range cases {
		s, err := NewSESSender(context.Background(), cfg)
		if err != nil {
			t.Fatalf("NewSESSender(%+v): %v", cfg, err)
		}
		if s != nil {
			t.Fatalf("NewSESSender(%+v) returned a sender without full credentials", cfg)
		}
	}
}

func TestNewSESSender_EnabledWithCredentials(t *testing.T) {
	s, err := NewSESSender(context.Background(), config.SESConfig{
		Region:    "eu-west-2",
		AccessKey: "AKIAEXAMPLE",
		SecretKey: "secret",
	})
	if err != nil {
		t.Fatalf("NewSESSender: %v", err)
	}
	if s == nil {
		t.Fatalf("expected a configured sender")
	}
}
