package httpapi

import (
	"testing"
	"time"
)

func TestSetMaxBodyBytes_DefaultWhenNonPositive(t *testing.T) {
	SetMaxBodyBytes(-1)
	if maxBodyBytes != 20<<20 {
		t.Fatalf("expected default 20MiB, got %d", maxBodyBytes)
	}
	SetMaxBodyBytes(0)
	if maxBodyBytes != 20<<20 {
		t.Fatalf("expected default 20MiB on zero, got %d", maxBodyBytes)
	}
}

func TestSetMaxBodyBytes_PositiveSetsValue(t *testing.T) {
	defer SetMaxBodyBytes(0)
	SetMaxBodyBytes(1234)
	if maxBodyBytes != 1234 {
		t.Fatalf("expected 1234, got %d", maxBodyBytes)
	}
}

func TestSetCaptionTimeoutSeconds_NormalizesNegativeToZero(t *testing.T) {
	defer SetCaptionTimeoutSeconds(0)
	SetCaptionTimeoutSeconds(-5)
	if captionTimeout != 0 {
		t.Fatalf("expected 0, got %v", captionTimeout)
	}
	SetCaptionTimeoutSeconds(3)
	if captionTimeout != 3*time.Second {
		t.Fatalf("expected 3s, got %v", captionTimeout)
	}
}

func TestSetCORSOptions_KeepsDefaultMethods(t *testing.T) {
	defer SetCORSOptions(true, []string{"*"}, nil, nil)
	SetCORSOptions(true, []string{"https://app.example"}, nil, nil)
	if len(corsAllowedMethods) == 0 || len(corsAllowedHeaders) == 0 {
		t.Fatalf("defaults dropped: %v %v", corsAllowedMethods, corsAllowedHeaders)
	}
	if corsAllowedOrigins[0] != "https://app.example" {
		t.Fatalf("origins=%v", corsAllowedOrigins)
	}
}
