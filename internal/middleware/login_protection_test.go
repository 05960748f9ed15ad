// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// testLoginProtectionConfig returns a config suitable for fast testing.
func testLoginProtectionConfig(maxAttempts int, lockoutDuration, attemptWindow time.Duration) LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       10,
		IPBurst:           100,
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   lockoutDuration,
		AttemptWindow:     attemptWindow,
	}
}

func TestDefaultLoginProtectionConfig(t *testing.T) {
	cfg := DefaultLoginProtectionConfig()

	if cfg.IPRateLimit != 0.5 {
		t.Errorf("IPRateLimit = %v, want 0.5", cfg.IPRateLimit)
	}
	if cfg.MaxFailedAttempts != 5 {
		t.Errorf("MaxFailedAttempts = %d, want 5", cfg.MaxFailedAttempts)
	}
	if cfg.LockoutDuration != 15*time.Minute {
		t.Errorf("LockoutDuration = %v, want 15m", cfg.LockoutDuration)
	}
}

func TestAccountLockout(t *testing.T) {
	lp := NewLoginProtection(testLoginProtectionConfig(3, time.Minute, time.Minute))
	email := "admin@89t.test"

	// First two failures do not lock
	if locked, _ := lp.RecordFailedAttempt(email); locked {
		t.Error("account locked after 1 attempt")
	}
	if locked, _ := lp.RecordFailedAttempt(email); locked {
		t.Error("account locked after 2 attempts")
	}

	// Third failure locks
	locked, duration := lp.RecordFailedAttempt(email)
	if !locked {
		t.Fatal("account not locked after 3 attempts")
	}
	if duration != time.Minute {
		t.Errorf("lock duration = %v, want 1m", duration)
	}

	isLocked, remaining := lp.IsAccountLocked(email)
	if !isLocked {
		t.Error("IsAccountLocked() = false, want true")
	}
	if remaining <= 0 {
		t.Errorf("remaining = %v, want > 0", remaining)
	}
}

func TestSuccessfulLoginClearsAttempts(t *testing.T) {
	lp := NewLoginProtection(testLoginProtectionConfig(3, time.Minute, time.Minute))
	email := "admin@89t.test"

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	if got := lp.GetRemainingAttempts(email); got != 1 {
		t.Errorf("GetRemainingAttempts() = %d, want 1", got)
	}

	lp.RecordSuccessfulLogin(email)
	if got := lp.GetRemainingAttempts(email); got != 3 {
		t.Errorf("GetRemainingAttempts() after success = %d, want 3", got)
	}
}

func TestLockoutBackoffDoubles(t *testing.T) {
	lp := NewLoginProtection(testLoginProtectionConfig(2, time.Minute, time.Hour))
	email := "admin@89t.test"

	lp.RecordFailedAttempt(email)
	if locked, d := lp.RecordFailedAttempt(email); !locked || d != time.Minute {
		t.Fatalf("first lockout = (%v, %v), want (true, 1m)", locked, d)
	}

	// Second lockout doubles the duration
	lp.RecordFailedAttempt(email)
	if locked, d := lp.RecordFailedAttempt(email); !locked || d != 2*time.Minute {
		t.Fatalf("second lockout = (%v, %v), want (true, 2m)", locked, d)
	}
}

func TestLoginProtectionMiddleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit: 1,
		IPBurst:     2,
	})

	handler := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("GET requests are not rate limited", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("GET status = %d, want 200", rec.Code)
			}
		}
	})

	t.Run("POST bursts beyond the limit get 429", func(t *testing.T) {
		var last int
		for i := 0; i < 5; i++ {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
			req.RemoteAddr = "10.0.0.2:1234"
			handler.ServeHTTP(rec, req)
			last = rec.Code
		}
		if last != http.StatusTooManyRequests {
			t.Errorf("final POST status = %d, want 429", last)
		}
	})
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		realIP     string
		forwarded  string
		want       string
	}{
		{"remote addr only", "192.0.2.1:5000", "", "", "192.0.2.1:5000"},
		{"x-real-ip wins", "192.0.2.1:5000", "203.0.113.7", "", "203.0.113.7"},
		{"x-forwarded-for fallback", "192.0.2.1:5000", "", "203.0.113.9", "203.0.113.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
