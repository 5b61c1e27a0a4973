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
	if cfg.IPBurst != 5 {
		t.Errorf("IPBurst = %d, want 5", cfg.IPBurst)
	}
	if cfg.MaxFailedAttempts != 5 {
		t.Errorf("MaxFailedAttempts = %d, want 5", cfg.MaxFailedAttempts)
	}
	if cfg.LockoutDuration != 15*time.Minute {
		t.Errorf("LockoutDuration = %v, want 15m", cfg.LockoutDuration)
	}
	if cfg.AttemptWindow != 15*time.Minute {
		t.Errorf("AttemptWindow = %v, want 15m", cfg.AttemptWindow)
	}
}

func TestNewLoginProtectionDefaultValues(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{})

	if lp.maxFailedAttempts != 5 {
		t.Errorf("maxFailedAttempts = %d, want 5 (default)", lp.maxFailedAttempts)
	}
	if lp.lockoutDuration != 15*time.Minute {
		t.Errorf("lockoutDuration = %v, want 15m (default)", lp.lockoutDuration)
	}
}

func TestLoginProtectionIsAccountLocked(t *testing.T) {
	cfg := testLoginProtectionConfig(3, 1*time.Second, 1*time.Minute)
	lp := NewLoginProtection(cfg)
	login := "testuser"

	locked, _ := lp.IsAccountLocked(login)
	if locked {
		t.Error("Account should not be locked initially")
	}

	for i := 0; i < cfg.MaxFailedAttempts; i++ {
		lp.RecordFailedAttempt(login)
	}

	locked, remaining := lp.IsAccountLocked(login)
	if !locked {
		t.Error("Account should be locked after max failed attempts")
	}
	if remaining <= 0 {
		t.Errorf("remaining = %v, want > 0", remaining)
	}
}

func TestLoginProtectionSuccessfulLoginResets(t *testing.T) {
	cfg := testLoginProtectionConfig(3, 1*time.Minute, 1*time.Minute)
	lp := NewLoginProtection(cfg)
	login := "testuser"

	lp.RecordFailedAttempt(login)
	lp.RecordFailedAttempt(login)
	if got := lp.GetRemainingAttempts(login); got != 1 {
		t.Errorf("GetRemainingAttempts = %d, want 1", got)
	}

	lp.RecordSuccessfulLogin(login)
	if got := lp.GetRemainingAttempts(login); got != cfg.MaxFailedAttempts {
		t.Errorf("GetRemainingAttempts = %d, want %d after reset", got, cfg.MaxFailedAttempts)
	}

	locked, _ := lp.IsAccountLocked(login)
	if locked {
		t.Error("Account should not be locked after successful login")
	}
}

func TestLoginProtectionExponentialBackoff(t *testing.T) {
	cfg := testLoginProtectionConfig(2, 1*time.Second, 1*time.Minute)
	lp := NewLoginProtection(cfg)
	login := "testuser"

	// First lockout uses the base duration
	lp.RecordFailedAttempt(login)
	locked, duration := lp.RecordFailedAttempt(login)
	if !locked {
		t.Fatal("Account should be locked")
	}
	if duration != cfg.LockoutDuration {
		t.Errorf("first lockout duration = %v, want %v", duration, cfg.LockoutDuration)
	}

	// Second lockout doubles
	lp.RecordFailedAttempt(login)
	locked, duration = lp.RecordFailedAttempt(login)
	if !locked {
		t.Fatal("Account should be locked again")
	}
	if duration != 2*cfg.LockoutDuration {
		t.Errorf("second lockout duration = %v, want %v", duration, 2*cfg.LockoutDuration)
	}
}

func TestLoginProtectionMiddleware(t *testing.T) {
	// Tiny limits so the rate is exceeded quickly
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       1,
		IPBurst:           1,
		MaxFailedAttempts: 5,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})

	handler := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// GET requests are never rate limited
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %d: status = %d, want 200", i, rec.Code)
		}
	}

	// First POST passes, the burst is then spent
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first POST: status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second POST: status = %d, want 429", rec.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		realIP     string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{"x-real-ip wins", "1.2.3.4", "5.6.7.8", "9.9.9.9:80", "1.2.3.4"},
		{"x-forwarded-for next", "", "5.6.7.8", "9.9.9.9:80", "5.6.7.8"},
		{"remote addr fallback", "", "", "9.9.9.9:80", "9.9.9.9:80"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/login", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
