package http

import (
	"net/http/httptest"
	"testing"
)

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xRealIP    string
		want       string
	}{
		{
			name:       "direct connection",
			remoteAddr: "203.0.113.7:51234",
			want:       "203.0.113.7",
		},
		{
			name:       "forwarded header from trusted proxy",
			remoteAddr: "10.0.0.2:443",
			xff:        "203.0.113.7, 10.0.0.2",
			want:       "203.0.113.7",
		},
		{
			name:       "forwarded header from untrusted peer is ignored",
			remoteAddr: "203.0.113.9:443",
			xff:        "1.2.3.4",
			want:       "203.0.113.9",
		},
		{
			name:       "malformed forwarded value falls back to peer",
			remoteAddr: "192.168.1.1:443",
			xff:        "not-an-ip",
			want:       "192.168.1.1",
		},
		{
			name:       "x-real-ip from trusted proxy",
			remoteAddr: "127.0.0.1:443",
			xRealIP:    "203.0.113.12",
			want:       "203.0.113.12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/summary", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xRealIP != "" {
				r.Header.Set("X-Real-IP", tt.xRealIP)
			}
			if got := extractClientIP(r, nil); got != tt.want {
				t.Errorf("extractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectSuspiciousRequest(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		userAgent string
		want      bool
	}{
		{name: "normal api request", target: "/api/summary", want: false},
		{name: "path traversal", target: "/api/../etc/passwd", want: true},
		{name: "wordpress probe", target: "/wp-admin/setup.php", want: true},
		{name: "sql injection in query", target: "/api/transactions?q=union%20select", want: true},
		{name: "scanner user agent", target: "/api/state", userAgent: "sqlmap/1.7", want: true},
		{name: "normal browser agent", target: "/api/state", userAgent: "Mozilla/5.0", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			if tt.userAgent != "" {
				r.Header.Set("User-Agent", tt.userAgent)
			}
			metrics := &securityMetrics{}
			if got := detectSuspiciousRequest(r, metrics); got != tt.want {
				t.Errorf("detectSuspiciousRequest(%q) = %v, want %v", tt.target, got, tt.want)
			}
			if tt.want && metrics.suspiciousRequests != 1 {
				t.Errorf("suspiciousRequests = %d, want 1", metrics.suspiciousRequests)
			}
		})
	}
}

func TestRateLimiterAllow(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	metrics := &securityMetrics{}
	for i := 0; i < rateLimitPerWindow; i++ {
		if !rl.allow("203.0.113.7", metrics) {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.allow("203.0.113.7", metrics) {
		t.Error("request past the limit should be denied")
	}
	if metrics.rateLimitHits != 1 {
		t.Errorf("rateLimitHits = %d, want 1", metrics.rateLimitHits)
	}

	// Other clients have their own bucket.
	if !rl.allow("203.0.113.8", metrics) {
		t.Error("different client should be allowed")
	}
}
