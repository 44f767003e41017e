package scanner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewRobotsChecker_InitializesDefaults(t *testing.T) {
	client := &http.Client{Timeout: 5 * time.Second}
	checker := NewRobotsChecker(client, "testbot")

	if checker.client != client {
		t.Error("client not wired correctly")
	}
	if checker.ttl != time.Hour {
		t.Errorf("ttl = %v, want %v", checker.ttl, time.Hour)
	}
	if checker.userAgent != "testbot" {
		t.Errorf("userAgent = %q, want testbot", checker.userAgent)
	}
}

func TestRobotsChecker_Allowed(t *testing.T) {
	tests := []struct {
		name       string
		robotsTxt  string
		statusCode int
		path       string
		want       bool
	}{
		{
			name:       "disallow specific path",
			robotsTxt:  "User-agent: *\nDisallow: /private/",
			statusCode: http.StatusOK,
			path:       "/private/secret",
			want:       false,
		},
		{
			name:       "allow public path",
			robotsTxt:  "User-agent: *\nDisallow: /private/",
			statusCode: http.StatusOK,
			path:       "/public/page",
			want:       true,
		},
		{
			name:       "agent specific group",
			robotsTxt:  "User-agent: testbot\nDisallow: /\n\nUser-agent: *\nAllow: /",
			statusCode: http.StatusOK,
			path:       "/anything",
			want:       false,
		},
		{
			name:       "404 allows all",
			statusCode: http.StatusNotFound,
			path:       "/any/path",
			want:       true,
		},
		{
			name:       "5xx allows all",
			statusCode: http.StatusServiceUnavailable,
			path:       "/any/path",
			want:       true,
		},
		{
			name:       "403 allows all",
			statusCode: http.StatusForbidden,
			path:       "/any/path",
			want:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/robots.txt" {
					t.Errorf("unexpected request for %s", r.URL.Path)
				}
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.robotsTxt))
			}))
			defer server.Close()

			checker := NewRobotsChecker(server.Client(), "testbot")
			got, err := checker.Allowed(context.Background(), server.URL+tt.path)
			if err != nil {
				t.Fatalf("Allowed() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Allowed(%s) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestRobotsChecker_CachesPerOrigin(t *testing.T) {
	var fetches int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fetches, 1)
		w.Write([]byte("User-agent: *\nDisallow: /x"))
	}))
	defer server.Close()

	checker := NewRobotsChecker(server.Client(), "testbot")
	for _, path := range []string{"/a", "/b", "/x"} {
		if _, err := checker.Allowed(context.Background(), server.URL+path); err != nil {
			t.Fatalf("Allowed() error: %v", err)
		}
	}
	if got := atomic.LoadInt32(&fetches); got != 1 {
		t.Errorf("robots.txt fetched %d times, want 1", got)
	}

	checker.ClearCache()
	if _, err := checker.Allowed(context.Background(), server.URL+"/a"); err != nil {
		t.Fatalf("Allowed() error: %v", err)
	}
	if got := atomic.LoadInt32(&fetches); got != 2 {
		t.Errorf("robots.txt fetched %d times after ClearCache, want 2", got)
	}
}

func TestRobotsChecker_ExpiresEntries(t *testing.T) {
	var fetches int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fetches, 1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	now := time.Now()
	checker := NewRobotsChecker(server.Client(), "testbot")
	checker.now = func() time.Time { return now }

	checker.Allowed(context.Background(), server.URL+"/a")
	now = now.Add(2 * time.Hour)
	checker.Allowed(context.Background(), server.URL+"/a")

	if got := atomic.LoadInt32(&fetches); got != 2 {
		t.Errorf("robots.txt fetched %d times, want 2", got)
	}
}

func TestRobotsChecker_FailsOpen(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	checker := NewRobotsChecker(&http.Client{Timeout: time.Second}, "testbot")
	allowed, err := checker.Allowed(context.Background(), url+"/page")
	if !allowed {
		t.Error("expected unreachable robots.txt to allow the page")
	}
	if err == nil {
		t.Error("expected the fetch error to be returned")
	}
}

func TestRobotsChecker_SkipsNonHTTP(t *testing.T) {
	checker := NewRobotsChecker(&http.Client{}, "testbot")
	for _, page := range []string{"file:///tmp/index.html", "about:blank"} {
		allowed, err := checker.Allowed(context.Background(), page)
		if !allowed || err != nil {
			t.Errorf("Allowed(%q) = %v, %v; want true, nil", page, allowed, err)
		}
	}
}
