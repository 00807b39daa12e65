package verishot

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-rod/rod/lib/launcher"
)

const fixturePage = `<!DOCTYPE html>
<html>
<head><title>%s</title><style>body { background: #fafafa; font-family: sans-serif; }</style></head>
<body><h1>%s</h1><p>verification fixture page</p></body>
</html>`

// pollingPage never goes network-idle: it fires a cache-busted fetch every
// 100ms, well inside the idle window.
const pollingPage = `<!DOCTYPE html>
<html>
<head><title>busy</title></head>
<body><h1>busy</h1>
<script>setInterval(function () { fetch("/ping?t=" + Date.now()); }, 100);</script>
</body>
</html>`

// newAppServer serves a minimal page for every route. Paths listed in failing
// have their connection closed before any response is written, which the
// browser reports as a navigation error.
func newAppServer(t *testing.T, failing ...string) *httptest.Server {
	t.Helper()

	failed := make(map[string]bool)
	for _, path := range failing {
		failed[path] = true
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if failed[req.URL.Path] {
			hj, ok := w.(http.Hijacker)
			if !ok {
				panic("test server does not support hijacking")
			}
			conn, _, err := hj.Hijack()
			if err == nil {
				conn.Close()
			}
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, fixturePage, req.URL.Path, req.URL.Path)
	}))
	t.Cleanup(server.Close)

	return server
}

func requireBrowser(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	if _, has := launcher.LookPath(); !has {
		t.Skip("no local browser available")
	}
}

func testOptions(server *httptest.Server, outFolder string) *Options {
	options := DefaultOptions()
	if server != nil {
		options.BaseURL = server.URL
	}
	options.OutFolder = outFolder
	options.Timeout = 30
	options.IdleTimeout = 2
	options.Silence = true
	return options
}

func TestRunCapturesAllRoutes(t *testing.T) {
	requireBrowser(t)

	server := newAppServer(t)
	outFolder := filepath.Join(t.TempDir(), "verification", "mobile")

	runner := NewRunnerWithOptions(*testOptions(server, outFolder))
	results, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(results) != len(DefaultRoutes) {
		t.Fatalf("Expected %d results, got %d", len(DefaultRoutes), len(results))
	}

	for _, result := range results {
		if result.Error != nil {
			t.Errorf("Route %s failed: %v", result.Route, result.Error)
			continue
		}
		info, err := os.Stat(filepath.Join(outFolder, Filename(result.Route)))
		if err != nil {
			t.Errorf("Missing screenshot for %s: %v", result.Route, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("Empty screenshot for %s", result.Route)
		}
		if result.StatusCode != http.StatusOK {
			t.Errorf("Expected status 200 for %s, got %d", result.Route, result.StatusCode)
		}
	}
}

func TestRunContinuesPastFailedRoute(t *testing.T) {
	requireBrowser(t)

	server := newAppServer(t, "/login")
	outFolder := t.TempDir()

	runner := NewRunnerWithOptions(*testOptions(server, outFolder))
	results, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	captured := 0
	for _, result := range results {
		if result.Route == "/login" {
			if result.Error == nil {
				t.Error("Expected /login to fail")
			}
			continue
		}
		if result.Error != nil {
			t.Errorf("Route %s failed: %v", result.Route, result.Error)
			continue
		}
		captured++
	}
	if captured != len(DefaultRoutes)-1 {
		t.Errorf("Expected %d captured routes, got %d", len(DefaultRoutes)-1, captured)
	}

	entries, err := os.ReadDir(outFolder)
	if err != nil {
		t.Fatalf("Failed to list output folder: %v", err)
	}
	if len(entries) != len(DefaultRoutes)-1 {
		t.Errorf("Expected %d screenshots, got %d", len(DefaultRoutes)-1, len(entries))
	}
	if _, err := os.Stat(filepath.Join(outFolder, "login.png")); !os.IsNotExist(err) {
		t.Error("Expected no screenshot for the failed /login route")
	}
}

func TestCaptureToleratesIdleTimeout(t *testing.T) {
	requireBrowser(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/ping" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, pollingPage)
	}))
	t.Cleanup(server.Close)

	outFolder := t.TempDir()
	options := testOptions(server, outFolder)
	options.IdleTimeout = 1

	runner := NewRunnerWithOptions(*options)
	results, err := runner.Run(context.Background(), "/observability")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if results[0].Error != nil {
		t.Fatalf("Idle timeout must not fail the capture: %v", results[0].Error)
	}

	info, err := os.Stat(filepath.Join(outFolder, "observability.png"))
	if err != nil {
		t.Fatalf("Missing screenshot for the polling page: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Empty screenshot for the polling page")
	}
}

func TestCaptureUnreachableServer(t *testing.T) {
	requireBrowser(t)

	outFolder := t.TempDir()
	options := testOptions(nil, outFolder)
	options.BaseURL = "http://127.0.0.1:1"
	options.Timeout = 10

	runner := NewRunnerWithOptions(*options)
	results, err := runner.Run(context.Background(), "/landing")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if results[0].Error == nil {
		t.Fatal("Expected navigation error for unreachable server")
	}

	entries, err := os.ReadDir(outFolder)
	if err != nil {
		t.Fatalf("Failed to list output folder: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no screenshots for unreachable server, got %d", len(entries))
	}
}

func TestCaptureDirectUseAndClose(t *testing.T) {
	requireBrowser(t)

	server := newAppServer(t)
	outFolder := t.TempDir()

	runner := NewRunnerWithOptions(*testOptions(server, outFolder))

	result := runner.Capture(context.Background(), "/docs")
	if result.Error != nil {
		t.Fatalf("Capture failed: %v", result.Error)
	}
	if result.SavedPath == "" {
		t.Fatal("Expected Capture to save a screenshot")
	}
	if _, err := os.Stat(result.SavedPath); err != nil {
		t.Fatalf("Missing screenshot at %s: %v", result.SavedPath, err)
	}

	if err := runner.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := runner.Close(); err != nil {
		t.Fatalf("Second close failed: %v", err)
	}
}

func TestRerunReusesOutputPath(t *testing.T) {
	requireBrowser(t)

	server := newAppServer(t)
	outFolder := t.TempDir()

	runner := NewRunnerWithOptions(*testOptions(server, outFolder))

	first, err := runner.Run(context.Background(), "/landing")
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	second, err := runner.Run(context.Background(), "/landing")
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	if first[0].Error != nil || second[0].Error != nil {
		t.Fatalf("Expected both runs to succeed, got %v and %v", first[0].Error, second[0].Error)
	}
	if first[0].SavedPath != second[0].SavedPath {
		t.Errorf("Rerun must reuse the same path, got %s then %s", first[0].SavedPath, second[0].SavedPath)
	}

	entries, err := os.ReadDir(outFolder)
	if err != nil {
		t.Fatalf("Failed to list output folder: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected exactly one screenshot after rerun, got %d", len(entries))
	}
}
