// Package verishot captures full-page verification screenshots of a running
// web app by driving a headless Chromium over a fixed list of routes.
package verishot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"

	"verishot/internal/log"
)

type Runner struct {
	Options *Options

	launcher *launcher.Launcher
	browser  *rod.Browser
}

// Options contains options for the runner
type Options struct {
	BaseURL                 string  // Server hosting the app under verification
	OutFolder               string  // Folder to save screenshots in
	Profile                 Profile // Device emulation profile
	Timeout                 int     // Navigation timeout (seconds)
	IdleTimeout             int     // Network idle wait (seconds)
	Delay                   int     // Settle delay after load (seconds)
	CaptureFull             bool    // Capture the full scrollable page
	Headless                bool    // Run the browser headless
	IgnoreCertificateErrors bool    // Ignore certificate errors
	UserAgent               string  // User agent override (takes precedence over the profile)
	SaveScreenshots         bool    // Save screenshots to OutFolder
	LabelImages             bool    // Imprint route and profile on saved images
	Silence                 bool    // Silence output
	Verbose                 bool    // Verbose logging
}

func init() {
	log.Init("verishot")
}

// DefaultOptions returns options matching the standard mobile verification
// run: every default route captured with iPhone emulation into
// verification/mobile.
func DefaultOptions() *Options {
	return &Options{
		BaseURL:                 "http://localhost:6006",
		OutFolder:               "verification/mobile",
		Profile:                 MobileProfile(),
		Timeout:                 60,
		IdleTimeout:             10,
		Delay:                   0,
		CaptureFull:             true,
		Headless:                true,
		IgnoreCertificateErrors: true,
		SaveScreenshots:         true,
	}
}

// NewRunner returns a new runner with default options
func NewRunner() *Runner {
	return &Runner{Options: DefaultOptions()}
}

// NewRunnerWithOptions returns a new runner with the specified options
func NewRunnerWithOptions(options Options) *Runner {
	SetLogLevel(&options)
	return &Runner{Options: &options}
}

// Run captures every route sequentially and returns one Result per route. A
// failing route records its error in its Result and never aborts the loop;
// the returned error covers setup only (browser launch, output folder
// creation). An empty route list means DefaultRoutes. The browser is closed
// on every exit path.
func (r *Runner) Run(ctx context.Context, routes ...string) ([]Result, error) {
	if len(routes) == 0 {
		routes = DefaultRoutes
	}

	if err := r.start(); err != nil {
		return nil, err
	}
	defer r.Close()

	if r.Options.SaveScreenshots && r.Options.OutFolder != "" {
		if err := os.MkdirAll(r.Options.OutFolder, os.ModePerm); err != nil {
			return nil, fmt.Errorf("creating output folder %s: %w", r.Options.OutFolder, err)
		}
	}

	results := make([]Result, 0, len(routes))
	for _, route := range routes {
		result := r.Capture(ctx, route)
		if result.Error != nil {
			logFailure(result)
		}
		results = append(results, result)
	}

	return results, nil
}

// Target composes the absolute URL for a route.
func (r *Runner) Target(route string) string {
	return strings.TrimRight(r.Options.BaseURL, "/") + NormalizeRoute(route)
}

// start launches the browser once; later calls are no-ops until Close.
func (r *Runner) start() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New().
		Headless(r.Options.Headless).
		NoSandbox(true)

	if path, has := launcher.LookPath(); has {
		l = l.Bin(path)
	}

	browserURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(browserURL)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	if r.Options.IgnoreCertificateErrors {
		if err := browser.IgnoreCertErrors(true); err != nil {
			log.Warnf("Could not ignore certificate errors: %v", err)
		}
	}

	r.launcher = l
	r.browser = browser
	return nil
}

// Close shuts the browser down and cleans up the launcher. Run closes the
// browser on every exit path itself; callers driving Capture directly must
// close the runner when done. Safe to call more than once.
func (r *Runner) Close() error {
	if r.browser != nil {
		if err := r.browser.Close(); err != nil {
			log.Warnf("Error closing browser: %v", err)
		}
		r.browser = nil
	}
	if r.launcher != nil {
		r.launcher.Cleanup()
		r.launcher = nil
	}
	return nil
}

func logFailure(result Result) {
	switch {
	case isConnectionError(result.Error):
		log.Errorf("Could not reach %s: %s", result.TargetURL, rootError(result.Error))
	case isTimeoutError(result.Error):
		log.Errorf("Timed out capturing %s", result.TargetURL)
	default:
		log.Errorf("Error capturing %s: %s", result.TargetURL, rootError(result.Error))
	}
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	errMessage := fullErrorMessage(err)
	return strings.Contains(errMessage, "net::ERR_CONNECTION_REFUSED") ||
		strings.Contains(errMessage, "net::ERR_NAME_NOT_RESOLVED") ||
		strings.Contains(errMessage, "net::ERR_EMPTY_RESPONSE") ||
		strings.Contains(errMessage, "net::ERR_CONNECTION_CLOSED") ||
		strings.Contains(errMessage, "connection refused")
}

func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	errMessage := fullErrorMessage(err)
	return strings.Contains(errMessage, "context deadline exceeded") ||
		strings.Contains(errMessage, "timeout")
}

func fullErrorMessage(err error) string {
	var sb strings.Builder
	for err != nil {
		sb.WriteString(err.Error())
		err = errors.Unwrap(err)
		if err != nil {
			sb.WriteString(" | ")
		}
	}
	return sb.String()
}

func rootError(err error) string {
	rootErr := err
	for {
		unwrapped := errors.Unwrap(rootErr)
		if unwrapped == nil {
			break
		}
		rootErr = unwrapped
	}
	return rootErr.Error()
}

// SetLogLevel sets the log level based on the options
func SetLogLevel(options *Options) {
	if options.Silence {
		log.SetLevel(log.FatalLevel)
	} else if options.Verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}
