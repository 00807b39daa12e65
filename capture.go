package verishot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"verishot/internal/log"
)

// networkIdleWindow is the trailing quiet period that counts as network idle.
const networkIdleWindow = 500 * time.Millisecond

// Result contains the outcome of a single route capture.
type Result struct {
	Route      string
	TargetURL  string
	FinalURL   string
	StatusCode int
	Image      []byte
	SavedPath  string
	Error      error
}

// Capture navigates to a single route on a fresh page in the shared browser
// and takes a full-page screenshot. All failures are reported through
// Result.Error so callers can keep iterating over routes. The browser is
// launched on first use; callers not going through Run must Close the runner
// when done.
func (r *Runner) Capture(ctx context.Context, route string) Result {
	result := Result{Route: NormalizeRoute(route)}
	result.TargetURL = r.Target(route)

	if err := r.start(); err != nil {
		result.Error = err
		return result
	}

	log.Infof("Capturing %s", result.TargetURL)

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		result.Error = fmt.Errorf("opening page: %w", err)
		return result
	}
	defer page.Close()

	if err := r.Options.Profile.apply(page, r.Options.UserAgent); err != nil {
		result.Error = fmt.Errorf("applying %s profile: %w", r.Options.Profile.Name, err)
		return result
	}

	navCtx, cancelNav := context.WithTimeout(ctx, time.Duration(r.Options.Timeout)*time.Second)
	defer cancelNav()

	var response proto.NetworkResponseReceived
	waitResponse := page.Context(navCtx).WaitEvent(&response)

	if err := page.Context(navCtx).Navigate(result.TargetURL); err != nil {
		result.Error = fmt.Errorf("navigating to %s: %w", result.TargetURL, err)
		return result
	}

	waitResponse()

	if err := page.Context(navCtx).WaitLoad(); err != nil {
		result.Error = fmt.Errorf("loading %s: %w", result.TargetURL, err)
		return result
	}

	if response.Response != nil {
		result.StatusCode = response.Response.Status
	}

	r.waitNetworkIdle(ctx, page, result.Route)

	if r.Options.Delay > 0 {
		time.Sleep(time.Duration(r.Options.Delay) * time.Second)
	}

	if info, err := page.Info(); err == nil {
		result.FinalURL = info.URL
	}

	img, err := page.Screenshot(r.Options.CaptureFull, nil)
	if err != nil {
		result.Error = fmt.Errorf("capturing screenshot for %s: %w", result.TargetURL, err)
		return result
	}
	result.Image = img

	if r.Options.LabelImages {
		labeled, err := AddLabel(result.Image, result.Route+" ("+r.Options.Profile.Name+")")
		if err != nil {
			log.Warnf("Could not label screenshot for %s: %v", result.Route, err)
		} else {
			result.Image = labeled
		}
	}

	if r.Options.SaveScreenshots {
		path, err := result.WriteToFolder(r.Options.OutFolder)
		if err != nil {
			result.Error = fmt.Errorf("saving screenshot for %s: %w", result.TargetURL, err)
			return result
		}
		result.SavedPath = path
		log.Resultf("Saved screenshot to %s", path)
	}

	return result
}

// waitNetworkIdle waits until no requests have been in flight for
// networkIdleWindow, bounded by the idle timeout. Pages that keep polling
// never settle, so the timeout only logs a warning.
func (r *Runner) waitNetworkIdle(ctx context.Context, page *rod.Page, route string) {
	if r.Options.IdleTimeout <= 0 {
		return
	}

	idleCtx, cancel := context.WithTimeout(ctx, time.Duration(r.Options.IdleTimeout)*time.Second)
	defer cancel()

	wait := page.Context(idleCtx).WaitRequestIdle(networkIdleWindow, nil, nil, nil)
	wait()

	if idleCtx.Err() != nil {
		log.Warnf("Network idle timeout for %s, proceeding", route)
	}
}

// WriteToFolder saves the image under folder using the route-derived
// filename. Empty images are skipped without error.
func (result Result) WriteToFolder(folder string) (string, error) {
	if len(result.Image) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(folder, os.ModePerm); err != nil {
		return "", err
	}

	return result.WriteFile(filepath.Join(folder, Filename(result.Route)))
}

// WriteFile saves the image to the exact path, overwriting any previous file.
func (result Result) WriteFile(path string) (string, error) {
	if len(result.Image) == 0 {
		return "", nil
	}

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := file.Write(result.Image); err != nil {
		return "", err
	}

	return path, nil
}
