package verishot

import (
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

// mobileUserAgent is the iPhone Safari user agent sent by the mobile profile.
const mobileUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 14_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0.3 Mobile/15E148 Safari/604.1"

// Profile describes the device emulation applied to a page before capture.
type Profile struct {
	Name      string
	Width     int
	Height    int
	Scale     float64 // device pixel ratio
	Mobile    bool
	Touch     bool
	UserAgent string
}

// DesktopProfile returns a tall desktop viewport sized to capture the full
// page design without mobile emulation.
func DesktopProfile() Profile {
	return Profile{
		Name:   "desktop",
		Width:  1440,
		Height: 3000,
		Scale:  1,
	}
}

// MobileProfile returns an emulated iPhone 12 Pro.
func MobileProfile() Profile {
	return Profile{
		Name:      "mobile",
		Width:     390,
		Height:    844,
		Scale:     3,
		Mobile:    true,
		Touch:     true,
		UserAgent: mobileUserAgent,
	}
}

// Metrics returns the viewport override the profile requests from the
// browser. A zero scale falls back to 1.
func (p Profile) Metrics() *proto.EmulationSetDeviceMetricsOverride {
	scale := p.Scale
	if scale <= 0 {
		scale = 1
	}
	return &proto.EmulationSetDeviceMetricsOverride{
		Width:             p.Width,
		Height:            p.Height,
		DeviceScaleFactor: scale,
		Mobile:            p.Mobile,
	}
}

// TouchEmulation returns the touch override the profile requests from the
// browser.
func (p Profile) TouchEmulation() *proto.EmulationSetTouchEmulationEnabled {
	return &proto.EmulationSetTouchEmulationEnabled{
		Enabled:        p.Touch,
		MaxTouchPoints: gson.Int(5),
	}
}

// apply configures the page with the profile's viewport, touch capability and
// user agent. A non-empty userAgent argument takes precedence over the
// profile's own.
func (p Profile) apply(page *rod.Page, userAgent string) error {
	if p.Width > 0 && p.Height > 0 {
		if err := page.SetViewport(p.Metrics()); err != nil {
			return err
		}
	}

	if p.Touch {
		if err := p.TouchEmulation().Call(page); err != nil {
			return err
		}
	}

	if userAgent == "" {
		userAgent = p.UserAgent
	}
	if userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: userAgent}); err != nil {
			return err
		}
	}

	return nil
}
