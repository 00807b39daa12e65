package verishot

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest describes a capture run loaded from a YAML file. Unset fields fall
// back to the defaults from DefaultOptions, so an empty manifest reproduces
// the standard mobile verification run.
type Manifest struct {
	BaseURL   string   `yaml:"base_url"`
	Out       string   `yaml:"out"`
	Profile   string   `yaml:"profile"` // desktop | mobile
	Width     int      `yaml:"width"`
	Height    int      `yaml:"height"`
	Scale     float64  `yaml:"scale"`
	UserAgent string   `yaml:"user_agent"`
	Timeout   int      `yaml:"timeout"` // seconds
	Idle      int      `yaml:"idle"`    // seconds
	Delay     int      `yaml:"delay"`   // seconds
	Full      *bool    `yaml:"full"`
	Label     bool     `yaml:"label"`
	Routes    []string `yaml:"routes"`
}

// LoadManifest reads a YAML run manifest from path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	return &m, nil
}

// Options overlays the manifest on the default options.
func (m *Manifest) Options() (*Options, error) {
	options := DefaultOptions()

	switch m.Profile {
	case "", "mobile":
		options.Profile = MobileProfile()
	case "desktop":
		options.Profile = DesktopProfile()
	default:
		return nil, fmt.Errorf("unknown profile %q (want mobile or desktop)", m.Profile)
	}

	if m.BaseURL != "" {
		options.BaseURL = m.BaseURL
	}
	if m.Out != "" {
		options.OutFolder = m.Out
	}
	if m.Width > 0 {
		options.Profile.Width = m.Width
	}
	if m.Height > 0 {
		options.Profile.Height = m.Height
	}
	if m.Scale > 0 {
		options.Profile.Scale = m.Scale
	}
	if m.UserAgent != "" {
		options.UserAgent = m.UserAgent
	}
	if m.Timeout > 0 {
		options.Timeout = m.Timeout
	}
	if m.Idle > 0 {
		options.IdleTimeout = m.Idle
	}
	if m.Delay > 0 {
		options.Delay = m.Delay
	}
	if m.Full != nil {
		options.CaptureFull = *m.Full
	}
	options.LabelImages = m.Label

	return options, nil
}
