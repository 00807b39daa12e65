package verishot

import "testing"

func TestSlug(t *testing.T) {
	tests := []struct {
		route string
		want  string
	}{
		{"/", "root"},
		{"", "root"},
		{"/landing", "landing"},
		{"landing", "landing"},
		{"/docs/", "docs"},
		{"/settings/general", "settings_general"},
		{"/observability", "observability"},
	}

	for _, tt := range tests {
		if got := Slug(tt.route); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.route, got, tt.want)
		}
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("/settings/general"); got != "settings_general.png" {
		t.Errorf("Expected settings_general.png, got %s", got)
	}
	if got := Filename("/"); got != "root.png" {
		t.Errorf("Expected root.png, got %s", got)
	}
}

func TestNormalizeRoute(t *testing.T) {
	tests := []struct {
		route string
		want  string
	}{
		{"/landing", "/landing"},
		{"landing", "/landing"},
		{"  /docs ", "/docs"},
		{"", "/"},
	}

	for _, tt := range tests {
		if got := NormalizeRoute(tt.route); got != tt.want {
			t.Errorf("NormalizeRoute(%q) = %q, want %q", tt.route, got, tt.want)
		}
	}
}

func TestDefaultRoutes(t *testing.T) {
	if len(DefaultRoutes) != 10 {
		t.Fatalf("Expected 10 default routes, got %d", len(DefaultRoutes))
	}
	if DefaultRoutes[0] != "/" {
		t.Errorf("Expected first route to be /, got %s", DefaultRoutes[0])
	}
	if DefaultRoutes[len(DefaultRoutes)-1] != "/settings/general" {
		t.Errorf("Expected last route to be /settings/general, got %s", DefaultRoutes[len(DefaultRoutes)-1])
	}
}
