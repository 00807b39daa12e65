package verishot

import "strings"

// DefaultRoutes is the fixed set of app routes captured when no routes are
// given.
var DefaultRoutes = []string{
	"/",
	"/landing",
	"/docs",
	"/hub",
	"/login",
	"/onboarding",
	"/observability",
	"/tasks",
	"/vibers",
	"/settings/general",
}

// NormalizeRoute trims whitespace and ensures the route starts with a slash.
func NormalizeRoute(route string) string {
	route = strings.TrimSpace(route)
	if route == "" {
		return "/"
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return route
}

// Slug converts a route to its filename stem: slashes become underscores,
// leading and trailing underscores are trimmed, and the root route maps to
// "root".
func Slug(route string) string {
	slug := strings.ReplaceAll(NormalizeRoute(route), "/", "_")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		return "root"
	}
	return slug
}

// Filename returns the screenshot filename derived from a route.
func Filename(route string) string {
	return Slug(route) + ".png"
}
