package middleware

import "strings"

// AllowOrigin reports whether a browser origin may call the API: one of
// origins (trailing slashes ignored) or any *.vercel.app deployment.
func AllowOrigin(origins []string) func(origin string) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(o, "/")] = true
	}
	return func(origin string) bool {
		return allowed[origin] || strings.HasSuffix(origin, ".vercel.app")
	}
}
