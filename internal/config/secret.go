package config

import (
	"os"
	"strings"
)

// CompiledSecret holds the embedded BUILDPCBS_SECRET provided at build time via
// -ldflags. When empty, the application will fall back to reading the
// BUILDPCBS_SECRET environment variable for local development.
var CompiledSecret string

// ResolveSecret returns the compiled secret, or the environment value.
func ResolveSecret() string {
	if compiled := strings.TrimSpace(CompiledSecret); compiled != "" {
		return compiled
	}
	return strings.TrimSpace(os.Getenv("BUILDPCBS_SECRET"))
}
