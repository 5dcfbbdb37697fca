// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"net/url"
	"os/exec"
	"strings"

	"github.com/colonyops/powerbar/internal/core/catalog"
	"github.com/hay-kot/criterio"
)

// CatalogURI validates that s is a spotify: URI or open.spotify.com link.
func CatalogURI(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("uri is required")
	}
	_, err := catalog.ParseURI(s)
	return err
}

// CatalogURIField returns a criterio validator for catalog URIs.
func CatalogURIField(field, s string) error {
	return criterio.Run(field, s, CatalogURI)
}

// HTTPURL validates an absolute http(s) URL. Empty values are allowed.
func HTTPURL(s string) error {
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("url must include a host")
	}
	return nil
}

// IntRange returns a validator that accepts values in [lo, hi].
func IntRange(lo, hi int) func(int) error {
	return func(n int) error {
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d, got %d", lo, hi, n)
		}
		return nil
	}
}

// Executable validates that the first word of cmd resolves on PATH. Empty
// values are allowed.
func Executable(cmd string) error {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return nil
	}
	if _, err := exec.LookPath(fields[0]); err != nil {
		return fmt.Errorf("executable not found: %s", fields[0])
	}
	return nil
}
