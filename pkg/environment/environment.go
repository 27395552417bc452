/*
Package environment decides whether the application runs in production
mode. Production mode resolves folders directly against Google Drive,
while development mode serves mirrored copies from the local cache.
*/
package environment

import (
	"os"
	"slices"
	"strings"
)

type LookupFunc func(key string) string

/*
IsProduction reports production mode. An explicit override of "true" or
"false" wins. Otherwise hosting signals are checked: VERCEL=1, a non-empty
VERCEL_URL, VERCEL_ENV of production or preview, or DEBUG set to false.
*/
func IsProduction(override string, lookup LookupFunc) bool {
	switch strings.ToLower(strings.TrimSpace(override)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}

	if lookup == nil {
		lookup = os.Getenv
	}

	if lookup("VERCEL") == "1" || lookup("VERCEL_URL") != "" {
		return true
	}

	if slices.Contains([]string{"production", "preview"}, lookup("VERCEL_ENV")) {
		return true
	}

	return !isTruthy(lookup("DEBUG"), true)
}

func isTruthy(value string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}

	return def
}
