// Package env reads loose process settings that sit outside the envconfig structs.
package env

import (
	"os"
	"strings"
)

// Prefix namespaces storefront settings in the environment.
const Prefix = "STOREFRONT_"

// Get returns STOREFRONT_<key>, then <key>, then fallback.
func Get(key, fallback string) string {
	if val := First(Prefix+key, key); val != "" {
		return val
	}
	return fallback
}

// First returns the first non-blank value among keys.
func First(keys ...string) string {
	for _, key := range keys {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			return val
		}
	}
	return ""
}
