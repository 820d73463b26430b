// Package instance names the running process for logs.
package instance

import "github.com/angelmondragon/storefront-bff/pkg/env"

// ID returns the first non-empty identifier from the environment, or "local".
func ID() string {
	if id := env.First(env.Prefix+"INSTANCE_ID", "DYNO", "HOSTNAME"); id != "" {
		return id
	}
	return "local"
}
