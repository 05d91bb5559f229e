package driven

import "context"

// Upstream defines the interface for probing the proxied TV-client API.
type Upstream interface {
	// Ping checks that the upstream host answers.
	// Returns nil if healthy, otherwise returns an error describing the issue.
	Ping(ctx context.Context) error
}
