package ports

import "context"

// MediaFinder maps a free-text query to a playable media identifier.
// Absence is reported as ErrNotFound and treated downstream as "not available".
type MediaFinder interface {
	FindMedia(ctx context.Context, query string) (string, error)
}
