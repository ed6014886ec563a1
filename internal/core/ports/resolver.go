package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
)

// ErrNoMatch indicates a search completed successfully but returned zero
// candidate recordings. It is a normal outcome, not a transport failure.
var ErrNoMatch = errors.New("no matching recording")

// NoMatchError provides context for a song that could not be resolved.
type NoMatchError struct {
	Artist string
	Title  string
}

func (e NoMatchError) Error() string {
	if e.Artist == "" && e.Title == "" {
		return ErrNoMatch.Error()
	}
	return fmt.Sprintf("no matching recording for artist %q title %q", e.Artist, e.Title)
}

func (e NoMatchError) Is(target error) bool {
	return target == ErrNoMatch
}

// RecordingResolver maps a song reference to a canonical recording id via an
// external text search. Retry, backoff, and rate limiting live behind this
// interface; callers see only the final outcome.
type RecordingResolver interface {
	ResolveRecording(ctx context.Context, song domain.SongRef) (string, error)
}
