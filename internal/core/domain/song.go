package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a stored record does not exist.
	ErrNotFound = errors.New("domain: not found")

	// ErrInvalidSong indicates a song reference that violates the input
	// contract. It signals a caller bug, not an environmental condition.
	ErrInvalidSong = errors.New("domain: invalid song")
)

// SongRef identifies a song the way a user submits it: by artist and title.
// It carries no validation beyond non-empty strings.
type SongRef struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

// Validate enforces the non-empty contract on both fields.
func (s SongRef) Validate() error {
	if s.Artist == "" || s.Title == "" {
		return fmt.Errorf("%w: artist and title are required", ErrInvalidSong)
	}
	return nil
}

// Suggestion is one playlist recommendation produced by the recommender,
// optionally matched to a playable video.
type Suggestion struct {
	Artist      string `json:"artist"`
	Title       string `json:"title"`
	Reason      string `json:"reason"`
	SearchQuery string `json:"search_query"`
	VideoID     string `json:"video_id,omitempty"`
}

// TasteHistory carries the user's like/dislike feedback into recommendation
// requests. Both lists may be empty.
type TasteHistory struct {
	Liked    []SongRef `json:"liked"`
	Disliked []SongRef `json:"disliked"`
}
