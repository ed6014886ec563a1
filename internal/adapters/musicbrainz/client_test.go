package musicbrainz

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
	"github.com/soundprint-labs/soundprint/internal/core/ports"
)

// testConfig keeps the retry policy shape but collapses all delays so tests
// run in milliseconds.
func testConfig() Config {
	return Config{
		MaxAttempts:    3,
		RateFloor:      time.Millisecond,
		PerCallTimeout: time.Second,
		InitialBackoff: time.Millisecond,
	}
}

const matchBody = `{"recordings":[{"id":"rec-123","title":"Sinnerman","score":100}]}`

func TestResolveRecording(t *testing.T) {
	song := domain.SongRef{Artist: "Nina Simone", Title: "Sinnerman"}

	tests := []struct {
		name         string
		statuses     []int
		body         string
		wantID       string
		wantErr      bool
		wantNoMatch  bool
		wantAttempts int
	}{
		{
			name:         "resolves on first attempt",
			statuses:     []int{http.StatusOK},
			body:         matchBody,
			wantID:       "rec-123",
			wantAttempts: 1,
		},
		{
			name:         "recovers from two rate limits",
			statuses:     []int{http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusOK},
			body:         matchBody,
			wantID:       "rec-123",
			wantAttempts: 3,
		},
		{
			name:         "rate limited on every allowed attempt",
			statuses:     []int{http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusTooManyRequests},
			wantErr:      true,
			wantAttempts: 3,
		},
		{
			name:         "server errors are retried",
			statuses:     []int{http.StatusInternalServerError, http.StatusOK},
			body:         matchBody,
			wantID:       "rec-123",
			wantAttempts: 2,
		},
		{
			name:         "empty result set is a miss, not a retry",
			statuses:     []int{http.StatusOK},
			body:         `{"recordings":[]}`,
			wantErr:      true,
			wantNoMatch:  true,
			wantAttempts: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			attempts := 0
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				status := tc.statuses[len(tc.statuses)-1]
				if attempts < len(tc.statuses) {
					status = tc.statuses[attempts]
				}
				attempts++
				w.WriteHeader(status)
				if status == http.StatusOK {
					_, _ = w.Write([]byte(tc.body))
				}
			}))
			defer ts.Close()

			client := NewClient(ts.URL, testConfig())
			id, err := client.ResolveRecording(context.Background(), song)

			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tc.wantNoMatch && !errors.Is(err, ports.ErrNoMatch) {
					t.Fatalf("err = %v, want ErrNoMatch", err)
				}
				if !tc.wantNoMatch && errors.Is(err, ports.ErrNoMatch) {
					t.Fatalf("exhausted retries must not masquerade as a clean miss: %v", err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if id != tc.wantID {
					t.Errorf("id = %q, want %q", id, tc.wantID)
				}
			}
			if attempts != tc.wantAttempts {
				t.Errorf("attempts = %d, want %d", attempts, tc.wantAttempts)
			}
		})
	}
}

func TestResolveRecordingTakesFirstCandidate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"recordings":[{"id":"first"},{"id":"second"},{"id":"third"}]}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, testConfig())
	id, err := client.ResolveRecording(context.Background(), domain.SongRef{Artist: "A", Title: "B"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "first" {
		t.Errorf("id = %q, want first (library-side ranking decides)", id)
	}
}

func TestResolveRecordingSendsLuceneQuery(t *testing.T) {
	var gotQuery, gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(matchBody))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, testConfig())
	if _, err := client.ResolveRecording(context.Background(), domain.SongRef{Artist: "Nina Simone", Title: "Sinnerman"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `artist:"Nina Simone" AND recording:"Sinnerman"`
	if gotQuery != want {
		t.Errorf("query = %q, want %q", gotQuery, want)
	}
	if gotUA == "" {
		t.Error("User-Agent header not set; MusicBrainz rejects anonymous clients")
	}
}

func TestResolveRecordingHonorsContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	cfg := testConfig()
	cfg.InitialBackoff = time.Minute // retry would stall without cancellation

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClient(ts.URL, cfg)
	start := time.Now()
	_, err := client.ResolveRecording(ctx, domain.SongRef{Artist: "A", Title: "B"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("cancellation took %v, backoff ignored the context", elapsed)
	}
}
