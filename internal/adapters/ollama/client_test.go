package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
)

func TestClient_Recommend(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		responseBody string
		wantErr      bool
		wantCount    int
	}{
		{
			name:         "Success",
			status:       http.StatusOK,
			responseBody: `{"message":{"role":"assistant","content":"{\"suggestions\":[{\"artist\":\"Alabama Shakes\",\"title\":\"Sound & Color\",\"reason\":\"matches the mid-tempo soulful fingerprint\",\"search_query\":\"alabama shakes sound and color\"},{\"artist\":\"Michael Kiwanuka\",\"title\":\"Cold Little Heart\",\"reason\":\"similar tonal profile\",\"search_query\":\"michael kiwanuka cold little heart\"}]}"}}`,
			wantErr:      false,
			wantCount:    2,
		},
		{
			name:         "Server error",
			status:       http.StatusInternalServerError,
			responseBody: `{"error":"bad"}`,
			wantErr:      true,
		},
		{
			name:         "Model error field",
			status:       http.StatusOK,
			responseBody: `{"error":"model not loaded"}`,
			wantErr:      true,
		},
		{
			name:         "Non-JSON content",
			status:       http.StatusOK,
			responseBody: `{"message":{"role":"assistant","content":"sorry, here are some songs..."}}`,
			wantErr:      true,
		},
	}

	profile := domain.AggregateProfile{
		Tempo:            domain.TempoProfile{Mean: 112, Std: 8, Range: [2]float64{98, 124}},
		RhythmComplexity: 0.07,
	}
	known := []domain.SongRef{{Artist: "Leon Bridges", Title: "River"}}
	history := domain.TasteHistory{Disliked: []domain.SongRef{{Artist: "X", Title: "Y"}}}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var gotRequest chatRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/chat" {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				if r.Method != http.MethodPost {
					w.WriteHeader(http.StatusMethodNotAllowed)
					return
				}
				if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "")
			suggestions, err := client.Recommend(context.Background(), profile, known, history)

			if (err != nil) != tt.wantErr {
				t.Fatalf("expected err=%v, got %v", tt.wantErr, err)
			}
			if tt.wantErr {
				return
			}
			if len(suggestions) != tt.wantCount {
				t.Fatalf("expected %d suggestions, got %d", tt.wantCount, len(suggestions))
			}
			if suggestions[0].SearchQuery == "" {
				t.Fatal("expected search_query in suggestion")
			}
			if gotRequest.Model != defaultModel {
				t.Fatalf("expected model %q, got %q", defaultModel, gotRequest.Model)
			}
			if gotRequest.Format != "json" {
				t.Fatalf("expected format json, got %q", gotRequest.Format)
			}
			if len(gotRequest.Messages) != 2 {
				t.Fatalf("expected 2 messages, got %d", len(gotRequest.Messages))
			}
			if gotRequest.Messages[0].Role != "system" || gotRequest.Messages[0].Content != systemPrompt {
				t.Fatalf("system prompt mismatch")
			}
			userMsg := gotRequest.Messages[1].Content
			if !strings.Contains(userMsg, `"fingerprint"`) || !strings.Contains(userMsg, `"known_songs"`) {
				t.Fatalf("user message missing prompt sections: %s", userMsg)
			}
		})
	}
}
