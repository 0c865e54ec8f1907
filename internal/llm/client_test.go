package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chatServer returns an httptest server answering every chat completion with
// the given content, and a pointer to the last request body it saw.
func chatServer(t *testing.T, content string) (*httptest.Server, *map[string]any) {
	t.Helper()
	var lastRequest map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lastRequest))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &lastRequest
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(Config{APIKey: "test", Model: "test-model", BaseURL: srv.URL})
}

func TestGeneratePersona(t *testing.T) {
	reply := `{"archetype":"Upbeat tech reviewer","personality_traits":["curious","witty"],` +
		`"tone_of_voice":"Energetic","content_style":"Reviews",` +
		`"content_themes":["gadgets","ai"],"visual_description":"Front-facing portrait"}`
	srv, lastRequest := chatServer(t, reply)
	client := newTestClient(srv)

	persona, err := client.GeneratePersona(context.Background(), "tech reviewer", "Gen Z")
	require.NoError(t, err)

	assert.Equal(t, "Upbeat tech reviewer", persona.Archetype)
	assert.Equal(t, []string{"curious", "witty"}, persona.PersonalityTraits)
	assert.Equal(t, "Front-facing portrait", persona.VisualDescription)

	assert.Equal(t, "test-model", (*lastRequest)["model"])
	assert.InDelta(t, 0.8, (*lastRequest)["temperature"], 0.001)
}

func TestGeneratePersonaFencedJSON(t *testing.T) {
	reply := "Here you go:\n```json\n{\"archetype\":\"Chef\",\"tone_of_voice\":\"Warm\"}\n```"
	srv, _ := chatServer(t, reply)
	client := newTestClient(srv)

	persona, err := client.GeneratePersona(context.Background(), "chef", "foodies")
	require.NoError(t, err)
	assert.Equal(t, "Chef", persona.Archetype)
}

func TestGeneratePersonaMalformed(t *testing.T) {
	srv, _ := chatServer(t, "I cannot answer that.")
	client := newTestClient(srv)

	_, err := client.GeneratePersona(context.Background(), "chef", "foodies")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestGenerateContentPlan(t *testing.T) {
	reply := `{"title":"Morning routine","hook":"Ever wondered?","duration_seconds":8,` +
		`"first_frame_prompt":"Standing in a kitchen","video_prompt":"0-2s: waves","call_to_action":"Follow!"}`
	srv, lastRequest := chatServer(t, reply)
	client := newTestClient(srv)

	plan, err := client.GenerateContentPlan(context.Background(), CharacterProfile{Name: "Ava"}, "morning routines")
	require.NoError(t, err)

	assert.Equal(t, "Morning routine", plan.Title)
	assert.Equal(t, 8, plan.DurationSeconds)
	assert.InDelta(t, 0.7, (*lastRequest)["temperature"], 0.001)
}

func TestGenerateVideoPromptVerbatim(t *testing.T) {
	srv, _ := chatServer(t, "  0-2s: waves at camera, 2-5s: smiles\n")
	client := newTestClient(srv)

	prompt, err := client.GenerateVideoPrompt(context.Background(), CharacterProfile{Name: "Ava"}, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "0-2s: waves at camera, 2-5s: smiles", prompt)
}

func TestDetermineVideoDuration(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  int
	}{
		{"plain integer", "8", 8},
		{"whitespace trimmed", " 12 \n", 12},
		{"non-numeric falls back", "about ten seconds", DefaultDuration},
		{"below range clamps up", "2", MinDuration},
		{"above range clamps down", "60", MaxDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := chatServer(t, tt.reply)
			client := newTestClient(srv)

			duration, err := client.DetermineVideoDuration(context.Background(), "0-2s: waves")
			require.NoError(t, err)
			assert.Equal(t, tt.want, duration)
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
}
