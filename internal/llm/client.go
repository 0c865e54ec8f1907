// Package llm is the prompt-authoring client. It drives an OpenRouter-hosted
// chat model through four fixed prompt templates: persona generation, legacy
// content-plan generation, video-prompt generation and duration estimation.
package llm

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultDuration is used when the duration-estimation reply cannot be parsed.
// This is the one place where a malformed model reply is absorbed instead of
// surfaced.
const DefaultDuration = 10

// Duration bounds for the v2 video flow
const (
	MinDuration = 5
	MaxDuration = 15
)

// CharacterProfile is the subset of a character used to build prompts
type CharacterProfile struct {
	Name              string
	PersonalityTraits []string
	ToneOfVoice       string
	ContentStyle      string
}

// Persona is the structured result of persona generation
type Persona struct {
	Archetype         string   `json:"archetype"`
	PersonalityTraits []string `json:"personality_traits"`
	ToneOfVoice       string   `json:"tone_of_voice"`
	ContentStyle      string   `json:"content_style"`
	ContentThemes     []string `json:"content_themes"`
	VisualDescription string   `json:"visual_description"`
}

// PlanDraft is the structured result of legacy content-plan generation
type PlanDraft struct {
	Title            string `json:"title"`
	Hook             string `json:"hook"`
	DurationSeconds  int    `json:"duration_seconds"`
	FirstFramePrompt string `json:"first_frame_prompt"`
	VideoPrompt      string `json:"video_prompt"`
	CallToAction     string `json:"call_to_action"`
}

// Config configures the client
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Client wraps the chat-completion API behind the fixed prompt templates
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a prompt-authoring client against OpenRouter
func NewClient(cfg Config) *Client {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	} else {
		config.BaseURL = "https://openrouter.ai/api/v1"
	}

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
	}
}

func (c *Client) complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// GeneratePersona generates a personality profile for a new character.
// The visual description is written as a front-facing, studio-lit ID-photo
// portrait so every later reference-to-image call stays consistent.
func (c *Client) GeneratePersona(ctx context.Context, concept, audience string) (*Persona, error) {
	userPrompt := fmt.Sprintf(`Create a detailed personality profile for an AI influencer character.

Concept: %s
Target Audience: %s

Generate a JSON object with:
- archetype: Brief character archetype (1 sentence)
- personality_traits: 5-7 personality traits (list)
- tone_of_voice: Communication style (1-2 words)
- content_style: Type of content they create (1 word)
- content_themes: 3-5 content topics they cover (list)
- visual_description: Detailed physical appearance for AI image generation. IMPORTANT: This should be a FRONT-FACING ID PHOTO style portrait (like passport or professional headshot). Include: exact facial features, hair style/color, clothing style, expression (neutral/professional), lighting (studio), background (plain). Make it very detailed for consistent character representation.

Return only valid JSON.`, concept, audience)

	content, err := c.complete(ctx, "You are a character design expert. Always return valid JSON.", userPrompt, 0.8)
	if err != nil {
		return nil, err
	}

	var persona Persona
	if err := parseJSONReply(content, &persona); err != nil {
		return nil, err
	}
	return &persona, nil
}

// GenerateContentPlan generates a legacy single-video content plan
func (c *Client) GenerateContentPlan(ctx context.Context, character CharacterProfile, theme string) (*PlanDraft, error) {
	userPrompt := fmt.Sprintf(`Create a SHORT-FORM VIDEO content plan for this character:

Character: %s
Personality: %s
Tone: %s
Style: %s

Theme: %s

IMPORTANT: This is for ONE single video (not multiple scenes).
The video should be 5-10 seconds long for short-form content.

Generate a JSON object with EXACTLY these fields:
- title: Content title (catchy, engaging)
- hook: Opening hook (1-2 sentences to grab attention)
- duration_seconds: Total video duration in seconds (5-10)
- first_frame_prompt: Detailed description of the STARTING IMAGE for this video. This will be used for img2img generation from the character's ID photo. Describe: exact pose, camera angle, setting, lighting, what the character is doing in the first frame. Be very specific.
- video_prompt: Second-by-second description of the ENTIRE video. Format: "0-2s: [action], 2-5s: [action], 5-8s: [action], 8-10s: [action]". Be very specific about movements, expressions, camera angles, and transitions.
- call_to_action: Ending CTA (1 sentence)

DO NOT include "scenes" - this is a SINGLE video with one continuous flow.
Return only valid JSON.`,
		character.Name,
		strings.Join(character.PersonalityTraits, ", "),
		character.ToneOfVoice,
		character.ContentStyle,
		theme,
	)

	content, err := c.complete(ctx, "You are a content strategist specializing in short-form video. Always return valid JSON.", userPrompt, 0.7)
	if err != nil {
		return nil, err
	}

	var plan PlanDraft
	if err := parseJSONReply(content, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// GenerateVideoPrompt generates a free-text second-by-second video prompt.
// The reply is returned verbatim (trimmed), no JSON parsing.
func (c *Client) GenerateVideoPrompt(ctx context.Context, character CharacterProfile, concept string) (string, error) {
	userPrompt := fmt.Sprintf(`Create a detailed second-by-second video prompt for a short-form video.

Character: %s
Personality: %s
Tone: %s
Style: %s

Concept: %s

Generate a detailed video prompt describing the ENTIRE video second-by-second.
The video can be 5-15 seconds long.
Format: "0-2s: [action], 2-5s: [action], ..."
Return ONLY the video prompt text, no JSON, no markdown.`,
		character.Name,
		strings.Join(character.PersonalityTraits, ", "),
		character.ToneOfVoice,
		character.ContentStyle,
		concept,
	)

	content, err := c.complete(ctx, "You are a video director specializing in short-form content. Return only the prompt text.", userPrompt, 0.7)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// DetermineVideoDuration analyzes a video prompt and returns the optimal
// duration in seconds, clamped to [MinDuration, MaxDuration]. A reply that
// fails to parse as an integer falls back to DefaultDuration.
func (c *Client) DetermineVideoDuration(ctx context.Context, videoPrompt string) (int, error) {
	userPrompt := fmt.Sprintf(`Analyze this video prompt and determine the optimal duration in seconds (5-15).

Video prompt:
%s

Rules:
- Simple actions (waving, smiling, posing): 5s
- Medium actions (walking, talking, demonstrating): 8-10s
- Complex sequences (multiple scenes, storytelling): 12-15s

Return ONLY a single integer (5-15), nothing else.`, videoPrompt)

	content, err := c.complete(ctx, "Return only a single integer.", userPrompt, 0.3)
	if err != nil {
		return 0, err
	}

	duration, err := strconv.Atoi(strings.TrimSpace(content))
	if err != nil {
		return DefaultDuration, nil
	}
	if duration < MinDuration {
		duration = MinDuration
	}
	if duration > MaxDuration {
		duration = MaxDuration
	}
	return duration, nil
}
