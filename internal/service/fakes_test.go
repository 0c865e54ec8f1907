package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ai-influencer-studio/backend/internal/llm"
	"ai-influencer-studio/backend/internal/mediastore"
	"ai-influencer-studio/backend/internal/models"
	"ai-influencer-studio/backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeCharacterRepo is an in-memory CharacterRepository
type fakeCharacterRepo struct {
	characters map[string]*models.Character
	// cascadePaths is returned from DeleteCascade verbatim
	cascadePaths []string
	deleted      []string
}

func newFakeCharacterRepo() *fakeCharacterRepo {
	return &fakeCharacterRepo{characters: make(map[string]*models.Character)}
}

func (r *fakeCharacterRepo) Create(character *models.Character) error {
	r.characters[character.ID] = character
	return nil
}

func (r *fakeCharacterRepo) GetByID(id string) (*models.Character, error) {
	character, ok := r.characters[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return character, nil
}

func (r *fakeCharacterRepo) GetAll(userID string) ([]models.Character, error) {
	var out []models.Character
	for _, c := range r.characters {
		if userID == "" || c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCharacterRepo) DeleteCascade(id string) ([]string, error) {
	if _, ok := r.characters[id]; !ok {
		return nil, gorm.ErrRecordNotFound
	}
	delete(r.characters, id)
	r.deleted = append(r.deleted, id)
	return r.cascadePaths, nil
}

// fakeMediaRepo is an in-memory MediaRepository
type fakeMediaRepo struct {
	rows []*models.Media
}

func (r *fakeMediaRepo) Create(media *models.Media) error {
	media.ID = uint(len(r.rows) + 1)
	r.rows = append(r.rows, media)
	return nil
}

func (r *fakeMediaRepo) GetByPlanID(planID string) ([]models.Media, error) {
	var out []models.Media
	for _, m := range r.rows {
		if m.PlanID != nil && *m.PlanID == planID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMediaRepo) GetAllWithDetails(characterID, mediaType string) ([]models.MediaDetails, error) {
	var out []models.MediaDetails
	for _, m := range r.rows {
		if characterID != "" && (m.CharacterID == nil || *m.CharacterID != characterID) {
			continue
		}
		if mediaType != "" && m.MediaType != mediaType {
			continue
		}
		out = append(out, models.MediaDetails{Media: *m})
	}
	return out, nil
}

// fakePlanRepo is an in-memory ContentPlanRepository
type fakePlanRepo struct {
	plans map[string]*models.ContentPlan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: make(map[string]*models.ContentPlan)}
}

func (r *fakePlanRepo) Create(plan *models.ContentPlan) error {
	r.plans[plan.ID] = plan
	return nil
}

func (r *fakePlanRepo) GetByID(id string) (*models.ContentPlan, error) {
	plan, ok := r.plans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return plan, nil
}

func (r *fakePlanRepo) GetAll(characterID string) ([]models.ContentPlan, error) {
	var out []models.ContentPlan
	for _, p := range r.plans {
		if characterID == "" || p.CharacterID == characterID {
			out = append(out, *p)
		}
	}
	return out, nil
}

type generatorCall struct {
	kind       string
	prompt     string
	references []string
	duration   int
	source     string
}

// fakeGenerator records every image and video generation call and writes a
// placeholder artifact to the destination path
type fakeGenerator struct {
	calls []generatorCall
	err   error
}

func (g *fakeGenerator) produce(destination string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(destination, []byte("artifact"), 0o644); err != nil {
		return "", err
	}
	return destination, nil
}

func (g *fakeGenerator) GenerateFromText(ctx context.Context, prompt, destination string) (string, error) {
	g.calls = append(g.calls, generatorCall{kind: "text_to_image", prompt: prompt})
	return g.produce(destination)
}

func (g *fakeGenerator) GenerateFromReferences(ctx context.Context, prompt string, referencePaths []string, destination string) (string, error) {
	g.calls = append(g.calls, generatorCall{kind: "ref_to_image", prompt: prompt, references: referencePaths})
	return g.produce(destination)
}

func (g *fakeGenerator) GenerateVideo(ctx context.Context, prompt string, durationSeconds int, destination, imageSource string) (string, error) {
	g.calls = append(g.calls, generatorCall{kind: "video", prompt: prompt, duration: durationSeconds, source: imageSource})
	return g.produce(destination)
}

func (g *fakeGenerator) GenerateMotionTransfer(ctx context.Context, faceImagePath, drivingVideoPath, destination string) (string, error) {
	g.calls = append(g.calls, generatorCall{kind: "motion_transfer", source: drivingVideoPath, references: []string{faceImagePath}})
	return g.produce(destination)
}

func (g *fakeGenerator) GenerateMotionControl(ctx context.Context, imagePath, videoPath, prompt, destination string) (string, error) {
	g.calls = append(g.calls, generatorCall{kind: "motion_control", prompt: prompt, source: videoPath, references: []string{imagePath}})
	return g.produce(destination)
}

func (g *fakeGenerator) callKinds() []string {
	kinds := make([]string, len(g.calls))
	for i, c := range g.calls {
		kinds[i] = c.kind
	}
	return kinds
}

// fakePromptAuthor returns canned language model outputs
type fakePromptAuthor struct {
	persona     *llm.Persona
	plan        *llm.PlanDraft
	videoPrompt string
	duration    int
	err         error
}

func defaultPromptAuthor() *fakePromptAuthor {
	return &fakePromptAuthor{
		persona: &llm.Persona{
			Archetype:         "Upbeat reviewer",
			PersonalityTraits: []string{"curious", "witty"},
			ToneOfVoice:       "Energetic",
			ContentStyle:      "Reviews",
			ContentThemes:     []string{"gadgets"},
			VisualDescription: "Front-facing studio portrait",
		},
		plan: &llm.PlanDraft{
			Title:            "Morning routine",
			Hook:             "Ever wondered?",
			DurationSeconds:  8,
			FirstFramePrompt: "Standing in a kitchen",
			VideoPrompt:      "0-2s: waves",
			CallToAction:     "Follow!",
		},
		videoPrompt: "0-2s: waves at camera, 2-5s: smiles",
		duration:    10,
	}
}

func (p *fakePromptAuthor) GeneratePersona(ctx context.Context, concept, audience string) (*llm.Persona, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.persona, nil
}

func (p *fakePromptAuthor) GenerateContentPlan(ctx context.Context, character llm.CharacterProfile, theme string) (*llm.PlanDraft, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.plan, nil
}

func (p *fakePromptAuthor) GenerateVideoPrompt(ctx context.Context, character llm.CharacterProfile, concept string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.videoPrompt, nil
}

func (p *fakePromptAuthor) DetermineVideoDuration(ctx context.Context, videoPrompt string) (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	return p.duration, nil
}

var errGeneration = errors.New("generation failed")

func newTestStore(t *testing.T) *mediastore.Store {
	t.Helper()
	store, err := mediastore.New(t.TempDir(), logger.New(logger.DefaultConfig()))
	require.NoError(t, err)
	return store
}

// seedCharacter creates a character whose reference image exists on disk
func seedCharacter(t *testing.T, repo *fakeCharacterRepo, store *mediastore.Store) *models.Character {
	t.Helper()
	require.NoError(t, os.WriteFile(store.ImageLocalPath("ref.png"), []byte("ref"), 0o644))
	character := &models.Character{
		ID:                "char-1",
		UserID:            "user-1",
		Name:              "Ava",
		VisualDescription: "Front-facing studio portrait",
		PersonalityTraits: []string{"curious"},
		ToneOfVoice:       "Energetic",
		ContentStyle:      "Reviews",
		ImagePath:         store.ImageWebPath("ref.png"),
	}
	require.NoError(t, repo.Create(character))
	return character
}
