package service

import (
	"context"
	"testing"

	"ai-influencer-studio/backend/internal/models"
	"ai-influencer-studio/backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCreateThenGenerateImageScenario walks the primary user journey: a
// character is created from a concept, then an image is generated for it with
// the freshly minted reference image as seed.
func TestCreateThenGenerateImageScenario(t *testing.T) {
	store := newTestStore(t)
	charRepo := newFakeCharacterRepo()
	mediaRepo := &fakeMediaRepo{}
	gen := &fakeGenerator{}
	prompts := defaultPromptAuthor()

	characters := NewCharacterService(charRepo, gen, prompts, store, logger.New(logger.DefaultConfig()))
	generate := NewGenerateService(mediaRepo, gen, gen, prompts, store)

	character, err := characters.Create(context.Background(), CreateCharacterParams{
		Name:    "Ava",
		Concept: "tech reviewer",
		UserID:  "user-1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, character.ImagePath)
	assert.FileExists(t, store.LocalPath(character.ImagePath))

	media, err := generate.GenerateImage(context.Background(), character, "reviewing a phone", models.ModeTextOnly, "")
	require.NoError(t, err)

	// Create ran one text-to-image; generate ran one reference-seeded call
	// using the character image created in step one
	require.Equal(t, []string{"text_to_image", "ref_to_image"}, gen.callKinds())
	assert.Equal(t, []string{store.LocalPath(character.ImagePath)}, gen.calls[1].references)

	require.Len(t, mediaRepo.rows, 1)
	assert.Equal(t, character.ID, *mediaRepo.rows[0].CharacterID)
	assert.FileExists(t, store.LocalPath(media.FilePath))

	history, err := generate.media.GetAllWithDetails(character.ID, models.MediaTypeImage)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
