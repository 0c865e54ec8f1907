package service

import (
	"context"
	"os"
	"testing"

	"ai-influencer-studio/backend/internal/models"
	"ai-influencer-studio/backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCharacterWithoutUpload(t *testing.T) {
	store := newTestStore(t)
	repo := newFakeCharacterRepo()
	gen := &fakeGenerator{}
	prompts := defaultPromptAuthor()
	svc := NewCharacterService(repo, gen, prompts, store, logger.New(logger.DefaultConfig()))

	character, err := svc.Create(context.Background(), CreateCharacterParams{
		Name:    "Ava",
		Concept: "tech reviewer",
		UserID:  "user-1",
	})
	require.NoError(t, err)

	// Exactly one text-to-image call with the persona's visual description
	require.Equal(t, []string{"text_to_image"}, gen.callKinds())
	assert.Equal(t, "Front-facing studio portrait", gen.calls[0].prompt)

	assert.Equal(t, store.ImageWebPath(character.ID+".png"), character.ImagePath)
	assert.Equal(t, "General audience", character.TargetAudience)
	assert.Equal(t, []string{"curious", "witty"}, character.PersonalityTraits)

	stored, err := repo.GetByID(character.ID)
	require.NoError(t, err)
	assert.Equal(t, character.ImagePath, stored.ImagePath)
}

func TestCreateCharacterDirectMode(t *testing.T) {
	store := newTestStore(t)
	repo := newFakeCharacterRepo()
	gen := &fakeGenerator{}
	svc := NewCharacterService(repo, gen, defaultPromptAuthor(), store, logger.New(logger.DefaultConfig()))

	uploaded := store.ImageWebPath("upload_abc.png")
	character, err := svc.Create(context.Background(), CreateCharacterParams{
		Name:              "Ava",
		Concept:           "tech reviewer",
		UserID:            "user-1",
		UploadedImagePath: uploaded,
		ImageMode:         models.ImageModeDirect,
	})
	require.NoError(t, err)

	// Direct mode uses the upload as-is, no generation call at all
	assert.Empty(t, gen.calls)
	assert.Equal(t, uploaded, character.ImagePath)
}

func TestCreateCharacterGenerateMode(t *testing.T) {
	store := newTestStore(t)
	repo := newFakeCharacterRepo()
	gen := &fakeGenerator{}
	svc := NewCharacterService(repo, gen, defaultPromptAuthor(), store, logger.New(logger.DefaultConfig()))

	require.NoError(t, os.WriteFile(store.ImageLocalPath("upload_abc.png"), []byte("up"), 0o644))
	uploaded := store.ImageWebPath("upload_abc.png")

	character, err := svc.Create(context.Background(), CreateCharacterParams{
		Name:              "Ava",
		Concept:           "tech reviewer",
		UserID:            "user-1",
		UploadedImagePath: uploaded,
		ImageMode:         models.ImageModeGenerate,
	})
	require.NoError(t, err)

	require.Equal(t, []string{"ref_to_image"}, gen.callKinds())
	assert.Equal(t, []string{store.ImageLocalPath("upload_abc.png")}, gen.calls[0].references)
	assert.Equal(t, store.ImageWebPath(character.ID+".png"), character.ImagePath)
}

func TestCreateCharacterGenerationFailureLeavesNoRow(t *testing.T) {
	store := newTestStore(t)
	repo := newFakeCharacterRepo()
	gen := &fakeGenerator{err: errGeneration}
	svc := NewCharacterService(repo, gen, defaultPromptAuthor(), store, logger.New(logger.DefaultConfig()))

	_, err := svc.Create(context.Background(), CreateCharacterParams{
		Name:    "Ava",
		Concept: "tech reviewer",
		UserID:  "user-1",
	})
	require.ErrorIs(t, err, errGeneration)
	assert.Empty(t, repo.characters)
}

func TestGetCharacterNotFound(t *testing.T) {
	store := newTestStore(t)
	svc := NewCharacterService(newFakeCharacterRepo(), &fakeGenerator{}, defaultPromptAuthor(), store, logger.New(logger.DefaultConfig()))

	_, err := svc.Get("missing")
	assert.ErrorIs(t, err, ErrCharacterNotFound)
}

func TestDeleteCharacterNotFound(t *testing.T) {
	store := newTestStore(t)
	svc := NewCharacterService(newFakeCharacterRepo(), &fakeGenerator{}, defaultPromptAuthor(), store, logger.New(logger.DefaultConfig()))

	// The repository surfaces the missing row; deleting nothing is an error,
	// not a silent success
	err := svc.Delete("missing")
	assert.ErrorIs(t, err, ErrCharacterNotFound)
}

func TestDeleteCharacterRemovesFiles(t *testing.T) {
	store := newTestStore(t)
	repo := newFakeCharacterRepo()
	svc := NewCharacterService(repo, &fakeGenerator{}, defaultPromptAuthor(), store, logger.New(logger.DefaultConfig()))

	character := seedCharacter(t, repo, store)
	require.NoError(t, os.WriteFile(store.VideoLocalPath("vid_1.mp4"), []byte("v"), 0o644))

	// One existing file, one already gone: deletion must survive both
	repo.cascadePaths = []string{
		character.ImagePath,
		store.VideoWebPath("vid_1.mp4"),
		store.ImageWebPath("never_existed.png"),
	}

	require.NoError(t, svc.Delete(character.ID))
	assert.Equal(t, []string{character.ID}, repo.deleted)
	assert.NoFileExists(t, store.ImageLocalPath("ref.png"))
	assert.NoFileExists(t, store.VideoLocalPath("vid_1.mp4"))
}
