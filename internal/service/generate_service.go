package service

import (
	"context"
	"fmt"
	"time"

	"ai-influencer-studio/backend/internal/mediastore"
	"ai-influencer-studio/backend/internal/models"
	"ai-influencer-studio/backend/internal/repository"
	"ai-influencer-studio/backend/pkg/metrics"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const genIDAlphabet = "0123456789abcdef"

// PrepareVideoResult is the caller-held outcome of the prepare phase. Nothing
// is persisted until the caller commits it via FinalizeVideo; the preview can
// be re-run or discarded freely.
type PrepareVideoResult struct {
	PrepareID      string `json:"prepare_id"`
	FirstFramePath string `json:"first_frame_path"`
	VideoPrompt    string `json:"video_prompt"`
}

// GenerateService runs the v2 generation pipeline: direct image generation and
// the two-phase (prepare then finalize) video flow, no content plan required.
// Every entry point requires the character to already own a reference image.
type GenerateService struct {
	media   repository.MediaRepository
	images  ImageGenerator
	videos  VideoGenerator
	prompts PromptAuthor
	store   *mediastore.Store
}

func NewGenerateService(
	media repository.MediaRepository,
	images ImageGenerator,
	videos VideoGenerator,
	prompts PromptAuthor,
	store *mediastore.Store,
) *GenerateService {
	return &GenerateService{
		media:   media,
		images:  images,
		videos:  videos,
		prompts: prompts,
		store:   store,
	}
}

// characterImageLocal resolves the character's reference image to a local path
func (s *GenerateService) characterImageLocal(character *models.Character) (string, error) {
	if character.ImagePath == "" {
		return "", ErrNoReferenceImage
	}
	return s.store.LocalPath(character.ImagePath), nil
}

// GenerateImage generates one image for a character and persists exactly one
// media row tagged with the generation mode. The character's reference image
// always seeds the generation for visual consistency; the ref_image option may
// add one user-supplied reference on top.
func (s *GenerateService) GenerateImage(ctx context.Context, character *models.Character, prompt, option, referenceImagePath string) (media *models.Media, err error) {
	start := time.Now()
	defer func() { metrics.ObserveGeneration("image", start, err) }()

	charLocal, err := s.characterImageLocal(character)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("gen_%s.png", gonanoid.MustGenerate(genIDAlphabet, 12))
	destination := s.store.ImageLocalPath(filename)

	referencePaths := []string{charLocal}
	if option == models.ModeRefImage && referenceImagePath != "" {
		referencePaths = append(referencePaths, s.store.LocalPath(referenceImagePath))
	}

	if _, err = s.images.GenerateFromReferences(ctx, prompt, referencePaths, destination); err != nil {
		return nil, err
	}

	webPath := s.store.ImageWebPath(filename)
	media = &models.Media{
		CharacterID:    &character.ID,
		MediaType:      models.MediaTypeImage,
		FilePath:       webPath,
		GenerationMode: &option,
		Prompt:         &prompt,
		CreatedAt:      time.Now(),
	}
	if referenceImagePath != "" {
		media.ReferenceImagePath = &referenceImagePath
	}
	if err = s.media.Create(media); err != nil {
		return nil, err
	}
	return media, nil
}

// PrepareVideo is phase one of the video flow: generate a first-frame still
// seeded with the character's reference image, then author a video prompt via
// the language model. The two remote calls run strictly in sequence. No media
// row is written; the result lives with the caller until finalized.
func (s *GenerateService) PrepareVideo(ctx context.Context, character *models.Character, concept, option, referenceImagePath string) (result *PrepareVideoResult, err error) {
	start := time.Now()
	defer func() { metrics.ObserveGeneration("video_prepare", start, err) }()

	charLocal, err := s.characterImageLocal(character)
	if err != nil {
		return nil, err
	}

	prepareID := gonanoid.MustGenerate(genIDAlphabet, 12)
	filename := fmt.Sprintf("ff_%s.png", prepareID)

	referencePaths := []string{charLocal}
	if option == models.ModeRefImage && referenceImagePath != "" {
		referencePaths = append(referencePaths, s.store.LocalPath(referenceImagePath))
	}

	firstFramePrompt := fmt.Sprintf("A high-quality still frame of %s. %s", character.Name, concept)
	if _, err = s.images.GenerateFromReferences(ctx, firstFramePrompt, referencePaths, s.store.ImageLocalPath(filename)); err != nil {
		return nil, err
	}

	videoPrompt, err := s.prompts.GenerateVideoPrompt(ctx, llmProfile(character), concept)
	if err != nil {
		return nil, err
	}

	return &PrepareVideoResult{
		PrepareID:      prepareID,
		FirstFramePath: s.store.ImageWebPath(filename),
		VideoPrompt:    videoPrompt,
	}, nil
}

// FinalizeVideo is phase two: estimate the duration of the (possibly
// user-edited) video prompt, synthesize the video from the prepared first
// frame, and persist exactly one media row of kind video.
func (s *GenerateService) FinalizeVideo(ctx context.Context, character *models.Character, firstFramePath, videoPrompt, concept string) (media *models.Media, err error) {
	start := time.Now()
	defer func() { metrics.ObserveGeneration("video_final", start, err) }()

	duration, err := s.prompts.DetermineVideoDuration(ctx, videoPrompt)
	if err != nil {
		return nil, err
	}

	firstFrameLocal := s.store.LocalPath(firstFramePath)
	filename := fmt.Sprintf("vid_%s.mp4", gonanoid.MustGenerate(genIDAlphabet, 12))

	if _, err = s.videos.GenerateVideo(ctx, videoPrompt, duration, s.store.VideoLocalPath(filename), firstFrameLocal); err != nil {
		return nil, err
	}

	mode := models.ModeVideo
	webPath := s.store.VideoWebPath(filename)
	media = &models.Media{
		CharacterID:    &character.ID,
		MediaType:      models.MediaTypeVideo,
		FilePath:       webPath,
		GenerationMode: &mode,
		Prompt:         &concept,
		VideoPrompt:    &videoPrompt,
		FirstFramePath: &firstFramePath,
		CreatedAt:      time.Now(),
	}
	if err = s.media.Create(media); err != nil {
		return nil, err
	}
	return media, nil
}

// GenerateMotionVideo drives the character's reference image with a driving
// video and a prompt, persisting one motion_control media row.
func (s *GenerateService) GenerateMotionVideo(ctx context.Context, character *models.Character, prompt, drivingVideoPath string) (media *models.Media, err error) {
	start := time.Now()
	defer func() { metrics.ObserveGeneration("motion", start, err) }()

	charLocal, err := s.characterImageLocal(character)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("motion_%s.mp4", gonanoid.MustGenerate(genIDAlphabet, 12))
	drivingLocal := s.store.LocalPath(drivingVideoPath)

	if _, err = s.videos.GenerateMotionControl(ctx, charLocal, drivingLocal, prompt, s.store.VideoLocalPath(filename)); err != nil {
		return nil, err
	}

	mode := models.ModeMotionControl
	webPath := s.store.VideoWebPath(filename)
	media = &models.Media{
		CharacterID:    &character.ID,
		MediaType:      models.MediaTypeVideo,
		FilePath:       webPath,
		GenerationMode: &mode,
		Prompt:         &prompt,
		CreatedAt:      time.Now(),
	}
	if err = s.media.Create(media); err != nil {
		return nil, err
	}
	return media, nil
}
