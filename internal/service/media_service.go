package service

import (
	"context"
	"time"

	"ai-influencer-studio/backend/internal/mediastore"
	"ai-influencer-studio/backend/internal/models"
	"ai-influencer-studio/backend/internal/repository"
	"ai-influencer-studio/backend/pkg/metrics"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// MediaService runs the legacy plan-driven media pipeline
type MediaService struct {
	media  repository.MediaRepository
	images ImageGenerator
	videos VideoGenerator
	store  *mediastore.Store
}

func NewMediaService(
	media repository.MediaRepository,
	images ImageGenerator,
	videos VideoGenerator,
	store *mediastore.Store,
) *MediaService {
	return &MediaService{media: media, images: images, videos: videos, store: store}
}

// characterImageLocal resolves the character's reference image to a local
// path, or "" if the character has none
func (s *MediaService) characterImageLocal(character *models.Character) string {
	if character == nil || character.ImagePath == "" {
		return ""
	}
	if local := s.store.LocalPath(character.ImagePath); local != character.ImagePath {
		return local
	}
	return ""
}

// GenerateImage produces the first-frame image for a plan and persists a
// legacy media row. With the ref_image option the character's reference image
// (or an explicitly supplied one) seeds the generation; otherwise the prompt is
// enhanced with the character's visual description and run text-only.
func (s *MediaService) GenerateImage(ctx context.Context, plan *models.ContentPlan, character *models.Character, option, referenceImagePath string) (webPath string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveGeneration("image", start, err) }()

	filename := plan.ID + "_first_frame.png"
	destination := s.store.ImageLocalPath(filename)

	refLocal := ""
	if option == models.ModeRefImage {
		if referenceImagePath != "" {
			if local := s.store.LocalPath(referenceImagePath); local != referenceImagePath {
				refLocal = local
			}
		}
		if refLocal == "" {
			refLocal = s.characterImageLocal(character)
		}
	}

	if refLocal != "" {
		_, err = s.images.GenerateFromReferences(ctx, plan.FirstFramePrompt, []string{refLocal}, destination)
	} else {
		prompt := plan.FirstFramePrompt
		if character != nil && character.VisualDescription != "" {
			prompt = character.VisualDescription + ". " + plan.FirstFramePrompt
		}
		_, err = s.images.GenerateFromText(ctx, prompt, destination)
	}
	if err != nil {
		return "", err
	}

	webPath = s.store.ImageWebPath(filename)
	planID := plan.ID
	err = s.media.Create(&models.Media{
		PlanID:    &planID,
		MediaType: models.MediaTypeImage,
		FilePath:  webPath,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return "", err
	}
	return webPath, nil
}

// VideoResult is the outcome of the legacy video pipeline
type VideoResult struct {
	FirstFramePath string `json:"first_frame_path"`
	VideoPath      string `json:"video_path"`
}

// GenerateVideo produces the first frame, then synthesizes the plan's video
// from it. The plan duration is clamped to the legacy 5-10 second range.
func (s *MediaService) GenerateVideo(ctx context.Context, plan *models.ContentPlan, character *models.Character, option, referenceImagePath string) (result *VideoResult, err error) {
	start := time.Now()
	defer func() { metrics.ObserveGeneration("video", start, err) }()

	firstFrameURL, err := s.GenerateImage(ctx, plan, character, option, referenceImagePath)
	if err != nil {
		return nil, err
	}
	firstFrameLocal := s.store.LocalPath(firstFrameURL)

	duration := plan.DurationSeconds
	if duration < minPlanDuration {
		duration = minPlanDuration
	}
	if duration > maxPlanDuration {
		duration = maxPlanDuration
	}

	filename := plan.ID + "_video.mp4"
	_, err = s.videos.GenerateVideo(ctx, plan.VideoPrompt, duration, s.store.VideoLocalPath(filename), firstFrameLocal)
	if err != nil {
		return nil, err
	}

	videoURL := s.store.VideoWebPath(filename)
	planID := plan.ID
	err = s.media.Create(&models.Media{
		PlanID:    &planID,
		MediaType: models.MediaTypeVideo,
		FilePath:  videoURL,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}

	return &VideoResult{FirstFramePath: firstFrameURL, VideoPath: videoURL}, nil
}

// GenerateMotionTransfer applies the motion of a driving video onto the
// character's reference image. The character must already own a reference
// image; its absence is a precondition failure, not a generation failure.
func (s *MediaService) GenerateMotionTransfer(ctx context.Context, character *models.Character, drivingVideoPath, planID string) (webPath string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveGeneration("motion_transfer", start, err) }()

	faceLocal := s.characterImageLocal(character)
	if faceLocal == "" {
		return "", ErrNoReferenceImage
	}

	base := planID
	if base == "" {
		base = "dreamactor"
	}
	filename := base + "_" + gonanoid.MustGenerate("0123456789abcdef", 8) + "_dreamactor.mp4"

	drivingLocal := s.store.LocalPath(drivingVideoPath)
	_, err = s.videos.GenerateMotionTransfer(ctx, faceLocal, drivingLocal, s.store.VideoLocalPath(filename))
	if err != nil {
		return "", err
	}

	webPath = s.store.VideoWebPath(filename)
	if planID != "" {
		err = s.media.Create(&models.Media{
			PlanID:    &planID,
			MediaType: models.MediaTypeVideo,
			FilePath:  webPath,
			CreatedAt: time.Now(),
		})
		if err != nil {
			return "", err
		}
	}
	return webPath, nil
}

// GetMedia returns the media rows for a plan, newest first
func (s *MediaService) GetMedia(planID string) ([]models.Media, error) {
	return s.media.GetByPlanID(planID)
}

// GetHistory returns media rows joined with character and plan context
func (s *MediaService) GetHistory(characterID, mediaType string) ([]models.MediaDetails, error) {
	return s.media.GetAllWithDetails(characterID, mediaType)
}
