package di

import (
	"fmt"

	"ai-influencer-studio/backend/internal/fal"
	"ai-influencer-studio/backend/internal/llm"
	"ai-influencer-studio/backend/internal/mediastore"
	"ai-influencer-studio/backend/internal/repository"
	"ai-influencer-studio/backend/internal/service"
	"ai-influencer-studio/backend/internal/supabase"
	"ai-influencer-studio/backend/pkg/config"
	"ai-influencer-studio/backend/pkg/jwt"
	"ai-influencer-studio/backend/pkg/logger"

	"gorm.io/gorm"
)

// Container holds all the dependencies for the application
type Container struct {
	DB     *gorm.DB
	Logger *logger.Logger
	Config *config.Config

	JWTService  *jwt.Service
	AdminClient *supabase.AdminClient

	Store *mediastore.Store

	Characters repository.CharacterRepository
	Plans      repository.ContentPlanRepository
	Media      repository.MediaRepository
	Profiles   repository.ProfileRepository

	CharacterService *service.CharacterService
	ContentService   *service.ContentService
	MediaService     *service.MediaService
	GenerateService  *service.GenerateService
}

// New wires the application graph from configuration and an open database
// handle
func New(db *gorm.DB, cfg *config.Config, log *logger.Logger) (*Container, error) {
	if cfg == nil {
		cfg = config.Get()
	}
	if log == nil {
		log = logger.GetGlobal()
	}

	jwtService := jwt.NewService(cfg.Supabase.JWTSecret)

	adminClient, err := supabase.NewAdminClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
	if err != nil {
		return nil, fmt.Errorf("admin client: %w", err)
	}

	store, err := mediastore.New(cfg.Media.DataDir, log)
	if err != nil {
		return nil, fmt.Errorf("media store: %w", err)
	}

	falClient := fal.NewClient(fal.Config{
		Key:          cfg.FAL.Key,
		RunBaseURL:   cfg.FAL.RunBaseURL,
		QueueBaseURL: cfg.FAL.QueueBaseURL,
		UploadURL:    cfg.FAL.UploadURL,
		PollInterval: cfg.FAL.PollInterval,
	})

	llmClient := llm.NewClient(llm.Config{
		APIKey:  cfg.OpenRouter.APIKey,
		Model:   cfg.OpenRouter.Model,
		BaseURL: cfg.OpenRouter.BaseURL,
	})

	characters := repository.NewGormCharacterRepository(db)
	plans := repository.NewGormContentPlanRepository(db)
	media := repository.NewGormMediaRepository(db)
	profiles := repository.NewGormProfileRepository(db)

	return &Container{
		DB:          db,
		Logger:      log,
		Config:      cfg,
		JWTService:  jwtService,
		AdminClient: adminClient,
		Store:       store,
		Characters:  characters,
		Plans:       plans,
		Media:       media,
		Profiles:    profiles,

		CharacterService: service.NewCharacterService(characters, falClient, llmClient, store, log),
		ContentService:   service.NewContentService(plans, llmClient),
		MediaService:     service.NewMediaService(media, falClient, falClient, store),
		GenerateService:  service.NewGenerateService(media, falClient, falClient, llmClient, store),
	}, nil
}
