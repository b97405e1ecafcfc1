package app

import (
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	adapteropenai "github.com/eslsoft/vocdrill/internal/adapter/openai"
	adapterrepo "github.com/eslsoft/vocdrill/internal/adapter/repository"
	"github.com/eslsoft/vocdrill/internal/infrastructure/config"
	"github.com/eslsoft/vocdrill/internal/infrastructure/database"
	"github.com/eslsoft/vocdrill/internal/usecase"
	"github.com/eslsoft/vocdrill/internal/usecase/backup"
	"github.com/eslsoft/vocdrill/internal/usecase/distractor"
)

// Container aggregates the application dependencies.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	DB     *sqlx.DB

	Scheduler   usecase.SchedulerUsecase
	Tracker     usecase.TrackerUsecase
	Deck        usecase.DeckUsecase
	Session     usecase.SessionUsecase
	Distractors *distractor.Pipeline
	Backup      *backup.Service
}

// Initialize builds the container from configuration. The returned cleanup
// closes the database.
func Initialize() (*Container, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(lvl)
	}
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	db, cleanup, err := database.NewConnection(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := adapterrepo.Migrate(db); err != nil {
		cleanup()
		return nil, nil, err
	}

	reviewRepo := adapterrepo.NewReviewStateRepository(db)
	attemptRepo := adapterrepo.NewAttemptLogRepository(db)
	wordRepo := adapterrepo.NewWordRepository(db)

	scheduler := usecase.NewSchedulerUsecase(reviewRepo)
	tracker := usecase.NewTrackerUsecase(attemptRepo)
	deck := usecase.NewDeckUsecase(wordRepo, scheduler)

	pipelineOpts := []distractor.Option{distractor.WithTimeout(cfg.Quiz.GeneratorTimeout)}
	if cfg.OpenAI.APIKey != "" {
		generator, err := adapteropenai.NewGenerator(&adapteropenai.Config{
			BaseURL: cfg.OpenAI.BaseURL,
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
			Timeout: cfg.Quiz.GeneratorTimeout,
		})
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		pipelineOpts = append(pipelineOpts, distractor.WithGenerator(generator))
	} else {
		logger.Debug("no openai api key configured, distractors use fallback only")
	}
	pipeline := distractor.NewPipeline(logger, pipelineOpts...)

	session := usecase.NewSessionUsecase(scheduler, tracker, pipeline)

	return &Container{
		Config:      cfg,
		Logger:      logger,
		DB:          db,
		Scheduler:   scheduler,
		Tracker:     tracker,
		Deck:        deck,
		Session:     session,
		Distractors: pipeline,
		Backup:      backup.NewService(reviewRepo, attemptRepo),
	}, cleanup, nil
}
