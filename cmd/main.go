package main

import (
	"context"
	stdlog "log"
	"os"

	"github.com/robfig/cron/v3"

	"github.com/MimeLyc/subtitle-burner/internal/batch"
	"github.com/MimeLyc/subtitle-burner/internal/config"
	"github.com/MimeLyc/subtitle-burner/internal/media"
	"github.com/MimeLyc/subtitle-burner/internal/merge"
	"github.com/MimeLyc/subtitle-burner/internal/persistence"
	"github.com/MimeLyc/subtitle-burner/internal/service"
	"github.com/MimeLyc/subtitle-burner/internal/subtitle"
	"github.com/MimeLyc/subtitle-burner/pkg/log"
)

func main() {
	log.InitLogger(log.ParseLevel(os.Getenv("LOG_LEVEL")))

	// Initialize configuration
	cfg, err := config.New()
	if err != nil {
		stdlog.Fatal("Failed to load configuration:", err)
	}

	store, err := persistence.NewSQLiteStore(cfg.Burn.DBPath)
	if err != nil {
		stdlog.Fatal("Failed to open batch history store:", err)
	}
	defer store.Close()

	orchestrator := merge.NewOrchestrator(
		media.NewFfmpeg(),
		subtitle.NewVTTNormalizer(),
		merge.WithScratchDir(cfg.Burn.ScratchDir),
		merge.WithTimeout(cfg.Burn.EncodeTimeout),
	)
	scheduler := batch.NewScheduler(orchestrator, cfg.Burn.Workers)

	cron := cron.New(cron.WithSeconds())
	burnSvc := service.NewRunnableBurnService(*cfg, cron, scheduler, store)

	if err := burnSvc.Schedule(context.Background()); err != nil {
		panic(err)
	}
	cron.Run()
}
