package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"github.com/MimeLyc/subtitle-burner/internal/batch"
	"github.com/MimeLyc/subtitle-burner/internal/config"
	"github.com/MimeLyc/subtitle-burner/internal/library"
	"github.com/MimeLyc/subtitle-burner/internal/media"
	"github.com/MimeLyc/subtitle-burner/internal/persistence"
	"github.com/MimeLyc/subtitle-burner/pkg/file"
	"github.com/MimeLyc/subtitle-burner/pkg/icron"
	"github.com/MimeLyc/subtitle-burner/pkg/log"
)

type burnService struct {
	cfg             config.Config
	cronExpr        string
	cron            *cron.Cron
	scheduler       *batch.Scheduler
	store           *persistence.SQLiteStore
	lastTriggerTime time.Time
}

// NewRunnableBurnService wires the batch scheduler into a cron-driven
// watch loop over the configured media directories.
func NewRunnableBurnService(
	cfg config.Config,
	cron *cron.Cron,
	scheduler *batch.Scheduler,
	store *persistence.SQLiteStore,
) *burnService {
	return &burnService{
		cfg:       cfg,
		cronExpr:  cfg.Burn.CronExpr,
		cron:      cron,
		scheduler: scheduler,
		store:     store,
	}
}

var singleflightGroup singleflight.Group

// Schedule registers the batch run on the cron. Overlapping fires
// collapse into one run via singleflight.
func (s *burnService) Schedule(
	ctx context.Context,
) error {
	log.Info("Run BurnService on schedule %q", s.cronExpr)

	runFunc := func() {
		_, _, _ = singleflightGroup.Do("run", func() (any, error) {
			s.RunAll(ctx)
			return nil, nil
		})
	}
	_, err := s.cron.AddFunc(s.cronExpr, runFunc)
	return err
}

// RunAll processes every configured media directory that has new media
// since the previous trigger.
func (s *burnService) RunAll(ctx context.Context) {
	for _, dir := range s.cfg.Media.MediaPaths() {
		fresh, err := s.dirHasRecentMedia(dir)
		if err != nil {
			log.Error("Failed to scan dir %s: %v", dir, err)
			continue
		}
		if !fresh {
			log.Info("No new media in %s since last run, skipping", dir)
			continue
		}
		if err := s.run(ctx, dir); err != nil {
			log.Error("Failed to run in dir %s: %v", dir, err)
		}
	}
	s.lastTriggerTime = time.Now()
}

func (s *burnService) run(ctx context.Context, dir string) error {
	log.Info("Run in dir %s", dir)
	startedAt := time.Now()

	report, err := s.scheduler.Run(ctx, batch.Request{
		RootDir:   dir,
		OutputDir: s.cfg.Burn.OutputDir,
		LangTag:   s.cfg.Burn.LangTag,
		Style:     s.cfg.Burn.Style,
		Tier:      media.QualityTier(s.cfg.Burn.QualityTier),
		DryRun:    s.cfg.Burn.DryRun,
	})
	if err != nil {
		return err
	}

	if s.store != nil {
		batchID, err := s.store.SaveReport(ctx, persistence.BatchRun{
			RootDir:      dir,
			LangTag:      s.cfg.Burn.LangTag,
			QualityTier:  s.cfg.Burn.QualityTier,
			DryRun:       s.cfg.Burn.DryRun,
			SuccessCount: report.SuccessCount,
			TotalCount:   report.TotalCount,
			StartedAt:    startedAt,
			FinishedAt:   time.Now(),
		}, report.Results)
		if err != nil {
			log.Error("Failed to persist batch report for %s: %v", dir, err)
		} else {
			log.Info("Recorded batch run %d: %d/%d successful", batchID, report.SuccessCount, report.TotalCount)
		}
	}

	return nil
}

// dirHasRecentMedia reports whether dir holds a video or subtitle file
// newer than the start of the current watch window.
func (s *burnService) dirHasRecentMedia(dir string) (bool, error) {
	startTime, err := s.startTime()
	if err != nil {
		return false, err
	}

	recentFiles, err := file.FindRecentAfter(dir, startTime)
	if err != nil {
		return false, err
	}

	for _, path := range recentFiles {
		if library.IsVideo(path) || library.IsSubtitle(path) {
			return true, nil
		}
	}
	return false, nil
}

// startTime derives the watch window start: the previous cron fire, or
// one week back when the schedule fired too recently to be meaningful.
func (s *burnService) startTime() (time.Time, error) {
	if s.lastTriggerTime.IsZero() {
		trigger, err := icron.GetTriggerInfo(s.cronExpr, time.Now())
		if err != nil {
			return time.Time{}, err
		}

		if time.Now().Add(-24 * time.Hour).Before(trigger.Last) {
			return time.Now().Add(-24 * 7 * time.Hour), nil
		}
		return trigger.Last, nil
	}

	return s.lastTriggerTime, nil
}
