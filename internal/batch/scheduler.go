package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/MimeLyc/subtitle-burner/internal/library"
	"github.com/MimeLyc/subtitle-burner/internal/media"
	"github.com/MimeLyc/subtitle-burner/internal/merge"
	"github.com/MimeLyc/subtitle-burner/internal/style"
	"github.com/MimeLyc/subtitle-burner/pkg/file"
	"github.com/MimeLyc/subtitle-burner/pkg/log"
)

// outputSuffix is appended to the video stem for the merged rendition.
const outputSuffix = "_with_subtitles"

// Merger is the per-job orchestration entry point.
type Merger interface {
	Merge(ctx context.Context, job merge.Job) merge.Result
}

// Request describes one batch run over a directory tree.
type Request struct {
	RootDir   string
	OutputDir string // empty means <RootDir>/merged_videos
	LangTag   string
	Style     style.Style
	Tier      media.QualityTier
	DryRun    bool
}

// Report aggregates the ordered per-video results of a batch run.
type Report struct {
	Results      []merge.Result
	SuccessCount int
	TotalCount   int
}

// Scheduler enumerates videos under a directory and drives the merger
// for each, at most workers encodes at a time.
type Scheduler struct {
	merger  Merger
	workers int
}

func NewScheduler(merger Merger, workers int) *Scheduler {
	if workers <= 0 {
		workers = 1
	}
	return &Scheduler{
		merger:  merger,
		workers: workers,
	}
}

// Run processes every video under req.RootDir. A video without a
// matching subtitle is recorded as a failure and skipped; it never
// aborts the batch.
func (s *Scheduler) Run(ctx context.Context, req Request) (*Report, error) {
	videos, err := library.FindVideoFiles(req.RootDir)
	if err != nil {
		return nil, err
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = filepath.Join(req.RootDir, "merged_videos")
	}

	log.Info("Found %d video files to process in %s", len(videos), req.RootDir)

	// Results are index-addressed so the report keeps the enumeration
	// order no matter how workers interleave.
	results := make([]merge.Result, len(videos))
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, videoPath := range videos {
		i, videoPath := i, videoPath
		g.Go(func() error {
			results[i] = s.processOne(gctx, req, outputDir, videoPath)
			done := completed.Add(1)
			log.Info("Progress: %d/%d (%s)", done, len(videos), filepath.Base(videoPath))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		Results:    results,
		TotalCount: len(results),
	}
	for _, r := range results {
		if r.Success {
			report.SuccessCount++
		}
	}
	log.Info("Batch completed: %d/%d successful", report.SuccessCount, report.TotalCount)

	return report, nil
}

// RunSingle merges a single video file using the same subtitle lookup
// and output naming as a batch run.
func (s *Scheduler) RunSingle(ctx context.Context, videoPath string, req Request) merge.Result {
	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = filepath.Join(filepath.Dir(videoPath), "merged_videos")
	}
	return s.processOne(ctx, req, outputDir, videoPath)
}

func (s *Scheduler) processOne(ctx context.Context, req Request, outputDir, videoPath string) merge.Result {
	videoName := filepath.Base(videoPath)

	subtitlePath, ok := library.Locate(videoPath, req.LangTag)
	if !ok {
		log.Warn("No %s subtitle found for %s, skipping", req.LangTag, videoName)
		return merge.Result{
			VideoName:    videoName,
			SubtitleLang: req.LangTag,
			Err: merge.NewError(merge.ErrNotFound,
				fmt.Sprintf("no %s subtitle found", req.LangTag)).
				WithContext("video", videoPath),
		}
	}

	if req.DryRun {
		log.Info("Dry run: would merge %s with %s", videoName, filepath.Base(subtitlePath))
		return merge.Result{
			Success:      true,
			VideoName:    videoName,
			SubtitleLang: req.LangTag,
		}
	}

	outputPath := filepath.Join(outputDir, file.Stem(videoPath)+outputSuffix+filepath.Ext(videoPath))

	return s.merger.Merge(ctx, merge.Job{
		VideoPath:    videoPath,
		SubtitlePath: subtitlePath,
		OutputPath:   outputPath,
		Style:        req.Style,
		Tier:         req.Tier,
		SubtitleLang: req.LangTag,
	})
}
