package merge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MimeLyc/subtitle-burner/internal/media"
	"github.com/MimeLyc/subtitle-burner/internal/style"
	"github.com/MimeLyc/subtitle-burner/internal/subtitle"
	"github.com/MimeLyc/subtitle-burner/pkg/file"
	"github.com/MimeLyc/subtitle-burner/pkg/log"
)

// DefaultEncodeTimeout is the per-job wall-clock deadline for the
// external encoder.
const DefaultEncodeTimeout = 600 * time.Second

// rawCaptionExt is the caption format that needs normalization before
// the encoder can consume it.
const rawCaptionExt = ".vtt"

// Orchestrator drives one merge job through validation, caption
// normalization, encoding, and output verification.
type Orchestrator struct {
	encoder    media.Encoder
	normalizer subtitle.Normalizer
	scratchDir string
	timeout    time.Duration
}

type Option func(*Orchestrator)

func WithScratchDir(dir string) Option {
	return func(o *Orchestrator) {
		if dir != "" {
			o.scratchDir = dir
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

func NewOrchestrator(
	encoder media.Encoder,
	normalizer subtitle.Normalizer,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		encoder:    encoder,
		normalizer: normalizer,
		scratchDir: os.TempDir(),
		timeout:    DefaultEncodeTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Merge runs one job to completion. Failures are returned as data on
// the result, never propagated, so callers can always build a report.
func (o *Orchestrator) Merge(ctx context.Context, job Job) Result {
	result := Result{
		VideoName:    filepath.Base(job.VideoPath),
		SubtitleLang: job.SubtitleLang,
	}

	if err := SafeExecute(func() error { return o.merge(ctx, job, &result) }); err != nil {
		result.Success = false
		result.Err = err
		log.Error("Merge failed for %s: %v", result.VideoName, err)
	}

	return result
}

func (o *Orchestrator) merge(ctx context.Context, job Job, result *Result) error {
	if _, err := os.Stat(job.VideoPath); os.IsNotExist(err) {
		return NewError(ErrNotFound, "video file not found").WithContext("path", job.VideoPath)
	}
	if _, err := os.Stat(job.SubtitlePath); os.IsNotExist(err) {
		return NewError(ErrNotFound, "subtitle file not found").WithContext("path", job.SubtitlePath)
	}
	if err := os.MkdirAll(filepath.Dir(job.OutputPath), 0o755); err != nil {
		return WrapError(err, ErrValidation, "failed to create output directory")
	}

	subtitlePath := job.SubtitlePath
	if strings.EqualFold(filepath.Ext(subtitlePath), rawCaptionExt) {
		scratch, err := o.normalizeToScratch(subtitlePath)
		if err != nil {
			return err
		}
		// Scratch never outlives the job, success or not.
		defer os.Remove(scratch)
		subtitlePath = scratch
	}

	outputPath := job.OutputPath
	if !strings.EqualFold(filepath.Ext(outputPath), media.OutputContainerExt) {
		outputPath = file.ReplaceExt(outputPath, media.OutputContainerExt)
	}

	encodeCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	log.Info("Burning %s subtitles into %s (tier %s)", job.SubtitleLang, result.VideoName, job.Tier)
	output, err := o.encoder.Burn(encodeCtx, media.BurnRequest{
		VideoPath:     job.VideoPath,
		SubtitlePath:  subtitlePath,
		OutputPath:    outputPath,
		StyleOverride: style.BuildOverride(job.Style.ApplyDefaults()),
		Tier:          job.Tier,
	})
	if err != nil {
		if encodeCtx.Err() == context.DeadlineExceeded {
			return WrapError(err, ErrTimeout, "encode timed out").
				WithContext("timeout", o.timeout)
		}
		return WrapError(err, ErrEncode, "encoder exited with failure").
			WithContext("diagnostics", strings.TrimSpace(string(output)))
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return NewError(ErrOutputMissing, "encoder reported success but produced no output").
			WithContext("path", outputPath)
	}

	result.Success = true
	result.OutputPath = outputPath
	result.FileSizeBytes = info.Size()
	log.Info("Successfully merged %s -> %s (%d bytes)", result.VideoName, outputPath, info.Size())
	return nil
}

// normalizeToScratch converts a raw caption file to SRT in a uniquely
// named scratch file. The converted track is read back so a conversion
// that yields an empty track fails here instead of inside the encoder.
func (o *Orchestrator) normalizeToScratch(subtitlePath string) (string, error) {
	raw, err := os.ReadFile(subtitlePath)
	if err != nil {
		return "", WrapError(err, ErrConversion, "failed to read caption file").
			WithContext("path", subtitlePath)
	}

	cleaned, err := o.normalizer.Normalize(string(raw))
	if err != nil {
		return "", WrapError(err, ErrConversion, "caption normalization failed").
			WithContext("path", subtitlePath)
	}

	scratch := filepath.Join(o.scratchDir, fmt.Sprintf("burn_%s.srt", uuid.NewString()))
	if err := os.WriteFile(scratch, []byte(cleaned), 0o644); err != nil {
		return "", WrapError(err, ErrConversion, "failed to write scratch caption file")
	}

	converted, err := subtitle.NewReader(scratch).Read()
	if err != nil || len(converted.Cues) == 0 {
		os.Remove(scratch)
		return "", NewErrorWithCause(ErrConversion, "caption normalization produced no cues", err).
			WithContext("path", subtitlePath)
	}
	log.Info("Normalized %d cues from %s (detected language %s)",
		len(converted.Cues), filepath.Base(subtitlePath), converted.Language)

	return scratch, nil
}
