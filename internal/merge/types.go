package merge

import (
	"github.com/MimeLyc/subtitle-burner/internal/media"
	"github.com/MimeLyc/subtitle-burner/internal/style"
)

// Job is one video+subtitle merge task. It is built once by the batch
// scheduler (or a single-file caller) and consumed by the orchestrator.
type Job struct {
	VideoPath    string
	SubtitlePath string
	OutputPath   string
	Style        style.Style
	Tier         media.QualityTier
	SubtitleLang string
}

// Result is the immutable outcome of one merge job.
type Result struct {
	Success       bool
	OutputPath    string
	FileSizeBytes int64
	Err           error
	VideoName     string
	SubtitleLang  string
}
