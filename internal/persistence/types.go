package persistence

import "time"

// BatchRun is one recorded batch execution.
type BatchRun struct {
	ID           int64
	RootDir      string
	LangTag      string
	QualityTier  string
	DryRun       bool
	SuccessCount int
	TotalCount   int
	StartedAt    time.Time
	FinishedAt   time.Time
}

// MergeRecord is one persisted per-video result within a batch run.
type MergeRecord struct {
	ID            int64
	BatchID       int64
	VideoName     string
	SubtitleLang  string
	Success       bool
	OutputPath    string
	FileSizeBytes int64
	Error         string
	CreatedAt     time.Time
}
