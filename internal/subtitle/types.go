package subtitle

import (
	"time"

	"golang.org/x/text/language"
)

// Normalizer converts a raw caption payload (e.g. a downloaded VTT
// track) into clean SRT text ready for the encoder's burn filter.
type Normalizer interface {
	Normalize(raw string) (string, error)
}

// Reader is the interface for reading subtitle files
type Reader interface {
	Read() (*File, error)
}

// Writer is the interface for writing subtitle files
type Writer interface {
	Write(path string, subtitle *File) error
}

// Cue represents a single timed caption entry
type Cue struct {
	Index int           // cue index
	Start time.Duration // start time
	End   time.Duration // end time
	Lines []string      // text lines, top to bottom
}

// File represents a parsed subtitle file
type File struct {
	Cues     []Cue
	Language language.Tag
	Format   string // e.g. SRT, VTT
}
