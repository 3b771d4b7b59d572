package subtitle

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"
)

// DefaultWriter is the default subtitle file writer
type DefaultWriter struct{}

// NewWriter creates a new subtitle file writer
func NewWriter() Writer {
	return &DefaultWriter{}
}

// Write serializes cues to an SRT file at the specified path
func (w *DefaultWriter) Write(path string, subtitle *File) error {
	if subtitle == nil {
		return fmt.Errorf("subtitle data is empty")
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	for _, cue := range subtitle.Cues {
		// write index
		fmt.Fprintf(writer, "%d\n", cue.Index)

		// write time
		start := formatDuration(cue.Start)
		end := formatDuration(cue.End)
		fmt.Fprintf(writer, "%s --> %s\n", start, end)

		// write text
		fmt.Fprintf(writer, "%s\n\n", strings.Join(cue.Lines, "\n"))
	}

	return nil
}

// formatDuration formats time.Duration to SRT time format
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	milliseconds := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, milliseconds)
}
