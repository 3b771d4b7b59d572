package file

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplaceExt(t *testing.T) {
	tests := []struct {
		name string
		path string
		ext  string
		want string
	}{
		{"simple swap", "movie.mkv", ".mp4", "movie.mp4"},
		{"with directory", "a/b/movie.mkv", ".mp4", "a/b/movie.mp4"},
		{"missing dot on ext", "movie.mkv", "mp4", "movie.mp4"},
		{"no extension", "movie", ".mp4", "movie.mp4"},
		{"hidden file", ".env", ".bak", ".env.bak"},
		{"multiple dots", "movie.zh-Hans.vtt", ".srt", "movie.zh-Hans.srt"},
		{"empty path", "", ".mp4", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReplaceExt(tt.path, tt.ext))
		})
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/media/movie.mp4", "movie"},
		{"movie.zh-Hans.mp4", "movie.zh-Hans"},
		{"movie", "movie"},
		{"a/b/episode.mkv", "episode"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Stem(tt.path))
		})
	}
}
