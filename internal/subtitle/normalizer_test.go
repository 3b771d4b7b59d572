package subtitle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalize(t *testing.T, raw string) string {
	t.Helper()
	out, err := NewVTTNormalizer().Normalize(raw)
	require.NoError(t, err)
	return out
}

func TestNormalizeTimestampConversion(t *testing.T) {
	raw := strings.Join([]string{
		"WEBVTT",
		"",
		"00:00:01.500 --> 00:00:03.250 align:start position:0%",
		"Hello world",
		"",
	}, "\n")

	out := normalize(t, raw)

	assert.Contains(t, out, "00:00:01,500 --> 00:00:03,250")
	assert.NotContains(t, out, "align:")
	assert.NotContains(t, out, "position:")
}

func TestNormalizeDropsShortCues(t *testing.T) {
	raw := strings.Join([]string{
		"00:00:01.000 --> 00:00:03.000",
		"First caption",
		"",
		"00:00:03.000 --> 00:00:03.050",
		"flicker text",
		"",
		"00:00:05.000 --> 00:00:07.000",
		"Second caption",
		"",
	}, "\n")

	out := normalize(t, raw)

	assert.NotContains(t, out, "flicker text")
	assert.Contains(t, out, "First caption")
	assert.Contains(t, out, "Second caption")
	// Surviving cues are renumbered contiguously.
	lines := strings.Split(out, "\n")
	assert.Equal(t, "1", lines[0])
	assert.Contains(t, out, "\n2\n00:00:05,000")
}

func TestNormalizeKeepsUnparseableTimestamps(t *testing.T) {
	raw := strings.Join([]string{
		"aa:bb:cc.ddd --> ee:ff:gg.hhh",
		"Unparseable cue survives",
		"",
	}, "\n")

	out := normalize(t, raw)

	assert.Contains(t, out, "Unparseable cue survives")
	assert.Contains(t, out, "aa:bb:cc,ddd --> ee:ff:gg,hhh")
}

func TestNormalizePreservesDistinctCues(t *testing.T) {
	raw := strings.Join([]string{
		"00:00:01.000 --> 00:00:03.000",
		"First caption",
		"",
		"00:00:04.000 --> 00:00:06.000",
		"Second caption",
		"",
	}, "\n")

	out := normalize(t, raw)

	blocks := strings.Split(strings.TrimSpace(out), "\n\n")
	require.Len(t, blocks, 2)
	assert.Contains(t, blocks[0], "First caption")
	assert.Contains(t, blocks[1], "Second caption")
}

func TestNormalizeDeduplicatesProgressiveReveal(t *testing.T) {
	raw := strings.Join([]string{
		"00:00:01.000 --> 00:00:03.000",
		"Hello world how are you",
		"Hello world",
		"how are you",
		"",
	}, "\n")

	out := normalize(t, raw)

	// Lines contained in an already-kept line are dropped both ways.
	assert.Equal(t, 1, strings.Count(out, "Hello world"))
	assert.Equal(t, 1, strings.Count(out, "how are you"))
}

func TestNormalizeCleansMarkupAndEntities(t *testing.T) {
	raw := strings.Join([]string{
		"00:00:01.000 --> 00:00:03.000",
		"<00:00:01.189><c>Tom</c> &amp; Jerry say &quot;hi&quot;",
		"",
	}, "\n")

	out := normalize(t, raw)

	assert.Contains(t, out, `Tom & Jerry say "hi"`)
	assert.NotContains(t, out, "<c>")
	assert.NotContains(t, out, "&amp;")
}

func TestNormalizeSkipsMetadataLines(t *testing.T) {
	raw := strings.Join([]string{
		"WEBVTT",
		"Kind: captions",
		"Language: en",
		"",
		"00:00:01.000 --> 00:00:03.000",
		"NOTE internal remark",
		"Kind: captions",
		"Real caption text",
		"",
	}, "\n")

	out := normalize(t, raw)

	assert.Contains(t, out, "Real caption text")
	assert.NotContains(t, out, "NOTE")
	assert.NotContains(t, out, "Kind:")
}

func TestNormalizeDropsSingleCharacterCues(t *testing.T) {
	raw := strings.Join([]string{
		"00:00:01.000 --> 00:00:03.000",
		"A",
		"",
	}, "\n")

	out := normalize(t, raw)

	assert.Empty(t, strings.TrimSpace(out))
}

func TestHasUsableDuration(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"normal duration", "00:00:01.000 --> 00:00:03.000", true},
		{"exactly at threshold", "00:00:01.000 --> 00:00:01.100", true},
		{"below threshold", "00:00:01.000 --> 00:00:01.050", false},
		{"with positioning suffix", "00:00:01.000 --> 00:00:03.000 align:start position:0%", true},
		{"unparseable keeps cue", "xx:yy:zz.000 --> 00:00:03.000", true},
		{"missing arrow side", "00:00:01.000 -->", true},
		{"no range at all", "not a timestamp", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasUsableDuration(tt.line))
		})
	}
}
