package subtitle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// minCueDuration is the shortest cue worth rendering. Auto-generated
// caption tracks emit sub-100ms cues during progressive reveal; those
// only flicker on screen.
const minCueDuration = 0.1

var (
	markupTagPattern    = regexp.MustCompile(`<[^>]*>`)
	encodedTagPattern   = regexp.MustCompile(`&lt;[^&]*&gt;`)
	timingTagPattern    = regexp.MustCompile(`<\d{2}:\d{2}:\d{2}\.\d{3}>`)
	alignAttrPattern    = regexp.MustCompile(`align:\w+`)
	positionAttrPattern = regexp.MustCompile(`position:\d+%`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
	alignSuffixPattern  = regexp.MustCompile(`align:.*`)
)

// VTTNormalizer repairs loosely structured VTT caption text and emits
// an SRT track with contiguous cue numbering.
type VTTNormalizer struct{}

func NewVTTNormalizer() Normalizer {
	return VTTNormalizer{}
}

func (VTTNormalizer) Normalize(raw string) (string, error) {
	lines := strings.Split(raw, "\n")
	srtLines := make([]string, 0, len(lines))
	index := 1

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.Contains(line, "-->") {
			continue
		}

		if !hasUsableDuration(line) {
			// Drop the cue together with its text block.
			i++
			for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
				i++
			}
			continue
		}

		timestamp := toSRTTimestamp(line)
		i++

		var kept []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			text := strings.TrimSpace(lines[i])
			if text != "" && !isMetadataLine(text) {
				cleaned := cleanCueText(text)
				if cleaned != "" && !isDuplicateLine(cleaned, kept) {
					kept = append(kept, cleaned)
				}
			}
			i++
		}

		if hasRenderableText(kept) {
			srtLines = append(srtLines, strconv.Itoa(index), timestamp)
			srtLines = append(srtLines, kept...)
			srtLines = append(srtLines, "")
			index++
		}
	}

	return strings.Join(srtLines, "\n"), nil
}

// toSRTTimestamp rewrites a VTT timestamp-range line into SRT form:
// positioning directives stripped, decimal point replaced with comma.
func toSRTTimestamp(line string) string {
	line = strings.TrimSpace(alignSuffixPattern.ReplaceAllString(line, ""))
	return strings.ReplaceAll(line, ".", ",")
}

// cleanCueText strips markup, per-word timing tags and positioning
// attributes, decodes the common HTML entities, and collapses runs of
// whitespace.
func cleanCueText(text string) string {
	text = markupTagPattern.ReplaceAllString(text, "")
	text = encodedTagPattern.ReplaceAllString(text, "")
	text = timingTagPattern.ReplaceAllString(text, "")
	text = alignAttrPattern.ReplaceAllString(text, "")
	text = positionAttrPattern.ReplaceAllString(text, "")

	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&quot;", `"`)
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")

	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// isDuplicateLine reports whether text repeats a line already kept for
// the same cue. Containment is checked both ways to catch the
// progressive-reveal duplication auto-captions produce.
func isDuplicateLine(text string, kept []string) bool {
	if text == "" {
		return true
	}
	for _, existing := range kept {
		if text == existing || strings.Contains(existing, text) || strings.Contains(text, existing) {
			return true
		}
	}
	return false
}

func isMetadataLine(text string) bool {
	return strings.HasPrefix(text, "NOTE") ||
		strings.HasPrefix(text, "Kind:") ||
		strings.HasPrefix(text, "Language:")
}

func hasRenderableText(lines []string) bool {
	for _, line := range lines {
		if len(strings.TrimSpace(line)) > 1 {
			return true
		}
	}
	return false
}

// hasUsableDuration reports whether the cue lasts at least
// minCueDuration. Timestamp ranges that do not parse keep the cue:
// dropping on a parse failure would silently lose captions.
func hasUsableDuration(timestampLine string) bool {
	parts := strings.Split(timestampLine, "-->")
	if len(parts) != 2 {
		return false
	}

	start, startErr := timestampSeconds(parts[0])
	end, endErr := timestampSeconds(parts[1])
	if startErr != nil || endErr != nil {
		return true
	}

	return end-start >= minCueDuration
}

// timestampSeconds parses "HH:MM:SS.mmm" (trailing positioning tokens
// ignored) into seconds.
func timestampSeconds(s string) (float64, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty timestamp")
	}

	parts := strings.Split(fields[0], ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp: %s", fields[0])
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, err
	}

	return float64(hours)*3600 + float64(minutes)*60 + seconds, nil
}
