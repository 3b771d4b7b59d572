package style

import (
	"fmt"
	"strings"

	"github.com/MimeLyc/subtitle-burner/pkg/log"
)

// Style holds the renderer styling knobs for burned-in subtitle text.
// Zero-valued fields take the documented defaults.
type Style struct {
	FontSize     int    `json:"fontsize"`
	FontColor    string `json:"fontcolor"`
	Outline      int    `json:"outline"`
	OutlineColor string `json:"outlinecolor"`
	Shadow       int    `json:"shadow"`
	ShadowColor  string `json:"shadowcolor"`
	FontName     string `json:"fontname"`
}

// Default returns the style used when a caller supplies nothing.
func Default() Style {
	return Style{
		FontSize:     24,
		FontColor:    "white",
		Outline:      2,
		OutlineColor: "black",
		Shadow:       1,
		ShadowColor:  "black",
		FontName:     "Arial",
	}
}

// ApplyDefaults fills zero-valued fields from Default.
func (s Style) ApplyDefaults() Style {
	def := Default()
	if s.FontSize <= 0 {
		s.FontSize = def.FontSize
	}
	if s.FontColor == "" {
		s.FontColor = def.FontColor
	}
	if s.Outline <= 0 {
		s.Outline = def.Outline
	}
	if s.OutlineColor == "" {
		s.OutlineColor = def.OutlineColor
	}
	if s.Shadow <= 0 {
		s.Shadow = def.Shadow
	}
	if s.ShadowColor == "" {
		s.ShadowColor = def.ShadowColor
	}
	if s.FontName == "" {
		s.FontName = def.FontName
	}
	return s
}

// colorHex maps the supported color names to hex values in the byte
// order the rendering engine expects. Verified against the renderer;
// do not reorder channels.
var colorHex = map[string]string{
	"white":  "ffffff",
	"black":  "000000",
	"red":    "ff0000",
	"blue":   "0000ff",
	"green":  "00ff00",
	"yellow": "ffff00",
}

// defaultOverride is emitted when no recognized style field is set.
const defaultOverride = "FontSize=24,PrimaryColour=&Hffffff,Outline=2,OutlineColour=&H000000"

func colorToHex(name string) string {
	if hex, ok := colorHex[strings.ToLower(name)]; ok {
		return hex
	}
	log.Warn("Unknown subtitle color %q, falling back to white", name)
	return colorHex["white"]
}

// BuildOverride emits the force_style directive covering the fields the
// burn filter needs: font size, primary color, outline and its color.
func BuildOverride(s Style) string {
	var parts []string

	if s.FontSize > 0 {
		parts = append(parts, fmt.Sprintf("FontSize=%d", s.FontSize))
	}
	if s.FontColor != "" {
		parts = append(parts, "PrimaryColour=&H"+colorToHex(s.FontColor))
	}
	if s.Outline > 0 {
		parts = append(parts, fmt.Sprintf("Outline=%d", s.Outline))
	}
	if s.OutlineColor != "" {
		parts = append(parts, "OutlineColour=&H"+colorToHex(s.OutlineColor))
	}

	if len(parts) == 0 {
		return defaultOverride
	}
	return strings.Join(parts, ",")
}

// BuildOverrideFull emits every style field, shadow and font name
// included, for callers that need full control of the rendered look.
func BuildOverrideFull(s Style) string {
	var parts []string

	if s.FontSize > 0 {
		parts = append(parts, fmt.Sprintf("FontSize=%d", s.FontSize))
	}
	if s.FontColor != "" {
		parts = append(parts, "PrimaryColour=&H"+colorToHex(s.FontColor))
	}
	if s.Outline > 0 {
		parts = append(parts, fmt.Sprintf("Outline=%d", s.Outline))
	}
	if s.OutlineColor != "" {
		parts = append(parts, "OutlineColour=&H"+colorToHex(s.OutlineColor))
	}
	if s.Shadow > 0 {
		parts = append(parts, fmt.Sprintf("Shadow=%d", s.Shadow))
	}
	if s.ShadowColor != "" {
		parts = append(parts, "BackColour=&H"+colorToHex(s.ShadowColor))
	}
	if s.FontName != "" {
		parts = append(parts, "Fontname="+s.FontName)
	}

	if len(parts) == 0 {
		return defaultOverride
	}
	return strings.Join(parts, ",")
}
