package media

import (
	"context"
	"fmt"
	"os/exec"
)

// OutputContainerExt is the container every encode produces, regardless
// of the requested output extension. MP4 with faststart plays on every
// device the downstream consumers use.
const OutputContainerExt = ".mp4"

// QualityTier selects the codec and bitrate preset for an encode.
type QualityTier string

const (
	TierHigh     QualityTier = "high"
	TierMedium   QualityTier = "medium"
	TierLow      QualityTier = "low"
	TierLossless QualityTier = "lossless"
	// TierDevice is tuned for older playback devices.
	TierDevice QualityTier = "device"
)

type qualitySettings struct {
	codec   string
	bitrate string // empty means encoder quality-factor driven
}

var qualityTable = map[QualityTier]qualitySettings{
	TierHigh:     {codec: "libx264", bitrate: "4000k"},
	TierMedium:   {codec: "libx264", bitrate: "2500k"},
	TierLow:      {codec: "libx264", bitrate: "1500k"},
	TierLossless: {codec: "libx264"},
	TierDevice:   {codec: "libx264", bitrate: "3000k"},
}

// settingsFor returns the preset for a tier. Unrecognized tiers get the
// medium settings.
func settingsFor(tier QualityTier) qualitySettings {
	if settings, ok := qualityTable[tier]; ok {
		return settings
	}
	return qualityTable[TierMedium]
}

// BurnRequest describes one subtitle burn-in encode.
type BurnRequest struct {
	VideoPath     string
	SubtitlePath  string
	OutputPath    string
	StyleOverride string
	Tier          QualityTier
}

// Encoder runs the external encode tool. Implementations must honor
// ctx cancellation so callers can enforce a wall-clock deadline.
type Encoder interface {
	Burn(ctx context.Context, req BurnRequest) ([]byte, error)
}

type ffmpeg struct {
	ffmpegCmd string
}

// NewFfmpeg returns an Encoder backed by the ffmpeg binary on PATH.
func NewFfmpeg() Encoder {
	return ffmpeg{ffmpegCmd: "ffmpeg"}
}

// Burn runs the encode and returns the combined diagnostic output.
func (f ffmpeg) Burn(ctx context.Context, req BurnRequest) ([]byte, error) {
	cmdPath, err := exec.LookPath(f.ffmpegCmd)
	if err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, cmdPath, f.burnArgs(req)...)
	return cmd.CombinedOutput()
}

// burnArgs composes the encode invocation: subtitle burn filter with
// the style override, baseline/3.1 profile and yuv420p for broad
// playback compatibility, faststart for streaming, forced mp4
// container, overwrite enabled.
func (f ffmpeg) burnArgs(req BurnRequest) []string {
	settings := settingsFor(req.Tier)

	args := []string{
		"-i", req.VideoPath,
		"-vf", fmt.Sprintf("subtitles='%s':force_style='%s'", req.SubtitlePath, req.StyleOverride),
		"-c:v", settings.codec,
		"-profile:v", "baseline",
		"-level", "3.1",
		"-pix_fmt", "yuv420p",
		"-preset", "medium",
		"-c:a", "aac",
		"-movflags", "+faststart",
		"-f", "mp4",
		"-y",
	}
	if settings.bitrate != "" {
		args = append(args, "-b:v", settings.bitrate)
	}
	args = append(args, req.OutputPath)
	return args
}
