package library

import (
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/language"

	"github.com/MimeLyc/subtitle-burner/pkg/file"
)

var videoExts = []string{
	".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv", ".webm",
}

// subtitleExts are checked in order; VTT sidecars are preferred because
// the downloader writes those first.
var subtitleExts = []string{".vtt", ".srt"}

// incompleteSuffix marks partially downloaded files.
const incompleteSuffix = ".part"

// IsVideo reports whether path has a recognized video extension.
func IsVideo(path string) bool {
	return slices.Contains(videoExts, strings.ToLower(filepath.Ext(path)))
}

// IsSubtitle reports whether path has a recognized subtitle extension.
func IsSubtitle(path string) bool {
	return slices.Contains(subtitleExts, strings.ToLower(filepath.Ext(path)))
}

// FindVideoFiles enumerates video files under root recursively,
// excluding partial downloads, sorted by path.
func FindVideoFiles(root string) ([]string, error) {
	ret := make([]string, 0)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), incompleteSuffix) {
			return nil
		}
		if IsVideo(path) {
			ret = append(ret, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(ret)
	return ret, nil
}

// Locate finds the sidecar subtitle file for a video and language tag.
// Candidates are <stem>.<tag><ext> per supported extension; when the
// full tag has no match the primary subtag is tried with the same
// extension order (e.g. "zh-Hans" falls back to "zh").
func Locate(videoPath, langTag string) (string, bool) {
	dir := filepath.Dir(videoPath)
	stem := file.Stem(videoPath)

	for _, tag := range candidateTags(langTag) {
		for _, ext := range subtitleExts {
			candidate := filepath.Join(dir, stem+"."+tag+ext)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true
			}
		}
	}

	return "", false
}

func candidateTags(langTag string) []string {
	tags := []string{langTag}
	if primary := primarySubtag(langTag); primary != "" && primary != langTag {
		tags = append(tags, primary)
	}
	return tags
}

// primarySubtag reduces a BCP 47 tag to its base language, e.g.
// "zh-Hans" -> "zh". Tags that do not parse fall back to the substring
// before the first hyphen.
func primarySubtag(langTag string) string {
	if tag, err := language.Parse(langTag); err == nil {
		if base, conf := tag.Base(); conf != language.No {
			return base.String()
		}
	}
	return strings.SplitN(langTag, "-", 2)[0]
}
