package media

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Filename parsing & formatting utilities.
//
// This file consolidates the regular expressions and helpers used to detect
// season/episode numbering in episode filenames and to derive a human-editable
// show name suggestion from a folder name. Episode parsing is strict about
// priority: heuristics are tried in a fixed order and the first match wins,
// so a filename like "Show.S02E05.720p.105.mkv" never falls through to the
// bare 3-digit heuristic.
var (
	// seasonEpisodeRe matches the canonical combined form: S01E02, s1e2.
	seasonEpisodeRe = regexp.MustCompile(`(?i)s(\d+)e(\d+)`)

	// crossSeasonEpisodeRe matches the alternative "x" form: 1x02, 01X2.
	crossSeasonEpisodeRe = regexp.MustCompile(`(?i)\b(\d+)x(\d+)\b`)

	// compactSeasonEpisodeRe matches a bare 3-digit run such as "101",
	// read as season 1 episode 01. Word-bounded to avoid years and CRCs.
	compactSeasonEpisodeRe = regexp.MustCompile(`\b(\d)(\d\d)\b`)

	// seasonFolderRe matches season folder names: "S01", "Season 3", "season.2".
	seasonFolderRe = regexp.MustCompile(`(?i)^(?:s|season)[\s\._-]*(\d+)`)

	// videoRe matches the video extensions this tool organizes.
	videoRe = regexp.MustCompile(`(?i)\.(mkv|mp4|avi|m4v)$`)

	// encodingTagsRe removes codec/resolution/source tags when guessing a show name.
	encodingTagsRe = regexp.MustCompile(`(?i)\b(?:720p|1080p|2160p|x264|x265|HEVC|BluRay|WEB-?DL|COMPLETE)\b`)

	// seasonEpisodeTagsRe removes season/episode tokens when guessing a show name.
	seasonEpisodeTagsRe = regexp.MustCompile(`(?i)\b(?:s\d+(?:e\d+)?|season[\s\._-]*\d+|\d+x\d+)\b`)

	// bracketGroupRe removes bracketed or parenthesized release-group noise.
	bracketGroupRe = regexp.MustCompile(`[\[(][^\])]*[\])]`)

	// trailingYearRe captures a 4-digit year at the end of a cleaned name.
	trailingYearRe = regexp.MustCompile(`^(.*?)[\s\._-]+((?:19|20)\d{2})$`)

	// illegalFilenameRe matches characters not allowed in portable file names.
	illegalFilenameRe = regexp.MustCompile(`[<>:"/\\|?*]`)
)

// SeasonEpisode is the parsed numbering of one episode file.
type SeasonEpisode struct {
	Season  int
	Episode int
}

// String renders the canonical S<NN>E<NN> token.
func (se SeasonEpisode) String() string {
	return fmt.Sprintf("S%02dE%02d", se.Season, se.Episode)
}

// heuristic pairs a pattern with the extraction of season/episode from its groups.
type heuristic struct {
	re      *regexp.Regexp
	extract func(m []string) (int, int)
}

// heuristics are evaluated in priority order; the first match is final and
// later entries are never consulted for the same filename.
var heuristics = []heuristic{
	{seasonEpisodeRe, func(m []string) (int, int) { return atoi(m[1]), atoi(m[2]) }},
	{crossSeasonEpisodeRe, func(m []string) (int, int) { return atoi(m[1]), atoi(m[2]) }},
	{compactSeasonEpisodeRe, func(m []string) (int, int) { return atoi(m[1]), atoi(m[2]) }},
}

// ParseSeasonEpisode extracts season and episode numbers from a filename or
// folder name. It reports false when no heuristic matches; the caller decides
// how to recover (prompt or supplied defaults), this function never invents
// numbers.
func ParseSeasonEpisode(name string) (SeasonEpisode, bool) {
	for _, h := range heuristics {
		if m := h.re.FindStringSubmatch(name); m != nil {
			season, episode := h.extract(m)
			return SeasonEpisode{Season: season, Episode: episode}, true
		}
	}
	return SeasonEpisode{}, false
}

// IsVideo reports whether filename has a recognized video extension.
func IsVideo(filename string) bool {
	return videoRe.MatchString(filename)
}

// SeasonFolderNumber extracts the season number from a season folder name
// such as "S01" or "Season 3". Reports false for names that are not season
// folders.
func SeasonFolderNumber(name string) (int, bool) {
	m := seasonFolderRe.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// SanitizeShowName turns a release-style folder name into a human-editable
// show name suggestion. It strips encoding tags, season/episode tokens and
// bracketed groups, normalizes separators, and reformats a trailing year as
// "Name (Year)".
func SanitizeShowName(raw string) string {
	name := bracketGroupRe.ReplaceAllString(raw, " ")
	name = seasonEpisodeTagsRe.ReplaceAllString(name, " ")
	name = encodingTagsRe.ReplaceAllString(name, " ")
	name = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(name)
	name = strings.Join(strings.Fields(name), " ")

	if m := trailingYearRe.FindStringSubmatch(name); m != nil {
		base := strings.Join(strings.Fields(m[1]), " ")
		if base != "" {
			return fmt.Sprintf("%s (%s)", base, m[2])
		}
	}
	return name
}

// SanitizeFilename makes name safe to use as a path component: characters
// that are illegal on common filesystems are removed and whitespace runs
// collapse to a single underscore.
func SanitizeFilename(name string) string {
	clean := illegalFilenameRe.ReplaceAllString(name, "")
	return strings.Join(strings.Fields(clean), "_")
}

// SanitizeFolderName strips characters illegal in folder names but keeps
// spaces, so canonical show folders like "Name (Year)" stay readable.
func SanitizeFolderName(name string) string {
	clean := illegalFilenameRe.ReplaceAllString(name, "")
	return strings.Join(strings.Fields(clean), " ")
}

// ExtractExtension returns the file extension including the dot, or "" when
// the filename has none.
func ExtractExtension(filename string) string {
	if i := strings.LastIndex(filename, "."); i != -1 {
		return filename[i:]
	}
	return ""
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
