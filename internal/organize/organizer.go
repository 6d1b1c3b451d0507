// Package organize drives the whole pipeline for one show folder: guess the
// show name, resolve it against the metadata source, rename the folder, then
// walk season folders and episode files renaming each into the canonical
// layout while writing sidecar metadata and artwork.
package organize

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/showtidy/showtidy/internal/artwork"
	"github.com/showtidy/showtidy/internal/config"
	"github.com/showtidy/showtidy/internal/media"
	"github.com/showtidy/showtidy/internal/nfo"
	"github.com/showtidy/showtidy/internal/rename"
	"github.com/showtidy/showtidy/internal/resolve"
	"github.com/showtidy/showtidy/internal/tmdb"
)

// maxCandidates is how many ranked search results are offered for selection.
const maxCandidates = 5

// MetadataSource is the slice of the metadata client the orchestrator needs.
// *tmdb.Client satisfies it; tests substitute a stub.
type MetadataSource interface {
	SeasonDetail(ctx context.Context, id, season int) (*tmdb.Season, error)
	EpisodeDetail(ctx context.Context, id, season, episode int) (*tmdb.Episode, error)
	SeasonImages(ctx context.Context, id, season int) ([]tmdb.Image, error)
	ImageURL(path, size string) string
}

// Summary is the end-of-batch accounting for one show folder.
type Summary struct {
	Renamed int
	Failed  int
	Total   int
}

func (s *Summary) add(other Summary) {
	s.Renamed += other.Renamed
	s.Failed += other.Failed
	s.Total += other.Total
}

// Organizer composes the pipeline components. All dependencies are injected
// at construction; the configuration is immutable for the run.
type Organizer struct {
	FS       afero.Fs
	Source   MetadataSource
	Resolver *resolve.Resolver
	Engine   *rename.Engine
	NFO      *nfo.Writer
	Artwork  *artwork.Downloader
	Prompt   Prompter
	Config   *config.Config
	Log      zerolog.Logger
}

// ProcessShow runs the pipeline over one show folder. User aborts and
// zero-result searches end the folder without an error; per-file problems
// are absorbed into the summary.
func (o *Organizer) ProcessShow(ctx context.Context, dir string) (Summary, error) {
	suggestion := media.SanitizeShowName(filepath.Base(dir))
	o.Log.Info().Str("folder", dir).Str("guess", suggestion).Msg("processing show folder")

	candidates, err := o.Resolver.Search(ctx, suggestion)
	if err != nil {
		return Summary{}, fmt.Errorf("search %q: %w", suggestion, err)
	}
	if len(candidates) == 0 {
		return Summary{}, fmt.Errorf("no results for %q", suggestion)
	}
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	idx, err := o.Prompt.SelectSeries(suggestion, candidates)
	if err != nil {
		if errors.Is(err, ErrAborted) {
			o.Log.Info().Str("folder", dir).Msg("selection aborted, skipping show")
			return Summary{}, nil
		}
		return Summary{}, err
	}

	series := o.Resolver.Detail(ctx, candidates[idx])
	if !o.Prompt.ConfirmSeries(series) {
		o.Log.Info().Str("series", series.Name).Msg("declined, skipping show")
		return Summary{}, nil
	}

	showDir := o.renameShowFolder(dir, series)
	o.writeSeriesMetadata(ctx, showDir, series)

	var summary Summary

	// Episode files sitting directly in the show folder default to season 1.
	rootFiles, err := o.videoFiles(showDir)
	if err != nil {
		return summary, fmt.Errorf("list %s: %w", showDir, err)
	}
	if len(rootFiles) > 0 {
		summary.add(o.processFiles(ctx, series, showDir, rootFiles))
	}

	seasonDirs, err := o.seasonFolders(showDir)
	if err != nil {
		return summary, fmt.Errorf("list %s: %w", showDir, err)
	}
	for _, sf := range seasonDirs {
		summary.add(o.processSeason(ctx, series, showDir, sf))
	}

	o.Log.Info().
		Int("renamed", summary.Renamed).
		Int("total", summary.Total).
		Int("failed", summary.Failed).
		Str("series", series.Name).
		Msg("show folder done")
	return summary, nil
}

// renameShowFolder computes the canonical "Name (Year)" folder name and
// renames into it; on failure processing continues in the original folder.
func (o *Organizer) renameShowFolder(dir string, series *tmdb.Series) string {
	name := series.Name
	if year := series.Year(); year != "" {
		name = fmt.Sprintf("%s (%s)", series.Name, year)
	}
	path, res := o.Engine.RenameFolder(dir, media.SanitizeFolderName(name))
	if res.Outcome == rename.Failed {
		o.Log.Warn().Str("folder", dir).Err(res.Err).Msg("show folder rename failed, continuing in place")
	}
	return path
}

func (o *Organizer) writeSeriesMetadata(ctx context.Context, showDir string, series *tmdb.Series) {
	if err := o.NFO.WriteSeries(showDir, series); err != nil {
		o.Log.Warn().Err(err).Msg("tvshow.nfo write failed")
	}
	if o.Config.SkipImages {
		return
	}
	if url := o.Source.ImageURL(series.PosterPath, o.Config.PosterSize); url != "" {
		if err := o.Artwork.Download(ctx, url, filepath.Join(showDir, "poster.jpg")); err != nil {
			o.Log.Warn().Err(err).Msg("poster download failed")
		}
	}
	if url := o.Source.ImageURL(series.BackdropPath, o.Config.FanartSize); url != "" {
		if err := o.Artwork.Download(ctx, url, filepath.Join(showDir, "fanart.jpg")); err != nil {
			o.Log.Warn().Err(err).Msg("fanart download failed")
		}
	}
}

// processSeason resolves one season folder: fetch or synthesize the season
// record, rename the folder to S<NN>, emit metadata, then handle its files.
func (o *Organizer) processSeason(ctx context.Context, series *tmdb.Series, showDir, folder string) Summary {
	number, ok := media.SeasonFolderNumber(folder)
	if !ok {
		// Callers only pass matching folders; keep the guard anyway.
		o.Log.Warn().Str("folder", folder).Msg("cannot resolve season number, skipping")
		return Summary{}
	}

	season := o.fetchSeason(ctx, series.ID, number)

	name := fmt.Sprintf("S%02d", number)
	generic := fmt.Sprintf("Season %d", season.SeasonNumber)
	if season.Name != "" && season.Name != generic {
		name += "_" + media.SanitizeFilename(season.Name)
	}

	seasonDir, res := o.Engine.RenameFolder(filepath.Join(showDir, folder), name)
	if res.Outcome == rename.Failed {
		o.Log.Warn().Str("folder", folder).Err(res.Err).Msg("season folder rename failed, continuing in place")
	}

	o.writeSeasonMetadata(ctx, seasonDir, series, season)

	files, err := o.videoFiles(seasonDir)
	if err != nil {
		o.Log.Warn().Str("folder", seasonDir).Err(err).Msg("cannot list season folder")
		return Summary{}
	}
	return o.processFiles(ctx, series, seasonDir, files)
}

// fetchSeason returns the remote season detail, or a minimal synthesized
// record when the fetch fails.
func (o *Organizer) fetchSeason(ctx context.Context, showID, number int) *tmdb.Season {
	season, err := o.Source.SeasonDetail(ctx, showID, number)
	if err != nil {
		o.Log.Warn().Int("season", number).Err(err).Msg("season detail unavailable, synthesizing")
		return &tmdb.Season{SeasonNumber: number, Name: fmt.Sprintf("Season %d", number)}
	}
	return season
}

func (o *Organizer) writeSeasonMetadata(ctx context.Context, seasonDir string, series *tmdb.Series, season *tmdb.Season) {
	if err := o.NFO.WriteSeason(seasonDir, season); err != nil {
		o.Log.Warn().Err(err).Msg("season.nfo write failed")
	}
	if o.Config.SkipImages {
		return
	}

	posterPath := season.PosterPath
	if posterPath == "" {
		if images, err := o.Source.SeasonImages(ctx, series.ID, season.SeasonNumber); err == nil && len(images) > 0 {
			posterPath = images[0].FilePath
		}
	}
	if url := o.Source.ImageURL(posterPath, o.Config.PosterSize); url != "" {
		if err := o.Artwork.Download(ctx, url, filepath.Join(seasonDir, "poster.jpg")); err != nil {
			o.Log.Warn().Err(err).Msg("season poster download failed")
		}
	}
}

// fileEntry carries one video file with its parse result for sorting.
type fileEntry struct {
	name   string
	parsed media.SeasonEpisode
	ok     bool
}

// processFiles renames the video files of one directory. Numbering comes
// from the filename, then from the prompter, and in no-prompt mode from the
// configured defaults (default-numbered files get the minimal rename with no
// sidecar metadata). One episode-detail fetch happens per distinct
// (season, episode) pair; the per-season cache also remembers misses.
func (o *Organizer) processFiles(ctx context.Context, series *tmdb.Series, dir string, files []string) Summary {
	entries := make([]fileEntry, 0, len(files))
	for _, f := range files {
		se, ok := media.ParseSeasonEpisode(f)
		entries = append(entries, fileEntry{name: f, parsed: se, ok: ok})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case a.ok && b.ok:
			if a.parsed.Season != b.parsed.Season {
				return a.parsed.Season < b.parsed.Season
			}
			return a.parsed.Episode < b.parsed.Episode
		case a.ok != b.ok:
			return a.ok
		default:
			return a.name < b.name
		}
	})

	cache := newEpisodeCache(o.Source)
	summary := Summary{Total: len(entries)}

	for _, entry := range entries {
		se := entry.parsed
		minimal := false

		if !entry.ok {
			if o.Config.NoPrompt {
				se = media.SeasonEpisode{Season: o.Config.DefaultSeason, Episode: o.Config.DefaultEpisode}
				minimal = true
			} else {
				prompted, err := o.Prompt.AskSeasonEpisode(entry.name)
				if err != nil {
					o.Log.Warn().Str("file", entry.name).Msg("numbering unresolved, counting as failed")
					summary.Failed++
					continue
				}
				se = prompted
			}
		}

		var episode *tmdb.Episode
		if !minimal {
			episode = cache.lookup(ctx, series.ID, se.Season, se.Episode)
		}

		oldPath := filepath.Join(dir, entry.name)
		ext := media.ExtractExtension(entry.name)
		newName := se.String() + ext
		if episode != nil && episode.Name != "" {
			newName = fmt.Sprintf("%s_%s%s", se, media.SanitizeFilename(episode.Name), ext)
		}
		newPath := filepath.Join(dir, newName)

		ok, res := o.Engine.RenameFile(oldPath, newPath)
		switch {
		case res.Outcome == rename.Failed:
			summary.Failed++
			continue
		case res.Renamed():
			summary.Renamed++
		}
		if !ok && res.Outcome == rename.SkippedConflict {
			continue
		}

		if episode != nil {
			o.writeEpisodeMetadata(ctx, newPath, episode)
		}
	}
	return summary
}

func (o *Organizer) writeEpisodeMetadata(ctx context.Context, videoPath string, episode *tmdb.Episode) {
	if err := o.NFO.WriteEpisode(videoPath, episode); err != nil {
		o.Log.Warn().Err(err).Msg("episode nfo write failed")
	}
	if o.Config.SkipImages {
		return
	}
	if url := o.Source.ImageURL(episode.StillPath, o.Config.StillSize); url != "" {
		base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
		if err := o.Artwork.Download(ctx, url, base+"-thumb.jpg"); err != nil {
			o.Log.Warn().Err(err).Msg("episode thumbnail download failed")
		}
	}
}

// videoFiles lists the video files directly inside dir, unsorted.
func (o *Organizer) videoFiles(dir string) ([]string, error) {
	infos, err := afero.ReadDir(o.FS, dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, info := range infos {
		if !info.IsDir() && media.IsVideo(info.Name()) {
			files = append(files, info.Name())
		}
	}
	return files, nil
}

// seasonFolders lists the subdirectories of dir whose names match a season
// folder pattern, in lexical order.
func (o *Organizer) seasonFolders(dir string) ([]string, error) {
	infos, err := afero.ReadDir(o.FS, dir)
	if err != nil {
		return nil, err
	}
	var folders []string
	for _, info := range infos {
		if !info.IsDir() {
			continue
		}
		if _, ok := media.SeasonFolderNumber(info.Name()); ok {
			folders = append(folders, info.Name())
		}
	}
	sort.Strings(folders)
	return folders, nil
}
