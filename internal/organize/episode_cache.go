package organize

import (
	"context"

	"github.com/showtidy/showtidy/internal/tmdb"
)

// seasonEpisodeKey identifies one episode lookup.
type seasonEpisodeKey struct {
	season  int
	episode int
}

// episodeCache memoizes episode-detail lookups for one season's processing.
// It remembers misses too, so a failing pair is fetched at most once per run.
// Single-goroutine access only; entries are never replaced.
type episodeCache struct {
	source  MetadataSource
	entries map[seasonEpisodeKey]*tmdb.Episode
}

func newEpisodeCache(source MetadataSource) *episodeCache {
	return &episodeCache{
		source:  source,
		entries: make(map[seasonEpisodeKey]*tmdb.Episode),
	}
}

// lookup returns the episode detail or nil when the remote has none. The
// remote is consulted at most once per distinct (season, episode) pair.
func (c *episodeCache) lookup(ctx context.Context, showID, season, episode int) *tmdb.Episode {
	key := seasonEpisodeKey{season: season, episode: episode}
	if ep, ok := c.entries[key]; ok {
		return ep
	}
	ep, err := c.source.EpisodeDetail(ctx, showID, season, episode)
	if err != nil {
		ep = nil
	}
	c.entries[key] = ep
	return ep
}
