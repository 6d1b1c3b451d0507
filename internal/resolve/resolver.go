// Package resolve reconciles a guessed show name against the remote
// metadata source: it splits an embedded year out of the query, searches by
// the base name, and ranks the candidates for user selection.
package resolve

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/showtidy/showtidy/internal/tmdb"
)

var (
	// parenYearRe matches the "Name (YYYY)" query form.
	parenYearRe = regexp.MustCompile(`^(.*?)\s*\(((?:19|20)\d{2})\)$`)

	// bareYearRe matches the "Name YYYY" query form.
	bareYearRe = regexp.MustCompile(`^(.*?)\s+((?:19|20)\d{2})$`)
)

// Searcher is the slice of the metadata client the resolver depends on.
type Searcher interface {
	SearchTV(ctx context.Context, name string) ([]tmdb.SeriesResult, error)
	SeriesDetail(ctx context.Context, id int) (*tmdb.Series, error)
}

// Resolver turns a free-form query into a ranked candidate list and a chosen
// candidate into a full Series record.
type Resolver struct {
	client Searcher
	log    zerolog.Logger
}

// New creates a Resolver backed by client.
func New(client Searcher, log zerolog.Logger) *Resolver {
	return &Resolver{client: client, log: log}
}

// SplitNameYear extracts an optional trailing year from query, accepting
// both "Name (YYYY)" and "Name YYYY". The returned name is trimmed; year is
// "" when the query carries none.
func SplitNameYear(query string) (name, year string) {
	query = strings.TrimSpace(query)
	for _, re := range []*regexp.Regexp{parenYearRe, bareYearRe} {
		if m := re.FindStringSubmatch(query); m != nil {
			return strings.TrimSpace(m[1]), m[2]
		}
	}
	return query, ""
}

// Search queries the metadata source with the year-stripped base name and
// returns candidates ranked for selection. When the query carried a year and
// at least one result first aired in exactly that year, the exact-year subset
// fully replaces the result set; in every case the returned candidates are
// ordered by descending popularity with stable ties.
func (r *Resolver) Search(ctx context.Context, query string) ([]tmdb.SeriesResult, error) {
	name, year := SplitNameYear(query)
	results, err := r.client.SearchTV(ctx, name)
	if err != nil {
		return nil, err
	}

	if year != "" {
		var exact []tmdb.SeriesResult
		for _, res := range results {
			if res.Year() == year {
				exact = append(exact, res)
			}
		}
		if len(exact) > 0 {
			results = exact
		} else {
			r.log.Debug().Str("query", query).Str("year", year).
				Msg("no exact year match, ranking all results")
		}
	}

	ranked := make([]tmdb.SeriesResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Popularity > ranked[j].Popularity
	})
	return ranked, nil
}

// Detail fetches the full series record for a chosen candidate. When the
// detail fetch fails, it degrades to a minimal Series synthesized from the
// search-result fields rather than reporting an error.
func (r *Resolver) Detail(ctx context.Context, candidate tmdb.SeriesResult) *tmdb.Series {
	series, err := r.client.SeriesDetail(ctx, candidate.ID)
	if err == nil {
		return series
	}
	r.log.Warn().Int("id", candidate.ID).Str("name", candidate.Name).Err(err).
		Msg("series detail unavailable, using search result fields")
	return &tmdb.Series{
		ID:           candidate.ID,
		Name:         candidate.Name,
		OriginalName: candidate.OriginalName,
		FirstAirDate: candidate.FirstAirDate,
		Overview:     candidate.Overview,
		PosterPath:   candidate.PosterPath,
		BackdropPath: candidate.BackdropPath,
		VoteAverage:  candidate.VoteAverage,
	}
}
