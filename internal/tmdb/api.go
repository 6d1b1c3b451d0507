package tmdb

import (
	"context"
	"fmt"
)

// Typed endpoints over the generic request layer. Each returns the decoded
// record or an error; callers treat errors as "no metadata for this item"
// and degrade, they are never fatal.

// SearchTV searches shows by name and returns the raw, unranked results.
func (c *Client) SearchTV(ctx context.Context, name string) ([]SeriesResult, error) {
	var resp searchTVResponse
	if err := c.get(ctx, "/search/tv", map[string]string{"query": name}, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// SeriesDetail fetches the full detail record for a show.
func (c *Client) SeriesDetail(ctx context.Context, id int) (*Series, error) {
	var s Series
	if err := c.get(ctx, fmt.Sprintf("/tv/%d", id), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SeasonDetail fetches the detail record for one season of a show.
func (c *Client) SeasonDetail(ctx context.Context, id, season int) (*Season, error) {
	var s Season
	if err := c.get(ctx, fmt.Sprintf("/tv/%d/season/%d", id, season), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// EpisodeDetail fetches the detail record for a single episode.
func (c *Client) EpisodeDetail(ctx context.Context, id, season, episode int) (*Episode, error) {
	var e Episode
	if err := c.get(ctx, fmt.Sprintf("/tv/%d/season/%d/episode/%d", id, season, episode), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// SeasonImages fetches the poster artwork entries for one season.
func (c *Client) SeasonImages(ctx context.Context, id, season int) ([]Image, error) {
	var resp seasonImagesResponse
	if err := c.get(ctx, fmt.Sprintf("/tv/%d/season/%d/images", id, season), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Posters, nil
}
