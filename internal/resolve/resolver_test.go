package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/showtidy/showtidy/internal/tmdb"
)

type stubSearcher struct {
	results   []tmdb.SeriesResult
	searchErr error
	detail    *tmdb.Series
	detailErr error

	gotQuery string
}

func (s *stubSearcher) SearchTV(_ context.Context, name string) ([]tmdb.SeriesResult, error) {
	s.gotQuery = name
	return s.results, s.searchErr
}

func (s *stubSearcher) SeriesDetail(_ context.Context, id int) (*tmdb.Series, error) {
	return s.detail, s.detailErr
}

func TestSplitNameYear(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in       string
		wantName string
		wantYear string
	}{
		{"Supernatural (2005)", "Supernatural", "2005"},
		{"Supernatural 2005", "Supernatural", "2005"},
		{"Supernatural", "Supernatural", ""},
		{"The 100", "The 100", ""},
		{"  Doctor Who (1963) ", "Doctor Who", "1963"},
	}
	for _, tc := range tests {
		name, year := SplitNameYear(tc.in)
		if name != tc.wantName || year != tc.wantYear {
			t.Errorf("SplitNameYear(%q) = (%q, %q), want (%q, %q)",
				tc.in, name, year, tc.wantName, tc.wantYear)
		}
	}
}

func TestSearchExactYearReplacesResults(t *testing.T) {
	t.Parallel()
	stub := &stubSearcher{results: []tmdb.SeriesResult{
		{ID: 1, Name: "Supernatural", FirstAirDate: "1977-01-01", Popularity: 999},
		{ID: 2, Name: "Supernatural", FirstAirDate: "2005-09-13", Popularity: 120},
	}}
	r := New(stub, zerolog.Nop())

	got, err := r.Search(context.Background(), "Supernatural (2005)")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if stub.gotQuery != "Supernatural" {
		t.Errorf("search term = %q, want year-stripped %q", stub.gotQuery, "Supernatural")
	}
	want := []tmdb.SeriesResult{{ID: 2, Name: "Supernatural", FirstAirDate: "2005-09-13", Popularity: 120}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Search() mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchNoYearMatchKeepsAllByPopularity(t *testing.T) {
	t.Parallel()
	stub := &stubSearcher{results: []tmdb.SeriesResult{
		{ID: 1, FirstAirDate: "1999-01-01", Popularity: 10},
		{ID: 2, FirstAirDate: "2011-01-01", Popularity: 80},
		{ID: 3, FirstAirDate: "2001-01-01", Popularity: 40},
	}}
	r := New(stub, zerolog.Nop())

	got, err := r.Search(context.Background(), "Some Show 2020")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	wantIDs := []int{2, 3, 1}
	if len(got) != len(wantIDs) {
		t.Fatalf("Search() returned %d results, want %d (nothing may be dropped)", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("Search()[%d].ID = %d, want %d", i, got[i].ID, id)
		}
	}
}

func TestSearchNoYearRanksByPopularityStable(t *testing.T) {
	t.Parallel()
	stub := &stubSearcher{results: []tmdb.SeriesResult{
		{ID: 1, Popularity: 50},
		{ID: 2, Popularity: 50},
		{ID: 3, Popularity: 70},
	}}
	r := New(stub, zerolog.Nop())

	got, err := r.Search(context.Background(), "Ties")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	wantIDs := []int{3, 1, 2}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("Search()[%d].ID = %d, want %d (ties must keep original order)", i, got[i].ID, id)
		}
	}
}

func TestSearchPropagatesClientError(t *testing.T) {
	t.Parallel()
	stub := &stubSearcher{searchErr: errors.New("boom")}
	r := New(stub, zerolog.Nop())
	if _, err := r.Search(context.Background(), "Anything"); err == nil {
		t.Fatal("Search() error = nil, want client error")
	}
}

func TestDetailDegradesToSearchResult(t *testing.T) {
	t.Parallel()
	candidate := tmdb.SeriesResult{
		ID:           100,
		Name:         "Supernatural",
		FirstAirDate: "2005-09-13",
		Overview:     "Two brothers.",
		PosterPath:   "/p.jpg",
	}

	full := &tmdb.Series{ID: 100, Name: "Supernatural", Status: "Ended"}
	r := New(&stubSearcher{detail: full}, zerolog.Nop())
	if got := r.Detail(context.Background(), candidate); got != full {
		t.Errorf("Detail() = %+v, want the full record", got)
	}

	r = New(&stubSearcher{detailErr: errors.New("unavailable")}, zerolog.Nop())
	got := r.Detail(context.Background(), candidate)
	want := &tmdb.Series{
		ID:           100,
		Name:         "Supernatural",
		FirstAirDate: "2005-09-13",
		Overview:     "Two brothers.",
		PosterPath:   "/p.jpg",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Detail() fallback mismatch (-want +got):\n%s", diff)
	}
	if got.Year() != "2005" {
		t.Errorf("fallback Year() = %q, want 2005", got.Year())
	}
}
