package nfo

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/showtidy/showtidy/internal/tmdb"
)

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestWriteSeries(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	w := NewWriter(fs, false, nil, zerolog.Nop())

	series := &tmdb.Series{
		Name:         "Supernatural",
		OriginalName: "Supernatural",
		FirstAirDate: "2005-09-13",
		Status:       "Ended",
		Overview:     "Two brothers hunt monsters.",
		Genres:       []tmdb.Genre{{Name: "Drama"}, {Name: "Mystery"}},
		Networks:     []tmdb.Network{{Name: "The WB"}},
		VoteAverage:  8.3,
	}
	if err := w.WriteSeries("/shows/Supernatural (2005)", series); err != nil {
		t.Fatalf("WriteSeries() error = %v", err)
	}

	got := readFile(t, fs, "/shows/Supernatural (2005)/tvshow.nfo")
	for _, want := range []string{
		"<title>Supernatural</title>",
		"<year>2005</year>",
		"<status>Ended</status>",
		"<genre>Drama</genre>",
		"<genre>Mystery</genre>",
		"<studio>The WB</studio>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("tvshow.nfo missing %q:\n%s", want, got)
		}
	}
}

func TestWriteSeason(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	w := NewWriter(fs, false, nil, zerolog.Nop())

	season := &tmdb.Season{SeasonNumber: 1, Name: "Season 1", AirDate: "2005-09-13"}
	if err := w.WriteSeason("/shows/x/S01", season); err != nil {
		t.Fatalf("WriteSeason() error = %v", err)
	}
	got := readFile(t, fs, "/shows/x/S01/season.nfo")
	if !strings.Contains(got, "<seasonnumber>1</seasonnumber>") {
		t.Errorf("season.nfo missing season number:\n%s", got)
	}
}

func TestWriteEpisode(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	w := NewWriter(fs, false, nil, zerolog.Nop())

	ep := &tmdb.Episode{
		Name:          "Pilot",
		SeasonNumber:  1,
		EpisodeNumber: 1,
		AirDate:       "2005-09-13",
		VoteAverage:   7.9,
		Crew:          []tmdb.CrewMember{{Name: "David Nutter", Job: "Director"}},
		GuestStars:    []tmdb.GuestStar{{Name: "Adrianne Palicki", Character: "Jessica Moore"}},
	}
	if err := w.WriteEpisode("/shows/x/S01/S01E01_Pilot.mkv", ep); err != nil {
		t.Fatalf("WriteEpisode() error = %v", err)
	}

	path := "/shows/x/S01/S01E01_Pilot.nfo"
	got := readFile(t, fs, path)
	for _, want := range []string{
		"<title>Pilot</title>",
		"<season>1</season>",
		"<episode>1</episode>",
		"<director>David Nutter</director>",
		"<name>Adrianne Palicki</name>",
		"<role>Jessica Moore</role>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("%s missing %q:\n%s", filepath.Base(path), want, got)
		}
	}
}

func TestDryRunWritesNothing(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	w := NewWriter(fs, true, nil, zerolog.Nop())

	if err := w.WriteSeries("/shows/x", &tmdb.Series{Name: "X"}); err != nil {
		t.Fatalf("WriteSeries() error = %v", err)
	}
	if ok, _ := afero.Exists(fs, "/shows/x/tvshow.nfo"); ok {
		t.Error("dry run created tvshow.nfo")
	}
}
