// Package nfo writes textual sidecar metadata files next to organized
// series folders, season folders, and episode files. The XML shape follows
// the conventions media-center software expects (tvshow.nfo, season.nfo,
// <episode>.nfo).
package nfo

import (
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	oplog "github.com/showtidy/showtidy/internal/log"
	"github.com/showtidy/showtidy/internal/tmdb"
)

// Writer serializes metadata records to sidecar files.
type Writer struct {
	fs      afero.Fs
	dryRun  bool
	session *oplog.Session
	log     zerolog.Logger
}

// NewWriter creates a Writer. session may be nil.
func NewWriter(fs afero.Fs, dryRun bool, session *oplog.Session, log zerolog.Logger) *Writer {
	return &Writer{fs: fs, dryRun: dryRun, session: session, log: log}
}

type tvshowDoc struct {
	XMLName       xml.Name `xml:"tvshow"`
	Title         string   `xml:"title"`
	OriginalTitle string   `xml:"originaltitle,omitempty"`
	Year          string   `xml:"year,omitempty"`
	Premiered     string   `xml:"premiered,omitempty"`
	Status        string   `xml:"status,omitempty"`
	Plot          string   `xml:"plot,omitempty"`
	Rating        float64  `xml:"rating,omitempty"`
	Genres        []string `xml:"genre"`
	Studios       []string `xml:"studio"`
}

type seasonDoc struct {
	XMLName      xml.Name `xml:"season"`
	SeasonNumber int      `xml:"seasonnumber"`
	Title        string   `xml:"title,omitempty"`
	Plot         string   `xml:"plot,omitempty"`
	Premiered    string   `xml:"premiered,omitempty"`
}

type actorDoc struct {
	Name string `xml:"name"`
	Role string `xml:"role,omitempty"`
}

type episodeDoc struct {
	XMLName   xml.Name   `xml:"episodedetails"`
	Title     string     `xml:"title"`
	Season    int        `xml:"season"`
	Episode   int        `xml:"episode"`
	Plot      string     `xml:"plot,omitempty"`
	Aired     string     `xml:"aired,omitempty"`
	Rating    float64    `xml:"rating,omitempty"`
	Directors []string   `xml:"director"`
	Actors    []actorDoc `xml:"actor"`
}

// WriteSeries writes dir/tvshow.nfo for the resolved series.
func (w *Writer) WriteSeries(dir string, s *tmdb.Series) error {
	doc := tvshowDoc{
		Title:         s.Name,
		OriginalTitle: s.OriginalName,
		Year:          s.Year(),
		Premiered:     s.FirstAirDate,
		Status:        s.Status,
		Plot:          s.Overview,
		Rating:        s.VoteAverage,
		Genres:        s.GenreNames(),
	}
	for _, n := range s.Networks {
		doc.Studios = append(doc.Studios, n.Name)
	}
	return w.write(filepath.Join(dir, "tvshow.nfo"), doc)
}

// WriteSeason writes dir/season.nfo for one season.
func (w *Writer) WriteSeason(dir string, season *tmdb.Season) error {
	doc := seasonDoc{
		SeasonNumber: season.SeasonNumber,
		Title:        season.Name,
		Plot:         season.Overview,
		Premiered:    season.AirDate,
	}
	return w.write(filepath.Join(dir, "season.nfo"), doc)
}

// WriteEpisode writes the sidecar for the episode file at videoPath,
// replacing its extension with .nfo.
func (w *Writer) WriteEpisode(videoPath string, e *tmdb.Episode) error {
	doc := episodeDoc{
		Title:     e.Name,
		Season:    e.SeasonNumber,
		Episode:   e.EpisodeNumber,
		Plot:      e.Overview,
		Aired:     e.AirDate,
		Rating:    e.VoteAverage,
		Directors: e.Directors(),
	}
	for _, g := range e.GuestStars {
		doc.Actors = append(doc.Actors, actorDoc{Name: g.Name, Role: g.Character})
	}

	base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	return w.write(base+".nfo", doc)
}

func (w *Writer) write(path string, doc any) error {
	if w.dryRun {
		w.log.Info().Str("path", path).Msg("dry run: would write nfo")
		w.session.Record(oplog.OpWriteNFO, "", path, true, true, nil)
		return nil
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		w.session.Record(oplog.OpWriteNFO, "", path, false, false, err)
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	payload := append([]byte(xml.Header), data...)
	payload = append(payload, '\n')

	if err := afero.WriteFile(w.fs, path, payload, 0644); err != nil {
		w.session.Record(oplog.OpWriteNFO, "", path, false, false, err)
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.session.Record(oplog.OpWriteNFO, "", path, true, false, nil)
	return nil
}
