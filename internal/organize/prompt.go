package organize

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/showtidy/showtidy/internal/media"
	"github.com/showtidy/showtidy/internal/tmdb"
)

// ErrAborted signals that the user declined to continue or made an invalid
// selection; it ends processing of the current show without being an error
// at the batch level.
var ErrAborted = errors.New("aborted by user")

// Prompter supplies the interactive decisions the orchestrator needs. A
// non-interactive implementation answers with defaults.
type Prompter interface {
	// SelectSeries picks one of candidates (0-based index).
	SelectSeries(suggestion string, candidates []tmdb.SeriesResult) (int, error)
	// ConfirmSeries asks whether to proceed with the resolved series.
	ConfirmSeries(series *tmdb.Series) bool
	// AskSeasonEpisode recovers numbering for a file no heuristic matched.
	AskSeasonEpisode(filename string) (media.SeasonEpisode, error)
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	indexStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	detailStyle = lipgloss.NewStyle().Faint(true)
)

// TerminalPrompter reads answers from a line-oriented input stream. With
// noPrompt set it never reads and answers every question with its defaults:
// the top-ranked candidate, an implicit yes, and the configured fallback
// numbering.
type TerminalPrompter struct {
	in             *bufio.Reader
	out            io.Writer
	noPrompt       bool
	defaultSeason  int
	defaultEpisode int
}

// NewTerminalPrompter creates a prompter over in/out.
func NewTerminalPrompter(in io.Reader, out io.Writer, noPrompt bool, defaultSeason, defaultEpisode int) *TerminalPrompter {
	return &TerminalPrompter{
		in:             bufio.NewReader(in),
		out:            out,
		noPrompt:       noPrompt,
		defaultSeason:  defaultSeason,
		defaultEpisode: defaultEpisode,
	}
}

func (p *TerminalPrompter) SelectSeries(suggestion string, candidates []tmdb.SeriesResult) (int, error) {
	if p.noPrompt {
		return 0, nil
	}

	fmt.Fprintln(p.out, titleStyle.Render(fmt.Sprintf("Results for %q:", suggestion)))
	for i, c := range candidates {
		year := c.Year()
		if year == "" {
			year = "????"
		}
		fmt.Fprintf(p.out, "  %s %s %s\n",
			indexStyle.Render(fmt.Sprintf("%d)", i+1)),
			c.Name,
			detailStyle.Render("("+year+")"))
	}
	fmt.Fprintf(p.out, "Select 1-%d: ", len(candidates))

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return 0, ErrAborted
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(candidates) {
		return 0, ErrAborted
	}
	return n - 1, nil
}

func (p *TerminalPrompter) ConfirmSeries(series *tmdb.Series) bool {
	if p.noPrompt {
		return true
	}

	fmt.Fprintln(p.out, titleStyle.Render(series.Name))
	if year := series.Year(); year != "" {
		fmt.Fprintln(p.out, detailStyle.Render("First aired: "+series.FirstAirDate))
	}
	if series.Status != "" {
		fmt.Fprintln(p.out, detailStyle.Render("Status: "+series.Status))
	}
	if len(series.Genres) > 0 {
		fmt.Fprintln(p.out, detailStyle.Render("Genres: "+strings.Join(series.GenreNames(), ", ")))
	}
	fmt.Fprint(p.out, "Continue? [Y/n] ")

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "" || answer == "y" || answer == "yes"
}

func (p *TerminalPrompter) AskSeasonEpisode(filename string) (media.SeasonEpisode, error) {
	if p.noPrompt {
		return media.SeasonEpisode{Season: p.defaultSeason, Episode: p.defaultEpisode}, nil
	}

	fmt.Fprintf(p.out, "Could not detect numbering for %q. Enter season and episode (e.g. 1 4): ", filename)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return media.SeasonEpisode{}, ErrAborted
	}
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return media.SeasonEpisode{}, ErrAborted
	}
	season, err1 := strconv.Atoi(fields[0])
	episode, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil || season < 0 || episode < 0 {
		return media.SeasonEpisode{}, ErrAborted
	}
	return media.SeasonEpisode{Season: season, Episode: episode}, nil
}
