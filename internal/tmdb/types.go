package tmdb

// Response types for the subset of the TMDB API this tool consumes. Values
// are immutable once decoded; derived accessors never mutate the receiver.

// Genre is a single genre entry on a series.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Network is a broadcasting network entry on a series.
type Network struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// SeriesResult is one entry of a TV search response. It carries enough
// fields to rank candidates and to synthesize a minimal Series when the
// detail fetch fails.
type SeriesResult struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	OriginalName string  `json:"original_name"`
	FirstAirDate string  `json:"first_air_date"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	Popularity   float64 `json:"popularity"`
	VoteAverage  float64 `json:"vote_average"`
}

// Year returns the first-air year, or "" when the air date is unknown.
func (r SeriesResult) Year() string {
	return yearOf(r.FirstAirDate)
}

// Series is the full detail record for a show.
type Series struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	OriginalName string    `json:"original_name"`
	FirstAirDate string    `json:"first_air_date"`
	Status       string    `json:"status"`
	Overview     string    `json:"overview"`
	Genres       []Genre   `json:"genres"`
	Networks     []Network `json:"networks"`
	PosterPath   string    `json:"poster_path"`
	BackdropPath string    `json:"backdrop_path"`
	VoteAverage  float64   `json:"vote_average"`
}

// Year returns the first-air year, or "" when the air date is unknown.
func (s *Series) Year() string {
	return yearOf(s.FirstAirDate)
}

// GenreNames returns the genre names in their original order.
func (s *Series) GenreNames() []string {
	names := make([]string, 0, len(s.Genres))
	for _, g := range s.Genres {
		names = append(names, g.Name)
	}
	return names
}

// Season is the detail record for one season of a show.
type Season struct {
	ID           int       `json:"id"`
	SeasonNumber int       `json:"season_number"`
	Name         string    `json:"name"`
	Overview     string    `json:"overview"`
	AirDate      string    `json:"air_date"`
	PosterPath   string    `json:"poster_path"`
	Episodes     []Episode `json:"episodes"`
}

// EpisodeCount returns the number of episodes listed in the season detail.
func (s *Season) EpisodeCount() int {
	return len(s.Episodes)
}

// CrewMember is one crew credit on an episode.
type CrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// GuestStar is one guest credit on an episode.
type GuestStar struct {
	Name      string `json:"name"`
	Character string `json:"character"`
}

// Episode is the detail record for a single episode.
type Episode struct {
	ID            int          `json:"id"`
	Name          string       `json:"name"`
	Overview      string       `json:"overview"`
	SeasonNumber  int          `json:"season_number"`
	EpisodeNumber int          `json:"episode_number"`
	AirDate       string       `json:"air_date"`
	VoteAverage   float64      `json:"vote_average"`
	StillPath     string       `json:"still_path"`
	Crew          []CrewMember `json:"crew"`
	GuestStars    []GuestStar  `json:"guest_stars"`
}

// Directors returns the names of crew members credited as Director.
func (e *Episode) Directors() []string {
	var directors []string
	for _, c := range e.Crew {
		if c.Job == "Director" {
			directors = append(directors, c.Name)
		}
	}
	return directors
}

// Image is one artwork entry of a season images response.
type Image struct {
	FilePath    string  `json:"file_path"`
	VoteAverage float64 `json:"vote_average"`
}

type searchTVResponse struct {
	Page         int            `json:"page"`
	Results      []SeriesResult `json:"results"`
	TotalResults int            `json:"total_results"`
}

type seasonImagesResponse struct {
	Posters []Image `json:"posters"`
}

func yearOf(airDate string) string {
	if len(airDate) < 4 {
		return ""
	}
	return airDate[:4]
}
