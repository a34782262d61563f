package model

import "strings"

// Movie is a movie summary as returned by catalog list and discovery
// queries. Field names follow the TMDB wire format.
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	GenreIDs    []int   `json:"genre_ids"`
	PosterPath  string  `json:"poster_path"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
}

// Year returns the four-digit release year, or "" when unknown.
func (m Movie) Year() string {
	if len(m.ReleaseDate) < 4 {
		return ""
	}
	return m.ReleaseDate[:4]
}

// Genre is one entry of the catalog's genre taxonomy.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Keyword is a free-form tag attached to a movie by the catalog.
type Keyword struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CastMember is a single acting credit. Order is the billing position,
// starting at 0 for the top-billed actor.
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	Order       int    `json:"order"`
	ProfilePath string `json:"profile_path"`
}

// CrewMember is a single crew credit (director, writer, ...).
type CrewMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path"`
}

// Credits holds the full cast and crew of a movie.
type Credits struct {
	ID   int          `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Director returns the first crew member with the "Director" job,
// or nil when the credits list none.
func (c *Credits) Director() *CrewMember {
	if c == nil {
		return nil
	}
	for i := range c.Crew {
		if c.Crew[i].Job == JobDirector {
			return &c.Crew[i]
		}
	}
	return nil
}

// TopCast returns up to n cast members in billing order.
func (c *Credits) TopCast(n int) []CastMember {
	if c == nil || n <= 0 {
		return nil
	}
	if n > len(c.Cast) {
		n = len(c.Cast)
	}
	return c.Cast[:n]
}

// JobDirector is the crew job string the catalog uses for directors.
const JobDirector = "Director"

// VideoClip is promotional video metadata (trailers, teasers).
type VideoClip struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// ProductionCompany is a studio attached to a movie.
type ProductionCompany struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	LogoPath      string `json:"logo_path"`
	OriginCountry string `json:"origin_country"`
}

// SpokenLanguage is a language spoken in a movie.
type SpokenLanguage struct {
	ISO6391     string `json:"iso_639_1"`
	Name        string `json:"name"`
	EnglishName string `json:"english_name"`
}

// MovieDetails is the full movie record, optionally carrying credits and
// videos when fetched through the composite detail query.
type MovieDetails struct {
	ID                  int                 `json:"id"`
	Title               string              `json:"title"`
	OriginalTitle       string              `json:"original_title"`
	Tagline             string              `json:"tagline"`
	Overview            string              `json:"overview"`
	PosterPath          string              `json:"poster_path"`
	BackdropPath        string              `json:"backdrop_path"`
	ReleaseDate         string              `json:"release_date"`
	Runtime             int                 `json:"runtime"`
	VoteAverage         float64             `json:"vote_average"`
	VoteCount           int                 `json:"vote_count"`
	Budget              int64               `json:"budget"`
	Revenue             int64               `json:"revenue"`
	Status              string              `json:"status"`
	Genres              []Genre             `json:"genres"`
	ProductionCompanies []ProductionCompany `json:"production_companies"`
	SpokenLanguages     []SpokenLanguage    `json:"spoken_languages"`

	// Populated only by the composite detail+credits+videos query.
	Credits *Credits    `json:"credits,omitempty"`
	Videos  []VideoClip `json:"videos,omitempty"`
}

// Year returns the four-digit release year, or "" when unknown.
func (d *MovieDetails) Year() string {
	if len(d.ReleaseDate) < 4 {
		return ""
	}
	return d.ReleaseDate[:4]
}

// Director returns the director's name, or "" when the credits are absent
// or list no director.
func (d *MovieDetails) Director() string {
	if dir := d.Credits.Director(); dir != nil {
		return dir.Name
	}
	return ""
}

// GenreNames returns the genre names joined with ", ".
func (d *MovieDetails) GenreNames() string {
	names := make([]string, len(d.Genres))
	for i, g := range d.Genres {
		names[i] = g.Name
	}
	return strings.Join(names, ", ")
}

// TrailerKey returns the YouTube key of the first trailer or teaser,
// or "" when none exists.
func (d *MovieDetails) TrailerKey() string {
	for _, v := range d.Videos {
		if v.Site == "YouTube" && (v.Type == "Trailer" || v.Type == "Teaser") {
			return v.Key
		}
	}
	return ""
}

// Summary converts the detail record to its list-shaped summary.
func (d *MovieDetails) Summary() Movie {
	genreIDs := make([]int, len(d.Genres))
	for i, g := range d.Genres {
		genreIDs[i] = g.ID
	}
	return Movie{
		ID:          d.ID,
		Title:       d.Title,
		GenreIDs:    genreIDs,
		PosterPath:  d.PosterPath,
		Overview:    d.Overview,
		ReleaseDate: d.ReleaseDate,
		VoteAverage: d.VoteAverage,
		VoteCount:   d.VoteCount,
	}
}
