package models

// Movie is a catalog entry. Year and rating are optional.
type Movie struct {
	ID          int64    `json:"movie_id"`
	Title       string   `json:"title"`
	ReleaseYear *int     `json:"release_year"`
	IMDBRating  *float64 `json:"imdb_rating"`
}

// MovieSearchResult is a search row annotated with its genre label.
type MovieSearchResult struct {
	Movie
	Genre string `json:"genre"`
}

// MovieDetail is the response shape for a single movie.
type MovieDetail struct {
	Movie
	Genres    []string `json:"genres"`
	Directors []string `json:"directors"`
}

// SimilarMovie is a movie sharing a director with a seed movie.
type SimilarMovie struct {
	Movie
	Genres string `json:"genres"`
}

// Genre represents a movie genre.
type Genre struct {
	ID   int    `json:"genre_id"`
	Name string `json:"name"`
}

// SearchParams holds the optional search filters. Nil or empty means unconstrained.
type SearchParams struct {
	Query     string
	MinYear   *int
	MinRating *float64
}

// SearchLimit caps the number of search results.
const SearchLimit = 50

// CreateMovieRequest is the request body for creating a movie.
type CreateMovieRequest struct {
	Title       string   `json:"title" validate:"required,max=500"`
	ReleaseYear *int     `json:"release_year" validate:"omitempty,gte=1870,lte=2100"`
	IMDBRating  *float64 `json:"imdb_rating" validate:"omitempty,gte=0,lte=10"`
	Genres      []string `json:"genres" validate:"omitempty,dive,required,max=100"`
	Directors   []string `json:"directors" validate:"omitempty,dive,required,max=200"`
}

// UpdateMovieRequest is a partial update. Omitted fields keep their value; a present
// genres or directors list replaces that association set.
type UpdateMovieRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=500"`
	ReleaseYear *int     `json:"release_year" validate:"omitempty,gte=1870,lte=2100"`
	IMDBRating  *float64 `json:"imdb_rating" validate:"omitempty,gte=0,lte=10"`
	Genres      []string `json:"genres" validate:"omitempty,dive,required,max=100"`
	Directors   []string `json:"directors" validate:"omitempty,dive,required,max=200"`
}

// Empty reports whether the update carries no field at all.
func (r UpdateMovieRequest) Empty() bool {
	return r.Title == nil && r.ReleaseYear == nil && r.IMDBRating == nil &&
		r.Genres == nil && r.Directors == nil
}

// Role names stored in the roles table.
const (
	RoleDirector = "Director"
	RoleActor    = "Actor"
	RoleWriter   = "Writer"
)

// ImportResult summarises a catalog import run.
type ImportResult struct {
	Message        string `json:"message"`
	MoviesImported int    `json:"movies_imported"`
	Pages          int    `json:"pages"`
}

// Import page bounds.
const (
	DefaultImportPages = 1
	MaxImportPages     = 50
)
