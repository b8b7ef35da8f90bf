package models

// RecommendationType selects a recommendation strategy.
type RecommendationType string

const (
	RecommendGenre    RecommendationType = "genre"
	RecommendDirector RecommendationType = "director"
	RecommendTop      RecommendationType = "top"
)

// Result sizes of each strategy.
const (
	TopGenresLimit          = 3
	TopDirectorsLimit       = 3
	GenreRecommendLimit     = 10
	TopRatedLimit           = 10
	DirectorFallbackLimit   = 10
	DirectorCandidatesLimit = 15
	SimilarByDirectorLimit  = 20
)

// RecommendedMovie is a ranked movie. Director is set by the director strategy only.
type RecommendedMovie struct {
	Movie
	Director string `json:"director,omitempty"`
}

// TopGenre is one of the genres a user rates highly most often.
type TopGenre struct {
	Name string
	Freq int
}

// TopDirector is one of the directors a user rates highly most often.
type TopDirector struct {
	PersonID  int64
	Name      string
	Freq      int
	AvgRating float64
}

// DirectorCandidateParams narrows the director candidate query.
type DirectorCandidateParams struct {
	UserID       int64
	DirectorIDs  []int64
	ExcludeBelow float64
	// ExcludeSaved also drops movies the user liked or saved for later.
	ExcludeSaved bool
}
