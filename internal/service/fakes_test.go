package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"movie-finder/internal/models"
	"movie-finder/internal/repository"
)

var errBoom = errors.New("connection refused")

// memMovieRepo is an in-memory MovieStore.
type memMovieRepo struct {
	mu      sync.Mutex
	nextID  int64
	movies  map[int64]*models.MovieDetail
	genres  []models.Genre
	similar []models.SimilarMovie
	lastSim struct {
		id    int64
		limit int
	}
	searchErr error
}

func newMemMovieRepo() *memMovieRepo {
	return &memMovieRepo{movies: make(map[int64]*models.MovieDetail)}
}

func (r *memMovieRepo) Search(_ context.Context, p models.SearchParams) ([]models.MovieSearchResult, error) {
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.MovieSearchResult, 0)
	for _, m := range r.movies {
		if p.Query != "" && !strings.Contains(strings.ToLower(m.Title), strings.ToLower(p.Query)) {
			continue
		}
		out = append(out, models.MovieSearchResult{Movie: m.Movie, Genre: strings.Join(m.Genres, ", ")})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memMovieRepo) GetByID(_ context.Context, id int64) (*models.MovieDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.movies[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memMovieRepo) Create(_ context.Context, req models.CreateMovieRequest) (*models.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m := models.Movie{ID: r.nextID, Title: req.Title, ReleaseYear: req.ReleaseYear, IMDBRating: req.IMDBRating}
	r.movies[m.ID] = &models.MovieDetail{Movie: m, Genres: req.Genres, Directors: req.Directors}
	return &m, nil
}

func (r *memMovieRepo) Update(_ context.Context, id int64, req models.UpdateMovieRequest) (*models.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.movies[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.ReleaseYear != nil {
		m.ReleaseYear = req.ReleaseYear
	}
	if req.IMDBRating != nil {
		m.IMDBRating = req.IMDBRating
	}
	if req.Genres != nil {
		m.Genres = req.Genres
	}
	if req.Directors != nil {
		m.Directors = req.Directors
	}
	mv := m.Movie
	return &mv, nil
}

func (r *memMovieRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.movies[id]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(r.movies, id)
	return nil
}

func (r *memMovieRepo) ListGenres(context.Context) ([]models.Genre, error) {
	return r.genres, nil
}

func (r *memMovieRepo) SimilarByDirector(_ context.Context, id int64, limit int) ([]models.SimilarMovie, error) {
	r.lastSim.id, r.lastSim.limit = id, limit
	return r.similar, nil
}

// memUserRepo is an in-memory UserStore keyed by id with a unique username index.
type memUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
	// interactions counts rows per user so Delete can be observed.
	interactions map[int64]int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]*models.User), interactions: make(map[int64]int)}
}

func (r *memUserRepo) usernameTaken(name string, except int64) bool {
	for id, u := range r.users {
		if id != except && u.Username == name {
			return true
		}
	}
	return false
}

func (r *memUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.usernameTaken(u.Username, 0) {
		return repository.ErrDuplicate
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) UpdateProfile(_ context.Context, id int64, fullName, username *string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	if username != nil && r.usernameTaken(*username, id) {
		return nil, repository.ErrDuplicate
	}
	if fullName != nil {
		u.FullName = *fullName
	}
	if username != nil {
		u.Username = *username
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrRecordNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(r.interactions, id)
	delete(r.users, id)
	return nil
}

type interactionKey struct {
	user, movie int64
	action      models.Action
}

// memInteractionRepo mirrors the upsert semantics of the SQL statement.
type memInteractionRepo struct {
	mu        sync.Mutex
	rows      map[interactionKey]*float64
	validUser func(int64) bool
	lastQuery *models.Action
}

func newMemInteractionRepo() *memInteractionRepo {
	return &memInteractionRepo{rows: make(map[interactionKey]*float64)}
}

func (r *memInteractionRepo) Upsert(_ context.Context, in models.Interaction) (models.Outcome, error) {
	if r.validUser != nil && !r.validUser(in.UserID) {
		return "", repository.ErrMissingParent
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	k := interactionKey{in.UserID, in.MovieID, in.Action}
	old, ok := r.rows[k]
	if !ok {
		r.rows[k] = in.Rating
		return models.OutcomeCreated, nil
	}
	if sameRating(old, in.Rating) {
		return models.OutcomeUnchanged, nil
	}
	r.rows[k] = in.Rating
	return models.OutcomeUpdated, nil
}

func sameRating(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *memInteractionRepo) ListRatings(_ context.Context, userID int64) ([]models.UserRating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.UserRating, 0)
	for k, v := range r.rows {
		if k.user == userID && k.action == models.ActionRate && v != nil {
			out = append(out, models.UserRating{MovieID: k.movie, Rating: *v})
		}
	}
	return out, nil
}

func (r *memInteractionRepo) ListRated(_ context.Context, userID int64, action *models.Action) ([]models.InteractionRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastQuery = action
	out := make([]models.InteractionRow, 0)
	for k, v := range r.rows {
		if k.user != userID || v == nil || (action != nil && k.action != *action) {
			continue
		}
		out = append(out, models.InteractionRow{MovieID: k.movie, Rating: *v, Action: k.action})
	}
	return out, nil
}

func (r *memInteractionRepo) ListWatchLater(_ context.Context, userID int64) ([]models.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Movie, 0)
	for k := range r.rows {
		if k.user == userID && k.action == models.ActionWatchLater {
			out = append(out, models.Movie{ID: k.movie})
		}
	}
	return out, nil
}

func (r *memInteractionRepo) RemoveWatchLater(_ context.Context, userID, movieID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, interactionKey{userID, movieID, models.ActionWatchLater})
	return nil
}

func (r *memInteractionRepo) GenreStats(context.Context, int64) (*models.GenreStats, error) {
	return &models.GenreStats{Labels: []string{"Drama"}, Data: []int{1}}, nil
}

// stubRecRepo returns canned results and records what the engine asked for.
type stubRecRepo struct {
	topGenres      []models.TopGenre
	topGenresErr   error
	genreMovies    []models.RecommendedMovie
	topDirectors   []models.TopDirector
	topDirectorErr error
	fallback       []models.RecommendedMovie
	candidates     []models.RecommendedMovie
	candidatesErr  error
	topRated       []models.RecommendedMovie
	topRatedErr    error
	// topRatedFlaky fails this many TopRated calls before succeeding.
	topRatedFlaky int

	calls           []string
	genreMinRating  float64
	askedGenres     []string
	candidateParams models.DirectorCandidateParams
	candidatesLimit int
}

func (r *stubRecRepo) TopGenres(_ context.Context, _ int64, minRating float64, _ int) ([]models.TopGenre, error) {
	r.calls = append(r.calls, "TopGenres")
	r.genreMinRating = minRating
	return r.topGenres, r.topGenresErr
}

func (r *stubRecRepo) MoviesInGenres(_ context.Context, genres []string, _ int) ([]models.RecommendedMovie, error) {
	r.calls = append(r.calls, "MoviesInGenres")
	r.askedGenres = genres
	return r.genreMovies, nil
}

func (r *stubRecRepo) TopDirectors(context.Context, int64, float64, int) ([]models.TopDirector, error) {
	r.calls = append(r.calls, "TopDirectors")
	return r.topDirectors, r.topDirectorErr
}

func (r *stubRecRepo) DirectorFallback(context.Context, int) ([]models.RecommendedMovie, error) {
	r.calls = append(r.calls, "DirectorFallback")
	return r.fallback, nil
}

func (r *stubRecRepo) DirectorCandidates(_ context.Context, p models.DirectorCandidateParams, limit int) ([]models.RecommendedMovie, error) {
	r.calls = append(r.calls, "DirectorCandidates")
	r.candidateParams = p
	r.candidatesLimit = limit
	return r.candidates, r.candidatesErr
}

func (r *stubRecRepo) TopRated(context.Context, int) ([]models.RecommendedMovie, error) {
	r.calls = append(r.calls, "TopRated")
	if r.topRatedFlaky > 0 {
		r.topRatedFlaky--
		return nil, errBoom
	}
	return r.topRated, r.topRatedErr
}

func ptr[T any](v T) *T { return &v }
