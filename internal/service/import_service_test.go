package service

import (
	"context"
	"errors"
	"testing"

	"movie-finder/internal/repository"
	"movie-finder/internal/tmdb"
)

type stubSource struct {
	pages      map[int]*tmdb.DiscoverResponse
	pageErr    error
	credits    map[int]*tmdb.CreditsResponse
	discovered []int
}

func (s *stubSource) DiscoverMovies(_ context.Context, page int) (*tmdb.DiscoverResponse, error) {
	s.discovered = append(s.discovered, page)
	if s.pageErr != nil {
		return nil, s.pageErr
	}
	return s.pages[page], nil
}

func (s *stubSource) GetGenres(context.Context) ([]tmdb.Genre, error) {
	return []tmdb.Genre{{ID: 18, Name: "Drama"}, {ID: 80, Name: "Crime"}}, nil
}

func (s *stubSource) GetCredits(_ context.Context, id int) (*tmdb.CreditsResponse, error) {
	c, ok := s.credits[id]
	if !ok {
		return nil, errors.New("status 404")
	}
	return c, nil
}

type recordingWriter struct {
	got []repository.ImportedMovie
}

func (w *recordingWriter) UpsertImported(_ context.Context, im repository.ImportedMovie) (int64, error) {
	w.got = append(w.got, im)
	return int64(len(w.got)), nil
}

func TestImportDisabled(t *testing.T) {
	svc := NewImportService(nil, &recordingWriter{})
	if _, err := svc.Import(context.Background(), 1); !errors.Is(err, ErrImportDisabled) {
		t.Fatalf("err = %v, want ErrImportDisabled", err)
	}
}

func TestImportRejectsPageCount(t *testing.T) {
	svc := NewImportService(&stubSource{}, &recordingWriter{})
	for _, p := range []int{0, 51} {
		if _, err := svc.Import(context.Background(), p); err == nil {
			t.Fatalf("pages=%d: expected validation error", p)
		}
	}
}

func TestImportMapsMovies(t *testing.T) {
	src := &stubSource{
		pages: map[int]*tmdb.DiscoverResponse{
			1: {Page: 1, TotalPages: 1, Results: []tmdb.MovieItem{
				{ID: 11, Title: "Heat", ReleaseDate: "1995-12-15", VoteAverage: 8.3, VoteCount: 10, GenreIDs: []int{80, 18, 999}},
				{ID: 12, Title: "Thief", ReleaseDate: "1981-03-27", VoteAverage: 7.1, VoteCount: 5},
				{ID: 13, Title: "  "},
			}},
		},
		credits: map[int]*tmdb.CreditsResponse{
			11: {ID: 11, Crew: []tmdb.CrewMember{{Name: "Michael Mann", Job: "Director"}}},
		},
	}
	w := &recordingWriter{}
	svc := NewImportService(src, w)

	res, err := svc.Import(context.Background(), 3)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.MoviesImported != 2 || res.Pages != 1 {
		t.Fatalf("result = %+v", res)
	}
	if len(src.discovered) != 1 {
		t.Fatalf("fetched pages %v, want to stop at total_pages", src.discovered)
	}

	heat := w.got[0]
	if heat.TMDBID != 11 || *heat.ReleaseYear != 1995 || *heat.Rating != 8.3 {
		t.Fatalf("heat = %+v", heat)
	}
	if len(heat.Genres) != 2 || heat.Genres[0] != "Crime" {
		t.Fatalf("genres = %v", heat.Genres)
	}
	if len(heat.Directors) != 1 || heat.Directors[0] != "Michael Mann" {
		t.Fatalf("directors = %v", heat.Directors)
	}

	if thief := w.got[1]; len(thief.Directors) != 0 {
		t.Fatalf("movie without credits got directors %v", thief.Directors)
	}
}

func TestImportAllPagesFail(t *testing.T) {
	svc := NewImportService(&stubSource{pageErr: errBoom}, &recordingWriter{})
	if _, err := svc.Import(context.Background(), 2); !errors.Is(err, errBoom) {
		t.Fatalf("err = %v, want wrapped errBoom", err)
	}
}
