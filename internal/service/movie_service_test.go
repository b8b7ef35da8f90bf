package service

import (
	"context"
	"errors"
	"testing"

	"movie-finder/internal/models"
	"movie-finder/internal/validation"
)

func TestMovieServiceCreateAndGet(t *testing.T) {
	svc := NewMovieService(newMemMovieRepo())
	ctx := context.Background()

	m, err := svc.Create(ctx, models.CreateMovieRequest{
		Title:       "  Heat ",
		ReleaseYear: ptr(1995),
		IMDBRating:  ptr(8.3),
		Genres:      []string{"Crime"},
		Directors:   []string{"Michael Mann"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.Title != "Heat" {
		t.Fatalf("title = %q, want trimmed", m.Title)
	}

	got, err := svc.Get(ctx, m.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Directors) != 1 || got.Directors[0] != "Michael Mann" {
		t.Fatalf("directors = %v", got.Directors)
	}
}

func TestMovieServiceCreateValidation(t *testing.T) {
	svc := NewMovieService(newMemMovieRepo())

	tests := []struct {
		name string
		req  models.CreateMovieRequest
	}{
		{"blank title", models.CreateMovieRequest{Title: "   "}},
		{"rating above ten", models.CreateMovieRequest{Title: "X", IMDBRating: ptr(10.5)}},
		{"negative rating", models.CreateMovieRequest{Title: "X", IMDBRating: ptr(-1.0)}},
		{"year too early", models.CreateMovieRequest{Title: "X", ReleaseYear: ptr(1200)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			var verr *validation.RequestValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want validation error", err)
			}
		})
	}
}

func TestMovieServiceGetMissing(t *testing.T) {
	svc := NewMovieService(newMemMovieRepo())
	if _, err := svc.Get(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMovieServiceUpdate(t *testing.T) {
	repo := newMemMovieRepo()
	svc := NewMovieService(repo)
	ctx := context.Background()

	m, _ := svc.Create(ctx, models.CreateMovieRequest{Title: "Alien", ReleaseYear: ptr(1979)})

	if _, err := svc.Update(ctx, m.ID, models.UpdateMovieRequest{}); !errors.Is(err, ErrNoUpdates) {
		t.Fatalf("empty update err = %v, want ErrNoUpdates", err)
	}

	updated, err := svc.Update(ctx, m.ID, models.UpdateMovieRequest{IMDBRating: ptr(8.5)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Alien" || *updated.ReleaseYear != 1979 || *updated.IMDBRating != 8.5 {
		t.Fatalf("partial update lost fields: %+v", updated)
	}

	if _, err := svc.Update(ctx, 999, models.UpdateMovieRequest{Title: ptr("Nope")}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing movie err = %v, want ErrNotFound", err)
	}
}

func TestMovieServiceDelete(t *testing.T) {
	svc := NewMovieService(newMemMovieRepo())
	ctx := context.Background()

	m, _ := svc.Create(ctx, models.CreateMovieRequest{Title: "Tenet"})
	if err := svc.Delete(ctx, m.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, m.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestMovieServiceSearch(t *testing.T) {
	repo := newMemMovieRepo()
	svc := NewMovieService(repo)
	ctx := context.Background()

	_, _ = svc.Create(ctx, models.CreateMovieRequest{Title: "The Dark Knight"})
	_, _ = svc.Create(ctx, models.CreateMovieRequest{Title: "Inception"})

	got, err := svc.Search(ctx, models.SearchParams{Query: "  dark "})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].Title != "The Dark Knight" {
		t.Fatalf("results = %+v", got)
	}

	if _, err := svc.Search(ctx, models.SearchParams{MinRating: ptr(11.0)}); err == nil {
		t.Fatal("expected validation error for min_rating above 10")
	}

	repo.searchErr = errBoom
	if _, err := svc.Search(ctx, models.SearchParams{}); !errors.Is(err, errBoom) {
		t.Fatalf("err = %v, want wrapped repository error", err)
	}
}

func TestMovieServiceSimilarByDirector(t *testing.T) {
	repo := newMemMovieRepo()
	repo.similar = []models.SimilarMovie{{Movie: models.Movie{ID: 2, Title: "Collateral"}, Genres: "Crime, Thriller"}}
	svc := NewMovieService(repo)

	got, err := svc.SimilarByDirector(context.Background(), 1)
	if err != nil {
		t.Fatalf("SimilarByDirector: %v", err)
	}
	if len(got) != 1 || repo.lastSim.id != 1 || repo.lastSim.limit != models.SimilarByDirectorLimit {
		t.Fatalf("got %+v, asked id=%d limit=%d", got, repo.lastSim.id, repo.lastSim.limit)
	}
}
