package book

import (
	"context"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of books matching the query and the total match count.
func (s *Service) List(ctx context.Context, q Query) ([]Book, int, error) {
	return s.repo.List(ctx, q.Normalize())
}

// Create validates in and stores it unless a book with the same title and
// author exists.
func (s *Service) Create(ctx context.Context, in Input) (Book, error) {
	if err := Validate(in); err != nil {
		return Book{}, err
	}
	return s.repo.Create(ctx, in)
}

// Update applies p to the stored book. The merged record must still be valid.
func (s *Service) Update(ctx context.Context, id int64, p Patch) (Book, error) {
	return s.repo.Update(ctx, id, func(current Book) (Book, error) {
		updated := p.Apply(current)
		if err := Validate(inputOf(updated)); err != nil {
			return Book{}, err
		}
		return updated, nil
	})
}

// Delete removes the book with the given id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Stats returns aggregate numbers about the collection.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx)
}

// Ping reports whether the underlying store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func inputOf(b Book) Input {
	return Input{Title: b.Title, Author: b.Author, Year: b.Year, Read: b.Read}
}
