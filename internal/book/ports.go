package book

import (
	"context"
)

// ChangeFunc derives the new state of a book from its stored state.
type ChangeFunc func(current Book) (Book, error)

// Repository defines the contract for book data storage.
type Repository interface {
	List(ctx context.Context, q Query) ([]Book, int, error)
	Get(ctx context.Context, id int64) (Book, error)
	// Create stores in, or returns ErrDuplicate when another book has the
	// same IdentityKey. Check and insert are atomic.
	Create(ctx context.Context, in Input) (Book, error)
	// Update reads the book, runs change on it and stores the result as one
	// atomic step. An error from change aborts the update unchanged.
	// A title/author clash with another book returns ErrDuplicate.
	Update(ctx context.Context, id int64, change ChangeFunc) (Book, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (Stats, error)
	Ping(ctx context.Context) error
}
