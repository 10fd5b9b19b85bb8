package book

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
)

// MemoryRepo keeps books in insertion order in process memory.
type MemoryRepo struct {
	mu     sync.RWMutex
	books  []Book
	nextID int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1}
}

func (r *MemoryRepo) List(ctx context.Context, q Query) ([]Book, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filtered := make([]Book, 0, len(r.books))
	needle := strings.ToLower(q.Q)
	for _, b := range r.books {
		if needle != "" &&
			!strings.Contains(strings.ToLower(b.Title), needle) &&
			!strings.Contains(strings.ToLower(b.Author), needle) {
			continue
		}
		filtered = append(filtered, b)
	}

	slices.SortStableFunc(filtered, func(a, b Book) int {
		var c int
		switch q.Sort {
		case SortByAuthor:
			c = cmp.Compare(a.Author, b.Author)
		case SortByYear:
			c = cmp.Compare(a.Year, b.Year)
		default:
			c = cmp.Compare(a.Title, b.Title)
		}
		if q.Order == Desc {
			return -c
		}
		return c
	})

	total := len(filtered)
	if q.Offset >= total {
		return []Book{}, total, nil
	}
	end := min(q.Offset+q.Limit, total)
	return filtered[q.Offset:end], total, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id int64) (Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.books[i], nil
	}
	return Book{}, ErrNotFound
}

func (r *MemoryRepo) Create(ctx context.Context, in Input) (Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.identityTaken(IdentityKey(in.Title, in.Author), 0) {
		return Book{}, ErrDuplicate
	}

	b := Book{
		ID:     r.nextID,
		Title:  in.Title,
		Author: in.Author,
		Year:   in.Year,
		Read:   in.Read,
	}
	r.books = append(r.books, b)
	r.nextID++
	return b, nil
}

func (r *MemoryRepo) Update(ctx context.Context, id int64, change ChangeFunc) (Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return Book{}, ErrNotFound
	}
	updated, err := change(r.books[i])
	if err != nil {
		return Book{}, err
	}
	updated.ID = id
	if r.identityTaken(IdentityKey(updated.Title, updated.Author), id) {
		return Book{}, ErrDuplicate
	}
	r.books[i] = updated
	return updated, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	r.books = slices.Delete(r.books, i, i+1)
	return nil
}

// Stats ties on the top author go to the author seen first.
func (r *MemoryRepo) Stats(ctx context.Context) (Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Stats{Count: len(r.books), TopAuthor: NoTopAuthor}
	counts := make(map[string]int)
	best := 0
	for _, b := range r.books {
		if b.Read {
			s.ReadCount++
		}
		counts[b.Author]++
	}
	for _, b := range r.books {
		if n := counts[b.Author]; n > best {
			best = n
			s.TopAuthor = b.Author
		}
	}
	return s, nil
}

func (r *MemoryRepo) Ping(ctx context.Context) error {
	return nil
}

// identityTaken must be called with mu held.
func (r *MemoryRepo) identityTaken(key string, excludeID int64) bool {
	for _, b := range r.books {
		if b.ID != excludeID && IdentityKey(b.Title, b.Author) == key {
			return true
		}
	}
	return false
}

func (r *MemoryRepo) indexOf(id int64) int {
	return slices.IndexFunc(r.books, func(b Book) bool { return b.ID == id })
}
