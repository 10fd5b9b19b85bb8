package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// isUniqueViolation reports a clash on books_identity_idx. The index is the
// duplicate check for this store.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// sortColumns maps sort fields to columns; values are never user input.
var sortColumns = map[SortField]string{
	SortByTitle:  "title",
	SortByAuthor: "author",
	SortByYear:   "year",
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Book, int, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.Q != "" {
		clauses = append(clauses, fmt.Sprintf("(title ILIKE $%d OR author ILIKE $%d)", argn, argn))
		args = append(args, "%"+escapeLike(q.Q)+"%")
		argn++
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	sortCol, ok := sortColumns[q.Sort]
	if !ok {
		sortCol = "title"
	}
	order := "ASC"
	if q.Order == Desc {
		order = "DESC"
	}

	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM books %s", where)
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// id breaks ties so equal keys keep insertion order.
	dataSQL := fmt.Sprintf(`
		SELECT id, title, author, year, read
		FROM books
		%s
		ORDER BY %s %s, id ASC
		LIMIT $%d OFFSET $%d`,
		where, sortCol, order, argn, argn+1)

	argsWithPage := append([]any{}, args...)
	argsWithPage = append(argsWithPage, q.Limit, q.Offset)
	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, argsWithPage...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Year, &b.Read); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (Book, error) {
	const query = `SELECT id, title, author, year, read FROM books WHERE id = $1`

	var b Book
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(&b.ID, &b.Title, &b.Author, &b.Year, &b.Read)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Create(ctx context.Context, in Input) (Book, error) {
	const sql = `
		INSERT INTO books (title, author, year, read, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, title, author, year, read`

	var b Book
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, sql, in.Title, in.Author, in.Year, in.Read).
		Scan(&b.ID, &b.Title, &b.Author, &b.Year, &b.Read)
	if err != nil {
		if isUniqueViolation(err) {
			return Book{}, ErrDuplicate
		}
		return Book{}, fmt.Errorf("insert book: %w", err)
	}
	return b, nil
}

// Update locks the row for the length of the transaction so concurrent
// patches to the same book apply one after the other.
func (r *PostgresRepo) Update(ctx context.Context, id int64, change ChangeFunc) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return Book{}, fmt.Errorf("begin update: %w", err)
	}
	defer func() { _ = tx.Rollback(timeoutCtx) }()

	var current Book
	err = tx.QueryRow(timeoutCtx,
		`SELECT id, title, author, year, read FROM books WHERE id = $1 FOR UPDATE`, id,
	).Scan(&current.ID, &current.Title, &current.Author, &current.Year, &current.Read)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, fmt.Errorf("lock book: %w", err)
	}

	updated, err := change(current)
	if err != nil {
		return Book{}, err
	}
	updated.ID = id

	const sql = `
		UPDATE books
		SET title = $2, author = $3, year = $4, read = $5, updated_at = NOW()
		WHERE id = $1`
	if _, err := tx.Exec(timeoutCtx, sql, id, updated.Title, updated.Author, updated.Year, updated.Read); err != nil {
		if isUniqueViolation(err) {
			return Book{}, ErrDuplicate
		}
		return Book{}, fmt.Errorf("update book: %w", err)
	}
	if err := tx.Commit(timeoutCtx); err != nil {
		return Book{}, fmt.Errorf("commit update: %w", err)
	}
	return updated, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, "DELETE FROM books WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Stats(ctx context.Context) (Stats, error) {
	s := Stats{TopAuthor: NoTopAuthor}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx,
		"SELECT COUNT(*), COUNT(*) FILTER (WHERE read) FROM books",
	).Scan(&s.Count, &s.ReadCount)
	if err != nil {
		return Stats{}, err
	}
	if s.Count == 0 {
		return s, nil
	}

	const topSQL = `
		SELECT author FROM books
		GROUP BY author
		ORDER BY COUNT(*) DESC, MIN(id) ASC
		LIMIT 1`
	if err := r.db.QueryRow(timeoutCtx, topSQL).Scan(&s.TopAuthor); err != nil {
		return Stats{}, err
	}
	return s, nil
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.Ping(timeoutCtx)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
