// Package library holds the state of the book collection screen and turns
// user actions into API calls.
//
// Model is not safe for concurrent use. Every method is meant to be called
// from a single event loop; network work is returned as Cmd values that the
// loop runs elsewhere and whose Msg results it passes back to Update.
// Overlapping requests are not serialised: the last result applied wins.
package library

import (
	"context"
	"fmt"
	"log"
	"time"

	"bookshelf/internal/book"
	"bookshelf/internal/platform/booksapi"
)

const (
	// PageSize is the number of books requested per list call.
	PageSize = 10
	// SearchDebounce is the quiet period before search text is applied.
	SearchDebounce = 300 * time.Millisecond
)

// API is the subset of the books client the model drives.
type API interface {
	ListBooks(ctx context.Context, q book.Query) (booksapi.Page, error)
	Create(ctx context.Context, in book.Input) (book.Book, error)
	Update(ctx context.Context, id int64, p book.Patch) (book.Book, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (book.Stats, error)
}

type Option func(*Model)

// WithTimer replaces the function used to schedule debounce messages.
func WithTimer(after func(time.Duration, Msg) Cmd) Option {
	return func(m *Model) { m.after = after }
}

func WithLogger(l *log.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// SaveState is the outcome of the most recent Submit.
type SaveState int

const (
	SaveIdle SaveState = iota
	SavePending
	SaveSucceeded
	SaveFailed
)

type Model struct {
	api    API
	ctx    context.Context
	after  func(time.Duration, Msg) Cmd
	logger *log.Logger

	books   []book.Book
	total   int
	loading bool
	err     string

	searchInput string
	search      string
	searchGen   int

	sortBy book.SortField
	order  book.Order
	page   int

	stats     *book.Stats
	showStats bool

	form      Form
	editingID int64
	editing   bool
	lastSave  SaveState

	pendingDelete int64
	confirming    bool
}

func New(ctx context.Context, api API, opts ...Option) *Model {
	m := &Model{
		api:     api,
		ctx:     ctx,
		after:   After,
		logger:  log.Default(),
		sortBy:  book.SortByTitle,
		order:   book.Asc,
		page:    1,
		loading: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init loads the first page and the stats.
func (m *Model) Init() Cmd {
	return Batch(m.fetchBooks(), m.fetchStats())
}

// Refresh reloads the current page and the stats.
func (m *Model) Refresh() Cmd {
	return Batch(m.fetchBooks(), m.fetchStats())
}

func (m *Model) Books() []book.Book { return m.books }
func (m *Model) Total() int         { return m.total }
func (m *Model) Loading() bool      { return m.loading }
func (m *Model) Err() string        { return m.err }

// SearchInput is the text typed so far; Search is the text last applied.
func (m *Model) SearchInput() string { return m.searchInput }
func (m *Model) Search() string      { return m.search }

func (m *Model) SortBy() book.SortField { return m.sortBy }
func (m *Model) Order() book.Order      { return m.order }
func (m *Model) Page() int              { return m.page }

// Stats returns the last loaded stats, or nil before the first load.
func (m *Model) Stats() *book.Stats { return m.stats }
func (m *Model) ShowStats() bool    { return m.showStats }
func (m *Model) Form() Form         { return m.form }

// Editing returns the id of the book being edited.
func (m *Model) Editing() (int64, bool) { return m.editingID, m.editing }

// LastSave reports how the latest Submit ended. Other results arriving
// while a save is in flight leave it at SavePending.
func (m *Model) LastSave() SaveState { return m.lastSave }

// PendingDelete returns the id awaiting delete confirmation.
func (m *Model) PendingDelete() (int64, bool) { return m.pendingDelete, m.confirming }

func (m *Model) TotalPages() int {
	return (m.total + PageSize - 1) / PageSize
}

func (m *Model) CanGoPrevious() bool { return m.page > 1 }
func (m *Model) CanGoNext() bool     { return m.page < m.TotalPages() }

// EmptyMessage is shown when the current page has no books.
func (m *Model) EmptyMessage() string {
	if m.search != "" {
		return "No books found"
	}
	return "No books in the library"
}

// SetSearch records typed text and schedules it to apply after the quiet
// period. Earlier schedules become stale.
func (m *Model) SetSearch(text string) Cmd {
	m.searchInput = text
	m.searchGen++
	return m.after(SearchDebounce, searchSettledMsg{gen: m.searchGen})
}

func (m *Model) SetSort(f book.SortField) Cmd {
	if !f.Valid() || f == m.sortBy {
		return nil
	}
	m.sortBy = f
	return m.fetchBooks()
}

// CycleSort moves to the next sort field.
func (m *Model) CycleSort() Cmd {
	for i, f := range book.SortFields {
		if f == m.sortBy {
			return m.SetSort(book.SortFields[(i+1)%len(book.SortFields)])
		}
	}
	return m.SetSort(book.SortByTitle)
}

func (m *Model) SetOrder(o book.Order) Cmd {
	if !o.Valid() || o == m.order {
		return nil
	}
	m.order = o
	return m.fetchBooks()
}

func (m *Model) FlipOrder() Cmd {
	return m.SetOrder(m.order.Flip())
}

// GoToPage ignores pages outside [1, TotalPages].
func (m *Model) GoToPage(p int) Cmd {
	if p < 1 || p > m.TotalPages() || p == m.page {
		return nil
	}
	m.page = p
	return m.fetchBooks()
}

func (m *Model) NextPage() Cmd     { return m.GoToPage(m.page + 1) }
func (m *Model) PreviousPage() Cmd { return m.GoToPage(m.page - 1) }

func (m *Model) ToggleStats() {
	m.showStats = !m.showStats
}

func (m *Model) DismissError() {
	m.err = ""
}

// SetField edits a text field of the form.
func (m *Model) SetField(f Field, value string) {
	m.form = m.form.With(f, value)
}

func (m *Model) SetRead(read bool) {
	m.form.Read = read
}

// Edit loads b into the form and targets it for update.
func (m *Model) Edit(b book.Book) {
	m.form = formFromBook(b)
	m.editingID = b.ID
	m.editing = true
}

// CancelEdit clears the form and the edit target.
func (m *Model) CancelEdit() {
	m.form = Form{}
	m.editingID = 0
	m.editing = false
}

// Submit updates the edit target if there is one, else creates a book.
// Invalid input is reported without a request.
func (m *Model) Submit() Cmd {
	m.err = ""
	in, err := m.form.Input()
	if err != nil {
		m.lastSave = SaveFailed
		m.fail("save", "error saving book", err)
		return nil
	}
	m.lastSave = SavePending

	api, ctx := m.api, m.ctx
	if m.editing {
		id := m.editingID
		return func() Msg {
			_, err := api.Update(ctx, id, book.PatchFromInput(in))
			return savedMsg{edit: true, err: err}
		}
	}
	return func() Msg {
		_, err := api.Create(ctx, in)
		return savedMsg{err: err}
	}
}

// RequestDelete asks for confirmation before deleting id.
func (m *Model) RequestDelete(id int64) {
	m.pendingDelete = id
	m.confirming = true
}

func (m *Model) CancelDelete() {
	m.pendingDelete = 0
	m.confirming = false
}

// ConfirmDelete deletes the book awaiting confirmation.
func (m *Model) ConfirmDelete() Cmd {
	if !m.confirming {
		return nil
	}
	id := m.pendingDelete
	m.CancelDelete()
	m.err = ""

	api, ctx := m.api, m.ctx
	return func() Msg {
		return deletedMsg{id: id, err: api.Delete(ctx, id)}
	}
}

// ToggleRead flips the read flag of b.
func (m *Model) ToggleRead(b book.Book) Cmd {
	m.err = ""
	read := !b.Read
	api, ctx := m.api, m.ctx
	return func() Msg {
		_, err := api.Update(ctx, b.ID, book.Patch{Read: &read})
		return toggledMsg{err: err}
	}
}

// Update applies the result of a command.
func (m *Model) Update(msg Msg) Cmd {
	switch msg := msg.(type) {
	case searchSettledMsg:
		if msg.gen != m.searchGen {
			return nil
		}
		if m.searchInput == m.search && m.page == 1 {
			return nil
		}
		m.search = m.searchInput
		m.page = 1
		return m.fetchBooks()

	case booksLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.fail("list", "error loading books", msg.err)
			return nil
		}
		m.books = msg.items
		m.total = msg.total
		return nil

	case statsLoadedMsg:
		if msg.err != nil {
			m.fail("stats", "error loading stats", msg.err)
			return nil
		}
		stats := msg.stats
		m.stats = &stats
		return nil

	case savedMsg:
		if msg.err != nil {
			m.lastSave = SaveFailed
			m.fail("save", "error saving book", msg.err)
			return nil
		}
		m.lastSave = SaveSucceeded
		m.CancelEdit()
		return Batch(m.fetchBooks(), m.fetchStats())

	case deletedMsg:
		if msg.err != nil {
			m.fail("delete", "error deleting book", msg.err)
			return nil
		}
		if len(m.books) == 1 && m.page > 1 {
			m.page--
		}
		return Batch(m.fetchBooks(), m.fetchStats())

	case toggledMsg:
		if msg.err != nil {
			m.fail("toggle", "error updating book", msg.err)
			return nil
		}
		return Batch(m.fetchBooks(), m.fetchStats())
	}
	return nil
}

func (m *Model) query() book.Query {
	return book.Query{
		Q:      m.search,
		Sort:   m.sortBy,
		Order:  m.order,
		Offset: (m.page - 1) * PageSize,
		Limit:  PageSize,
	}
}

func (m *Model) fetchBooks() Cmd {
	m.loading = true
	m.err = ""

	api, ctx, q := m.api, m.ctx, m.query()
	return func() Msg {
		page, err := api.ListBooks(ctx, q)
		return booksLoadedMsg{items: page.Items, total: page.Total, err: err}
	}
}

func (m *Model) fetchStats() Cmd {
	api, ctx := m.api, m.ctx
	return func() Msg {
		stats, err := api.Stats(ctx)
		return statsLoadedMsg{stats: stats, err: err}
	}
}

func (m *Model) fail(op, prefix string, err error) {
	m.logger.Printf("library op=%s error=%v", op, err)
	m.err = fmt.Sprintf("%s: %v", prefix, err)
}
