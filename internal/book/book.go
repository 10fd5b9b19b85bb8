package book

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrDuplicate is returned when another book already has the same title and author.
	ErrDuplicate = errors.New("a book with the same title and author already exists")
	// ErrInvalid is returned when a payload fails validation.
	ErrInvalid = errors.New("invalid book")
)

const (
	MinYear = 1500
	MaxYear = 2100

	DefaultLimit = 10
	MaxLimit     = 100

	// NoTopAuthor is reported as the top author of an empty collection.
	NoTopAuthor = "N/A"
)

// Book represents a book entity.
type Book struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
	Read   bool   `json:"read"`
}

// Input is the payload used to create a book.
type Input struct {
	Title  string `json:"title" validate:"required,notblank"`
	Author string `json:"author" validate:"required,notblank"`
	Year   int    `json:"year" validate:"gte=1500,lte=2100"`
	Read   bool   `json:"read"`
}

// Patch is the payload used to update a book. Nil fields are left untouched
// and are not sent over the wire.
type Patch struct {
	Title  *string `json:"title,omitempty"`
	Author *string `json:"author,omitempty"`
	Year   *int    `json:"year,omitempty"`
	Read   *bool   `json:"read,omitempty"`
}

// PatchFromInput builds a patch that replaces every field.
func PatchFromInput(in Input) Patch {
	return Patch{
		Title:  &in.Title,
		Author: &in.Author,
		Year:   &in.Year,
		Read:   &in.Read,
	}
}

// Apply returns b with the non-nil fields of p applied.
func (p Patch) Apply(b Book) Book {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Year != nil {
		b.Year = *p.Year
	}
	if p.Read != nil {
		b.Read = *p.Read
	}
	return b
}

// Stats holds aggregate numbers about the collection. The capitalised Count
// key is what the backend emits.
type Stats struct {
	Count     int    `json:"Count"`
	ReadCount int    `json:"read_count"`
	TopAuthor string `json:"top_author"`
}

type SortField string

const (
	SortByTitle  SortField = "title"
	SortByAuthor SortField = "author"
	SortByYear   SortField = "year"
)

// SortFields lists the accepted sort fields in display order.
var SortFields = []SortField{SortByTitle, SortByAuthor, SortByYear}

func (f SortField) Valid() bool {
	switch f {
	case SortByTitle, SortByAuthor, SortByYear:
		return true
	}
	return false
}

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

func (o Order) Valid() bool {
	return o == Asc || o == Desc
}

// Flip returns the opposite direction.
func (o Order) Flip() Order {
	if o == Desc {
		return Asc
	}
	return Desc
}

// Query defines filters and pagination for listing books.
type Query struct {
	Q      string
	Sort   SortField
	Order  Order
	Offset int
	Limit  int
}

// Normalize replaces out of range values with their defaults.
func (q Query) Normalize() Query {
	if !q.Sort.Valid() {
		q.Sort = SortByTitle
	}
	if !q.Order.Valid() {
		q.Order = Asc
	}
	if q.Limit < 1 || q.Limit > MaxLimit {
		q.Limit = DefaultLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// Params renders the query as list parameters. An empty Q is kept as an
// empty value so the client can drop it.
func (q Query) Params() map[string]string {
	return map[string]string{
		"q":      q.Q,
		"sort":   string(q.Sort),
		"order":  string(q.Order),
		"offset": strconv.Itoa(q.Offset),
		"limit":  strconv.Itoa(q.Limit),
	}
}

// QueryFromParams parses list parameters, ignoring malformed numbers. q is
// matched as given, surrounding spaces included.
func QueryFromParams(get func(string) string) Query {
	q := Query{
		Q:     get("q"),
		Sort:  SortField(get("sort")),
		Order: Order(get("order")),
		Limit: DefaultLimit,
	}
	if v, err := strconv.Atoi(get("offset")); err == nil {
		q.Offset = v
	}
	if v, err := strconv.Atoi(get("limit")); err == nil {
		q.Limit = v
	}
	return q.Normalize()
}

// IdentityCutset is trimmed from both ends of title and author before
// comparing. books_identity_idx trims the same characters with btrim.
const IdentityCutset = " \t\n\r"

// IdentityKey normalises title and author for duplicate detection.
func IdentityKey(title, author string) string {
	return strings.ToLower(strings.Trim(title, IdentityCutset)) + "\x00" + strings.ToLower(strings.Trim(author, IdentityCutset))
}
