package library

import (
	"strconv"
	"strings"

	"bookshelf/internal/book"
)

// Field identifies an editable form field.
type Field int

const (
	FieldTitle Field = iota
	FieldAuthor
	FieldYear
	FieldRead
)

// Fields lists the form fields in tab order.
var Fields = []Field{FieldTitle, FieldAuthor, FieldYear, FieldRead}

func (f Field) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldAuthor:
		return "author"
	case FieldYear:
		return "year"
	case FieldRead:
		return "read"
	}
	return "unknown"
}

// Form holds the raw create/edit inputs. Year stays text until submit.
type Form struct {
	Title  string
	Author string
	Year   string
	Read   bool
}

func formFromBook(b book.Book) Form {
	return Form{
		Title:  b.Title,
		Author: b.Author,
		Year:   strconv.Itoa(b.Year),
		Read:   b.Read,
	}
}

// Value returns the text of a field; the read flag renders as "true"/"false".
func (f Form) Value(field Field) string {
	switch field {
	case FieldTitle:
		return f.Title
	case FieldAuthor:
		return f.Author
	case FieldYear:
		return f.Year
	case FieldRead:
		return strconv.FormatBool(f.Read)
	}
	return ""
}

// With returns a copy of f with a text field replaced. FieldRead is ignored.
func (f Form) With(field Field, value string) Form {
	switch field {
	case FieldTitle:
		f.Title = value
	case FieldAuthor:
		f.Author = value
	case FieldYear:
		f.Year = value
	}
	return f
}

// Input converts the form into a validated create payload.
func (f Form) Input() (book.Input, error) {
	in := book.Input{Title: f.Title, Author: f.Author, Read: f.Read}

	year := strings.TrimSpace(f.Year)
	if year == "" {
		return book.Input{}, book.ValidationErrors{{Field: "year", Message: "year is required"}}
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return book.Input{}, book.ValidationErrors{{Field: "year", Message: "year must be a number"}}
	}
	in.Year = y

	if err := book.Validate(in); err != nil {
		return book.Input{}, err
	}
	return in, nil
}
