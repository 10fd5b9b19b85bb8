package library

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/book"
)

func TestForm_Input(t *testing.T) {
	tests := []struct {
		name    string
		form    Form
		want    book.Input
		wantErr string
	}{
		{
			name: "valid",
			form: Form{Title: "Dune", Author: "Herbert", Year: "1965", Read: true},
			want: book.Input{Title: "Dune", Author: "Herbert", Year: 1965, Read: true},
		},
		{
			name: "year with spaces",
			form: Form{Title: "Dune", Author: "Herbert", Year: " 1965 "},
			want: book.Input{Title: "Dune", Author: "Herbert", Year: 1965},
		},
		{
			name:    "missing year",
			form:    Form{Title: "Dune", Author: "Herbert"},
			wantErr: "year is required",
		},
		{
			name:    "year not a number",
			form:    Form{Title: "Dune", Author: "Herbert", Year: "1965a"},
			wantErr: "year must be a number",
		},
		{
			name:    "year too early",
			form:    Form{Title: "Dune", Author: "Herbert", Year: "1499"},
			wantErr: "year must be at least 1500",
		},
		{
			name:    "blank author",
			form:    Form{Title: "Dune", Author: "   ", Year: "1965"},
			wantErr: "author is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.form.Input()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, book.ErrInvalid))
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestForm_WithAndValue(t *testing.T) {
	f := Form{}.
		With(FieldTitle, "Emma").
		With(FieldAuthor, "Austen").
		With(FieldYear, "1815").
		With(FieldRead, "true")

	assert.Equal(t, "Emma", f.Value(FieldTitle))
	assert.Equal(t, "Austen", f.Value(FieldAuthor))
	assert.Equal(t, "1815", f.Value(FieldYear))
	assert.Equal(t, "false", f.Value(FieldRead))
}

func TestFormFromBook(t *testing.T) {
	f := formFromBook(book.Book{ID: 3, Title: "Emma", Author: "Austen", Year: 1815, Read: true})
	assert.Equal(t, Form{Title: "Emma", Author: "Austen", Year: "1815", Read: true}, f)
}

func TestField_String(t *testing.T) {
	var names []string
	for _, f := range Fields {
		names = append(names, f.String())
	}
	assert.Equal(t, []string{"title", "author", "year", "read"}, names)
	assert.Equal(t, "unknown", Field(42).String())
}
