package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryFromParams(t *testing.T) {
	values := map[string]string{"q": " dune ", "sort": "year", "order": "desc", "offset": "20", "limit": "5"}
	q := QueryFromParams(func(k string) string { return values[k] })

	assert.Equal(t, Query{Q: " dune ", Sort: SortByYear, Order: Desc, Offset: 20, Limit: 5}, q)

	q = QueryFromParams(func(string) string { return "" })
	assert.Equal(t, Query{Sort: SortByTitle, Order: Asc, Offset: 0, Limit: DefaultLimit}, q)
}

func TestQuery_Params(t *testing.T) {
	p := Query{Sort: SortByAuthor, Order: Asc, Offset: 10, Limit: 10}.Params()

	assert.Equal(t, map[string]string{
		"q":      "",
		"sort":   "author",
		"order":  "asc",
		"offset": "10",
		"limit":  "10",
	}, p)
}

func TestPatch_Apply(t *testing.T) {
	b := Book{ID: 1, Title: "Dune", Author: "Herbert", Year: 1965}

	got := Patch{Read: ptr(true), Year: ptr(1966)}.Apply(b)

	assert.Equal(t, Book{ID: 1, Title: "Dune", Author: "Herbert", Year: 1966, Read: true}, got)
}

func TestIdentityKey(t *testing.T) {
	tests := []struct {
		name          string
		title, author string
		same          bool
	}{
		{"case", "DUNE", "herbert", true},
		{"spaces", "  Dune ", " Herbert", true},
		{"tabs and newlines", "\tDune\n", "Herbert\r\n", true},
		{"inner spaces kept", "Du ne", "Herbert", false},
		// btrim leaves non-breaking spaces alone, so the key does too
		{"non-breaking space", "\u00a0Dune", "Herbert", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IdentityKey(tt.title, tt.author) == IdentityKey("Dune", "Herbert")
			assert.Equal(t, tt.same, got)
		})
	}
}

func TestOrder_Flip(t *testing.T) {
	assert.Equal(t, Desc, Asc.Flip())
	assert.Equal(t, Asc, Desc.Flip())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		in         Input
		wantFields []string
	}{
		{"valid", Input{Title: "Dune", Author: "Herbert", Year: 1965}, nil},
		{"blank title", Input{Title: "  ", Author: "Herbert", Year: 1965}, []string{"title"}},
		{"year too early", Input{Title: "T", Author: "A", Year: 1499}, []string{"year"}},
		{"year too late", Input{Title: "T", Author: "A", Year: 2101}, []string{"year"}},
		{"everything missing", Input{}, []string{"title", "author", "year"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.in)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalid)
			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			var fields []string
			for _, v := range verrs {
				fields = append(fields, v.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}
