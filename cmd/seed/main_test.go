package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/book"
	"bookshelf/internal/platform/booksapi"
)

type mockCreator struct {
	mock.Mock
}

func (m *mockCreator) Create(ctx context.Context, in book.Input) (book.Book, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(book.Book), args.Error(1)
}

func TestSeed_CountsCreatedAndSkipped(t *testing.T) {
	dune := book.Input{Title: "Dune", Author: "Frank Herbert", Year: 1965}
	emma := book.Input{Title: "Emma", Author: "Jane Austen", Year: 1815}

	c := new(mockCreator)
	c.On("Create", mock.Anything, dune).Return(book.Book{}, &booksapi.RequestError{StatusCode: http.StatusConflict, Body: "duplicate"})
	c.On("Create", mock.Anything, emma).Return(book.Book{ID: 2, Title: "Emma"}, nil)

	created, skipped, err := seed(context.Background(), c, []book.Input{dune, emma})

	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, skipped)
	c.AssertExpectations(t)
}

func TestSeed_TransportErrorStops(t *testing.T) {
	dune := book.Input{Title: "Dune", Author: "Frank Herbert", Year: 1965}

	c := new(mockCreator)
	c.On("Create", mock.Anything, dune).Return(book.Book{}, context.DeadlineExceeded).Once()

	_, _, err := seed(context.Background(), c, []book.Input{dune, dune})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	c.AssertNumberOfCalls(t, "Create", 1)
}

func TestSeed_SkipsDuplicates(t *testing.T) {
	mux := http.NewServeMux()
	book.NewHTTPHandler(book.NewService(book.NewMemoryRepo())).Register(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := booksapi.NewClient(srv.URL, time.Second)
	input := []book.Input{
		{Title: "Emma", Author: "Jane Austen", Year: 1815},
		{Title: " emma ", Author: "JANE AUSTEN", Year: 1815},
		{Title: "Dune", Author: "Frank Herbert", Year: 1965},
	}

	created, skipped, err := seed(context.Background(), client, input)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, 1, skipped)

	created, skipped, err = seed(context.Background(), client, input)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 3, skipped)
}

func TestSeed_StopsOnOtherErrors(t *testing.T) {
	mux := http.NewServeMux()
	book.NewHTTPHandler(book.NewService(book.NewMemoryRepo())).Register(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := booksapi.NewClient(srv.URL, time.Second)
	input := []book.Input{
		{Title: "Dune", Author: "Frank Herbert", Year: 1965},
		{Title: "Too Old", Author: "Someone", Year: 1200},
	}

	created, _, err := seed(context.Background(), client, input)
	require.Error(t, err)
	assert.Equal(t, 1, created)

	var reqErr *booksapi.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusUnprocessableEntity, reqErr.StatusCode)
}

func TestClassicsAreValid(t *testing.T) {
	for _, in := range classics {
		assert.NoError(t, book.Validate(in), in.Title)
	}
}
