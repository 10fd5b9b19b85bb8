package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/platform/booksapi"
)

var classics = []book.Input{
	{Title: "Pride and Prejudice", Author: "Jane Austen", Year: 1813},
	{Title: "Emma", Author: "Jane Austen", Year: 1815},
	{Title: "Frankenstein", Author: "Mary Shelley", Year: 1818},
	{Title: "Moby-Dick", Author: "Herman Melville", Year: 1851},
	{Title: "Great Expectations", Author: "Charles Dickens", Year: 1861},
	{Title: "A Tale of Two Cities", Author: "Charles Dickens", Year: 1859},
	{Title: "Crime and Punishment", Author: "Fyodor Dostoevsky", Year: 1866},
	{Title: "War and Peace", Author: "Leo Tolstoy", Year: 1869},
	{Title: "Don Quixote", Author: "Miguel de Cervantes", Year: 1605},
	{Title: "One Hundred Years of Solitude", Author: "Gabriel García Márquez", Year: 1967},
	{Title: "Nineteen Eighty-Four", Author: "George Orwell", Year: 1949},
	{Title: "Animal Farm", Author: "George Orwell", Year: 1945},
	{Title: "Dune", Author: "Frank Herbert", Year: 1965},
	{Title: "The Hobbit", Author: "J. R. R. Tolkien", Year: 1937},
}

func main() {
	config.LoadEnvFiles()
	cfg := config.LoadClient()

	client := booksapi.NewClient(cfg.APIURL, cfg.Timeout, booksapi.WithRateLimit(cfg.RPS))
	created, skipped, err := seed(context.Background(), client, classics)
	if err != nil {
		log.Fatalf("seed error=%v", err)
	}
	log.Printf("seed done created=%d skipped=%d", created, skipped)
}

type creator interface {
	Create(ctx context.Context, in book.Input) (book.Book, error)
}

// seed creates each book, skipping the ones the backend already holds.
func seed(ctx context.Context, c creator, books []book.Input) (created, skipped int, err error) {
	for _, in := range books {
		b, err := c.Create(ctx, in)
		if err != nil {
			var reqErr *booksapi.RequestError
			if errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusConflict {
				log.Printf("seed skip title=%q author=%q reason=duplicate", in.Title, in.Author)
				skipped++
				continue
			}
			return created, skipped, err
		}
		log.Printf("seed created id=%d title=%q", b.ID, b.Title)
		created++
	}
	return created, skipped, nil
}
