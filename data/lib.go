package data

import (
	"context"

	"github.com/senomas/gqlbooks/graph/model"
)

// Source provides the books answered by Query.books.
type Source interface {
	Books(ctx context.Context) ([]*model.Book, error)
}

// Catalog returns the books served when no database is configured.
func Catalog() []model.Book {
	return []model.Book{
		{
			Title:  "Harry Potter and the Sorcerer's stone",
			Author: "J.K. Rowling",
			Price:  2000,
		},
		{
			Title:  "Jurassic Park",
			Author: "Michael Crichton",
			Price:  3000,
		},
	}
}

// Static is a read-only Source over a fixed list. The list is copied on
// construction and every call to Books returns fresh copies, so callers
// can not change what later requests observe.
type Static struct {
	books []model.Book
}

func NewStatic(books ...model.Book) *Static {
	return &Static{books: append([]model.Book(nil), books...)}
}

func (s *Static) Books(ctx context.Context) ([]*model.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	books := make([]*model.Book, len(s.books))
	for i := range s.books {
		b := s.books[i]
		books[i] = &b
	}
	return books, nil
}

func (s *Static) Len() int {
	return len(s.books)
}
