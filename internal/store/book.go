package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// Book's json names double as its column names when scanning.
var bookColumns = []string{"id", "title", "author", "category", "rating", "pages", "description", "image", "content"}

// CreateBook stores a new book, assigning an ID when unset.
func (s *Store) CreateBook(ctx context.Context, b *Book) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	_, err := exec(ctx, s.drv, builder.Insert(BooksTable.Name).
		Columns(bookColumns...).
		Values(b.ID, b.Title, b.Author, b.Category, b.Rating, b.Pages, b.Description, b.Image, b.Content))
	return wrap("create book", err)
}

// UpdateBook replaces a book.
func (s *Store) UpdateBook(ctx context.Context, b Book) error {
	res, err := exec(ctx, s.drv, builder.Update(BooksTable.Name).
		Set("title", b.Title).
		Set("author", b.Author).
		Set("category", b.Category).
		Set("rating", b.Rating).
		Set("pages", b.Pages).
		Set("description", b.Description).
		Set("image", b.Image).
		Set("content", b.Content).
		Where(entsql.EQ("id", b.ID)))
	if err != nil {
		return wrap("update book", err)
	}
	return expectRow(res, "book", b.ID)
}

// DeleteBook removes a book.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	res, err := exec(ctx, s.drv, builder.Delete(BooksTable.Name).Where(entsql.EQ("id", id)))
	if err != nil {
		return wrap("delete book", err)
	}
	return expectRow(res, "book", id)
}

// GetBook returns a book by ID.
func (s *Store) GetBook(ctx context.Context, id string) (*Book, error) {
	var books []Book
	err := selectAll(ctx, s.drv, builder.Select(bookColumns...).
		From(builder.Table(BooksTable.Name)).
		Where(entsql.EQ("id", id)), &books)
	if err == nil && len(books) == 0 {
		err = sql.ErrNoRows
	}
	if err != nil {
		return nil, wrap(fmt.Sprintf("get book %q", id), err)
	}
	return &books[0], nil
}

// ListBooks returns books, optionally filtered by category, ordered by title.
func (s *Store) ListBooks(ctx context.Context, category string) ([]Book, error) {
	sel := builder.Select(bookColumns...).
		From(builder.Table(BooksTable.Name)).
		OrderBy("title", "id")
	if category != "" {
		sel.Where(entsql.EQ("category", category))
	}
	var out []Book
	if err := selectAll(ctx, s.drv, sel, &out); err != nil {
		return nil, wrap("query books", err)
	}
	return out, nil
}
