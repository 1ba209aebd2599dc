// Package library manages the book catalogue.
package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/alme-learn/alme/internal/apperr"
	"github.com/alme-learn/alme/internal/store"
)

// MaxRating is the top of the rating scale.
const MaxRating = 5.0

type Repository interface {
	CreateBook(ctx context.Context, b *store.Book) error
	UpdateBook(ctx context.Context, b store.Book) error
	DeleteBook(ctx context.Context, id string) error
	GetBook(ctx context.Context, id string) (*store.Book, error)
	ListBooks(ctx context.Context, category string) ([]store.Book, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Books lists the catalogue, optionally narrowed to one category.
func (s *Service) Books(ctx context.Context, category string) ([]store.Book, error) {
	books, err := s.repo.ListBooks(ctx, strings.TrimSpace(category))
	if books == nil && err == nil {
		books = []store.Book{}
	}
	return books, err
}

func (s *Service) Book(ctx context.Context, id string) (*store.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) Create(ctx context.Context, b store.Book) (*store.Book, error) {
	if err := normalize(&b); err != nil {
		return nil, err
	}
	if err := s.repo.CreateBook(ctx, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Update replaces the book with b.ID.
func (s *Service) Update(ctx context.Context, b store.Book) (*store.Book, error) {
	if b.ID == "" {
		return nil, fmt.Errorf("%w: book ID is required", apperr.ErrInvalidInput)
	}
	if err := normalize(&b); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateBook(ctx, b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteBook(ctx, id)
}

func normalize(b *store.Book) error {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	b.Category = strings.TrimSpace(b.Category)
	switch {
	case b.Title == "":
		return fmt.Errorf("%w: book title is required", apperr.ErrInvalidInput)
	case b.Rating < 0 || b.Rating > MaxRating:
		return fmt.Errorf("%w: rating %.1f outside 0-%.0f", apperr.ErrInvalidInput, b.Rating, MaxRating)
	case b.Pages < 0:
		return fmt.Errorf("%w: page count cannot be negative", apperr.ErrInvalidInput)
	}
	return nil
}
