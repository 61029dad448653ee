package services

import (
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bookstore/internal/models"
	"bookstore/internal/repositories"
)

// BookInput carries the writable fields of a book.
type BookInput struct {
	Title       string
	AuthorID    uuid.UUID
	Price       decimal.Decimal
	Description string
	Stock       int
	CoverImage  string
}

// AuthorInput carries the writable fields of an author.
type AuthorInput struct {
	Name string
	Bio  string
}

// ─── Service Interface ────────────────────────────────────────────────────────

// CatalogService manages authors and books. Reads are open to anyone; the handler
// layer restricts writes to authenticated callers.
type CatalogService interface {
	CreateAuthor(input AuthorInput) (*models.Author, error)
	GetAuthor(id uuid.UUID) (*models.Author, error)
	ListAuthors() ([]models.Author, error)
	UpdateAuthor(id uuid.UUID, input AuthorInput) (*models.Author, error)
	DeleteAuthor(id uuid.UUID) error

	CreateBook(input BookInput) (*models.Book, error)
	GetBook(id uuid.UUID) (*models.Book, error)
	ListBooks(filter repositories.BookFilter) ([]models.Book, int64, error)
	UpdateBook(id uuid.UUID, input BookInput) (*models.Book, error)
	DeleteBook(id uuid.UUID) error
}

// ─── Implementation ───────────────────────────────────────────────────────────

type catalogService struct {
	db         *gorm.DB
	authorRepo repositories.AuthorRepository
	bookRepo   repositories.BookRepository
}

// NewCatalogService wires up all dependencies and returns a CatalogService.
func NewCatalogService(
	db *gorm.DB,
	authorRepo repositories.AuthorRepository,
	bookRepo repositories.BookRepository,
) CatalogService {
	return &catalogService{
		db:         db,
		authorRepo: authorRepo,
		bookRepo:   bookRepo,
	}
}

// ─── Authors ──────────────────────────────────────────────────────────────────

func (s *catalogService) CreateAuthor(input AuthorInput) (*models.Author, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "must not be empty"}
	}
	author := &models.Author{Name: input.Name, Bio: input.Bio}
	if err := s.authorRepo.Create(nil, author); err != nil {
		log.Printf("[ERROR] CreateAuthor: failed to create author %q: %v", input.Name, err)
		return nil, err
	}
	log.Printf("[INFO] CreateAuthor: created author %q (id=%s)", author.Name, author.ID)
	return author, nil
}

func (s *catalogService) GetAuthor(id uuid.UUID) (*models.Author, error) {
	author, err := s.authorRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}
	return author, nil
}

func (s *catalogService) ListAuthors() ([]models.Author, error) {
	return s.authorRepo.List(nil)
}

func (s *catalogService) UpdateAuthor(id uuid.UUID, input AuthorInput) (*models.Author, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "must not be empty"}
	}
	author, err := s.authorRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}
	author.Name = input.Name
	author.Bio = input.Bio
	if err := s.authorRepo.Update(nil, author); err != nil {
		log.Printf("[ERROR] UpdateAuthor: failed to update author %s: %v", id, err)
		return nil, err
	}
	return author, nil
}

// DeleteAuthor removes the author; the FK cascade removes their books and in turn
// any order items and reviews referencing those books.
func (s *catalogService) DeleteAuthor(id uuid.UUID) error {
	if _, err := s.authorRepo.GetByID(nil, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAuthorNotFound
		}
		return err
	}
	if err := s.authorRepo.Delete(nil, id); err != nil {
		log.Printf("[ERROR] DeleteAuthor: failed to delete author %s: %v", id, err)
		return err
	}
	log.Printf("[INFO] DeleteAuthor: deleted author %s", id)
	return nil
}

// ─── Books ────────────────────────────────────────────────────────────────────

func validateBookInput(input BookInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return &ValidationError{Field: "title", Message: "must not be empty"}
	}
	if !input.Price.IsPositive() {
		return &ValidationError{Field: "price", Message: "must be greater than zero"}
	}
	if input.Stock < 0 {
		return &ValidationError{Field: "stock", Message: "must not be negative"}
	}
	return nil
}

func (s *catalogService) CreateBook(input BookInput) (*models.Book, error) {
	if err := validateBookInput(input); err != nil {
		return nil, err
	}
	if _, err := s.authorRepo.GetByID(nil, input.AuthorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}

	book := &models.Book{
		Title:       input.Title,
		AuthorID:    input.AuthorID,
		Price:       input.Price,
		Description: input.Description,
		Stock:       input.Stock,
		CoverImage:  input.CoverImage,
	}
	if err := s.bookRepo.Create(nil, book); err != nil {
		log.Printf("[ERROR] CreateBook: failed to create book %q: %v", input.Title, err)
		return nil, err
	}
	log.Printf("[INFO] CreateBook: created book %q (id=%s) with stock %d", book.Title, book.ID, book.Stock)
	return s.GetBook(book.ID)
}

func (s *catalogService) GetBook(id uuid.UUID) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

func (s *catalogService) ListBooks(filter repositories.BookFilter) ([]models.Book, int64, error) {
	return s.bookRepo.List(nil, filter)
}

func (s *catalogService) UpdateBook(id uuid.UUID, input BookInput) (*models.Book, error) {
	if err := validateBookInput(input); err != nil {
		return nil, err
	}
	book, err := s.bookRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	if input.AuthorID != book.AuthorID {
		if _, err := s.authorRepo.GetByID(nil, input.AuthorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAuthorNotFound
			}
			return nil, err
		}
	}

	book.Title = input.Title
	book.AuthorID = input.AuthorID
	book.Price = input.Price
	book.Description = input.Description
	book.Stock = input.Stock
	book.CoverImage = input.CoverImage
	book.Author = nil
	if err := s.bookRepo.Update(nil, book); err != nil {
		log.Printf("[ERROR] UpdateBook: failed to update book %s: %v", id, err)
		return nil, err
	}
	return s.GetBook(id)
}

// DeleteBook removes the book; dependent order items and reviews go with it.
func (s *catalogService) DeleteBook(id uuid.UUID) error {
	if _, err := s.bookRepo.GetByID(nil, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}
	if err := s.bookRepo.Delete(nil, id); err != nil {
		log.Printf("[ERROR] DeleteBook: failed to delete book %s: %v", id, err)
		return err
	}
	log.Printf("[INFO] DeleteBook: deleted book %s", id)
	return nil
}
