package services

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bookstore/internal/models"
	"bookstore/internal/repositories"
)

// ─── Service Interface ────────────────────────────────────────────────────────

// ReviewService manages book reviews: one review per (user, book) pair.
type ReviewService interface {
	CreateReview(actor *models.User, bookID uuid.UUID, rating int, comment string) (*models.Review, error)
	GetReview(id uuid.UUID) (*models.Review, error)
	ListReviews(filter repositories.ReviewFilter) ([]models.Review, int64, error)
	UpdateReview(actor *models.User, id uuid.UUID, rating int, comment string) (*models.Review, error)
	DeleteReview(actor *models.User, id uuid.UUID) error
}

// ─── Implementation ───────────────────────────────────────────────────────────

type reviewService struct {
	db         *gorm.DB
	bookRepo   repositories.BookRepository
	reviewRepo repositories.ReviewRepository
}

// NewReviewService wires up all dependencies and returns a ReviewService.
func NewReviewService(
	db *gorm.DB,
	bookRepo repositories.BookRepository,
	reviewRepo repositories.ReviewRepository,
) ReviewService {
	return &reviewService{
		db:         db,
		bookRepo:   bookRepo,
		reviewRepo: reviewRepo,
	}
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return &ValidationError{Field: "rating", Message: "must be between 1 and 5"}
	}
	return nil
}

// CreateReview inserts a review after checking the rating range, the book's
// existence and the one-review-per-book rule. The pre-check keeps the common case
// friendly; the unique index is the authoritative backstop if two requests race.
func (s *reviewService) CreateReview(actor *models.User, bookID uuid.UUID, rating int, comment string) (*models.Review, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	if err := validateRating(rating); err != nil {
		return nil, err
	}

	if _, err := s.bookRepo.GetByID(nil, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	if _, err := s.reviewRepo.GetByUserAndBook(nil, actor.ID, bookID); err == nil {
		return nil, ErrDuplicateReview
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := &models.Review{
		UserID:  actor.ID,
		BookID:  bookID,
		Rating:  rating,
		Comment: comment,
	}
	if err := s.reviewRepo.Create(nil, review); err != nil {
		if isUniqueViolation(err) {
			log.Printf("[WARN] CreateReview: lost race on (user=%s, book=%s), unique index rejected insert", actor.ID, bookID)
			return nil, ErrDuplicateReview
		}
		log.Printf("[ERROR] CreateReview: failed to create review for book %s: %v", bookID, err)
		return nil, err
	}
	log.Printf("[INFO] CreateReview: user %s rated book %s %d/5 (id=%s)", actor.ID, bookID, rating, review.ID)
	return review, nil
}

func (s *reviewService) GetReview(id uuid.UUID) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) ListReviews(filter repositories.ReviewFilter) ([]models.Review, int64, error) {
	return s.reviewRepo.List(nil, filter)
}

// UpdateReview changes rating/comment; only the review's author or an admin may.
func (s *reviewService) UpdateReview(actor *models.User, id uuid.UUID, rating int, comment string) (*models.Review, error) {
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	review, err := s.reviewRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if !CanAccess(actor, review.UserID) {
		return nil, ErrForbidden
	}

	review.Rating = rating
	review.Comment = comment
	if err := s.reviewRepo.Update(nil, review); err != nil {
		log.Printf("[ERROR] UpdateReview: failed to update review %s: %v", id, err)
		return nil, err
	}
	return review, nil
}

func (s *reviewService) DeleteReview(actor *models.User, id uuid.UUID) error {
	review, err := s.reviewRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	if !CanAccess(actor, review.UserID) {
		return ErrForbidden
	}
	if err := s.reviewRepo.Delete(nil, id); err != nil {
		log.Printf("[ERROR] DeleteReview: failed to delete review %s: %v", id, err)
		return err
	}
	log.Printf("[INFO] DeleteReview: review %s deleted by user %s", id, actor.ID)
	return nil
}
