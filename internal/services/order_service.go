package services

import (
	"bytes"
	"errors"
	"log"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bookstore/internal/models"
	"bookstore/internal/repositories"
)

// OrderLine is one (book, quantity) pair of an order request, distinct from the
// persisted OrderItem record.
type OrderLine struct {
	BookID   uuid.UUID
	Quantity int
}

// ─── Service Interface ────────────────────────────────────────────────────────

// OrderService implements the order-placement and stock-reservation workflow.
type OrderService interface {
	CreateOrder(actor *models.User, lines []OrderLine) (*models.Order, error)
	GetOrder(actor *models.User, id uuid.UUID) (*models.Order, error)
	ListOrders(actor *models.User, filter repositories.OrderFilter) ([]models.Order, int64, error)
	UpdateOrderStatus(actor *models.User, id uuid.UUID, status models.OrderStatus) (*models.Order, error)
	DeleteOrder(actor *models.User, id uuid.UUID) error
}

// ─── Implementation ───────────────────────────────────────────────────────────

type orderService struct {
	db        *gorm.DB
	bookRepo  repositories.BookRepository
	orderRepo repositories.OrderRepository
}

// NewOrderService wires up all dependencies and returns an OrderService.
func NewOrderService(
	db *gorm.DB,
	bookRepo repositories.BookRepository,
	orderRepo repositories.OrderRepository,
) OrderService {
	return &orderService{
		db:        db,
		bookRepo:  bookRepo,
		orderRepo: orderRepo,
	}
}

// pendingLine is a validated line waiting for the commit phase. Price is the
// snapshot of the book's price at validation time and is what gets persisted,
// regardless of later price edits.
type pendingLine struct {
	book     *models.Book
	quantity int
	price    decimal.Decimal
}

// CreateOrder implements the transactional order-placement flow.
//
// All inside one transaction:
//  1. Lock every referenced book row (SELECT ... FOR UPDATE) in sorted-ID order,
//     so two multi-line orders can never deadlock on each other's locks.
//  2. Validate each line in the caller-supplied order: book must exist, and the
//     running requested total per book must not exceed its stock. Unit prices are
//     snapshotted here.
//  3. Only after every line validates: insert the Order with its OrderItems and
//     apply a guarded stock decrement per book.
//
// Any failure rolls the whole attempt back: no order, no items, no stock change.
// The loser of a concurrent race for the last unit blocks on the row lock, re-reads
// the decremented stock and fails step 2 with InsufficientStockError.
func (s *orderService) CreateOrder(actor *models.User, lines []OrderLine) (*models.Order, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, &ValidationError{Field: "quantity", Message: "must be a positive integer"}
		}
	}

	var orderID uuid.UUID

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// 1. Lock all referenced books in deterministic order.
		books := make(map[uuid.UUID]*models.Book)
		for _, id := range sortedBookIDs(lines) {
			book, err := s.bookRepo.GetByIDForUpdate(tx, id)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// Reported during validation below so that line order decides
					// which error the caller sees.
					continue
				}
				return err
			}
			books[id] = book
		}

		// 2. Validate every line before mutating anything. requested tracks the
		// running total per book so duplicate lines cannot jointly overdraw.
		requested := make(map[uuid.UUID]int)
		pending := make([]pendingLine, 0, len(lines))
		for _, line := range lines {
			book, ok := books[line.BookID]
			if !ok {
				return &BookNotFoundError{BookID: line.BookID}
			}
			available := book.Stock - requested[line.BookID]
			if line.Quantity > available {
				return &InsufficientStockError{
					BookID:    line.BookID,
					Available: available,
					Requested: line.Quantity,
				}
			}
			requested[line.BookID] += line.Quantity
			pending = append(pending, pendingLine{
				book:     book,
				quantity: line.Quantity,
				price:    book.Price,
			})
		}

		// 3. Commit phase: order + items in input order, then stock decrements.
		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(pending))
		for _, p := range pending {
			items = append(items, models.OrderItem{
				BookID:   p.book.ID,
				Quantity: p.quantity,
				Price:    p.price,
			})
			total = total.Add(p.price.Mul(decimal.NewFromInt(int64(p.quantity))))
		}

		order := &models.Order{
			UserID:     actor.ID,
			Status:     models.OrderStatusPending,
			TotalPrice: total,
			Items:      items,
		}
		if err := s.orderRepo.Create(tx, order); err != nil {
			log.Printf("[ERROR] CreateOrder: failed to persist order for user %s: %v", actor.ID, err)
			return err
		}

		for bookID, qty := range requested {
			affected, err := s.bookRepo.DecrementStock(tx, bookID, qty)
			if err != nil {
				log.Printf("[ERROR] CreateOrder: failed to decrement stock for book %s: %v", bookID, err)
				return err
			}
			if affected == 0 {
				// Unreachable while the row lock is held; kept as the in-transaction
				// guard that stock can never be driven negative.
				return &InsufficientStockError{
					BookID:    bookID,
					Available: books[bookID].Stock,
					Requested: qty,
				}
			}
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	created, err := s.orderRepo.GetByID(nil, orderID)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] CreateOrder: order %s created for user %s, %d item(s), total %s",
		created.ID, actor.ID, len(created.Items), created.TotalPrice)
	return created, nil
}

// GetOrder returns the order if the actor owns it or is an admin.
func (s *orderService) GetOrder(actor *models.User, id uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !CanAccess(actor, order.UserID) {
		return nil, ErrForbidden
	}
	return order, nil
}

// ListOrders returns the actor's own orders; admins see every account's orders.
func (s *orderService) ListOrders(actor *models.User, filter repositories.OrderFilter) ([]models.Order, int64, error) {
	if actor == nil {
		return nil, 0, ErrForbidden
	}
	if !IsAdmin(actor) {
		filter.UserID = &actor.ID
	}
	return s.orderRepo.List(nil, filter)
}

// UpdateOrderStatus transitions the order between pending, completed and cancelled.
// Cancelling does not restock inventory.
func (s *orderService) UpdateOrderStatus(actor *models.User, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	switch status {
	case models.OrderStatusPending, models.OrderStatusCompleted, models.OrderStatusCancelled:
	default:
		return nil, &ValidationError{Field: "status", Message: "must be one of pending, completed, cancelled"}
	}

	order, err := s.orderRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !CanAccess(actor, order.UserID) {
		return nil, ErrForbidden
	}

	order.Status = status
	if err := s.orderRepo.Update(nil, order); err != nil {
		log.Printf("[ERROR] UpdateOrderStatus: failed to update order %s: %v", id, err)
		return nil, err
	}
	log.Printf("[INFO] UpdateOrderStatus: order %s set to %s by user %s", id, status, actor.ID)
	return order, nil
}

// DeleteOrder removes the order and, via cascade, its items.
func (s *orderService) DeleteOrder(actor *models.User, id uuid.UUID) error {
	order, err := s.orderRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	if !CanAccess(actor, order.UserID) {
		return ErrForbidden
	}
	if err := s.orderRepo.Delete(nil, id); err != nil {
		log.Printf("[ERROR] DeleteOrder: failed to delete order %s: %v", id, err)
		return err
	}
	log.Printf("[INFO] DeleteOrder: order %s deleted by user %s", id, actor.ID)
	return nil
}

// sortedBookIDs returns the distinct book IDs of the request in byte order. Locks
// are always taken in this order regardless of how the caller arranged the lines.
func sortedBookIDs(lines []OrderLine) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.BookID]; ok {
			continue
		}
		seen[line.BookID] = struct{}{}
		ids = append(ids, line.BookID)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids
}
