package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UserRole string

const (
	UserRoleGuest UserRole = "guest"
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Username     string    `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:255;not null" json:"email"`
	FirstName    string    `gorm:"size:150" json:"first_name"`
	LastName     string    `gorm:"size:150" json:"last_name"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         UserRole  `gorm:"size:10;not null;default:user" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Author struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Bio       string    `gorm:"type:text" json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Book struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title       string          `gorm:"size:200;not null" json:"title"`
	AuthorID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"author_id"`
	Author      *Author         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author,omitempty"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Description string          `gorm:"type:text" json:"description"`
	Stock       int             `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	CoverImage  string          `gorm:"size:500" json:"cover_image,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Order struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"total_price"`
	Status     OrderStatus     `gorm:"size:20;not null;default:pending" json:"status"`
	Items      []OrderItem     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// OrderItem.Price is the unit price of the book captured at order-creation time.
// It is never recomputed from Book.Price: later price edits must not change the
// totals of already-placed orders.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	BookID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"book_id"`
	Book      *Book           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"book,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_review_user_book" json:"user_id"`
	User      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	BookID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_review_user_book" json:"book_id"`
	Book      *Book     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"book,omitempty"`
	Rating    int       `gorm:"not null;check:rating BETWEEN 1 AND 5" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
