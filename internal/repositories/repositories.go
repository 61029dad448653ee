package repositories

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookstore/internal/models"
)

// BookFilter narrows and orders book listings. Nil pointer fields are ignored.
type BookFilter struct {
	AuthorID  *uuid.UUID
	PriceMin  *decimal.Decimal
	PriceMax  *decimal.Decimal
	Search    string // case-insensitive substring over title, description, author name
	SortBy    string // price | title | created_at
	SortOrder string // asc | desc
	Page      int
	PerPage   int
}

// OrderFilter narrows and orders order listings. A nil UserID means all users.
type OrderFilter struct {
	UserID    *uuid.UUID
	Status    models.OrderStatus
	SortBy    string // created_at | total_price
	SortOrder string
	Page      int
	PerPage   int
}

// ReviewFilter narrows and orders review listings.
type ReviewFilter struct {
	BookID    *uuid.UUID
	Rating    int    // 0 means any
	SortBy    string // created_at | rating
	SortOrder string
	Page      int
	PerPage   int
}

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	GetByID(db *gorm.DB, id uuid.UUID) (*models.User, error)
	GetByUsername(db *gorm.DB, username string) (*models.User, error)
	List(db *gorm.DB) ([]models.User, error)
	Update(db *gorm.DB, user *models.User) error
	Delete(db *gorm.DB, id uuid.UUID) error
}

type AuthorRepository interface {
	Create(db *gorm.DB, author *models.Author) error
	GetByID(db *gorm.DB, id uuid.UUID) (*models.Author, error)
	List(db *gorm.DB) ([]models.Author, error)
	Update(db *gorm.DB, author *models.Author) error
	Delete(db *gorm.DB, id uuid.UUID) error
}

type BookRepository interface {
	Create(db *gorm.DB, book *models.Book) error
	GetByID(db *gorm.DB, id uuid.UUID) (*models.Book, error)
	GetByIDForUpdate(db *gorm.DB, id uuid.UUID) (*models.Book, error)
	List(db *gorm.DB, filter BookFilter) ([]models.Book, int64, error)
	Update(db *gorm.DB, book *models.Book) error
	Delete(db *gorm.DB, id uuid.UUID) error
	DecrementStock(db *gorm.DB, bookID uuid.UUID, qty int) (int64, error)
}

type OrderRepository interface {
	Create(db *gorm.DB, order *models.Order) error
	GetByID(db *gorm.DB, id uuid.UUID) (*models.Order, error)
	List(db *gorm.DB, filter OrderFilter) ([]models.Order, int64, error)
	Update(db *gorm.DB, order *models.Order) error
	Delete(db *gorm.DB, id uuid.UUID) error
}

type ReviewRepository interface {
	Create(db *gorm.DB, review *models.Review) error
	GetByID(db *gorm.DB, id uuid.UUID) (*models.Review, error)
	GetByUserAndBook(db *gorm.DB, userID, bookID uuid.UUID) (*models.Review, error)
	List(db *gorm.DB, filter ReviewFilter) ([]models.Review, int64, error)
	Update(db *gorm.DB, review *models.Review) error
	Delete(db *gorm.DB, id uuid.UUID) error
}

// concrete implementations

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(db *gorm.DB, user *models.User) error {
	if db == nil {
		db = r.db
	}
	return db.Create(user).Error
}

func (r *userRepository) GetByID(db *gorm.DB, id uuid.UUID) (*models.User, error) {
	if db == nil {
		db = r.db
	}
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(db *gorm.DB, username string) (*models.User, error) {
	if db == nil {
		db = r.db
	}
	var user models.User
	if err := db.First(&user, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(db *gorm.DB) ([]models.User, error) {
	if db == nil {
		db = r.db
	}
	var users []models.User
	if err := db.Order("created_at").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Update(db *gorm.DB, user *models.User) error {
	if db == nil {
		db = r.db
	}
	return db.Save(user).Error
}

func (r *userRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	if db == nil {
		db = r.db
	}
	return db.Delete(&models.User{}, "id = ?", id).Error
}

type authorRepository struct {
	db *gorm.DB
}

func NewAuthorRepository(db *gorm.DB) AuthorRepository {
	return &authorRepository{db: db}
}

func (r *authorRepository) Create(db *gorm.DB, author *models.Author) error {
	if db == nil {
		db = r.db
	}
	return db.Create(author).Error
}

func (r *authorRepository) GetByID(db *gorm.DB, id uuid.UUID) (*models.Author, error) {
	if db == nil {
		db = r.db
	}
	var author models.Author
	if err := db.First(&author, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

func (r *authorRepository) List(db *gorm.DB) ([]models.Author, error) {
	if db == nil {
		db = r.db
	}
	var authors []models.Author
	if err := db.Order("name").Find(&authors).Error; err != nil {
		return nil, err
	}
	return authors, nil
}

func (r *authorRepository) Update(db *gorm.DB, author *models.Author) error {
	if db == nil {
		db = r.db
	}
	return db.Save(author).Error
}

func (r *authorRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	if db == nil {
		db = r.db
	}
	return db.Delete(&models.Author{}, "id = ?", id).Error
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(db *gorm.DB, book *models.Book) error {
	if db == nil {
		db = r.db
	}
	return db.Create(book).Error
}

func (r *bookRepository) GetByID(db *gorm.DB, id uuid.UUID) (*models.Book, error) {
	if db == nil {
		db = r.db
	}
	var book models.Book
	if err := db.Preload("Author").First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// GetByIDForUpdate locks the book row (SELECT ... FOR UPDATE) until the enclosing
// transaction commits. Order creation relies on this to serialize concurrent stock
// decrements against the same book.
func (r *bookRepository) GetByIDForUpdate(db *gorm.DB, id uuid.UUID) (*models.Book, error) {
	if db == nil {
		db = r.db
	}
	var book models.Book
	err := db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&book, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

var bookSortColumns = map[string]string{
	"price":      "books.price",
	"title":      "books.title",
	"created_at": "books.created_at",
}

func (r *bookRepository) List(db *gorm.DB, filter BookFilter) ([]models.Book, int64, error) {
	if db == nil {
		db = r.db
	}

	q := db.Model(&models.Book{}).
		Joins("JOIN authors ON authors.id = books.author_id")

	if filter.AuthorID != nil {
		q = q.Where("books.author_id = ?", *filter.AuthorID)
	}
	if filter.PriceMin != nil {
		q = q.Where("books.price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		q = q.Where("books.price <= ?", *filter.PriceMax)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + s + "%"
		q = q.Where(
			"books.title ILIKE ? OR books.description ILIKE ? OR authors.name ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order(orderClause(bookSortColumns, filter.SortBy, filter.SortOrder, "books.created_at DESC"))
	q = paginate(q, filter.Page, filter.PerPage)

	var books []models.Book
	if err := q.Preload("Author").Find(&books).Error; err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *bookRepository) Update(db *gorm.DB, book *models.Book) error {
	if db == nil {
		db = r.db
	}
	return db.Save(book).Error
}

func (r *bookRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	if db == nil {
		db = r.db
	}
	return db.Delete(&models.Book{}, "id = ?", id).Error
}

// DecrementStock applies a guarded decrement and reports the number of rows updated.
// Zero rows means the guard failed: the book is gone or stock < qty. The caller treats
// that as an insufficient-stock condition; stock can never be driven negative here.
func (r *bookRepository) DecrementStock(db *gorm.DB, bookID uuid.UUID, qty int) (int64, error) {
	if db == nil {
		db = r.db
	}
	res := db.Model(&models.Book{}).
		Where("id = ? AND stock >= ?", bookID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	return res.RowsAffected, res.Error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(db *gorm.DB, order *models.Order) error {
	if db == nil {
		db = r.db
	}
	// Items set on the order are inserted in slice order in the same statement batch.
	return db.Create(order).Error
}

func (r *orderRepository) GetByID(db *gorm.DB, id uuid.UUID) (*models.Order, error) {
	if db == nil {
		db = r.db
	}
	var order models.Order
	err := db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.created_at") }).
		Preload("Items.Book").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

var orderSortColumns = map[string]string{
	"created_at":  "orders.created_at",
	"total_price": "orders.total_price",
}

func (r *orderRepository) List(db *gorm.DB, filter OrderFilter) ([]models.Order, int64, error) {
	if db == nil {
		db = r.db
	}

	q := db.Model(&models.Order{})
	if filter.UserID != nil {
		q = q.Where("orders.user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("orders.status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order(orderClause(orderSortColumns, filter.SortBy, filter.SortOrder, "orders.created_at DESC"))
	q = paginate(q, filter.Page, filter.PerPage)

	var orders []models.Order
	if err := q.Preload("Items").Preload("Items.Book").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) Update(db *gorm.DB, order *models.Order) error {
	if db == nil {
		db = r.db
	}
	return db.Save(order).Error
}

func (r *orderRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	if db == nil {
		db = r.db
	}
	return db.Delete(&models.Order{}, "id = ?", id).Error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(db *gorm.DB, review *models.Review) error {
	if db == nil {
		db = r.db
	}
	return db.Create(review).Error
}

func (r *reviewRepository) GetByID(db *gorm.DB, id uuid.UUID) (*models.Review, error) {
	if db == nil {
		db = r.db
	}
	var review models.Review
	if err := db.First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) GetByUserAndBook(db *gorm.DB, userID, bookID uuid.UUID) (*models.Review, error) {
	if db == nil {
		db = r.db
	}
	var review models.Review
	err := db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

var reviewSortColumns = map[string]string{
	"created_at": "reviews.created_at",
	"rating":     "reviews.rating",
}

func (r *reviewRepository) List(db *gorm.DB, filter ReviewFilter) ([]models.Review, int64, error) {
	if db == nil {
		db = r.db
	}

	q := db.Model(&models.Review{})
	if filter.BookID != nil {
		q = q.Where("reviews.book_id = ?", *filter.BookID)
	}
	if filter.Rating != 0 {
		q = q.Where("reviews.rating = ?", filter.Rating)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order(orderClause(reviewSortColumns, filter.SortBy, filter.SortOrder, "reviews.created_at DESC"))
	q = paginate(q, filter.Page, filter.PerPage)

	var reviews []models.Review
	if err := q.Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *reviewRepository) Update(db *gorm.DB, review *models.Review) error {
	if db == nil {
		db = r.db
	}
	return db.Save(review).Error
}

func (r *reviewRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	if db == nil {
		db = r.db
	}
	return db.Delete(&models.Review{}, "id = ?", id).Error
}

// shared listing helpers

// orderClause whitelists the sort column against the given map; anything else falls
// back to the default clause. Sort direction defaults to ascending.
func orderClause(columns map[string]string, sortBy, sortOrder, fallback string) string {
	col, ok := columns[sortBy]
	if !ok {
		return fallback
	}
	dir := "ASC"
	if strings.EqualFold(sortOrder, "desc") {
		dir = "DESC"
	}
	return col + " " + dir
}

func paginate(q *gorm.DB, page, perPage int) *gorm.DB {
	if perPage <= 0 {
		return q
	}
	if page < 1 {
		page = 1
	}
	return q.Offset((page - 1) * perPage).Limit(perPage)
}
