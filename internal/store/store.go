// Package store is the data access layer: a Store interface and its gorm implementation.
package store

import (
	"context" // Request scoped cancellation
	"errors"  // Error inspection
	"time"    // Reset token expiry

	"shop_api/internal/domain" // Domain models

	"gorm.io/gorm" // GORM ORM library
)

// MaxPageSize caps the number of items a single list call returns
const MaxPageSize = 100

// Sort orders accepted by Items
const (
	OrderCreatedAtAsc  = "createdAt_ASC"
	OrderCreatedAtDesc = "createdAt_DESC"
	OrderPriceAsc      = "price_ASC"
	OrderPriceDesc     = "price_DESC"
	OrderTitleAsc      = "title_ASC"
	OrderTitleDesc     = "title_DESC"
)

var orderClauses = map[string]string{
	OrderCreatedAtAsc:  "created_at asc",
	OrderCreatedAtDesc: "created_at desc",
	OrderPriceAsc:      "price asc",
	OrderPriceDesc:     "price desc",
	OrderTitleAsc:      "title asc",
	OrderTitleDesc:     "title desc",
}

// ItemFilter narrows and pages an item listing
type ItemFilter struct {
	Search  string // Substring matched against title or description
	OrderBy string // One of the Order* constants, createdAt_DESC when empty
	Skip    int    // Rows to skip
	First   int    // Rows to return, MaxPageSize when zero or larger
}

// Store is everything the resolvers need from persistence
type Store interface {
	CreateUser(ctx context.Context, u *domain.User) error
	UserByID(ctx context.Context, id string) (*domain.User, error)
	UserByEmail(ctx context.Context, email string) (*domain.User, error)
	UserByResetToken(ctx context.Context, token string, now time.Time) (*domain.User, error)
	SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error
	ResetPassword(ctx context.Context, userID, token, hash string) (*domain.User, error)
	UpdatePermissions(ctx context.Context, userID string, perms domain.Permissions) (*domain.User, error)
	Users(ctx context.Context) ([]domain.User, error)

	CreateItem(ctx context.Context, item *domain.Item) error
	ItemByID(ctx context.Context, id string) (*domain.Item, error)
	UpdateItem(ctx context.Context, id string, upd domain.ItemUpdate) (*domain.Item, error)
	DeleteItem(ctx context.Context, id string) error
	Items(ctx context.Context, f ItemFilter) ([]domain.Item, error)
	CountItems(ctx context.Context, search string) (int64, error)

	CartItemByID(ctx context.Context, id string) (*domain.CartItem, error)
	CartItemByUserAndItem(ctx context.Context, userID, itemID string) (*domain.CartItem, error)
	CreateCartItem(ctx context.Context, ci *domain.CartItem) error
	IncrementCartItem(ctx context.Context, id string) (*domain.CartItem, error)
	DeleteCartItem(ctx context.Context, id string) error
	CartItems(ctx context.Context, userID string) ([]domain.CartItem, error)

	PlaceOrder(ctx context.Context, order *domain.Order, cartIDs []string) error
	OrderByID(ctx context.Context, id string) (*domain.Order, error)
	OrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

// gormStore implements Store on top of gorm
type gormStore struct {
	db *gorm.DB
}

var _ Store = (*gormStore)(nil)

// New returns a Store backed by db. db should be opened with TranslateError so
// unique violations surface as conflicts.
func New(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// translate maps gorm errors onto application error codes
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.WrapError(err, domain.ENOTFOUND, op, "Record not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.WrapError(err, domain.ECONFLICT, op, "Record already exists")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domain.WrapError(err, domain.EINTERNAL, op, "request cancelled")
	}
	return domain.WrapError(err, domain.EINTERNAL, op, "database error")
}

// searchScope filters items whose title or description contains term
func searchScope(term string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" {
			return db
		}
		like := "%" + term + "%"
		return db.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", like, like)
	}
}
