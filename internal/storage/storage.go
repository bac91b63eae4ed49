package storage

import (
	"context"
	"errors"

	"github.com/waveshop/waves-backend/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures persistence operations needed by the auth chain.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	// FindByIDAndToken returns the user only when token matches the stored
	// current token exactly.
	FindByIDAndToken(ctx context.Context, id, token string) (models.User, error)
	// UpdateToken replaces the user's current session token; empty clears it.
	UpdateToken(ctx context.Context, id, token string) error
	// SaveUser inserts or updates by ID presence. The password hash column
	// is rewritten only when user.PasswordTouched is set.
	SaveUser(ctx context.Context, user models.User) (models.User, error)
}

// ListOptions control sorting and pagination of catalog listings.
type ListOptions struct {
	SortBy string
	Order  string
	Limit  int
	Skip   int
}

// ProductStore captures persistence for the product catalog.
type ProductStore interface {
	CreateWood(ctx context.Context, wood models.Wood) (models.Wood, error)
	CreateBrand(ctx context.Context, brand models.Brand) (models.Brand, error)
	CreateArticle(ctx context.Context, article models.Article) (models.Article, error)
	ListWoods(ctx context.Context) ([]models.Wood, error)
	ListBrands(ctx context.Context) ([]models.Brand, error)
	ListArticles(ctx context.Context, opts ListOptions) ([]models.Article, error)
}
