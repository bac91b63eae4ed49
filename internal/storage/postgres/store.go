package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/waveshop/waves-backend/internal/models"
	"github.com/waveshop/waves-backend/internal/storage"
)

// Ensure Store satisfies the storage interfaces at compile time.
var (
	_ storage.UserStore    = (*Store)(nil)
	_ storage.ProductStore = (*Store)(nil)
)

const userColumns = `id, email, name, last_name, password_hash, role, token, cart, history, created_at`

// Store provides Postgres-backed persistence for users and the catalog.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			role INTEGER NOT NULL DEFAULT 0,
			token TEXT NOT NULL DEFAULT '',
			cart JSONB NOT NULL DEFAULT '[]',
			history JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_unique_idx ON users (email);`,
		`CREATE TABLE IF NOT EXISTS woods (
			id TEXT PRIMARY KEY,
			name TEXT UNIQUE NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS brands (
			id TEXT PRIMARY KEY,
			name TEXT UNIQUE NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS articles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price DOUBLE PRECISION NOT NULL DEFAULT 0,
			brand_id TEXT REFERENCES brands(id),
			wood_id TEXT REFERENCES woods(id),
			frets INTEGER NOT NULL DEFAULT 0,
			sold INTEGER NOT NULL DEFAULT 0,
			shipping BOOLEAN NOT NULL DEFAULT FALSE,
			available BOOLEAN NOT NULL DEFAULT TRUE,
			publish BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	cart, history, err := encodeCollections(user)
	if err != nil {
		return models.User{}, err
	}

	const query = `
		INSERT INTO users (id, email, name, last_name, password_hash, role, token, cart, history)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + userColumns + `;`
	row := s.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.Name, user.LastName, user.PasswordHash,
		int(user.Role), user.Token, cart, history)
	created, err := scanUser(row)
	if err != nil {
		return models.User{}, mapUniqueViolation(err)
	}
	return created, nil
}

// FindByEmail fetches a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1;`
	return scanUser(s.pool.QueryRow(ctx, query, email))
}

// FindByIDAndToken fetches a user only when the stored current token matches
// the presented value exactly. A cleared token matches nothing.
func (s *Store) FindByIDAndToken(ctx context.Context, id, token string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND token = $2 AND token <> '';`
	return scanUser(s.pool.QueryRow(ctx, query, id, token))
}

// UpdateToken replaces the user's current session token. Only the token
// column is touched.
func (s *Store) UpdateToken(ctx context.Context, id, token string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET token = $2 WHERE id = $1;`, id, token)
	if err != nil {
		return fmt.Errorf("update token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SaveUser inserts or updates a user by ID presence. On update the password
// hash column is rewritten only when the credential was explicitly touched,
// so saves for token or cart changes cannot clobber the stored hash.
func (s *Store) SaveUser(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == "" {
		return s.CreateUser(ctx, user)
	}
	cart, history, err := encodeCollections(user)
	if err != nil {
		return models.User{}, err
	}

	var row pgx.Row
	if user.PasswordTouched {
		const query = `
			UPDATE users
			SET email = $2, name = $3, last_name = $4, role = $5, token = $6,
				cart = $7, history = $8, password_hash = $9
			WHERE id = $1
			RETURNING ` + userColumns + `;`
		row = s.pool.QueryRow(ctx, query,
			user.ID, user.Email, user.Name, user.LastName, int(user.Role),
			user.Token, cart, history, user.PasswordHash)
	} else {
		const query = `
			UPDATE users
			SET email = $2, name = $3, last_name = $4, role = $5, token = $6,
				cart = $7, history = $8
			WHERE id = $1
			RETURNING ` + userColumns + `;`
		row = s.pool.QueryRow(ctx, query,
			user.ID, user.Email, user.Name, user.LastName, int(user.Role),
			user.Token, cart, history)
	}
	saved, err := scanUser(row)
	if err != nil {
		return models.User{}, mapUniqueViolation(err)
	}
	return saved, nil
}

// CreateWood inserts a wood material.
func (s *Store) CreateWood(ctx context.Context, wood models.Wood) (models.Wood, error) {
	if wood.ID == "" {
		wood.ID = uuid.NewString()
	}
	const query = `INSERT INTO woods (id, name) VALUES ($1, $2) RETURNING id, name;`
	if err := s.pool.QueryRow(ctx, query, wood.ID, wood.Name).Scan(&wood.ID, &wood.Name); err != nil {
		return models.Wood{}, mapUniqueViolation(err)
	}
	return wood, nil
}

// CreateBrand inserts a brand.
func (s *Store) CreateBrand(ctx context.Context, brand models.Brand) (models.Brand, error) {
	if brand.ID == "" {
		brand.ID = uuid.NewString()
	}
	const query = `INSERT INTO brands (id, name) VALUES ($1, $2) RETURNING id, name;`
	if err := s.pool.QueryRow(ctx, query, brand.ID, brand.Name).Scan(&brand.ID, &brand.Name); err != nil {
		return models.Brand{}, mapUniqueViolation(err)
	}
	return brand, nil
}

// CreateArticle inserts an article and returns it with brand and wood names
// resolved.
func (s *Store) CreateArticle(ctx context.Context, article models.Article) (models.Article, error) {
	if article.ID == "" {
		article.ID = uuid.NewString()
	}
	const query = `
		WITH inserted AS (
			INSERT INTO articles (id, name, description, price, brand_id, wood_id, frets, shipping, available, publish)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id, name, description, price, brand_id, wood_id, frets, sold, shipping, available, publish, created_at
		)
		SELECT i.id, i.name, i.description, i.price, i.brand_id, i.wood_id, i.frets, i.sold,
			i.shipping, i.available, i.publish, i.created_at,
			COALESCE(b.name, ''), COALESCE(w.name, '')
		FROM inserted i
		LEFT JOIN brands b ON i.brand_id = b.id
		LEFT JOIN woods w ON i.wood_id = w.id;`
	row := s.pool.QueryRow(ctx, query,
		article.ID, article.Name, article.Description, article.Price,
		nullable(article.Brand), nullable(article.Wood), article.Frets,
		article.Shipping, article.Available, article.Publish)
	created, err := scanArticle(row)
	if err != nil {
		return models.Article{}, mapUniqueViolation(err)
	}
	return created, nil
}

// ListWoods returns all wood materials ordered by name.
func (s *Store) ListWoods(ctx context.Context) ([]models.Wood, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM woods ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("list woods: %w", err)
	}
	defer rows.Close()

	woods := []models.Wood{}
	for rows.Next() {
		var wood models.Wood
		if err := rows.Scan(&wood.ID, &wood.Name); err != nil {
			return nil, fmt.Errorf("scan wood: %w", err)
		}
		woods = append(woods, wood)
	}
	return woods, rows.Err()
}

// ListBrands returns all brands ordered by name.
func (s *Store) ListBrands(ctx context.Context) ([]models.Brand, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM brands ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	brands := []models.Brand{}
	for rows.Next() {
		var brand models.Brand
		if err := rows.Scan(&brand.ID, &brand.Name); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		brands = append(brands, brand)
	}
	return brands, rows.Err()
}

// articleSortColumns whitelists sortable columns; anything else falls back
// to created_at.
var articleSortColumns = map[string]string{
	"name":      "name",
	"price":     "price",
	"sold":      "sold",
	"createdAt": "created_at",
}

// ListArticles returns articles with brand and wood names resolved, sorted
// and paginated per opts.
func (s *Store) ListArticles(ctx context.Context, opts storage.ListOptions) ([]models.Article, error) {
	column, ok := articleSortColumns[opts.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if opts.Order == "desc" {
		direction = "DESC"
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	skip := opts.Skip
	if skip < 0 {
		skip = 0
	}

	query := fmt.Sprintf(`
		SELECT a.id, a.name, a.description, a.price, a.brand_id, a.wood_id, a.frets, a.sold,
			a.shipping, a.available, a.publish, a.created_at,
			COALESCE(b.name, ''), COALESCE(w.name, '')
		FROM articles a
		LEFT JOIN brands b ON a.brand_id = b.id
		LEFT JOIN woods w ON a.wood_id = w.id
		ORDER BY a.%s %s
		LIMIT $1 OFFSET $2;`, column, direction)
	rows, err := s.pool.Query(ctx, query, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	articles := []models.Article{}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	var role int
	var cart, history []byte
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.LastName,
		&user.PasswordHash, &role, &user.Token, &cart, &history, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	user.Role = models.Role(role)
	if err := json.Unmarshal(cart, &user.Cart); err != nil {
		return models.User{}, fmt.Errorf("decode cart: %w", err)
	}
	if err := json.Unmarshal(history, &user.History); err != nil {
		return models.User{}, fmt.Errorf("decode history: %w", err)
	}
	return user, nil
}

func scanArticle(row pgx.Row) (models.Article, error) {
	var article models.Article
	var brandID, woodID *string
	err := row.Scan(&article.ID, &article.Name, &article.Description, &article.Price,
		&brandID, &woodID, &article.Frets, &article.Sold,
		&article.Shipping, &article.Available, &article.Publish, &article.CreatedAt,
		&article.BrandName, &article.WoodName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Article{}, storage.ErrNotFound
		}
		return models.Article{}, fmt.Errorf("scan article: %w", err)
	}
	if brandID != nil {
		article.Brand = *brandID
	}
	if woodID != nil {
		article.Wood = *woodID
	}
	return article, nil
}

func encodeCollections(user models.User) ([]byte, []byte, error) {
	if user.Cart == nil {
		user.Cart = []models.CartEntry{}
	}
	if user.History == nil {
		user.History = []models.HistoryEntry{}
	}
	cart, err := json.Marshal(user.Cart)
	if err != nil {
		return nil, nil, fmt.Errorf("encode cart: %w", err)
	}
	history, err := json.Marshal(user.History)
	if err != nil {
		return nil, nil, fmt.Errorf("encode history: %w", err)
	}
	return cart, history, nil
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return storage.ErrAlreadyExists
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}
