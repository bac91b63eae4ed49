package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/waveshop/waves-backend/internal/http/respond"
	"github.com/waveshop/waves-backend/internal/models"
	"github.com/waveshop/waves-backend/internal/storage"
)

// ProductHandler owns the catalog endpoints. Creation routes sit behind the
// authenticate and admin middleware; listings are public.
type ProductHandler struct {
	store  storage.ProductStore
	logger *zap.Logger
}

// NewProductHandler constructs the handler.
func NewProductHandler(store storage.ProductStore, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{store: store, logger: logger}
}

// CreateWood persists a wood material.
func (h *ProductHandler) CreateWood(w http.ResponseWriter, r *http.Request) {
	var wood models.Wood
	if err := json.NewDecoder(r.Body).Decode(&wood); err != nil {
		respond.JSON(w, http.StatusBadRequest, map[string]any{"success": false, "err": "invalid JSON payload"})
		return
	}
	wood.Name = strings.TrimSpace(wood.Name)
	if wood.Name == "" {
		respond.JSON(w, http.StatusBadRequest, map[string]any{"success": false, "err": "name is required"})
		return
	}

	created, err := h.store.CreateWood(r.Context(), wood)
	if err != nil {
		h.respondCreateError(w, "wood", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"success": true, "wood": created})
}

// CreateBrand persists a brand.
func (h *ProductHandler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var brand models.Brand
	if err := json.NewDecoder(r.Body).Decode(&brand); err != nil {
		respond.JSON(w, http.StatusBadRequest, map[string]any{"success": false, "err": "invalid JSON payload"})
		return
	}
	brand.Name = strings.TrimSpace(brand.Name)
	if brand.Name == "" {
		respond.JSON(w, http.StatusBadRequest, map[string]any{"success": false, "err": "name is required"})
		return
	}

	created, err := h.store.CreateBrand(r.Context(), brand)
	if err != nil {
		h.respondCreateError(w, "brand", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"success": true, "brand": created})
}

// CreateArticle persists an article.
func (h *ProductHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var article models.Article
	if err := json.NewDecoder(r.Body).Decode(&article); err != nil {
		respond.JSON(w, http.StatusBadRequest, map[string]any{"success": false, "err": "invalid JSON payload"})
		return
	}
	article.Name = strings.TrimSpace(article.Name)
	if article.Name == "" {
		respond.JSON(w, http.StatusBadRequest, map[string]any{"success": false, "err": "name is required"})
		return
	}

	created, err := h.store.CreateArticle(r.Context(), article)
	if err != nil {
		h.respondCreateError(w, "article", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"success": true, "article": created})
}

// ListWoods returns all wood materials.
func (h *ProductHandler) ListWoods(w http.ResponseWriter, r *http.Request) {
	woods, err := h.store.ListWoods(r.Context())
	if err != nil {
		h.logger.Error("list woods", zap.Error(err))
		respond.JSON(w, http.StatusInternalServerError, map[string]any{"success": false, "err": "failed to list woods"})
		return
	}
	respond.JSON(w, http.StatusOK, woods)
}

// ListBrands returns all brands.
func (h *ProductHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.store.ListBrands(r.Context())
	if err != nil {
		h.logger.Error("list brands", zap.Error(err))
		respond.JSON(w, http.StatusInternalServerError, map[string]any{"success": false, "err": "failed to list brands"})
		return
	}
	respond.JSON(w, http.StatusOK, brands)
}

// ListArticles returns articles with brand and wood names resolved. Sorting
// and pagination come from sortBy, order, limit, and skip query params.
func (h *ProductHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	opts := listOptionsFromQuery(r)
	articles, err := h.store.ListArticles(r.Context(), opts)
	if err != nil {
		h.logger.Error("list articles", zap.Error(err))
		respond.JSON(w, http.StatusInternalServerError, map[string]any{"success": false, "err": "failed to list articles"})
		return
	}
	respond.JSON(w, http.StatusOK, articles)
}

func (h *ProductHandler) respondCreateError(w http.ResponseWriter, resource string, err error) {
	if errors.Is(err, storage.ErrAlreadyExists) {
		respond.JSON(w, http.StatusConflict, map[string]any{"success": false, "err": resource + " already exists"})
		return
	}
	h.logger.Error("create "+resource, zap.Error(err))
	respond.JSON(w, http.StatusInternalServerError, map[string]any{"success": false, "err": "failed to create " + resource})
}

func listOptionsFromQuery(r *http.Request) storage.ListOptions {
	query := r.URL.Query()
	opts := storage.ListOptions{
		SortBy: query.Get("sortBy"),
		Order:  query.Get("order"),
	}
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil {
		opts.Limit = limit
	}
	if skip, err := strconv.Atoi(query.Get("skip")); err == nil {
		opts.Skip = skip
	}
	return opts
}
