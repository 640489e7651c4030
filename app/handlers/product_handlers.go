package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/lunarbyte/go-storefront/app/helpers"
	"github.com/lunarbyte/go-storefront/app/repositories"
	"github.com/lunarbyte/go-storefront/app/services"
	"github.com/lunarbyte/go-storefront/app/utils/storage"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

const maxImageSize = 5 << 20 // 5 MB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

type ProductHandler struct {
	catalogSvc *services.CatalogService
	blobStore  storage.BlobStore
	rnd        *render.Render
	production bool
}

func NewProductHandler(catalogSvc *services.CatalogService, blobStore storage.BlobStore, rnd *render.Render, production bool) *ProductHandler {
	return &ProductHandler{catalogSvc: catalogSvc, blobStore: blobStore, rnd: rnd, production: production}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := helpers.ParsePagination(q)

	query := repositories.ProductListQuery{
		CategorySlug: q.Get("category"),
		Search:       q.Get("search"),
		Status:       q.Get("status"),
		Sort:         q.Get("sort"),
		Limit:        limit,
		Offset:       (page - 1) * limit,
	}
	if raw := q.Get("minPrice"); raw != "" {
		if min, err := decimal.NewFromString(raw); err == nil {
			query.MinPrice = &min
		}
	}
	if raw := q.Get("maxPrice"); raw != "" {
		if max, err := decimal.NewFromString(raw); err == nil {
			query.MaxPrice = &max
		}
	}

	result, err := h.catalogSvc.List(r.Context(), query, page)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusOK, result)
}

func (h *ProductHandler) TopProducts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	top, err := h.catalogSvc.TopProducts(r.Context(), limit)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusOK, map[string]interface{}{"products": top})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	lookup := services.ParseProductLookup(mux.Vars(r)["idOrSlug"])
	product, err := h.catalogSvc.Get(r.Context(), lookup)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusOK, product)
}

type createProductRequest struct {
	Name          string          `json:"name" validate:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" validate:"required"`
	StockQuantity *int            `json:"stock_quantity" validate:"omitempty,gte=0"`
	CategoryID    *uint           `json:"category_id"`
	ImageURL      string          `json:"image_url"`
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeAndValidate(h.rnd, w, r, &req); err != nil {
		return
	}
	if req.Price.IsNegative() {
		h.rnd.JSON(w, http.StatusBadRequest, map[string]interface{}{
			"errors": []FieldError{{Field: "price", Message: "must be at least 0"}},
		})
		return
	}

	stock := 0
	if req.StockQuantity != nil {
		stock = *req.StockQuantity
	}
	input := services.ProductInput{
		Name:          req.Name,
		Description:   &req.Description,
		Price:         &req.Price,
		StockQuantity: &stock,
		CategoryID:    req.CategoryID,
	}
	if req.ImageURL != "" {
		input.ImageURL = &req.ImageURL
	}

	product, err := h.catalogSvc.Create(r.Context(), input)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusCreated, product)
}

type updateProductRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int             `json:"stock_quantity" validate:"omitempty,gte=0"`
	CategoryID    *uint            `json:"category_id"`
	ImageURL      *string          `json:"image_url"`
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	productID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		h.rnd.JSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid product id"})
		return
	}

	var req updateProductRequest
	if err := decodeAndValidate(h.rnd, w, r, &req); err != nil {
		return
	}
	if req.Price != nil && req.Price.IsNegative() {
		h.rnd.JSON(w, http.StatusBadRequest, map[string]interface{}{
			"errors": []FieldError{{Field: "price", Message: "must be at least 0"}},
		})
		return
	}

	input := services.ProductInput{
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		CategoryID:    req.CategoryID,
		ImageURL:      req.ImageURL,
	}
	if req.Name != nil {
		input.Name = *req.Name
	}

	product, err := h.catalogSvc.Update(r.Context(), productID, input)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	productID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		h.rnd.JSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid product id"})
		return
	}

	softDisabled, err := h.catalogSvc.Delete(r.Context(), productID)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	message := "Product removed"
	if softDisabled {
		message = "Product is referenced by orders and was marked out of stock instead"
	}
	h.rnd.JSON(w, http.StatusOK, map[string]string{"message": message})
}

func (h *ProductHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		h.rnd.JSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid multipart form"})
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		h.rnd.JSON(w, http.StatusBadRequest, map[string]string{"message": "Image file is required"})
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		h.rnd.JSON(w, http.StatusBadRequest, map[string]string{"message": "Image must be 5MB or smaller"})
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		h.rnd.JSON(w, http.StatusBadRequest, map[string]string{"message": "Image must be JPEG, PNG or WebP"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	url, err := h.blobStore.Put(r.Context(), header.Filename, contentType, data)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusCreated, map[string]string{"url": url})
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
