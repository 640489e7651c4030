package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/lunarbyte/go-storefront/app/helpers"
	"github.com/lunarbyte/go-storefront/app/models"
	"github.com/lunarbyte/go-storefront/app/repositories"
	"github.com/unrolled/render"
)

const categoryProductPreview = 10

type CategoryHandler struct {
	categoryRepo repositories.CategoryRepositoryImpl
	rnd          *render.Render
	production   bool
}

func NewCategoryHandler(categoryRepo repositories.CategoryRepositoryImpl, rnd *render.Render, production bool) *CategoryHandler {
	return &CategoryHandler{categoryRepo: categoryRepo, rnd: rnd, production: production}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryRepo.GetAll(r.Context())
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusOK, categories)
}

// Get resolves either a numeric id or a slug, the same way product
// lookup does.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	identifier := mux.Vars(r)["idOrSlug"]

	var category *models.Category
	var err error
	if id, parseErr := strconv.ParseUint(identifier, 10, 32); parseErr == nil {
		category, err = h.categoryRepo.GetWithProducts(r.Context(), uint(id), categoryProductPreview)
	} else {
		category, err = h.categoryRepo.GetBySlug(r.Context(), identifier)
	}
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	if category == nil {
		h.rnd.JSON(w, http.StatusNotFound, map[string]string{"message": "Category not found"})
		return
	}
	h.rnd.JSON(w, http.StatusOK, category)
}

type createCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeAndValidate(h.rnd, w, r, &req); err != nil {
		return
	}

	slug := helpers.MakeSlug(req.Name)
	exists, err := h.categoryRepo.SlugExists(r.Context(), slug, 0)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	if exists {
		respondError(h.rnd, w, r, helpers.ErrDuplicateSlug, h.production)
		return
	}

	category := &models.Category{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
	}
	if err := h.categoryRepo.Create(r.Context(), category); err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusCreated, category)
}

type updateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	categoryID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		h.rnd.JSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid category id"})
		return
	}

	var req updateCategoryRequest
	if err := decodeAndValidate(h.rnd, w, r, &req); err != nil {
		return
	}

	category, err := h.categoryRepo.GetByID(r.Context(), categoryID)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	if category == nil {
		h.rnd.JSON(w, http.StatusNotFound, map[string]string{"message": "Category not found"})
		return
	}

	// The slug only changes when the name does.
	if req.Name != nil && *req.Name != category.Name {
		slug := helpers.MakeSlug(*req.Name)
		exists, err := h.categoryRepo.SlugExists(r.Context(), slug, category.ID)
		if err != nil {
			respondError(h.rnd, w, r, err, h.production)
			return
		}
		if exists {
			respondError(h.rnd, w, r, helpers.ErrDuplicateSlug, h.production)
			return
		}
		category.Name = *req.Name
		category.Slug = slug
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := h.categoryRepo.Update(r.Context(), category); err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	categoryID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		h.rnd.JSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid category id"})
		return
	}

	inUse, err := h.categoryRepo.HasProducts(r.Context(), categoryID)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	if inUse {
		respondError(h.rnd, w, r, helpers.ErrCategoryInUse, h.production)
		return
	}

	if err := h.categoryRepo.Delete(r.Context(), categoryID); err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusOK, map[string]string{"message": "Category removed"})
}
