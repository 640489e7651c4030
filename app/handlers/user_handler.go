package handlers

import (
	"net/http"

	"github.com/lunarbyte/go-storefront/app/helpers"
	"github.com/lunarbyte/go-storefront/app/models"
	"github.com/lunarbyte/go-storefront/app/repositories"
	"github.com/unrolled/render"
)

type UserHandler struct {
	userRepo   repositories.UserRepositoryImpl
	rnd        *render.Render
	production bool
}

func NewUserHandler(userRepo repositories.UserRepositoryImpl, rnd *render.Render, production bool) *UserHandler {
	return &UserHandler{userRepo: userRepo, rnd: rnd, production: production}
}

type createProfileRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// CreateProfile stores the local profile row for an authenticated
// identity. The profile id is always the token subject, never
// client-supplied.
func (h *UserHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.UserIDFromContext(r.Context())
	if !ok {
		h.rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Authentication required"})
		return
	}

	var req createProfileRequest
	if err := decodeAndValidate(h.rnd, w, r, &req); err != nil {
		return
	}

	existing, err := h.userRepo.FindByID(r.Context(), userID)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	if existing != nil {
		respondError(h.rnd, w, r, helpers.ErrProfileExists, h.production)
		return
	}

	profile := &models.UserProfile{
		ID:        userID,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      models.RoleCustomer,
	}
	if err := h.userRepo.Create(r.Context(), profile); err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusCreated, profile)
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.UserIDFromContext(r.Context())
	if !ok {
		h.rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Authentication required"})
		return
	}
	profile, err := h.userRepo.FindByID(r.Context(), userID)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	if profile == nil {
		h.rnd.JSON(w, http.StatusNotFound, map[string]string{"message": "Profile not found"})
		return
	}
	h.rnd.JSON(w, http.StatusOK, profile)
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.UserIDFromContext(r.Context())
	if !ok {
		h.rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Authentication required"})
		return
	}

	var req updateProfileRequest
	if err := decodeAndValidate(h.rnd, w, r, &req); err != nil {
		return
	}

	profile, err := h.userRepo.FindByID(r.Context(), userID)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	if profile == nil {
		h.rnd.JSON(w, http.StatusNotFound, map[string]string{"message": "Profile not found"})
		return
	}

	if req.FirstName != nil {
		profile.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		profile.LastName = *req.LastName
	}

	if err := h.userRepo.Update(r.Context(), profile); err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusOK, profile)
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.GetAll(r.Context())
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusOK, users)
}
