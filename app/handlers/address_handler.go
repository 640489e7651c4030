package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/lunarbyte/go-storefront/app/helpers"
	"github.com/lunarbyte/go-storefront/app/models"
	"github.com/lunarbyte/go-storefront/app/repositories"
	"github.com/unrolled/render"
)

type AddressHandler struct {
	addressRepo repositories.AddressRepository
	rnd         *render.Render
	production  bool
}

func NewAddressHandler(addressRepo repositories.AddressRepository, rnd *render.Render, production bool) *AddressHandler {
	return &AddressHandler{addressRepo: addressRepo, rnd: rnd, production: production}
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.UserIDFromContext(r.Context())
	if !ok {
		h.rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Authentication required"})
		return
	}
	addresses, err := h.addressRepo.FindByUser(r.Context(), userID)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusOK, addresses)
}

func (h *AddressHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.UserIDFromContext(r.Context())
	if !ok {
		h.rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Authentication required"})
		return
	}
	addressID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		h.rnd.JSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid address id"})
		return
	}

	address, err := h.addressRepo.FindByIDForUser(r.Context(), addressID, userID)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	if address == nil {
		h.rnd.JSON(w, http.StatusNotFound, map[string]string{"message": "Address not found"})
		return
	}
	h.rnd.JSON(w, http.StatusOK, address)
}

type createAddressRequest struct {
	AddressLine1 string `json:"address_line1" validate:"required"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code" validate:"required"`
	Country      string `json:"country" validate:"required"`
	IsDefault    bool   `json:"is_default"`
}

func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.UserIDFromContext(r.Context())
	if !ok {
		h.rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Authentication required"})
		return
	}

	var req createAddressRequest
	if err := decodeAndValidate(h.rnd, w, r, &req); err != nil {
		return
	}

	address := &models.Address{
		UserID:       userID,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		IsDefault:    req.IsDefault,
	}
	if err := h.addressRepo.Create(r.Context(), address); err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusCreated, address)
}

type updateAddressRequest struct {
	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	PostalCode   *string `json:"postal_code"`
	Country      *string `json:"country"`
	IsDefault    *bool   `json:"is_default"`
}

func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.UserIDFromContext(r.Context())
	if !ok {
		h.rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Authentication required"})
		return
	}
	addressID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		h.rnd.JSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid address id"})
		return
	}

	var req updateAddressRequest
	if err := decodeAndValidate(h.rnd, w, r, &req); err != nil {
		return
	}

	address, err := h.addressRepo.FindByIDForUser(r.Context(), addressID, userID)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	if address == nil {
		h.rnd.JSON(w, http.StatusNotFound, map[string]string{"message": "Address not found"})
		return
	}

	if req.AddressLine1 != nil {
		address.AddressLine1 = *req.AddressLine1
	}
	if req.AddressLine2 != nil {
		address.AddressLine2 = *req.AddressLine2
	}
	if req.City != nil {
		address.City = *req.City
	}
	if req.State != nil {
		address.State = *req.State
	}
	if req.PostalCode != nil {
		address.PostalCode = *req.PostalCode
	}
	if req.Country != nil {
		address.Country = *req.Country
	}
	if req.IsDefault != nil {
		address.IsDefault = *req.IsDefault
	}

	if err := h.addressRepo.Update(r.Context(), address); err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusOK, address)
}

func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.UserIDFromContext(r.Context())
	if !ok {
		h.rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Authentication required"})
		return
	}
	addressID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		h.rnd.JSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid address id"})
		return
	}

	if err := h.addressRepo.Delete(r.Context(), addressID, userID); err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusOK, map[string]string{"message": "Address removed"})
}

func (h *AddressHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.UserIDFromContext(r.Context())
	if !ok {
		h.rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Authentication required"})
		return
	}
	addressID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		h.rnd.JSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid address id"})
		return
	}

	address, err := h.addressRepo.SetDefault(r.Context(), addressID, userID)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusOK, address)
}
