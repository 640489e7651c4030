package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/lunarbyte/go-storefront/app/helpers"
	"github.com/lunarbyte/go-storefront/app/services"
	"github.com/unrolled/render"
)

type CartHandler struct {
	cartSvc    *services.CartService
	rnd        *render.Render
	production bool
}

func NewCartHandler(cartSvc *services.CartService, rnd *render.Render, production bool) *CartHandler {
	return &CartHandler{cartSvc: cartSvc, rnd: rnd, production: production}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.UserIDFromContext(r.Context())
	if !ok {
		h.rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Authentication required"})
		return
	}
	cart, err := h.cartSvc.GetCart(r.Context(), userID)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusOK, cart)
}

type addCartItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"omitempty,gte=1"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.UserIDFromContext(r.Context())
	if !ok {
		h.rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Authentication required"})
		return
	}

	var req addCartItemRequest
	if err := decodeAndValidate(h.rnd, w, r, &req); err != nil {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.cartSvc.AddItem(r.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusCreated, cart)
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.UserIDFromContext(r.Context())
	if !ok {
		h.rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Authentication required"})
		return
	}
	itemID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		h.rnd.JSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid cart item id"})
		return
	}

	var req updateCartItemRequest
	if err := decodeAndValidate(h.rnd, w, r, &req); err != nil {
		return
	}

	cart, err := h.cartSvc.UpdateItem(r.Context(), userID, itemID, req.Quantity)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.UserIDFromContext(r.Context())
	if !ok {
		h.rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Authentication required"})
		return
	}
	itemID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		h.rnd.JSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid cart item id"})
		return
	}

	cart, err := h.cartSvc.RemoveItem(r.Context(), userID, itemID)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusOK, cart)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.UserIDFromContext(r.Context())
	if !ok {
		h.rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Authentication required"})
		return
	}
	if err := h.cartSvc.Clear(r.Context(), userID); err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusOK, map[string]string{"message": "Cart cleared"})
}
