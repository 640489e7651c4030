package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/lunarbyte/go-storefront/app/helpers"
	"github.com/lunarbyte/go-storefront/app/services"
	"github.com/unrolled/render"
)

type OrderHandler struct {
	checkoutSvc *services.CheckoutService
	orderSvc    *services.OrderService
	rnd         *render.Render
	production  bool
}

func NewOrderHandler(checkoutSvc *services.CheckoutService, orderSvc *services.OrderService, rnd *render.Render, production bool) *OrderHandler {
	return &OrderHandler{checkoutSvc: checkoutSvc, orderSvc: orderSvc, rnd: rnd, production: production}
}

type placeOrderRequest struct {
	ShippingAddressID uint `json:"shipping_address_id" validate:"required"`
}

func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.UserIDFromContext(r.Context())
	if !ok {
		h.rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Authentication required"})
		return
	}

	var req placeOrderRequest
	if err := decodeAndValidate(h.rnd, w, r, &req); err != nil {
		return
	}

	order, err := h.checkoutSvc.PlaceOrder(r.Context(), userID, req.ShippingAddressID)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.UserIDFromContext(r.Context())
	if !ok {
		h.rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Authentication required"})
		return
	}
	orders, err := h.orderSvc.MyOrders(r.Context(), userID)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.UserIDFromContext(r.Context())
	if !ok {
		h.rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Authentication required"})
		return
	}
	orderID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		h.rnd.JSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid order id"})
		return
	}

	order, err := h.orderSvc.GetForUser(r.Context(), orderID, userID)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	page, limit := helpers.ParsePagination(r.URL.Query())
	result, err := h.orderSvc.AllOrders(r.Context(), page, limit)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusOK, result)
}

func (h *OrderHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.UserIDFromContext(r.Context())
	if !ok {
		h.rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Authentication required"})
		return
	}
	orderID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		h.rnd.JSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid order id"})
		return
	}

	order, err := h.orderSvc.MarkPaid(r.Context(), orderID, userID)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusOK, order)
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		h.rnd.JSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid order id"})
		return
	}

	var req updateOrderStatusRequest
	if err := decodeAndValidate(h.rnd, w, r, &req); err != nil {
		return
	}

	order, err := h.orderSvc.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		respondError(h.rnd, w, r, err, h.production)
		return
	}
	h.rnd.JSON(w, http.StatusOK, order)
}
