package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lunarbyte/go-storefront/app/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondErrorMapping(t *testing.T) {
	rnd := NewRenderer()

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"not found", helpers.ErrNotFound, http.StatusNotFound, "Not found"},
		{"wrapped not found", fmt.Errorf("product not found: %w", helpers.ErrNotFound), http.StatusNotFound, "product not found: not found"},
		{"business rule", helpers.ErrEmptyCart, http.StatusBadRequest, "cart is empty"},
		{"stock shortfall", &helpers.StockError{ProductName: "Widget", Available: 2}, http.StatusBadRequest, "only 2 items available for Widget"},
		{"wrapped payment failure", fmt.Errorf("%w: gateway timeout", helpers.ErrPaymentFailed), http.StatusBadRequest, "payment failed: gateway timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/test", nil)

			respondError(rnd, rec, req, tt.err, false)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMessage, body["message"])
		})
	}
}

func TestRespondErrorHidesInternalDetailInProduction(t *testing.T) {
	rnd := NewRenderer()
	internal := errors.New("dial tcp 10.0.0.5:3306: connection refused")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	respondError(rnd, rec, req, internal, true)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "An unexpected error occurred", body["message"])

	// Outside production the detail is returned for debugging.
	rec = httptest.NewRecorder()
	respondError(rnd, rec, req, internal, false)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["message"], "connection refused")
}

func TestDecodeAndValidate(t *testing.T) {
	rnd := NewRenderer()

	type payload struct {
		Email string `json:"email" validate:"required,email"`
		Age   int    `json:"age" validate:"omitempty,gte=18"`
	}

	t.Run("valid body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.com","age":30}`))

		var dst payload
		require.NoError(t, decodeAndValidate(rnd, rec, req, &dst))
		assert.Equal(t, "a@b.com", dst.Email)
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))

		var dst payload
		require.Error(t, decodeAndValidate(rnd, rec, req, &dst))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("field errors", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope","age":12}`))

		var dst payload
		require.Error(t, decodeAndValidate(rnd, rec, req, &dst))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var body struct {
			Errors []FieldError `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Errors, 2)
		assert.Equal(t, "email", body.Errors[0].Field)
		assert.Equal(t, "must be a valid email address", body.Errors[0].Message)
		assert.Equal(t, "age", body.Errors[1].Field)
		assert.Equal(t, "must be at least 18", body.Errors[1].Message)
	})
}
