package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lunarbyte/go-storefront/app/helpers"
	"github.com/unrolled/render"
)

var validate = validator.New()

func NewRenderer() *render.Render {
	return render.New()
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// decodeAndValidate unmarshals the JSON body into dst and runs the
// validator tags. A non-nil return means the 400 response was already
// written.
func decodeAndValidate(rnd *render.Render, w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		rnd.JSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return err
	}
	if err := validate.Struct(dst); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			fieldErrs := make([]FieldError, 0, len(invalid))
			for _, fe := range invalid {
				fieldErrs = append(fieldErrs, FieldError{
					Field:   strings.ToLower(fe.Field()),
					Message: validationMessage(fe),
				})
			}
			rnd.JSON(w, http.StatusBadRequest, map[string]interface{}{"errors": fieldErrs})
			return err
		}
		rnd.JSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request"})
		return err
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "gte":
		return "must be at least " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "is invalid"
	}
}

// respondError is the single place an error becomes an HTTP response.
func respondError(rnd *render.Render, w http.ResponseWriter, r *http.Request, err error, production bool) {
	switch {
	case errors.Is(err, helpers.ErrNotFound):
		rnd.JSON(w, http.StatusNotFound, map[string]string{"message": notFoundMessage(err)})
	case helpers.IsBusinessError(err):
		rnd.JSON(w, http.StatusBadRequest, map[string]string{"message": businessMessage(err)})
	default:
		log.Printf("ERROR %s %s: %v", r.Method, r.URL.Path, err)
		message := "An unexpected error occurred"
		if !production {
			message = err.Error()
		}
		rnd.JSON(w, http.StatusInternalServerError, map[string]string{"message": message})
	}
}

func notFoundMessage(err error) string {
	if err == helpers.ErrNotFound {
		return "Not found"
	}
	return err.Error()
}

// businessMessage surfaces the most specific wrapped message, so an
// insufficient-stock error reports the product and the remaining units.
func businessMessage(err error) string {
	var stockErr *helpers.StockError
	if errors.As(err, &stockErr) {
		return stockErr.Error()
	}
	return err.Error()
}
