package middlewares

import (
	"log"
	"net/http"

	"github.com/lunarbyte/go-storefront/app/helpers"
	"github.com/unrolled/render"
)

// AdminMiddleware must run after AuthMiddleware; it gates on the role held
// in the user's profile row.
func AdminMiddleware(rnd *render.Render) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := helpers.UserIDFromContext(r.Context())
			if !ok {
				rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "User not authenticated"})
				return
			}

			user := helpers.UserFromContext(r.Context())
			if user == nil {
				rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "User profile not found"})
				return
			}
			if !user.IsAdmin() {
				log.Printf("AdminMiddleware: user %s attempted an admin action without the admin role", userID)
				rnd.JSON(w, http.StatusForbidden, map[string]string{"message": "Admin access required"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
