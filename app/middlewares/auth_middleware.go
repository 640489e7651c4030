package middlewares

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lunarbyte/go-storefront/app/helpers"
	"github.com/lunarbyte/go-storefront/app/repositories"
	"github.com/unrolled/render"
)

// AuthMiddleware resolves the bearer token to a user identity. Tokens are
// minted by the external identity provider and verified here with the shared
// HMAC secret; the `sub` claim is the opaque user id. The profile row is
// attached when it exists — it may not yet, for a freshly registered
// identity that has not called POST /api/users/profile.
func AuthMiddleware(secret, issuer string, userRepo repositories.UserRepositoryImpl, rnd *render.Render) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "No token provided"})
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid token format, must be 'Bearer <token>'"})
				return
			}

			parseOpts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
			if issuer != "" {
				parseOpts = append(parseOpts, jwt.WithIssuer(issuer))
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(secret), nil
			}, parseOpts...)
			if err != nil || !token.Valid {
				rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid token"})
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid token claims"})
				return
			}
			userID, err := claims.GetSubject()
			if err != nil || userID == "" {
				rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid user ID in token"})
				return
			}

			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				log.Printf("AuthMiddleware: failed to load profile for %s: %v", userID, err)
				rnd.JSON(w, http.StatusInternalServerError, map[string]string{"message": "Authentication error"})
				return
			}

			ctx := helpers.WithUser(r.Context(), userID, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
