package middlewares

import (
	"log"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/unrolled/render"
)

const (
	rateLimitPeriod = 15 * time.Minute
	rateLimitCount  = 100
)

// RateLimitMiddleware counts requests per client IP in redis. A nil client
// or a redis error lets the request through; limiting is protective, not
// load-bearing.
func RateLimitMiddleware(client *redis.Client, rnd *render.Render) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if client == nil {
				next.ServeHTTP(w, r)
				return
			}

			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			key := "rate_limit:" + ip

			count, err := client.Incr(r.Context(), key).Result()
			if err != nil {
				log.Printf("RateLimitMiddleware: redis incr failed: %v", err)
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				client.Expire(r.Context(), key, rateLimitPeriod)
			}

			if count > rateLimitCount {
				rnd.JSON(w, http.StatusTooManyRequests, map[string]string{"message": "Too many requests, please try again later"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
