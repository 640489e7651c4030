package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/lunarbyte/go-storefront/app/handlers"
	"github.com/lunarbyte/go-storefront/app/middlewares"
	"github.com/lunarbyte/go-storefront/app/repositories"
	"github.com/redis/go-redis/v9"
	"github.com/unrolled/render"
)

type RouterDeps struct {
	Product  *handlers.ProductHandler
	Cart     *handlers.CartHandler
	Order    *handlers.OrderHandler
	Address  *handlers.AddressHandler
	Category *handlers.CategoryHandler
	User     *handlers.UserHandler

	Redis     *redis.Client
	Render    *render.Render
	JWTSecret string
	Issuer    string
	UploadDir string

	AuthUserRepo repositories.UserRepositoryImpl
}

func NewRouter(deps RouterDeps) *mux.Router {
	router := mux.NewRouter()
	router.Use(middlewares.LoggingMiddleware)
	router.Use(middlewares.RateLimitMiddleware(deps.Redis, deps.Render))

	// Uploaded product images are served straight off disk.
	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(deps.UploadDir))))

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("", healthCheck(deps.Render)).Methods("GET")
	api.HandleFunc("/", healthCheck(deps.Render)).Methods("GET")

	// Public catalog surface.
	api.HandleFunc("/products", deps.Product.List).Methods("GET")
	// Registered before the id-or-slug route so "top" is never read as a slug.
	api.HandleFunc("/products/top", deps.Product.TopProducts).Methods("GET")
	api.HandleFunc("/products/{idOrSlug}", deps.Product.Get).Methods("GET")
	api.HandleFunc("/categories", deps.Category.List).Methods("GET")
	api.HandleFunc("/categories/{idOrSlug}", deps.Category.Get).Methods("GET")

	auth := middlewares.AuthMiddleware(deps.JWTSecret, deps.Issuer, deps.AuthUserRepo, deps.Render)

	// Everything below requires a bearer token.
	authed := api.NewRoute().Subrouter()
	authed.Use(auth)

	authed.HandleFunc("/cart", deps.Cart.GetCart).Methods("GET")
	authed.HandleFunc("/cart", deps.Cart.AddItem).Methods("POST")
	authed.HandleFunc("/cart", deps.Cart.Clear).Methods("DELETE")
	authed.HandleFunc("/cart/{id:[0-9]+}", deps.Cart.UpdateItem).Methods("PUT")
	authed.HandleFunc("/cart/{id:[0-9]+}", deps.Cart.RemoveItem).Methods("DELETE")

	authed.HandleFunc("/addresses", deps.Address.List).Methods("GET")
	authed.HandleFunc("/addresses", deps.Address.Create).Methods("POST")
	authed.HandleFunc("/addresses/{id}", deps.Address.Get).Methods("GET")
	authed.HandleFunc("/addresses/{id}", deps.Address.Update).Methods("PUT")
	authed.HandleFunc("/addresses/{id}", deps.Address.Delete).Methods("DELETE")
	authed.HandleFunc("/addresses/{id}/default", deps.Address.SetDefault).Methods("PUT")

	authed.HandleFunc("/orders", deps.Order.PlaceOrder).Methods("POST")
	authed.HandleFunc("/orders", deps.Order.MyOrders).Methods("GET")
	authed.HandleFunc("/orders/{id:[0-9]+}", deps.Order.Get).Methods("GET")
	authed.HandleFunc("/orders/{id:[0-9]+}/pay", deps.Order.MarkPaid).Methods("PUT")

	authed.HandleFunc("/users/profile", deps.User.CreateProfile).Methods("POST")
	authed.HandleFunc("/users/profile", deps.User.GetProfile).Methods("GET")
	authed.HandleFunc("/users/profile", deps.User.UpdateProfile).Methods("PUT")

	// Admin-only surface.
	admin := api.NewRoute().Subrouter()
	admin.Use(auth)
	admin.Use(middlewares.AdminMiddleware(deps.Render))

	admin.HandleFunc("/products", deps.Product.Create).Methods("POST")
	admin.HandleFunc("/products/{id:[0-9]+}", deps.Product.Update).Methods("PUT")
	admin.HandleFunc("/products/{id:[0-9]+}", deps.Product.Delete).Methods("DELETE")
	admin.HandleFunc("/products/upload-image", deps.Product.UploadImage).Methods("POST")

	admin.HandleFunc("/categories", deps.Category.Create).Methods("POST")
	admin.HandleFunc("/categories/{id:[0-9]+}", deps.Category.Update).Methods("PUT")
	admin.HandleFunc("/categories/{id:[0-9]+}", deps.Category.Delete).Methods("DELETE")

	admin.HandleFunc("/orders/admin", deps.Order.AdminList).Methods("GET")
	admin.HandleFunc("/orders/{id:[0-9]+}/status", deps.Order.UpdateStatus).Methods("PUT")

	admin.HandleFunc("/users", deps.User.ListUsers).Methods("GET")

	return router
}

func healthCheck(rnd *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rnd.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
