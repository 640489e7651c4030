package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/lunarbyte/go-storefront/app/cmd"
	"github.com/lunarbyte/go-storefront/app/configs"
	"github.com/lunarbyte/go-storefront/app/db/seeders"
	"github.com/lunarbyte/go-storefront/app/handlers"
	"github.com/lunarbyte/go-storefront/app/repositories"
	"github.com/lunarbyte/go-storefront/app/routes"
	"github.com/lunarbyte/go-storefront/app/services"
	"github.com/lunarbyte/go-storefront/app/services/notify"
	"github.com/lunarbyte/go-storefront/app/services/payment"
	"github.com/lunarbyte/go-storefront/app/utils/storage"
)

func main() {
	env := configs.LoadEnv()

	if len(os.Args) > 1 {
		cmd.RunCli()
		return
	}

	db, err := configs.OpenConnection()
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	log.Println("✅ Database connected.")

	redisClient := configs.OpenRedis()

	if _, err := seeders.BootstrapCategories(context.Background(), db); err != nil {
		log.Printf("WARNING: standard category bootstrap failed: %v", err)
	}

	productRepo := repositories.NewProductRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	cartItemRepo := repositories.NewCartItemRepository(db)
	addressRepo := repositories.NewAddressRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	orderItemRepo := repositories.NewOrderItemRepository(db)
	userRepo := repositories.NewUserRepository(db)

	gateway := buildGateway(env)
	notifier := buildNotifier(env)

	catalogSvc := services.NewCatalogService(productRepo, categoryRepo, orderItemRepo, redisClient)
	cartSvc := services.NewCartService(cartItemRepo, productRepo)
	checkoutSvc := services.NewCheckoutService(db, cartItemRepo, productRepo, addressRepo, orderRepo, orderItemRepo, userRepo, gateway, notifier)
	orderSvc := services.NewOrderService(orderRepo, userRepo, notifier)

	uploadDir := env.UploadDir
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	blobStore, err := storage.NewLocalDiskStore(uploadDir, env.AppURL)
	if err != nil {
		log.Fatal("Upload dir unavailable:", err)
	}

	rnd := handlers.NewRenderer()
	production := env.IsProduction()

	router := routes.NewRouter(routes.RouterDeps{
		Product:      handlers.NewProductHandler(catalogSvc, blobStore, rnd, production),
		Cart:         handlers.NewCartHandler(cartSvc, rnd, production),
		Order:        handlers.NewOrderHandler(checkoutSvc, orderSvc, rnd, production),
		Address:      handlers.NewAddressHandler(addressRepo, rnd, production),
		Category:     handlers.NewCategoryHandler(categoryRepo, rnd, production),
		User:         handlers.NewUserHandler(userRepo, rnd, production),
		Redis:        redisClient,
		Render:       rnd,
		JWTSecret:    env.JWTSecret,
		Issuer:       env.IdentityIssuer,
		UploadDir:    uploadDir,
		AuthUserRepo: userRepo,
	})

	addr := env.Port
	if addr == "" {
		addr = ":8080"
	}
	server := http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatal("Server stopped:", err)
	}
}

// buildGateway returns the Midtrans sandbox client when a server key is
// configured, otherwise the deterministic mock used in development.
func buildGateway(env configs.ENV) payment.Gateway {
	if env.MidtransServerKey != "" {
		log.Println("✅ Midtrans gateway initialized.")
		return payment.NewMidtransGateway(env.MidtransServerKey)
	}

	latency := 200 * time.Millisecond
	if ms, err := strconv.Atoi(env.PaymentLatencyMS); err == nil && ms >= 0 {
		latency = time.Duration(ms) * time.Millisecond
	}
	failRate := 0.0
	if rate, err := strconv.ParseFloat(env.PaymentFailRate, 64); err == nil && rate >= 0 && rate <= 1 {
		failRate = rate
	}
	log.Printf("Mock payment gateway active (latency=%s failRate=%.2f)", latency, failRate)
	return payment.NewMockGateway(latency, failRate)
}

// buildNotifier publishes order events to AMQP when a broker is
// configured and falls back to console email output otherwise.
func buildNotifier(env configs.ENV) notify.Notifier {
	if env.AmqpURL != "" {
		_, ch, err := notify.SetupConn(env.AmqpURL)
		if err != nil {
			log.Printf("AMQP unavailable, falling back to console notifier: %v", err)
			return notify.NewConsoleNotifier()
		}
		log.Println("✅ AMQP notifier initialized.")
		return notify.NewAMQPNotifier(ch)
	}
	return notify.NewConsoleNotifier()
}
