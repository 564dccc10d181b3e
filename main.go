package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"

	"medeasy/internal/config"
	"medeasy/internal/database"
	"medeasy/internal/handlers"
	"medeasy/internal/middleware"
)

func main() {
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	stripe.Key = cfg.StripeSecretKey
	if stripe.Key == "" {
		log.Println("STRIPE_SECRET_KEY missing, payment intents will fail")
	}

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(cfg.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureCartIndexes(db); err != nil {
		log.Printf("cart index warning: %v", err)
	}
	if err := database.EnsurePaymentIndexes(db); err != nil {
		log.Printf("payment index warning: %v", err)
	}
	if err := database.EnsureCategoryIndexes(db); err != nil {
		log.Printf("category index warning: %v", err)
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	verify := middleware.VerifyToken(cfg.JWTSecret, cfg.AuthTransport)

	r.GET("/", func(c *gin.Context) {
		c.String(200, "Hello from MedEasy Server..")
	})

	r.POST("/jwt", handlers.IssueToken(cfg.JWTSecret, cfg.TokenTTL, cfg.CookieSecure))
	r.GET("/logout", handlers.Logout(cfg.CookieSecure))

	r.POST("/user", handlers.CreateUser(db))
	r.GET("/users", verify, middleware.RequireAdmin(db), handlers.GetUsers(db))
	r.PATCH("/users/role/:id", verify, middleware.RequireAdmin(db), handlers.UpdateUserRole(db))

	r.GET("/medicines", handlers.GetMedicines(db))
	r.POST("/medicines", verify, middleware.RequireSeller(db), handlers.CreateMedicine(db))
	r.GET("/medicines/requested", verify, middleware.RequireAdmin(db), handlers.GetRequestedMedicines(db))
	r.GET("/medicines/advertised", handlers.GetAdvertisedMedicines(db))
	r.GET("/medicines/discounted", handlers.GetDiscountedMedicines(db))
	r.GET("/medicines/category/:category", handlers.GetMedicinesByCategory(db))
	r.PATCH("/medicines/request/:id", verify, middleware.RequireSeller(db), handlers.RequestMedicine(db))
	r.PATCH("/medicines/advertise/:id", verify, middleware.RequireAdmin(db), handlers.AdvertiseMedicine(db))

	carts := r.Group("/carts")
	carts.Use(verify)
	{
		carts.POST("", handlers.AddCartItem(db))
		carts.GET("", handlers.GetCartItems(db))
		carts.PATCH("/:id", handlers.UpdateCartItem(db))
		carts.DELETE("/:id", handlers.DeleteCartItem(db))
		carts.DELETE("", handlers.ClearCart(db))
	}

	r.POST("/checkout", verify, handlers.CreateCheckout(db))

	categories := r.Group("/categories")
	{
		categories.GET("", handlers.GetCategories(db))
		categories.POST("", verify, middleware.RequireAdmin(db), handlers.CreateCategory(db))
		categories.PATCH("/:id", verify, middleware.RequireAdmin(db), handlers.UpdateCategory(db))
		categories.DELETE("/:id", verify, middleware.RequireAdmin(db), handlers.DeleteCategory(db))
	}

	r.POST("/create-payment-intent", verify, handlers.CreatePaymentIntent())
	r.POST("/payments", verify, handlers.CreatePayment(db))
	r.GET("/payments", verify, middleware.RequireAdmin(db), handlers.GetPayments(db))
	r.GET("/payments/seller", verify, middleware.RequireSeller(db), handlers.GetSellerPayments(db))
	r.PATCH("/payments/:id", verify, middleware.RequireAdmin(db), handlers.UpdatePaymentStatus(db))

	log.Println("MedEasy is running on port", cfg.Port)
	r.Run(":" + cfg.Port)
}
