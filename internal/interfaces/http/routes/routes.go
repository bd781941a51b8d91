// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BeingRelentless/QKart-Shopping/internal/interfaces/http/handlers"
	"github.com/BeingRelentless/QKart-Shopping/internal/interfaces/http/middleware"
)

// Handlers groups everything the API routes dispatch to
type Handlers struct {
	Auth     *handlers.AuthHandler
	Product  *handlers.ProductHandler
	Cart     *handlers.CartHandler
	Search   *handlers.SearchHandler
	Checkout *handlers.CheckoutHandler
}

// SetupRoutes sets up all API routes
func SetupRoutes(rg *gin.RouterGroup, h Handlers) {
	SetupAuthRoutes(rg, h.Auth)
	SetupProductRoutes(rg, h.Product)
	SetupCartRoutes(rg, h.Cart)
	SetupSearchRoutes(rg, h.Search)
	SetupCheckoutRoutes(rg, h.Checkout)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)

		protected := auth.Group("")
		protected.Use(middleware.RequireSession("Not logged in"))
		{
			protected.GET("/me", authHandler.GetProfile)
		}
	}
}

// SetupProductRoutes sets up product catalog routes
func SetupProductRoutes(rg *gin.RouterGroup, productHandler *handlers.ProductHandler) {
	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/search", productHandler.SearchProducts)
	}
}

// SetupCartRoutes sets up cart routes. Guests and signed-in visitors share
// them; the session decides where the cart lives.
func SetupCartRoutes(rg *gin.RouterGroup, cartHandler *handlers.CartHandler) {
	cart := rg.Group("/cart")
	{
		cart.GET("", cartHandler.GetCart)
		cart.POST("/items", cartHandler.AddToCart)
		cart.PUT("/items/:id", cartHandler.UpdateCartItem)
	}
}

// SetupSearchRoutes sets up search-as-you-type routes
func SetupSearchRoutes(rg *gin.RouterGroup, searchHandler *handlers.SearchHandler) {
	search := rg.Group("/search")
	{
		search.POST("/input", searchHandler.Input)
		search.GET("/latest", searchHandler.Latest)
		search.GET("/events", searchHandler.Events)
		search.GET("/ws", searchHandler.Socket)
	}
}

// SetupCheckoutRoutes sets up checkout routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, checkoutHandler *handlers.CheckoutHandler) {
	checkout := rg.Group("/checkout")
	checkout.Use(middleware.RequireSession(handlers.MsgLoginToOrder))
	{
		checkout.GET("", checkoutHandler.GetCheckoutSummary)
	}
}
