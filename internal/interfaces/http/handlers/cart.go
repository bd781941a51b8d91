// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/BeingRelentless/QKart-Shopping/internal/domain/cart"
	"github.com/BeingRelentless/QKart-Shopping/internal/interfaces/http/middleware"
)

// AddToCartRequest is the body of POST /cart/items
type AddToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// UpdateCartItemRequest is the body of PUT /cart/items/:id
type UpdateCartItemRequest struct {
	Quantity *int `json:"qty" binding:"required"`
}

// CartHandler handles cart endpoints for guests and signed-in visitors
type CartHandler struct {
	cartService *cart.Service
	logger      *logrus.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	view, err := h.cartService.View(c.Request.Context(), middleware.GetVisitorStore(c), middleware.GetSession(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    view,
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	entries, err := h.cartService.Add(c.Request.Context(), middleware.GetVisitorStore(c), middleware.GetSession(c), req.ProductID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.respondWithCart(c, "Item added to cart!", entries)
}

// UpdateCartItem handles PUT /cart/items/:id. A quantity below 1 removes
// the item.
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	entries, err := h.cartService.SetQuantity(c.Request.Context(), middleware.GetVisitorStore(c), middleware.GetSession(c), c.Param("id"), *req.Quantity)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	message := "Cart item updated successfully"
	if *req.Quantity < 1 {
		message = "Item removed from cart"
	}
	h.respondWithCart(c, message, entries)
}

func (h *CartHandler) respondWithCart(c *gin.Context, message string, entries []cart.Entry) {
	view, err := h.cartService.Resolve(c.Request.Context(), entries)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    view,
	})
}
