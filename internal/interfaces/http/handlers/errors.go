package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/BeingRelentless/QKart-Shopping/internal/domain/cart"
	"github.com/BeingRelentless/QKart-Shopping/internal/domain/checkout"
	"github.com/BeingRelentless/QKart-Shopping/internal/domain/user"
	"github.com/BeingRelentless/QKart-Shopping/internal/infrastructure/backend"
)

// Messages shown to visitors
const (
	MsgSomethingWentWrong = "Something went wrong. Please try again."
	MsgAlreadyInCart      = "Item already in cart"
	MsgLoginToOrder       = "Login to place order"
	MsgInvalidRequest     = "Invalid request data"
)

// respondError writes the visitor-facing answer for err. Backend messages
// are passed through with the backend's error status.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var ve *user.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": ve.Message,
			"field": ve.Field,
			"level": "warning",
		})
		return
	}

	switch {
	case errors.Is(err, cart.ErrAlreadyInCart):
		c.JSON(http.StatusConflict, gin.H{
			"error": MsgAlreadyInCart,
			"level": "info",
		})
		return
	case errors.Is(err, cart.ErrItemNotInCart):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Item not found in cart",
		})
		return
	case errors.Is(err, checkout.ErrLoginRequired):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": MsgLoginToOrder,
		})
		return
	}

	if re, ok := backend.AsRemote(err); ok {
		status := re.StatusCode
		if status < http.StatusBadRequest {
			logger.WithError(err).Warn("Backend answered with a non-error status")
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{
			"error": re.Message,
		})
		return
	}

	if _, ok := backend.AsTransport(err); ok {
		logger.WithError(err).Warn("Backend unreachable")
		c.JSON(http.StatusBadGateway, gin.H{
			"error": MsgSomethingWentWrong,
		})
		return
	}

	logger.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": MsgSomethingWentWrong,
	})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   MsgInvalidRequest,
		"details": err.Error(),
	})
}
