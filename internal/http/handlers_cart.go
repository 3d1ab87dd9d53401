package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/service"
)

// Cart and checkout handlers

// @Summary Add a product to the cart (repeated calls accumulate quantity)
// @Tags cart
// @Produce json
// @Param id path int true "User ID"
// @Param productId path int true "Product ID"
// @Param quantity path int true "Quantity"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /cart/add/{id}/{productId}/{quantity} [get]
func (s *Server) addToCart(c *gin.Context) {
	userID, productID, quantity, ok := cartParams(c, true)
	if !ok {
		return
	}
	if err := s.carts.Add(c, userID, productID, quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "successfully added to cart"})
}

// @Summary Cart contents for a user
// @Tags cart
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /cart/user/{id} [get]
func (s *Server) cartItems(c *gin.Context) {
	userID, err := parseID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid id")
		return
	}
	items, err := s.carts.List(c, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "cart not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": items})
}

// @Summary Set the absolute quantity of a cart line
// @Tags cart
// @Produce json
// @Param id path int true "User ID"
// @Param productId path int true "Product ID"
// @Param quantity path int true "Quantity"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cart/update/{id}/{productId}/{quantity} [get]
func (s *Server) updateCartItem(c *gin.Context) {
	userID, productID, quantity, ok := cartParams(c, true)
	if !ok {
		return
	}
	if err := s.carts.Update(c, userID, productID, quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "successfully updated"})
}

// @Summary Remove a product from the cart
// @Tags cart
// @Produce json
// @Param id path int true "User ID"
// @Param productId path int true "Product ID"
// @Success 200 {object} map[string]string
// @Router /cart/remove/{id}/{productId} [get]
func (s *Server) removeFromCart(c *gin.Context) {
	userID, productID, _, ok := cartParams(c, false)
	if !ok {
		return
	}
	if err := s.carts.Remove(c, userID, productID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "successfully removed from cart"})
}

// @Summary Convert the user's cart into an order, atomically
// @Tags cart
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /cart/checkout/{id} [get]
func (s *Server) checkoutCart(c *gin.Context) {
	userID, err := parseID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid id")
		return
	}
	orderID, err := s.checkout.Checkout(c, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Cart is empty"})
		case errors.Is(err, service.ErrInvalidInput):
			badRequest(c, "invalid id")
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Checkout failed",
				"error":   err.Error(),
			})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"message":  "Checkout successful",
		"order_id": orderID,
	})
}

func cartParams(c *gin.Context, withQuantity bool) (userID, productID, quantity int64, ok bool) {
	var err error
	if userID, err = parseID(c.Param("id")); err != nil {
		badRequest(c, "invalid id")
		return 0, 0, 0, false
	}
	if productID, err = parseID(c.Param("productId")); err != nil {
		badRequest(c, "invalid product id")
		return 0, 0, 0, false
	}
	if withQuantity {
		if quantity, err = parseID(c.Param("quantity")); err != nil {
			badRequest(c, "invalid quantity")
			return 0, 0, 0, false
		}
	}
	return userID, productID, quantity, true
}
