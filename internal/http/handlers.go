package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/internal/service"
)

type Server struct {
	engine   *gin.Engine
	users    *service.UserService
	products *service.ProductService
	carts    *service.CartService
	checkout *service.CheckoutService
	history  *service.OrderHistoryService
}

func NewServer(
	users *service.UserService,
	products *service.ProductService,
	carts *service.CartService,
	checkout *service.CheckoutService,
	history *service.OrderHistoryService,
) *Server {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	s := &Server{
		engine:   r,
		users:    users,
		products: products,
		carts:    carts,
		checkout: checkout,
		history:  history,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := s.engine.Group("/api")
	{
		api.POST("/register", s.register)
		api.POST("/login", s.login)
		api.GET("/profile/:username", s.profile)
		api.POST("/profile/update", s.updateProfile)

		api.GET("/products/list/:category/:priceRange", s.listProducts)
		api.GET("/products/seller/:id", s.vendorProducts)
		api.GET("/product/detail/:id", s.productDetail)
		api.POST("/products/add", s.addProduct)
		api.PUT("/products/update/:id", s.updateProduct)
		api.DELETE("/products/delete/:id", s.deleteProduct)

		// cart routes are GET with path params, matching the SPA client
		api.GET("/cart/add/:id/:productId/:quantity", s.addToCart)
		api.GET("/cart/user/:id", s.cartItems)
		api.GET("/cart/update/:id/:productId/:quantity", s.updateCartItem)
		api.GET("/cart/remove/:id/:productId", s.removeFromCart)
		api.GET("/cart/checkout/:id", s.checkoutCart)

		api.GET("/order/history/vendor/:id", s.vendorOrders)
		api.GET("/order/history/user/:id", s.userOrders)
	}
}

// Product handlers

// @Summary List products with optional category and price-range filters
// @Tags products
// @Produce json
// @Param category path string true "Category ('0' = all)"
// @Param priceRange path string true "Price range 'min-max' ('0' = all)"
// @Success 200 {object} map[string]any
// @Router /products/list/{category}/{priceRange} [get]
func (s *Server) listProducts(c *gin.Context) {
	var f repository.ProductFilter
	if category := c.Param("category"); category != "0" {
		f.Category = &category
	}
	if pr := c.Param("priceRange"); pr != "0" {
		parts := strings.SplitN(pr, "-", 2)
		if len(parts) == 2 {
			if lo, err := strconv.ParseFloat(parts[0], 64); err == nil {
				f.MinPrice = &lo
			}
			if hi, err := strconv.ParseFloat(parts[1], 64); err == nil {
				f.MaxPrice = &hi
			}
		}
	}
	list, err := s.products.List(c, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "products": list})
}

// @Summary List a vendor's products
// @Tags products
// @Produce json
// @Param id path int true "Vendor ID"
// @Success 200 {object} map[string]any
// @Router /products/seller/{id} [get]
func (s *Server) vendorProducts(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid id")
		return
	}
	list, err := s.products.ListByVendor(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "products": list})
}

// @Summary Product details with vendor info
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /product/detail/{id} [get]
func (s *Server) productDetail(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid id")
		return
	}
	d, err := s.products.GetDetail(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "product": d})
}

type productReq struct {
	VendorID    int64   `json:"vendor_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int64   `json:"stock"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
}

// @Summary Add a product
// @Tags products
// @Accept json
// @Produce json
// @Param input body productReq true "Product"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /products/add [post]
func (s *Server) addProduct(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	p, err := s.products.Create(c, domain.Product{
		VendorID:    req.VendorID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "product": p})
}

// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param input body productReq true "Product"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /products/update/{id} [put]
func (s *Server) updateProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid id")
		return
	}
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	p, err := s.products.Update(c, domain.Product{
		ID:          id,
		VendorID:    req.VendorID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "product": p})
}

// @Summary Delete a product
// @Tags products
// @Param id path int true "Product ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/delete/{id} [delete]
func (s *Server) deleteProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid id")
		return
	}
	if err := s.products.Delete(c, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": msg})
}

func respondError(c *gin.Context, err error) {
	c.JSON(mapErrorToStatus(err), gin.H{"status": "error", "message": err.Error()})
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUsernameTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
