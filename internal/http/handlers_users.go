package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/service"
)

// User and order-history handlers

type registerReq struct {
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// @Summary Register a new account
// @Tags users
// @Accept json
// @Produce json
// @Param input body registerReq true "Registration"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /register [post]
func (s *Server) register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	_, err := s.users.Register(c, service.RegisterInput{
		Username: req.Username,
		Fullname: req.Fullname,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		if err == service.ErrInvalidInput {
			badRequest(c, "All fields are required")
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "message": "Registration successful! Please login."})
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// @Summary Login
// @Tags users
// @Accept json
// @Produce json
// @Param input body loginReq true "Credentials"
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Router /login [post]
func (s *Server) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	u, err := s.users.Login(c, req.Username, req.Password, req.Role)
	if err != nil {
		if err == service.ErrInvalidInput {
			badRequest(c, "All fields are required")
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Login successful",
		"role":    u.Role,
		"avatar":  u.Avatar,
		"userId":  u.ID,
	})
}

// @Summary Public profile by username
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /profile/{username} [get]
func (s *Server) profile(c *gin.Context) {
	u, err := s.users.Profile(c, c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "user": u})
}

type updateProfileReq struct {
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// @Summary Update contact details
// @Tags users
// @Accept json
// @Produce json
// @Param input body updateProfileReq true "Profile"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /profile/update [post]
func (s *Server) updateProfile(c *gin.Context) {
	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	err := s.users.UpdateProfile(c, domain.User{
		Username: req.Username,
		Fullname: req.Fullname,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Profile updated"})
}

// @Summary Orders containing a vendor's products, grouped by order
// @Tags orders
// @Produce json
// @Param id path int true "Vendor ID"
// @Success 200 {object} map[string]any
// @Router /order/history/vendor/{id} [get]
func (s *Server) vendorOrders(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid id")
		return
	}
	views, err := s.history.OrdersForVendor(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": views})
}

// @Summary A user's order history, grouped by order
// @Tags orders
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]any
// @Router /order/history/user/{id} [get]
func (s *Server) userOrders(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid id")
		return
	}
	views, err := s.history.OrdersForUser(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": views})
}
