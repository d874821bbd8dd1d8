package controllers

import (
	"log"
	"net/http"

	"hotel-booking-backend/middleware"
	"hotel-booking-backend/services"
	"hotel-booking-backend/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Users       *services.UserService
	JWTSecret   string
	TokenExpiry int // hours
}

func NewAuthController(users *services.UserService, jwtSecret string, tokenExpiryHours int) *AuthController {
	return &AuthController{Users: users, JWTSecret: jwtSecret, TokenExpiry: tokenExpiryHours}
}

type loginPayload struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/auth/register.
func (ac *AuthController) Register(c *gin.Context) {
	var in services.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	user, err := ac.Users.Register(in)
	if err != nil {
		utils.JSONError(c, serviceErrorStatus(err), err.Error())
		return
	}

	log.Printf("✅ User registered: %s", user.Email)
	utils.JSONSuccess(c, http.StatusCreated, user)
}

// Login handles POST /api/auth/login and returns a bearer token.
func (ac *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	user, err := ac.Users.Authenticate(payload.Email, payload.Password)
	if err != nil {
		utils.JSONError(c, serviceErrorStatus(err), "incorrect email or password")
		return
	}

	token, err := utils.CreateAccessToken(user, ac.JWTSecret, ac.TokenExpiry)
	if err != nil {
		log.Printf("❌ Failed to sign token for user %d: %v", user.ID, err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user,
	})
}

// Me handles GET /api/auth/me.
func (ac *AuthController) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "not authenticated")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}

// UpdateMe handles PUT /api/users/me.
func (ac *AuthController) UpdateMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	var in services.UpdateProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	updated, err := ac.Users.UpdateProfile(user.ID, in)
	if err != nil {
		utils.JSONError(c, serviceErrorStatus(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated)
}
