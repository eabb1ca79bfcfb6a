package handler

import (
	"DocVault/internal/dto"
	"DocVault/internal/service"
	"DocVault/utils"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Signup registers a user and returns a fresh token. Duplicate emails are
// rejected by the store's unique index and reported as a conflict.
func Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and password are required"})
		return
	}

	user, err := service.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Name, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		return
	}

	go func(email, name string) {
		if err := utils.SendWelcomeMail(email, name); err != nil {
			log.Printf("welcome mail to %s skipped: %v", email, err)
		}
	}(user.Email, user.Name)

	c.JSON(http.StatusCreated, dto.AuthResponse{
		Message: "Signup successful",
		Token:   token,
		User:    dto.UserResponse{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}

// Login authenticates a user and returns a token. Unknown email and wrong
// password produce the same response.
func Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}

	user, err := service.AuthenticateUser(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Name, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    dto.UserResponse{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}
