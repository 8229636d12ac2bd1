package controllers

import (
	"AuthGate/middleware"
	"AuthGate/models"
	tokenstore "AuthGate/pkg/token"
	utils "AuthGate/pkg/utills"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Register handler
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Username        string `json:"username"`
			Email           string `json:"email"`
			FirstName       string `json:"first_name"`
			LastName        string `json:"last_name"`
			Password        string `json:"password"`
			ConfirmPassword string `json:"confirm_password"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request"})
			return
		}

		email := strings.TrimSpace(strings.ToLower(body.Email))
		username := strings.TrimSpace(body.Username)

		if email == "" || username == "" || body.Password == "" || body.ConfirmPassword == "" {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Username, email, password, and confirm password are required"})
			return
		}
		if !utils.LooksLikeEmail(email) {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid email address"})
			return
		}
		if problem := utils.PasswordProblem(body.Password, body.ConfirmPassword); problem != "" {
			c.JSON(http.StatusBadRequest, gin.H{"msg": problem})
			return
		}

		var exists models.User
		if err := db.Where("email = ? OR username = ?", email, username).First(&exists).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"msg": "Email or username already exists"})
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "db error"})
			return
		}

		user := models.User{
			Email:     email,
			Username:  username,
			FirstName: strings.TrimSpace(body.FirstName),
			LastName:  strings.TrimSpace(body.LastName),
		}
		if err := user.SetPassword(body.Password); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to set password"})
			return
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to create user"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"msg": "Registration successful", "id": user.ID, "username": user.Username, "email": user.Email})
	}
}

// Login handler. The username field also accepts an email address.
func Login(db *gorm.DB, issuer *tokenstore.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request"})
			return
		}
		login := strings.TrimSpace(body.Username)
		if login == "" || body.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Username and password are required"})
			return
		}

		var user models.User
		if err := db.Where("username = ? OR email = ?", login, strings.ToLower(login)).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "Invalid username or password"})
			return
		}
		if !user.CheckPassword(body.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "Invalid username or password"})
			return
		}

		tokenResponse(c, issuer, user.ID, user.Username, "Login successful")
	}
}

// Logout revokes the presented token until it would have expired anyway.
func Logout(store tokenstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		revokeCurrent(c, store)
		c.JSON(http.StatusOK, gin.H{"msg": "logged out"})
	}
}

// Refresh rotates the access token: a new one is issued and the presented one
// is revoked.
func Refresh(db *gorm.DB, issuer *tokenstore.Issuer, store tokenstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetUint(middleware.ContextUserIDKey)

		var user models.User
		if err := db.First(&user, uid).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "User not found"})
			return
		}
		if !tokenResponse(c, issuer, user.ID, user.Username, "Token refreshed") {
			return
		}
		revokeCurrent(c, store)
	}
}

func revokeCurrent(c *gin.Context, store tokenstore.Store) {
	jti := c.GetString(middleware.ContextJTIKey)
	exp := c.GetTime(middleware.ContextExpKey)
	if jti == "" || exp.IsZero() {
		return
	}
	if err := store.Revoke(c.Request.Context(), jti, exp); err != nil {
		logrus.WithError(err).WithField("jti", jti).Error("[auth] revoke failed")
	}
}

func tokenResponse(c *gin.Context, issuer *tokenstore.Issuer, uid uint, username, msg string) bool {
	tokenStr, claims, err := issuer.Issue(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to create token"})
		return false
	}
	resp := gin.H{
		"msg":          msg,
		"access_token": tokenStr,
		"token_type":   "bearer",
		"expires_at":   claims.ExpiresAt.Time.UTC().Format(time.RFC3339),
	}
	if username != "" {
		resp["username"] = username
	}
	c.JSON(http.StatusOK, resp)
	return true
}
