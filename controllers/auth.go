package controllers

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"journal-submission-api/config"
	"journal-submission-api/middleware"
	"journal-submission-api/models"
	"journal-submission-api/utils"
)

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	FullName    string `json:"full_name" binding:"required"`
	Affiliation string `json:"affiliation"`
	OrcidID     string `json:"orcid_id"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token   string      `json:"token"`
	User    models.User `json:"user"`
	Message string      `json:"message"`
}

// Register creates an account with the default author role.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if ok, msg := utils.ValidatePassword(req.Password); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	if req.OrcidID != "" && !utils.ValidateORCID(req.OrcidID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ORCID iD format"})
		return
	}

	var count int64
	config.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	var authorRole models.Role
	if err := config.DB.Where("name = ?", models.RoleAuthor).First(&authorRole).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Role configuration missing"})
		return
	}

	now := time.Now()
	user := models.User{
		Email:       req.Email,
		Password:    hash,
		FullName:    utils.SanitizeInput(req.FullName),
		Affiliation: utils.SanitizeInput(req.Affiliation),
		CreateAt:    &now,
		UpdateAt:    &now,
		Roles:       []models.Role{authorRole},
	}
	if req.OrcidID != "" {
		orcid := req.OrcidID
		user.OrcidID = &orcid
	}

	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	token, err := generateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, LoginResponse{
		Token:   token,
		User:    user,
		Message: "Registration successful",
	})
}

// Login handles user authentication
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Preload("Roles").
		Where("email = ? AND delete_at IS NULL", req.Email).
		First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if !CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := generateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:   token,
		User:    user,
		Message: "Login successful",
	})
}

// GetProfile returns current user profile
func GetProfile(c *gin.Context) {
	userID, _ := currentUserID(c)

	var user models.User
	if err := config.DB.Preload("Roles").
		Where("user_id = ?", userID).
		First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile lets users edit their own display fields.
func UpdateProfile(c *gin.Context) {
	type profileUpdateRequest struct {
		FullName    string  `json:"full_name" binding:"required"`
		Affiliation string  `json:"affiliation"`
		OrcidID     *string `json:"orcid_id"`
		Bio         string  `json:"bio"`
	}

	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.OrcidID != nil && *req.OrcidID != "" && !utils.ValidateORCID(*req.OrcidID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ORCID iD format"})
		return
	}

	userID, _ := currentUserID(c)

	now := time.Now()
	updates := map[string]interface{}{
		"full_name":   utils.SanitizeInput(req.FullName),
		"affiliation": utils.SanitizeInput(req.Affiliation),
		"bio":         req.Bio,
		"update_at":   now,
	}
	// An absent orcid_id keeps the stored iD; an explicit empty string
	// clears it.
	if req.OrcidID != nil {
		if *req.OrcidID == "" {
			updates["orcid_id"] = nil
		} else {
			updates["orcid_id"] = *req.OrcidID
		}
	}
	if err := config.DB.Model(&models.User{}).
		Where("user_id = ?", userID).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// GrantRole adds a role to a user's set. Editor-gated by the route.
func GrantRole(c *gin.Context) {
	type grantRoleRequest struct {
		UserID uint   `json:"user_id" binding:"required"`
		Role   string `json:"role" binding:"required"`
	}

	var req grantRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var role models.Role
	if err := config.DB.Where("name = ?", req.Role).First(&role).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
		return
	}

	var user models.User
	if err := config.DB.Preload("Roles").
		Where("user_id = ? AND delete_at IS NULL", req.UserID).
		First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.HasRole(role.Name) {
		c.JSON(http.StatusOK, gin.H{"message": "Role already granted"})
		return
	}

	if err := config.DB.Model(&user).Association("Roles").Append(&role); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to grant role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role granted successfully"})
}

// ListUsers returns users for reviewer pickers. Editor-gated by the route.
func ListUsers(c *gin.Context) {
	var users []models.User
	query := config.DB.Preload("Roles").Where("delete_at IS NULL")
	if role := c.Query("role"); role != "" {
		query = query.Where(
			"user_id IN (SELECT ur.user_id FROM user_roles ur JOIN roles r ON r.role_id = ur.role_id WHERE r.name = ?)",
			role)
	}
	if err := query.Order("full_name ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "total": len(users)})
}

// generateToken creates JWT token
func generateToken(user models.User) (string, error) {
	expireHours, err := strconv.Atoi(os.Getenv("JWT_EXPIRE_HOURS"))
	if err != nil {
		expireHours = 24 // default 24 hours
	}

	claims := middleware.Claims{
		UserID: user.UserID,
		Email:  user.Email,
		Roles:  user.RoleNames(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expireHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// HashPassword hashes password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares password with hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
