package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/akshayWork-19/RightTutor-Backend/middlewares"
	"github.com/akshayWork-19/RightTutor-Backend/models"
	"github.com/akshayWork-19/RightTutor-Backend/utils"
	"github.com/gin-gonic/gin"
)

type signupInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) adminSignup(c *gin.Context) {
	var in signupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "all fields (name, email, password) are required"})
		return
	}

	existing, err := s.Admins.GetByEmail(c.Request.Context(), in.Email)
	if err != nil {
		s.Logger.WithError(err).Error("admin lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "signup failed"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "an administrator with this email already exists"})
		return
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		s.Logger.WithError(err).Error("password hash failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "signup failed"})
		return
	}

	admin := models.Admin{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hashed),
		Avatar:   "https://api.dicebear.com/7.x/avataaars/svg?seed=" + url.QueryEscape(in.Name),
		Role:     "admin",
	}
	if err := s.Admins.Create(c.Request.Context(), &admin); err != nil {
		s.Logger.WithError(err).Error("admin create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "signup failed"})
		return
	}

	token, err := utils.JwtGenerate(strconv.FormatUint(uint64(admin.ID), 10), admin.Email, admin.Role)
	if err != nil {
		s.Logger.WithError(err).Error("token generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "signup failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Administrator registered successfully",
		"data": gin.H{
			"user":  adminProfile(&admin),
			"token": token,
		},
	})
}

func (s *Server) adminLogin(c *gin.Context) {
	var in loginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "email and password are required"})
		return
	}

	admin, err := s.Admins.GetByEmail(c.Request.Context(), in.Email)
	if err != nil {
		s.Logger.WithError(err).Error("admin lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "login failed"})
		return
	}
	if admin == nil || utils.ComparePassword(admin.Password, in.Password) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid administrative credentials"})
		return
	}

	token, err := utils.JwtGenerate(strconv.FormatUint(uint64(admin.ID), 10), admin.Email, admin.Role)
	if err != nil {
		s.Logger.WithError(err).Error("token generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"data": gin.H{
			"user":  adminProfile(admin),
			"token": token,
		},
	})
}

// adminProfile returns the current token's admin, resolved fresh from the
// database so avatar and name edits show up without a re-login.
func (s *Server) adminProfileHandler(c *gin.Context) {
	claim := middlewares.CtxValue(c.Request.Context())
	if claim == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	admin, err := s.Admins.GetByID(c.Request.Context(), claim.ID)
	if err != nil {
		s.Logger.WithError(err).Error("admin lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load profile"})
		return
	}
	if admin == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "administrator not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    adminProfile(admin),
	})
}

func adminProfile(admin *models.Admin) gin.H {
	return gin.H{
		"id":     admin.ID,
		"uid":    admin.ID,
		"name":   admin.Name,
		"email":  admin.Email,
		"avatar": admin.Avatar,
		"role":   admin.Role,
	}
}
