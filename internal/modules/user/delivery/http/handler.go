package handler

import (
	"net/http"

	"anoa.com/wismacare/internal/modules/user/dto"
	userService "anoa.com/wismacare/internal/modules/user/service"
	commonDto "anoa.com/wismacare/pkg/dto"
	"anoa.com/wismacare/pkg/response"
	"anoa.com/wismacare/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service userService.AuthService
	appEnv  string
}

func NewAuthHandler(service userService.AuthService, appEnv string) *AuthHandler {
	return &AuthHandler{service: service, appEnv: appEnv}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	var photo *commonDto.Upload
	if fileHeader, err := c.FormFile("photo"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			response.ResponseError(c, err)
			return
		}
		defer file.Close()
		photo = &commonDto.Upload{Reader: file, Filename: fileHeader.Filename}
	}

	user, err := h.service.Register(c.Request.Context(), req, photo)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "user registered successfully", "user": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	token, err := h.service.ForgotPassword(c.Request.Context(), req.ContactInfo)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	// Same response whether or not the account exists, except in development
	// where the code comes back directly instead of via a mailer.
	if h.appEnv == "development" && token != "" {
		c.JSON(http.StatusOK, gin.H{
			"message":    "reset code generated",
			"resetToken": token,
			"expiresIn":  "30 minutes",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "if an account exists, a reset link will be sent"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password reset successfully"})
}
