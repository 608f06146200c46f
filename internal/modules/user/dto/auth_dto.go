package dto

import "anoa.com/wismacare/internal/entity"

type RegisterRequest struct {
	Name           string `form:"name" json:"name" binding:"required,min=2,max=100"`
	ContactInfo    string `form:"contact_info" json:"contact_info" binding:"required,email"`
	Password       string `form:"password" json:"password" binding:"required,min=6"`
	Role           string `form:"role" json:"role" binding:"omitempty,oneof=Resident Technician Admin"`
	EmployeeID     string `form:"employee_id" json:"employee_id"`
	Phone          string `form:"phone" json:"phone"`
	Specialization string `form:"specialization" json:"specialization"`
}

type LoginRequest struct {
	ContactInfo string `json:"contact_info" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *entity.User `json:"user"`
}

type ForgotPasswordRequest struct {
	ContactInfo string `json:"contact_info" binding:"required,email"`
}

type ResetPasswordRequest struct {
	ContactInfo string `json:"contact_info" binding:"required,email"`
	Token       string `json:"token" binding:"required"`
	Password    string `json:"password" binding:"required,min=6"`
}
