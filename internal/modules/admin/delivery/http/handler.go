package handler

import (
	"net/http"

	adminService "anoa.com/wismacare/internal/modules/admin/service"
	"anoa.com/wismacare/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	service adminService.AdminService
}

func NewAdminHandler(service adminService.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) GetTechnicians(c *gin.Context) {
	technicians, err := h.service.GetTechnicians(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, technicians)
}

func (h *AdminHandler) GetTechniciansBySpecialization(c *gin.Context) {
	technicians, err := h.service.GetTechniciansBySpecialization(c.Request.Context(), c.Param("spec"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, technicians)
}

func (h *AdminHandler) GetAllTechnicians(c *gin.Context) {
	technicians, err := h.service.GetAllTechnicians(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, technicians)
}

func (h *AdminHandler) GetPendingTechnicians(c *gin.Context) {
	technicians, err := h.service.GetPendingTechnicians(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, technicians)
}

func (h *AdminHandler) ApproveTechnician(c *gin.Context) {
	technicianID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid technician id"})
		return
	}

	technician, err := h.service.ApproveTechnician(c.Request.Context(), technicianID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "technician approved successfully", "technician": technician})
}

func (h *AdminHandler) RejectTechnician(c *gin.Context) {
	technicianID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid technician id"})
		return
	}

	if err := h.service.RejectTechnician(c.Request.Context(), technicianID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "technician rejected and removed"})
}

func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	users, err := h.service.GetAllUsers(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}
