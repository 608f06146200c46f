package dto

import "anoa.com/wismacare/internal/entity"

type CreateRequestRequest struct {
	Category    string `form:"category" json:"category" binding:"required,oneof=Plumbing Electrical Painting Other"`
	Title       string `form:"title" json:"title" binding:"required,min=3,max=255"`
	Description string `form:"description" json:"description" binding:"required,min=5"`
	Priority    string `form:"priority" json:"priority" binding:"required,oneof=low medium high urgent"`
	Location    string `form:"location" json:"location" binding:"required,max=255"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

type AssignTechnicianRequest struct {
	TechnicianID string `json:"technician_id" binding:"required,uuid"`
}

type ResolveRequestInput struct {
	Notes string `form:"notes" json:"notes"`
}

type FeedbackRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Comments string `json:"comments"`
}

// ResolveResult carries the advisory delay metadata back to the technician.
// The penalty is informational only; it is never subtracted from the
// resident's eventual feedback rating.
type ResolveResult struct {
	Request      *entity.MaintenanceRequest `json:"request"`
	DelayPenalty int                        `json:"delay_penalty"`
	DelayDays    int                        `json:"delay_days"`
	Note         string                     `json:"note,omitempty"`
}
