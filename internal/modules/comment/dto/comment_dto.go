package dto

type AddCommentRequest struct {
	Message string `json:"message" binding:"required,min=1,max=2000"`
}
