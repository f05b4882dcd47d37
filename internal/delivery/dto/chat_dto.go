package dto

// DefaultUserID is used when a chat request carries no user id
const DefaultUserID = "default"

// Request DTOs

type ChatRequest struct {
	UserID  string `json:"user_id" validate:"max=128"`
	Message string `json:"message" validate:"max=2000"`
}

// Response DTOs

type ChatResponse struct {
	Response string `json:"response"`
}
