package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"go-healthbot/internal/delivery/dto"
	"go-healthbot/internal/service"
	"go-healthbot/internal/usecase"
	"go-healthbot/pkg/response"
	"go-healthbot/pkg/validator"
)

type ChatHandler struct {
	chatUsecase usecase.ChatUsecase
	validator   *validator.CustomValidator
	turnLock    *service.TurnLockService
}

// NewChatHandler serializes turns per user when turnLock is not nil.
func NewChatHandler(chatUsecase usecase.ChatUsecase, validator *validator.CustomValidator, turnLock *service.TurnLockService) *ChatHandler {
	return &ChatHandler{
		chatUsecase: chatUsecase,
		validator:   validator,
		turnLock:    turnLock,
	}
}

// Chat answers with the bare {"response": "..."} body chat clients expect.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req dto.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		req.UserID = dto.DefaultUserID
	}

	if h.turnLock != nil {
		unlock := h.turnLock.Lock(req.UserID)
		defer unlock()
	}

	response.JSON(w, http.StatusOK, h.chatUsecase.HandleTurn(r.Context(), &req))
}
