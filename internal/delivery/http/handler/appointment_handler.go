package handler

import (
	"net/http"

	"go-healthbot/internal/delivery/dto"
	"go-healthbot/internal/usecase"
	"go-healthbot/pkg/response"
	"go-healthbot/pkg/validator"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// FindByMobile handles GET /appointments?mobile=9876543210
func (h *AppointmentHandler) FindByMobile(w http.ResponseWriter, r *http.Request) {
	req := dto.AppointmentLookupRequest{
		Mobile: r.URL.Query().Get("mobile"),
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointments, err := h.appointmentUsecase.FindByMobile(r.Context(), &req)
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}
