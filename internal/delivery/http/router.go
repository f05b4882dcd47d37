package http

import (
	"net/http"

	"go-healthbot/internal/delivery/http/handler"
	"go-healthbot/internal/delivery/http/middleware"
	"go-healthbot/pkg/response"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	chatHandler        *handler.ChatHandler
	doctorHandler      *handler.DoctorHandler
	appointmentHandler *handler.AppointmentHandler
	corsMiddleware     *middleware.CORSMiddleware
	metricsHandler     http.Handler
}

func NewRouter(
	chatHandler *handler.ChatHandler,
	doctorHandler *handler.DoctorHandler,
	appointmentHandler *handler.AppointmentHandler,
	corsMiddleware *middleware.CORSMiddleware,
	metricsHandler http.Handler,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		chatHandler:        chatHandler,
		doctorHandler:      doctorHandler,
		appointmentHandler: appointmentHandler,
		corsMiddleware:     corsMiddleware,
		metricsHandler:     metricsHandler,
	}
}

func (r *Router) Setup() *mux.Router {
	// Unversioned chat endpoint kept for existing widgets
	r.router.HandleFunc("/chat", r.chatHandler.Chat).Methods(http.MethodPost, http.MethodOptions)

	if r.metricsHandler != nil {
		r.router.Handle("/metrics", r.metricsHandler).Methods(http.MethodGet)
	}

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	api.HandleFunc("/chat", r.chatHandler.Chat).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	api.HandleFunc("/appointments", r.appointmentHandler.FindByMobile).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	r.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.NotFound(w, "")
	})

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
