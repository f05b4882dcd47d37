package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"go-healthbot/internal/delivery/dto"
	"go-healthbot/internal/delivery/http/handler"
	"go-healthbot/internal/delivery/http/middleware"
	"go-healthbot/internal/infrastructure/metrics"
	"go-healthbot/internal/service"
	"go-healthbot/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChatUsecase struct {
	mu    sync.Mutex
	users []string
}

func (s *stubChatUsecase) HandleTurn(ctx context.Context, request *dto.ChatRequest) *dto.ChatResponse {
	s.mu.Lock()
	s.users = append(s.users, request.UserID)
	s.mu.Unlock()
	return &dto.ChatResponse{Response: "echo: " + request.Message}
}

func (s *stubChatUsecase) Wait() {}

type stubDoctorUsecase struct {
	err error
}

func (s *stubDoctorUsecase) GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.DoctorListResponse{Doctors: []dto.DoctorResponse{
		{ID: 1, Name: "Dr. Jinni Joffer", Speciality: "General Physician", ConsultationFee: decimal.NewFromInt(500)},
	}}, nil
}

type stubAppointmentUsecase struct {
	mobile string
}

func (s *stubAppointmentUsecase) FindByMobile(ctx context.Context, request *dto.AppointmentLookupRequest) (*dto.AppointmentListResponse, error) {
	s.mobile = request.Mobile
	return &dto.AppointmentListResponse{Appointments: []dto.AppointmentResponse{{SerialNumber: "SN-1", Status: "Confirmed"}}}, nil
}

type routerFixture struct {
	server       *httptest.Server
	chat         *stubChatUsecase
	doctors      *stubDoctorUsecase
	appointments *stubAppointmentUsecase
	registry     *prometheus.Registry
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	f := &routerFixture{
		chat:         &stubChatUsecase{},
		doctors:      &stubDoctorUsecase{},
		appointments: &stubAppointmentUsecase{},
		registry:     prometheus.NewRegistry(),
	}
	chatMetrics := metrics.NewChatMetrics(f.registry)
	chatMetrics.ObserveTurn("book", "advanced")

	turnLock := service.NewTurnLockService(log)
	t.Cleanup(turnLock.Stop)

	v := validator.NewValidator()
	router := NewRouter(
		handler.NewChatHandler(f.chat, v, turnLock),
		handler.NewDoctorHandler(f.doctors),
		handler.NewAppointmentHandler(f.appointments, v),
		middleware.NewCORSMiddleware(""),
		promhttp.HandlerFor(f.registry, promhttp.HandlerOpts{}),
	)
	f.server = httptest.NewServer(router.Setup())
	t.Cleanup(f.server.Close)
	return f
}

func (f *routerFixture) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, f.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestChat_BothRoutes(t *testing.T) {
	f := newRouterFixture(t)

	resp, raw := f.do(t, http.MethodPost, "/api/v1/chat", `{"user_id":"u-9","message":"hi"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"response":"echo: hi"}`, string(raw))

	resp, raw = f.do(t, http.MethodPost, "/chat", `{"message":"help"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"response":"echo: help"}`, string(raw))

	assert.Equal(t, []string{"u-9", dto.DefaultUserID}, f.chat.users)
}

func TestChat_RejectsBadBodies(t *testing.T) {
	f := newRouterFixture(t)

	resp, _ := f.do(t, http.MethodPost, "/chat", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw := f.do(t, http.MethodPost, "/chat", `{"message":"`+strings.Repeat("a", 2001)+`"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Success bool              `json:"success"`
		Error   map[string]string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.False(t, body.Success)
	assert.Contains(t, body.Error["Message"], "at most 2000")
	assert.Empty(t, f.chat.users)
}

func TestChat_ConcurrentTurnsSameUser(t *testing.T) {
	f := newRouterFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Post(f.server.URL+"/chat", "application/json", strings.NewReader(`{"user_id":"same","message":"1"}`))
			if err == nil {
				resp.Body.Close()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, f.chat.users, 8)
}

func TestHealthAndCORS(t *testing.T) {
	f := newRouterFixture(t)

	resp, raw := f.do(t, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(raw))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp, _ = f.do(t, http.MethodOptions, "/chat", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
	assert.Empty(t, f.chat.users)
}

func TestDoctors(t *testing.T) {
	f := newRouterFixture(t)

	resp, raw := f.do(t, http.MethodGet, "/api/v1/doctors", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"name":"Dr. Jinni Joffer"`)
	assert.Contains(t, string(raw), `"consultation_fee":"500"`)

	f.doctors.err = errors.New("down")
	resp, _ = f.do(t, http.MethodGet, "/api/v1/doctors", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestAppointmentLookup(t *testing.T) {
	f := newRouterFixture(t)

	resp, raw := f.do(t, http.MethodGet, "/api/v1/appointments?mobile=12345", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "10-digit number")

	resp, raw = f.do(t, http.MethodGet, "/api/v1/appointments?mobile=9876543210", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"serial_number":"SN-1"`)
	assert.Equal(t, "9876543210", f.appointments.mobile)
}

func TestMetricsAndNotFound(t *testing.T) {
	f := newRouterFixture(t)

	resp, raw := f.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `healthbot_chat_turns_total{flow="book",outcome="advanced"} 1`)

	resp, _ = f.do(t, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
