package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/loandesk/dashboard/pkg/response"

	"github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	redis      *redis.Client
	apiBaseURL string
	http       *http.Client
}

func NewHealthHandler(redisClient *redis.Client, apiBaseURL string, httpClient *http.Client) *HealthHandler {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HealthHandler{
		redis:      redisClient,
		apiBaseURL: apiBaseURL,
		http:       httpClient,
	}
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Health performs a basic health check
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	response.Success(w, status)
}

// Ready checks connectivity to redis and to the upstream loan API.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.redis.Ping(ctx).Err(); err != nil {
		status.Status = "error"
		status.Checks["redis"] = "failed: " + err.Error()
	} else {
		status.Checks["redis"] = "ok"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.apiBaseURL, nil)
	if err == nil {
		var resp *http.Response
		resp, err = h.http.Do(req)
		if err == nil {
			resp.Body.Close()
		}
	}
	if err != nil {
		status.Status = "error"
		status.Checks["loan_api"] = "failed: " + err.Error()
	} else {
		status.Checks["loan_api"] = "ok"
	}

	if status.Status == "error" {
		response.Error(w, http.StatusServiceUnavailable, "Service not ready", nil)
		return
	}

	response.Success(w, status)
}
