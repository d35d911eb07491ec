package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func pairRequest(workers int, targets [5]int, ceiling int) string {
	slots := make([]string, len(targets))
	for i, target := range targets {
		slots[i] = fmt.Sprintf(`{"label": "S%d", "target": %d, "max": %d}`, i+1, target, ceiling)
	}
	return fmt.Sprintf(`{"scheme": "pair", "workers": %d, "slots": [%s]}`, workers, strings.Join(slots, ", "))
}

var (
	even     = [5]int{20, 20, 20, 20, 20}
	dominant = [5]int{50, 5, 5, 5, 5}
)

func newTestServer() *Server {
	return NewServer(zap.NewNop(), NewMetrics())
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSchemes(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodGet, "/v1/schemes", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var schemes []struct {
		Name     string   `json:"name"`
		Labels   []string `json:"labels"`
		Patterns int      `json:"patterns"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schemes))
	require.Len(t, schemes, 3)
	assert.Equal(t, "daynight", schemes[0].Name)
	assert.Equal(t, 19, schemes[0].Patterns)
	assert.Equal(t, "pair", schemes[1].Name)
	assert.Equal(t, []string{"S1", "S2", "S3", "S4", "S5"}, schemes[1].Labels)
}

func TestFeasibility(t *testing.T) {
	s := newTestServer()

	rec := do(t, s, http.MethodPost, "/v1/feasibility", pairRequest(50, even, 60))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var plan planResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.True(t, plan.Feasible)
	assert.Equal(t, 50, plan.MinRequired)
	assert.Nil(t, plan.Violation)

	rec = do(t, s, http.MethodPost, "/v1/feasibility", pairRequest(40, dominant, 60))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.False(t, plan.Feasible)
	require.NotNil(t, plan.Violation)
	assert.Equal(t, []string{"S1"}, plan.Violation.Slots)
	assert.Equal(t, []string{"S2", "S3", "S4", "S5"}, plan.Violation.Neighborhood)
	assert.Equal(t, 30, plan.Violation.Deficit)
	assert.Contains(t, plan.Violation.Message, "short by 30")
}

func TestSchedule(t *testing.T) {
	s := newTestServer()

	rec := do(t, s, http.MethodPost, "/v1/schedules", pairRequest(39, even, 60))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp scheduleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RunID)
	assert.True(t, resp.Plan.Redistributed)
	assert.Equal(t, []int{16, 16, 16, 15, 15}, resp.Occupancy)
	assert.Len(t, resp.Assignments, 39)
	assert.Len(t, resp.Assignments[0].Slots, 2)
	assert.True(t, resp.Success)
}

func TestSchedule_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"infeasible", pairRequest(40, dominant, 60), http.StatusUnprocessableEntity},
		{"too many workers", pairRequest(200, even, 60), http.StatusUnprocessableEntity},
		{"unknown scheme", `{"scheme": "quad", "workers": 1, "slots": [{"label": "A", "target": 1, "max": 1}]}`, http.StatusBadRequest},
		{"max below target", pairRequest(50, [5]int{70, 20, 20, 20, 20}, 60), http.StatusBadRequest},
		{"unknown field", `{"scheme": "pair", "shifts": 2}`, http.StatusBadRequest},
		{"malformed json", `{"scheme": `, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(), http.MethodPost, "/v1/schedules", tt.body)

			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestPolicyOverride(t *testing.T) {
	body := strings.Replace(pairRequest(39, even, 60), `"workers": 39,`, `"workers": 39, "policy": {"shortfallRatio": 0.5},`, 1)

	rec := do(t, newTestServer(), http.MethodPost, "/v1/feasibility", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var plan planResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.False(t, plan.Redistributed, "39 workers is above half of the 50 required")
	assert.NotEmpty(t, plan.Advisory)
}

func TestMetrics(t *testing.T) {
	s := newTestServer()
	do(t, s, http.MethodPost, "/v1/schedules", pairRequest(50, even, 60))
	do(t, s, http.MethodPost, "/v1/schedules", pairRequest(40, dominant, 60))

	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `rider_rota_allocations_total{result="success",scheme="pair"} 1`)
	assert.Contains(t, body, `rider_rota_allocations_total{result="infeasible",scheme="pair"} 1`)
	assert.Contains(t, body, `rider_rota_http_requests_total{method="POST",route="/v1/schedules",status="200"} 1`)
	assert.Contains(t, body, `rider_rota_http_requests_total{method="POST",route="/v1/schedules",status="422"} 1`)
	assert.Contains(t, body, "rider_rota_allocation_workers_placed_count 1")
}

func TestListenAndServe_ShutsDownOnCancel(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newTestServer().ListenAndServe(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
