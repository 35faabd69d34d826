package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"userapp/internal/adapter/http/handler"
	"userapp/internal/adapter/http/routes"
	"userapp/internal/core/model/response"
)

func healthRouter() http.Handler {
	return routes.SetupRouterForTests(routes.HandlersConfig{
		HealthHandler: handler.NewHealthHandler("1.2.3", "test"),
	})
}

func TestHealth(t *testing.T) {
	RegisterTestingT(t)

	rr := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)

	healthRouter().ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))

	var body response.HealthResponse
	json.Unmarshal(rr.Body.Bytes(), &body)

	Expect(body.Status).To(Equal("healthy"))
	Expect(body.Timestamp).To(BeTemporally("~", time.Now().UTC(), time.Minute))
}

func TestInfo(t *testing.T) {
	RegisterTestingT(t)

	rr := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)

	healthRouter().ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))

	var body response.InfoResponse
	json.Unmarshal(rr.Body.Bytes(), &body)

	Expect(body.Message).To(Equal("Users CRUD API Server"))
	Expect(body.Version).To(Equal("1.2.3"))
	Expect(body.Endpoints).To(HaveKeyWithValue("users", "/api/users"))
}
