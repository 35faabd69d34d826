package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	. "userapp/pkg/test"

	"userapp/internal/adapter/database/sqlite/repository"
	"userapp/internal/adapter/http/handler"
	"userapp/internal/adapter/http/routes"
	"userapp/internal/core/model/response"
	"userapp/internal/core/service"
)

type UserHandlerSuite struct {
	suite.Suite
	Router *gin.Engine
}

func (s *UserHandlerSuite) SetupTest() {
	db := InitTestDB()

	repo := repository.NewUserRepository(db, nil)
	svc := service.NewUserService(repo)

	s.Router = routes.SetupRouterForTests(routes.HandlersConfig{
		UserHandler:   handler.NewUserHandler(svc, nil, nil),
		HealthHandler: handler.NewHealthHandler("test", "test"),
	})
}

func TestUserHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(UserHandlerSuite))
}

func (s *UserHandlerSuite) request(method, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	return rr
}

func (s *UserHandlerSuite) createUser(name, email string) response.UserResponse {
	body := fmt.Sprintf(`{"name": %q, "email": %q}`, name, email)

	rr := s.request("POST", "/api/users", body)
	Expect(rr.Code).To(Equal(http.StatusCreated))

	var envelope response.UserEnvelope
	json.Unmarshal(rr.Body.Bytes(), &envelope)

	return envelope.User
}

func (s *UserHandlerSuite) TestGetAllUsers_Empty() {
	rr := s.request("GET", "/api/users", "")

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Body.String()).To(MatchJSON(`{"users": []}`))
}

func (s *UserHandlerSuite) TestGetAllUsers_WithData() {
	s.createUser("Alice", "alice@example.com")
	s.createUser("Bob", "bob@example.com")

	rr := s.request("GET", "/api/users", "")

	Expect(rr.Code).To(Equal(http.StatusOK))

	var envelope response.UsersEnvelope
	json.Unmarshal(rr.Body.Bytes(), &envelope)

	Expect(envelope.Users).To(HaveLen(2))
	Expect(envelope.Users[0].Name).To(Equal("Alice"))
	Expect(envelope.Users[1].Name).To(Equal("Bob"))
}

func (s *UserHandlerSuite) TestCreateUser_AgeDefaultsToNull() {
	rr := s.request("POST", "/api/users", `{"name": "Alice", "email": "alice@example.com"}`)

	Expect(rr.Code).To(Equal(http.StatusCreated))
	Expect(rr.Body.String()).To(ContainSubstring(`"age":null`))

	var envelope response.UserEnvelope
	json.Unmarshal(rr.Body.Bytes(), &envelope)

	Expect(envelope.User.ID).To(BeNumerically(">", 0))
	Expect(envelope.User.Age).To(BeNil())
	Expect(envelope.User.CreatedAt.IsZero()).To(BeFalse())
}

func (s *UserHandlerSuite) TestCreateUser_WithAge() {
	rr := s.request("POST", "/api/users", `{"name": "Bob", "email": "bob@example.com", "age": 25}`)

	Expect(rr.Code).To(Equal(http.StatusCreated))

	var envelope response.UserEnvelope
	json.Unmarshal(rr.Body.Bytes(), &envelope)

	Expect(*envelope.User.Age).To(Equal(25))
}

func (s *UserHandlerSuite) TestCreateUser_MissingName() {
	rr := s.request("POST", "/api/users", `{"email": "alice@example.com"}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(rr.Body.String()).To(MatchJSON(`{"error": "Name and email are required"}`))
}

func (s *UserHandlerSuite) TestCreateUser_InvalidEmail() {
	rr := s.request("POST", "/api/users", `{"name": "Alice", "email": "not-an-email"}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
}

func (s *UserHandlerSuite) TestCreateUser_AgeOutOfRange() {
	rr := s.request("POST", "/api/users", `{"name": "Alice", "email": "alice@example.com", "age": 200}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
}

func (s *UserHandlerSuite) TestCreateUser_MalformedBody() {
	rr := s.request("POST", "/api/users", `{"name": `)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(rr.Body.String()).To(MatchJSON(`{"error": "Invalid request body"}`))
}

func (s *UserHandlerSuite) TestCreateUser_DuplicateEmail() {
	s.createUser("Alice", "alice@example.com")

	rr := s.request("POST", "/api/users", `{"name": "Other", "email": "alice@example.com"}`)

	Expect(rr.Code).To(Equal(http.StatusConflict))
	Expect(rr.Body.String()).To(MatchJSON(`{"error": "Email already exists"}`))
}

func (s *UserHandlerSuite) TestGetUserByID_Success() {
	user := s.createUser("Alice", "alice@example.com")

	rr := s.request("GET", fmt.Sprintf("/api/users/%d", user.ID), "")

	Expect(rr.Code).To(Equal(http.StatusOK))

	var envelope response.UserEnvelope
	json.Unmarshal(rr.Body.Bytes(), &envelope)

	Expect(envelope.User.Email).To(Equal("alice@example.com"))
}

func (s *UserHandlerSuite) TestGetUserByID_NotFound() {
	rr := s.request("GET", "/api/users/9999", "")

	Expect(rr.Code).To(Equal(http.StatusNotFound))
	Expect(rr.Body.String()).To(MatchJSON(`{"error": "User not found"}`))
}

func (s *UserHandlerSuite) TestGetUserByID_NonNumericID() {
	rr := s.request("GET", "/api/users/abc", "")

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(rr.Body.String()).To(MatchJSON(`{"error": "Invalid user ID"}`))
}

func (s *UserHandlerSuite) TestUpdateUser_SetAge() {
	user := s.createUser("Alice", "alice@example.com")

	rr := s.request("PUT", fmt.Sprintf("/api/users/%d", user.ID), `{"age": 30}`)

	Expect(rr.Code).To(Equal(http.StatusOK))

	var envelope response.UserEnvelope
	json.Unmarshal(rr.Body.Bytes(), &envelope)

	Expect(*envelope.User.Age).To(Equal(30))
	Expect(envelope.User.Name).To(Equal("Alice"))
}

func (s *UserHandlerSuite) TestUpdateUser_NullAgeClears() {
	user := s.createUser("Alice", "alice@example.com")

	rr := s.request("PUT", fmt.Sprintf("/api/users/%d", user.ID), `{"age": 30}`)
	Expect(rr.Code).To(Equal(http.StatusOK))

	rr = s.request("PUT", fmt.Sprintf("/api/users/%d", user.ID), `{"age": null}`)

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Body.String()).To(ContainSubstring(`"age":null`))
}

func (s *UserHandlerSuite) TestUpdateUser_NullName() {
	user := s.createUser("Alice", "alice@example.com")

	rr := s.request("PUT", fmt.Sprintf("/api/users/%d", user.ID), `{"name": null}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(rr.Body.String()).To(MatchJSON(`{"error": "Name cannot be null"}`))
}

func (s *UserHandlerSuite) TestUpdateUser_NotFound() {
	rr := s.request("PUT", "/api/users/9999", `{"name": "Nobody"}`)

	Expect(rr.Code).To(Equal(http.StatusNotFound))
	Expect(rr.Body.String()).To(MatchJSON(`{"error": "User not found"}`))
}

func (s *UserHandlerSuite) TestUpdateUser_NonNumericID() {
	rr := s.request("PUT", "/api/users/abc", `{"name": "Alice"}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(rr.Body.String()).To(MatchJSON(`{"error": "Invalid user ID"}`))
}

func (s *UserHandlerSuite) TestUpdateUser_DuplicateEmail() {
	s.createUser("Alice", "alice@example.com")
	bob := s.createUser("Bob", "bob@example.com")

	rr := s.request("PUT", fmt.Sprintf("/api/users/%d", bob.ID), `{"email": "alice@example.com"}`)

	Expect(rr.Code).To(Equal(http.StatusConflict))
	Expect(rr.Body.String()).To(MatchJSON(`{"error": "Email already exists"}`))
}

func (s *UserHandlerSuite) TestDeleteUser_Success() {
	user := s.createUser("Alice", "alice@example.com")

	rr := s.request("DELETE", fmt.Sprintf("/api/users/%d", user.ID), "")

	Expect(rr.Code).To(Equal(http.StatusOK))

	var envelope response.DeleteEnvelope
	json.Unmarshal(rr.Body.Bytes(), &envelope)

	Expect(envelope.Message).To(Equal("User deleted successfully"))
	Expect(envelope.User.ID).To(Equal(user.ID))

	rr = s.request("GET", fmt.Sprintf("/api/users/%d", user.ID), "")
	Expect(rr.Code).To(Equal(http.StatusNotFound))
}

func (s *UserHandlerSuite) TestDeleteUser_NotFound() {
	rr := s.request("DELETE", "/api/users/9999", "")

	Expect(rr.Code).To(Equal(http.StatusNotFound))
	Expect(rr.Body.String()).To(MatchJSON(`{"error": "User not found"}`))
}
