package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/gomega"

	. "userapp/pkg/test"

	"userapp/internal/adapter/database/sqlite/repository"
	"userapp/internal/adapter/http/handler"
	"userapp/internal/adapter/http/routes"
	"userapp/internal/core/service"
	"userapp/pkg/client"
)

var ctx = context.Background()

func newTestServer(t *testing.T) (*httptest.Server, *client.Client) {
	t.Helper()

	db := InitTestDB()

	repo := repository.NewUserRepository(db, nil)
	svc := service.NewUserService(repo)

	router := routes.SetupRouterForTests(routes.HandlersConfig{
		UserHandler:   handler.NewUserHandler(svc, nil, nil),
		HealthHandler: handler.NewHealthHandler("test", "test"),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server, client.New(server.URL)
}

func TestClient_ListUsers_Empty(t *testing.T) {
	RegisterTestingT(t)

	_, c := newTestServer(t)

	users, err := c.ListUsers(ctx)

	Expect(err).To(BeNil())
	Expect(users).To(BeEmpty())
}

func TestClient_CreateAndGet(t *testing.T) {
	RegisterTestingT(t)

	_, c := newTestServer(t)

	created, err := c.CreateUser(ctx, client.NewUser{
		Name:  "Alice",
		Email: "alice@example.com",
	})

	Expect(err).To(BeNil())
	Expect(created.ID).To(BeNumerically(">", 0))
	Expect(created.Age).To(BeNil())

	fetched, err := c.GetUser(ctx, created.ID)

	Expect(err).To(BeNil())
	Expect(fetched.Email).To(Equal("alice@example.com"))
}

func TestClient_UpdateUser_PartialAndNull(t *testing.T) {
	RegisterTestingT(t)

	_, c := newTestServer(t)

	age := 30
	created, err := c.CreateUser(ctx, client.NewUser{
		Name:  "Bob",
		Email: "bob@example.com",
		Age:   &age,
	})
	Expect(err).To(BeNil())

	updated, err := c.UpdateUser(ctx, created.ID, client.UserUpdate{
		Name: client.Some("Robert"),
	})

	Expect(err).To(BeNil())
	Expect(updated.Name).To(Equal("Robert"))
	Expect(*updated.Age).To(Equal(30))

	cleared, err := c.UpdateUser(ctx, created.ID, client.UserUpdate{
		Age: client.Null[int](),
	})

	Expect(err).To(BeNil())
	Expect(cleared.Age).To(BeNil())
	Expect(cleared.Name).To(Equal("Robert"))
}

func TestClient_DeleteUser(t *testing.T) {
	RegisterTestingT(t)

	_, c := newTestServer(t)

	created, err := c.CreateUser(ctx, client.NewUser{Name: "Alice", Email: "alice@example.com"})
	Expect(err).To(BeNil())

	deleted, err := c.DeleteUser(ctx, created.ID)

	Expect(err).To(BeNil())
	Expect(deleted.ID).To(Equal(created.ID))

	_, err = c.GetUser(ctx, created.ID)

	var apiErr *client.APIError
	Expect(errors.As(err, &apiErr)).To(BeTrue())
	Expect(apiErr.Status).To(Equal(http.StatusNotFound))
	Expect(apiErr.Message).To(Equal("User not found"))
}

func TestClient_ServerErrorsCarryStatusAndMessage(t *testing.T) {
	RegisterTestingT(t)

	_, c := newTestServer(t)

	_, err := c.CreateUser(ctx, client.NewUser{Name: "Alice", Email: "alice@example.com"})
	Expect(err).To(BeNil())

	_, err = c.CreateUser(ctx, client.NewUser{Name: "Other", Email: "alice@example.com"})

	var apiErr *client.APIError
	Expect(errors.As(err, &apiErr)).To(BeTrue())
	Expect(apiErr.Status).To(Equal(http.StatusConflict))
	Expect(apiErr.Message).To(Equal("Email already exists"))
}

func TestClient_NetworkErrorHasStatusZero(t *testing.T) {
	RegisterTestingT(t)

	server, c := newTestServer(t)
	server.Close()

	_, err := c.ListUsers(ctx)

	var apiErr *client.APIError
	Expect(errors.As(err, &apiErr)).To(BeTrue())
	Expect(apiErr.Status).To(Equal(0))
	Expect(apiErr.Message).To(HavePrefix("Network error:"))
}
