// Package client is a typed Go client for the users API. Transport
// failures and HTTP errors are normalized into APIError so callers
// branch on a single error shape.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// APIError carries the HTTP status and a human-readable message.
// Status 0 means the request never reached the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       *int      `json:"age"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type NewUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   *int   `json:"age,omitempty"`
}

// Optional is a tri-state field for partial updates: the zero value is
// omitted from the request body, Null marshals as JSON null.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, Value: value}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}

	return json.Marshal(o.Value)
}

// UserUpdate is a partial update; unset fields stay untouched on the
// server.
type UserUpdate struct {
	Name  Optional[string] `json:"name,omitzero"`
	Email Optional[string] `json:"email,omitzero"`
	Age   Optional[int]    `json:"age,omitzero"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type userEnvelope struct {
	User *User `json:"user"`
}

type usersEnvelope struct {
	Users *[]User `json:"users"`
}

type deleteEnvelope struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var envelope usersEnvelope

	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &envelope); err != nil {
		return nil, err
	}

	if envelope.Users == nil {
		return []User{}, nil
	}

	return *envelope.Users, nil
}

func (c *Client) GetUser(ctx context.Context, id int) (User, error) {
	var envelope userEnvelope

	if err := c.do(ctx, http.MethodGet, "/api/users/"+strconv.Itoa(id), nil, &envelope); err != nil {
		return User{}, err
	}

	if envelope.User == nil {
		return User{}, &APIError{Status: http.StatusNotFound, Message: "User not found"}
	}

	return *envelope.User, nil
}

func (c *Client) CreateUser(ctx context.Context, newUser NewUser) (User, error) {
	var envelope userEnvelope

	if err := c.do(ctx, http.MethodPost, "/api/users", newUser, &envelope); err != nil {
		return User{}, err
	}

	if envelope.User == nil {
		return User{}, &APIError{Status: http.StatusInternalServerError, Message: "Failed to create user"}
	}

	return *envelope.User, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int, update UserUpdate) (User, error) {
	var envelope userEnvelope

	if err := c.do(ctx, http.MethodPut, "/api/users/"+strconv.Itoa(id), update, &envelope); err != nil {
		return User{}, err
	}

	if envelope.User == nil {
		return User{}, &APIError{Status: http.StatusInternalServerError, Message: "Failed to update user"}
	}

	return *envelope.User, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int) (User, error) {
	var envelope deleteEnvelope

	if err := c.do(ctx, http.MethodDelete, "/api/users/"+strconv.Itoa(id), nil, &envelope); err != nil {
		return User{}, err
	}

	if envelope.User == nil {
		return User{}, &APIError{Status: http.StatusInternalServerError, Message: "Failed to delete user"}
	}

	return *envelope.User, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)

		if err != nil {
			return err
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)

	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)

	if err != nil {
		return &APIError{Status: 0, Message: "Network error: " + err.Error()}
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)

	if err != nil {
		return &APIError{Status: 0, Message: "Network error: " + err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := fmt.Sprintf("HTTP %d", resp.StatusCode)

		var envelope errorEnvelope

		if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error != "" {
			message = envelope.Error
		}

		return &APIError{Status: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Status: 0, Message: "Network error: " + err.Error()}
	}

	return nil
}
