package response

import (
	"time"

	"userapp/internal/core/domain"
)

// UserResponse is the wire shape of a user. Age marshals as JSON null
// when unset; field names follow the public API contract.
type UserResponse struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       *int      `json:"age"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewUserResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Age:       user.Age,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func NewUserListResponse(users []domain.User) []UserResponse {
	data := make([]UserResponse, 0, len(users))

	for _, user := range users {
		data = append(data, NewUserResponse(user))
	}

	return data
}

// Envelopes. The API always wraps payloads in {user}/{users}, failures
// in {error}, and delete confirmations in {message, user}.
type UserEnvelope struct {
	User UserResponse `json:"user"`
}

type UsersEnvelope struct {
	Users []UserResponse `json:"users"`
}

type ErrorEnvelope struct {
	Error string `json:"error"`
}

type DeleteEnvelope struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type InfoResponse struct {
	Message     string            `json:"message"`
	Version     string            `json:"version"`
	Environment string            `json:"environment"`
	Endpoints   map[string]string `json:"endpoints"`
}
