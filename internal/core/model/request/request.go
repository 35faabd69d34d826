package request

import "userapp/internal/core/domain"

type CreateUserRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Email string `json:"email" validate:"required,email,max=255"`
	Age   *int   `json:"age" validate:"omitempty,gte=0,lte=150"`
}

// UpdateUserRequest carries a partial update. Every field is
// independently absent, null, or set; only set fields reach the store.
type UpdateUserRequest struct {
	Name  domain.Optional[string] `json:"name"`
	Email domain.Optional[string] `json:"email"`
	Age   domain.Optional[int]    `json:"age"`
}

func (r UpdateUserRequest) Patch() domain.UserPatch {
	return domain.UserPatch{
		Name:  r.Name,
		Email: r.Email,
		Age:   r.Age,
	}
}
