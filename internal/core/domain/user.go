package domain

import "time"

// User is the single persisted entity. ID is assigned by the store and
// never reused; Age is nullable.
type User struct {
	ID        int
	Name      string
	Email     string
	Age       *int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserPatch is the optional-field set for partial updates. A field that
// is not Set leaves the stored value untouched; a field that is Set but
// not Valid was explicitly sent as null.
type UserPatch struct {
	Name  Optional[string]
	Email Optional[string]
	Age   Optional[int]
}

// IsEmpty reports whether the patch carries no fields at all. An empty
// patch still refreshes UpdatedAt.
func (p UserPatch) IsEmpty() bool {
	return !p.Name.Set && !p.Email.Set && !p.Age.Set
}

func (u *User) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"age":        u.Age,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}
