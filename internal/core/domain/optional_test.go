package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

type patchDoc struct {
	Name Optional[string] `json:"name"`
	Age  Optional[int]    `json:"age"`
}

func TestOptional_Unmarshal(t *testing.T) {
	t.Run("absent key stays unset", func(t *testing.T) {
		var doc patchDoc

		err := json.Unmarshal([]byte(`{}`), &doc)

		assert.NoError(t, err)
		assert.False(t, doc.Name.Set)
		assert.False(t, doc.Age.Set)
	})

	t.Run("null is set but not valid", func(t *testing.T) {
		var doc patchDoc

		err := json.Unmarshal([]byte(`{"age": null}`), &doc)

		assert.NoError(t, err)
		assert.True(t, doc.Age.Set)
		assert.False(t, doc.Age.Valid)
	})

	t.Run("value is set and valid", func(t *testing.T) {
		var doc patchDoc

		err := json.Unmarshal([]byte(`{"name": "Alice", "age": 30}`), &doc)

		assert.NoError(t, err)
		assert.True(t, doc.Name.Set)
		assert.True(t, doc.Name.Valid)
		assert.Equal(t, "Alice", doc.Name.Value)
		assert.Equal(t, 30, doc.Age.Value)
	})

	t.Run("wrong type is an error", func(t *testing.T) {
		var doc patchDoc

		err := json.Unmarshal([]byte(`{"age": "thirty"}`), &doc)

		assert.Error(t, err)
	})
}

func TestOptional_Marshal(t *testing.T) {
	t.Run("null round-trips", func(t *testing.T) {
		data, err := json.Marshal(Null[int]())

		assert.NoError(t, err)
		assert.Equal(t, "null", string(data))
	})

	t.Run("value round-trips", func(t *testing.T) {
		data, err := json.Marshal(Some("bob@example.com"))

		assert.NoError(t, err)
		assert.Equal(t, `"bob@example.com"`, string(data))
	})
}

func TestUserPatch_IsEmpty(t *testing.T) {
	assert.True(t, UserPatch{}.IsEmpty())

	assert.False(t, UserPatch{Name: Some("Alice")}.IsEmpty())
	assert.False(t, UserPatch{Age: Null[int]()}.IsEmpty())
}
