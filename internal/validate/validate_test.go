package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gametracker/gametracker/internal/api"
)

func TestStructValid(t *testing.T) {
	err := Struct(api.RegisterInput{
		DisplayName: "Alice",
		Username:    "alice",
		Email:       "alice@example.com",
		Password:    "secret99",
	})
	assert.NoError(t, err)
}

func TestStructReportsPerField(t *testing.T) {
	err := Struct(api.RegisterInput{
		Username: "al",
		Email:    "not-an-email",
		Password: "short",
	})
	require.Error(t, err)

	fields, ok := err.(FieldErrors)
	require.True(t, ok)

	assert.Equal(t, "is required", fields.For("DisplayName"))
	assert.Equal(t, "must be at least 3 characters", fields.For("Username"))
	assert.Equal(t, "must be a valid email address", fields.For("Email"))
	assert.Equal(t, "must be at least 6 characters", fields.For("Password"))
	assert.Empty(t, fields.For("SomethingElse"))
}

func TestStructLoginCredentials(t *testing.T) {
	err := Struct(api.Credentials{})
	require.Error(t, err)

	fields := err.(FieldErrors)
	assert.Equal(t, "is required", fields.For("Username"))
	assert.Equal(t, "is required", fields.For("Password"))

	assert.NoError(t, Struct(api.Credentials{Username: "alice", Password: "pw"}))
}

func TestStructLibraryStatus(t *testing.T) {
	err := Struct(api.LibraryInput{
		GameID: "g1",
		Status: "Bogus",
	})
	require.Error(t, err)

	fields := err.(FieldErrors)
	assert.Contains(t, fields.For("Status"), "must be one of")

	assert.NoError(t, Struct(api.LibraryInput{GameID: "g1", Status: api.StatusPlaying}))
}

func TestStructReviewRatingBounds(t *testing.T) {
	err := Struct(api.ReviewInput{GameID: "g1", Rating: 11, Text: "great"})
	require.Error(t, err)
	assert.Contains(t, err.(FieldErrors).For("Rating"), "at most 10")

	assert.NoError(t, Struct(api.ReviewInput{GameID: "g1", Rating: 10, Text: "great"}))
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("email", "alice@example.com", "required,email"))

	err := Var("email", "nope", "required,email")
	require.Error(t, err)
	assert.Equal(t, "must be a valid email address", err.(FieldErrors).For("email"))
}

func TestFieldErrorsMessage(t *testing.T) {
	err := FieldErrors{
		{Field: "Username", Message: "is required"},
		{Field: "Password", Message: "must be at least 6 characters"},
	}
	assert.Equal(t, "invalid input: Username: is required; Password: must be at least 6 characters", err.Error())
}
