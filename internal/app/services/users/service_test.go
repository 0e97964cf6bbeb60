package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/user"
	"github.com/resolvedesk/resolvedesk/internal/app/storage"
)

func TestCreateHashesPasswordAndDefaultsRole(t *testing.T) {
	svc := New(storage.NewMemory(), nil)

	u, err := svc.Create(context.Background(), CreateParams{
		FirstName: "Jo",
		LastName:  "Doe",
		Email:     "Jo.Doe@Example.ORG",
		Password:  "password123",
	})
	require.NoError(t, err)

	assert.Equal(t, "jo.doe@example.org", u.Email)
	assert.Equal(t, user.RoleCitizen, u.Role)
	assert.NotEqual(t, "password123", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")))
}

func TestCreateValidation(t *testing.T) {
	svc := New(storage.NewMemory(), nil)

	cases := map[string]CreateParams{
		"missing name":   {Email: "a@b.c", Password: "password123"},
		"bad email":      {FirstName: "Jo", LastName: "Doe", Email: "not-an-email", Password: "password123"},
		"short password": {FirstName: "Jo", LastName: "Doe", Email: "a@b.c", Password: "short"},
		"bad role":       {FirstName: "Jo", LastName: "Doe", Email: "a@b.c", Password: "password123", Role: "superuser"},
	}
	for name, params := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), params)
			assert.Error(t, err)
		})
	}
}

func TestUpdateChangesOnlyProvidedFields(t *testing.T) {
	svc := New(storage.NewMemory(), nil)

	u, err := svc.Create(context.Background(), CreateParams{
		FirstName: "Jo",
		LastName:  "Doe",
		Email:     "jo@example.org",
		Password:  "password123",
	})
	require.NoError(t, err)

	first := "Joanna"
	role := user.RoleAgent
	updated, err := svc.Update(context.Background(), u.ID, UpdateParams{FirstName: &first, Role: &role})
	require.NoError(t, err)

	assert.Equal(t, "Joanna", updated.FirstName)
	assert.Equal(t, "Doe", updated.LastName)
	assert.Equal(t, user.RoleAgent, updated.Role)
	assert.Equal(t, u.PasswordHash, updated.PasswordHash)
}

func TestUpdatePasswordRehashes(t *testing.T) {
	svc := New(storage.NewMemory(), nil)

	u, err := svc.Create(context.Background(), CreateParams{
		FirstName: "Jo",
		LastName:  "Doe",
		Email:     "jo@example.org",
		Password:  "password123",
	})
	require.NoError(t, err)

	newPassword := "betterpassword"
	updated, err := svc.Update(context.Background(), u.ID, UpdateParams{Password: &newPassword})
	require.NoError(t, err)

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte(newPassword)))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("password123")))
}

func TestGetByEmailNormalises(t *testing.T) {
	svc := New(storage.NewMemory(), nil)

	_, err := svc.Create(context.Background(), CreateParams{
		FirstName: "Jo",
		LastName:  "Doe",
		Email:     "jo@example.org",
		Password:  "password123",
	})
	require.NoError(t, err)

	u, err := svc.GetByEmail(context.Background(), "  JO@example.org ")
	require.NoError(t, err)
	assert.Equal(t, "jo@example.org", u.Email)
}
