package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/rpupo63/blog-backend/database"
	"github.com/rpupo63/blog-backend/database/dbtest"
	"github.com/rpupo63/blog-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestRegister(t *testing.T) {
	ctx := context.Background()
	users := database.NewUserRepo(dbtest.Open(t))

	user, err := Register(ctx, users, Registration{
		Username:  ptr(" ana "),
		Password:  ptr("correct horse"),
		Email:     "ana@example.com",
		FirstName: "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana", user.Username)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	stored, err := users.FindByUsername(ctx, "ana")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "ana@example.com", stored.Email)

	_, err = Register(ctx, users, Registration{Username: ptr("ana"), Password: ptr("another one")})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, []string{MsgUsernameTaken}, apiErr.Fields["username"])
}

func TestRegisterValidation(t *testing.T) {
	users := database.NewUserRepo(dbtest.Open(t))

	tests := []struct {
		name   string
		reg    Registration
		fields map[string][]string
	}{
		{"missing", Registration{}, map[string][]string{
			"username": {"This field is required."},
			"password": {"This field is required."},
		}},
		{"blank", Registration{Username: ptr(" "), Password: ptr("")}, map[string][]string{
			"username": {"This field may not be blank."},
			"password": {"This field may not be blank."},
		}},
		{"bad characters", Registration{Username: ptr("ana silva"), Password: ptr("long enough")}, map[string][]string{
			"username": {MsgUsernameInvalid},
		}},
		{"too long", Registration{Username: ptr(strings.Repeat("a", UsernameMaxLength+1)), Password: ptr("long enough")}, map[string][]string{
			"username": {"Ensure this field has no more than 150 characters."},
		}},
		{"short password", Registration{Username: ptr("ana"), Password: ptr("short")}, map[string][]string{
			"password": {"Ensure this field has at least 8 characters."},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Register(context.Background(), users, tt.reg)
			var apiErr *errs.ApiErr
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.fields, apiErr.Fields)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	users := database.NewUserRepo(dbtest.Open(t))
	_, err := Register(ctx, users, Registration{Username: ptr("ana"), Password: ptr("correct horse")})
	require.NoError(t, err)

	user, err := Authenticate(ctx, users, "ana", "correct horse")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "ana", user.Username)

	user, err = Authenticate(ctx, users, "ana", "wrong horse")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = Authenticate(ctx, users, "nobody", "correct horse")
	require.NoError(t, err)
	assert.Nil(t, user)
}
