package auth

import (
	"context"
	"regexp"
	"strings"

	"github.com/rpupo63/blog-backend/database"
	"github.com/rpupo63/blog-backend/errs"
	"github.com/rpupo63/blog-backend/models"
	"github.com/rpupo63/blog-backend/validator"
)

const (
	UsernameMaxLength = 150
	PasswordMinLength = 8

	MsgUsernameTaken   = "A user with that username already exists."
	MsgUsernameInvalid = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
)

var usernameRX = regexp.MustCompile(`^[\w.@+-]+$`)

// Registration is a new account request. Username and Password are
// pointers so an absent field can be told apart from an empty one.
type Registration struct {
	Username  *string `json:"username"`
	Password  *string `json:"password"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
}

// Register validates the registration, hashes the password and stores the
// user. A taken username is reported as a field error.
func Register(ctx context.Context, users *database.UserRepo, reg Registration) (*models.User, error) {
	v := validator.New()

	var username *string
	if reg.Username != nil {
		trimmed := strings.TrimSpace(*reg.Username)
		username = &trimmed
	}
	v.RequiredString(username, "username")
	v.MaxLength(username, UsernameMaxLength, "username")
	if username != nil && *username != "" {
		v.Check(usernameRX.MatchString(*username), "username", MsgUsernameInvalid)
	}

	v.RequiredString(reg.Password, "password")
	if reg.Password != nil && strings.TrimSpace(*reg.Password) != "" {
		v.MinLength(*reg.Password, PasswordMinLength, "password")
	}

	if err := v.Err(); err != nil {
		return nil, err
	}

	existing, err := users.FindByUsername(ctx, *username)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if existing != nil {
		return nil, errs.NewValidationError(map[string][]string{"username": {MsgUsernameTaken}})
	}

	hash, err := HashPassword(*reg.Password)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("could not hash password", err)
	}

	user := &models.User{
		Username:     *username,
		Email:        strings.TrimSpace(reg.Email),
		FirstName:    strings.TrimSpace(reg.FirstName),
		LastName:     strings.TrimSpace(reg.LastName),
		PasswordHash: hash,
	}
	if err := users.Add(ctx, user); err != nil {
		if errs.IsDuplicateKey(err) {
			return nil, errs.NewValidationError(map[string][]string{"username": {MsgUsernameTaken}})
		}
		return nil, errs.NewDatabaseError("create", "user", err)
	}
	return user, nil
}

// Authenticate returns the user when username and password match, or nil.
func Authenticate(ctx context.Context, users *database.UserRepo, username, password string) (*models.User, error) {
	user, err := users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if user == nil {
		return nil, nil
	}
	ok, err := CheckPassword(user.PasswordHash, password)
	if err != nil || !ok {
		return nil, err
	}
	return user, nil
}
