package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soratani/task-tracker-api/internal/token"
)

func setupAuthService(t *testing.T) (*AuthService, *token.Service) {
	t.Helper()
	env := setupTaskTestEnv(t)
	tokens := token.NewService("auth-service-test-secret")
	return NewAuthService(env.userRepo, tokens), tokens
}

func TestRegister(t *testing.T) {
	authService, _ := setupAuthService(t)

	user, err := authService.Register(RegisterInput{
		Username: "alice",
		Password: "s3cret!",
		Roles:    []string{"USER", "ADMIN", "USER"},
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.Equal(t, "alice", user.Username)

	// The stored hash is not the raw password, and duplicate roles collapse.
	require.NotEqual(t, "s3cret!", user.PasswordHash)
	require.ElementsMatch(t, []string{"USER", "ADMIN"}, user.RoleNames())
}

func TestRegister_UsernameTaken(t *testing.T) {
	authService, _ := setupAuthService(t)

	_, err := authService.Register(RegisterInput{Username: "alice", Password: "s3cret!"})
	require.NoError(t, err)

	_, err = authService.Register(RegisterInput{Username: "alice", Password: "another1"})
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegister_PasswordTooShort(t *testing.T) {
	authService, _ := setupAuthService(t)

	_, err := authService.Register(RegisterInput{Username: "alice", Password: "short"})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestLogin(t *testing.T) {
	authService, tokens := setupAuthService(t)

	_, err := authService.Register(RegisterInput{Username: "alice", Password: "s3cret!"})
	require.NoError(t, err)

	signed, err := authService.Login(LoginInput{Username: "alice", Password: "s3cret!"})
	require.NoError(t, err)

	subject, err := tokens.SubjectOf(signed)
	require.NoError(t, err)
	require.Equal(t, "alice", subject)
	require.True(t, tokens.IsValid(signed, "alice"))
}

func TestLogin_WrongPassword(t *testing.T) {
	authService, _ := setupAuthService(t)

	_, err := authService.Register(RegisterInput{Username: "alice", Password: "s3cret!"})
	require.NoError(t, err)

	_, err = authService.Login(LoginInput{Username: "alice", Password: "wrong-password"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	authService, _ := setupAuthService(t)

	_, err := authService.Login(LoginInput{Username: "nobody", Password: "whatever1"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
