package service

import (
	"context"
	"studynotes/cmd/internal/contract"
	"studynotes/cmd/internal/utils/apierror"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_RegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	reg, apierr := env.userService.Register(context.Background(), &contract.RegisterRequest{
		Name:     "Ana",
		Email:    " Ana@Uni.edu ",
		Password: "hunter22",
	})
	require.Nil(t, apierr)
	assert.Equal(t, "Ana", reg.Name)

	stored, err := env.users.FindByEmail(context.Background(), "ana@uni.edu")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Zero(t, stored.Credits)
	assert.NotEqual(t, "hunter22", stored.PasswordHash)

	login, apierr := env.userService.Login(context.Background(), &contract.LoginRequest{Email: "ana@uni.edu", Password: "hunter22"})
	require.Nil(t, apierr)
	assert.Equal(t, "Ana", login.Name)
	assert.Zero(t, login.Credits)

	for _, token := range []string{reg.Token, login.Token} {
		data, err := env.tokens.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, stored.ID, data.UserID)
	}
}

func TestUserService_Register_Rejections(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "ana", 0)

	_, apierr := env.userService.Register(context.Background(), &contract.RegisterRequest{
		Name:     "Other Ana",
		Email:    "ana@uni.edu",
		Password: "secret",
	})
	assert.Equal(t, apierror.EmailTakenError, apierr)

	_, apierr = env.userService.Register(context.Background(), &contract.RegisterRequest{Email: "x@uni.edu"})
	serr, ok := apierr.(*apierror.StructuredError)
	require.True(t, ok)
	assert.Contains(t, serr.Errors, "name")
	assert.Contains(t, serr.Errors, "password")
}

func TestUserService_Login_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	_, apierr := env.userService.Register(context.Background(), &contract.RegisterRequest{
		Name:     "Ana",
		Email:    "ana@uni.edu",
		Password: "right-one",
	})
	require.Nil(t, apierr)

	_, apierr = env.userService.Login(context.Background(), &contract.LoginRequest{Email: "ana@uni.edu", Password: "wrong-one"})
	assert.Equal(t, apierror.InvalidCredentialsError, apierr)

	_, apierr = env.userService.Login(context.Background(), &contract.LoginRequest{Email: "ghost@uni.edu", Password: "right-one"})
	assert.Equal(t, apierror.InvalidCredentialsError, apierr)
}

func TestUserService_GetMeAndUpdateMe(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ana", 0)
	_, err := env.ledger.Credit(context.Background(), user.ID, 8)
	require.NoError(t, err)

	me, apierr := env.userService.GetMe(context.Background(), user)
	require.Nil(t, apierr)
	assert.Equal(t, 8, me.Credits)
	assert.Equal(t, "ana@uni.edu", me.Email)

	name := "Ana Clara"
	year := 2
	updated, apierr := env.userService.UpdateMe(context.Background(), user, &contract.UpdateProfileRequest{Name: &name, Year: &year})
	require.Nil(t, apierr)
	assert.Equal(t, "Ana Clara", updated.Name)
	assert.Equal(t, 2, updated.Year)
	assert.Equal(t, 8, updated.Credits)

	blank := "  "
	_, apierr = env.userService.UpdateMe(context.Background(), user, &contract.UpdateProfileRequest{Name: &blank})
	_, ok := apierr.(*apierror.StructuredError)
	assert.True(t, ok)
}

func TestUserService_GetLeaderboard(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < contract.LeaderboardSize+2; i++ {
		env.createUser(t, "user"+string(rune('a'+i)), i)
	}

	board, apierr := env.userService.GetLeaderboard(context.Background())
	require.Nil(t, apierr)
	require.Len(t, board, contract.LeaderboardSize)
	assert.Equal(t, contract.LeaderboardSize+1, board[0].Credits)
	for i := 1; i < len(board); i++ {
		assert.GreaterOrEqual(t, board[i-1].Credits, board[i].Credits)
	}
}
