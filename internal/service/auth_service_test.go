package service_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warbler-server/internal/config"
	"github.com/warbler-server/internal/models"
	"github.com/warbler-server/internal/repository"
	"github.com/warbler-server/internal/service"
	"github.com/warbler-server/internal/testutil"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*service.AuthService, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	userRepo := repository.NewUserRepository(db)
	return service.NewAuthService(userRepo, config.JWTConfig{Secret: "test-secret", ExpireHours: 1}), db
}

func TestSignup(t *testing.T) {
	svc, _ := newAuthService(t)

	user, err := svc.Signup(&service.SignupRequest{
		Username: "testuser",
		Email:    "test@email.com",
		Password: "testpassword",
	})
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "testuser", user.Username)
	assert.Equal(t, "test@email.com", user.Email)
	assert.Equal(t, models.DefaultImageURL, user.ImageURL)

	// Password must be stored hashed, never verbatim
	assert.NotEqual(t, "testpassword", user.PasswordHash)
	assert.True(t, strings.HasPrefix(user.PasswordHash, "$2a$"))
}

func TestSignupMissingPassword(t *testing.T) {
	svc, db := newAuthService(t)

	_, err := svc.Signup(&service.SignupRequest{
		Username: "test",
		Email:    "test@email.com",
	})
	assert.ErrorIs(t, err, service.ErrPasswordRequired)

	// Validation fails before any persistence attempt
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSignupDuplicateUsername(t *testing.T) {
	svc, db := newAuthService(t)

	_, err := svc.Signup(&service.SignupRequest{
		Username: "test1", Email: "test1@email.com", Password: "test1",
	})
	require.NoError(t, err)

	_, err = svc.Signup(&service.SignupRequest{
		Username: "test1", Email: "other@email.com", Password: "test",
	})
	require.Error(t, err)
	assert.True(t, repository.IsIntegrityViolation(err))

	// The failed insert left no second row behind
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Signup(&service.SignupRequest{
		Username: "test1", Email: "test1@email.com", Password: "test1",
	})
	require.NoError(t, err)

	_, err = svc.Signup(&service.SignupRequest{
		Username: "test2", Email: "test1@email.com", Password: "test2",
	})
	require.Error(t, err)
	assert.True(t, repository.IsIntegrityViolation(err))
}

func TestSignupEmptyUsername(t *testing.T) {
	svc, db := newAuthService(t)

	// The storage check constraint rejects the row, not application code
	_, err := svc.Signup(&service.SignupRequest{
		Username: "", Email: "test@email.com", Password: "testpassword",
	})
	require.Error(t, err)
	assert.True(t, repository.IsIntegrityViolation(err))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSignupEmptyEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Signup(&service.SignupRequest{
		Username: "test", Email: "", Password: "testpassword",
	})
	require.Error(t, err)
	assert.True(t, repository.IsIntegrityViolation(err))
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newAuthService(t)

	created, err := svc.Signup(&service.SignupRequest{
		Username: "test1", Email: "test1@email.com", Password: "test1",
	})
	require.NoError(t, err)

	user, err := svc.Authenticate("test1", "test1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestAuthenticateUniformFailure(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Signup(&service.SignupRequest{
		Username: "test1", Email: "test1@email.com", Password: "test1",
	})
	require.NoError(t, err)

	// Wrong password and unknown username fail identically
	_, wrongPass := svc.Authenticate("test1", "invalidpassword")
	_, unknownUser := svc.Authenticate("invaliduser", "test1")

	assert.ErrorIs(t, wrongPass, service.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, service.ErrInvalidCredentials)
	assert.Equal(t, wrongPass, unknownUser)
}

func TestIssueAndValidateToken(t *testing.T) {
	svc, _ := newAuthService(t)

	user, err := svc.Signup(&service.SignupRequest{
		Username: "test1", Email: "test1@email.com", Password: "test1",
	})
	require.NoError(t, err)

	token, err := svc.IssueToken(&service.LoginRequest{Username: "test1", Password: "test1"})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)

	claims, err := svc.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "test1", claims.Username)

	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestIssueTokenInvalidCredentials(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.IssueToken(&service.LoginRequest{Username: "nobody", Password: "x"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}
