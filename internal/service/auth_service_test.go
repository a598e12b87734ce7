package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"loanflow/internal/auth"
	apperrors "loanflow/internal/errors"
	"loanflow/internal/model"
)

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name           string
		email          string
		password       string
		nameField      string
		setupMock      func(*MockUserRepository)
		expectedKind   error
		expectedReason string
	}{
		{
			name:      "successful registration",
			email:     "a@x.com",
			password:  "password1",
			nameField: "Alice",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:           "email too short",
			email:          "a@b",
			password:       "password1",
			nameField:      "Alice",
			setupMock:      func(m *MockUserRepository) {},
			expectedKind:   apperrors.ErrInvalidInput,
			expectedReason: apperrors.ReasonEmail,
		},
		{
			name:           "email without at sign",
			email:          "alice.example.com",
			password:       "password1",
			nameField:      "Alice",
			setupMock:      func(m *MockUserRepository) {},
			expectedKind:   apperrors.ErrInvalidInput,
			expectedReason: apperrors.ReasonEmail,
		},
		{
			name:           "email checked before password",
			email:          "bad",
			password:       "short",
			nameField:      "A",
			setupMock:      func(m *MockUserRepository) {},
			expectedKind:   apperrors.ErrInvalidInput,
			expectedReason: apperrors.ReasonEmail,
		},
		{
			name:           "password too short",
			email:          "a@x.com",
			password:       "1234567",
			nameField:      "A",
			setupMock:      func(m *MockUserRepository) {},
			expectedKind:   apperrors.ErrInvalidInput,
			expectedReason: apperrors.ReasonPassword,
		},
		{
			name:           "name too short",
			email:          "a@x.com",
			password:       "password1",
			nameField:      "名",
			setupMock:      func(m *MockUserRepository) {},
			expectedKind:   apperrors.ErrInvalidInput,
			expectedReason: apperrors.ReasonName,
		},
		{
			name:      "name length counts characters",
			email:     "a@x.com",
			password:  "password1",
			nameField: "名前",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:      "email already registered",
			email:     "existing@example.com",
			password:  "password1",
			nameField: "Existing User",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedKind:   apperrors.ErrConflict,
			expectedReason: apperrors.ReasonEmailTaken,
		},
		{
			name:      "unique index rejects concurrent registration",
			email:     "a@x.com",
			password:  "password1",
			nameField: "Alice",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedKind:   apperrors.ErrConflict,
			expectedReason: apperrors.ReasonEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore))
			user, err := service.Register(context.Background(), tt.email, tt.password, tt.nameField)

			if tt.expectedKind != nil {
				assert.ErrorIs(t, err, tt.expectedKind)
				assert.Equal(t, tt.expectedReason, apperrors.Reason(err))
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, tt.nameField, user.Name)
				assert.False(t, user.IsAdmin)
				assert.NotEqual(t, tt.password, user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.password)))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Register_DatabaseError(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, errors.New("connection reset"))

	service := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore))
	_, err := service.Register(context.Background(), "a@x.com", "password1", "Alice")

	require.Error(t, err)
	assert.Empty(t, apperrors.Reason(err))
}

func TestAuthService_Login(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password1"), bcryptCost)
	stored := &model.User{ID: 7, Email: "a@x.com", PasswordHash: string(hashedPassword)}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "a@x.com",
			password: "password1",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "a@x.com").Return(stored, nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, uint(7), "a@x.com", auth.RefreshTokenExpiry).Return(nil)
			},
		},
		{
			name:     "unknown email",
			email:    "notfound@example.com",
			password: "password1",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "a@x.com",
			password: "password2",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "a@x.com").Return(stored, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			service := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), mockTokenStore)
			accessToken, refreshToken, user, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
				assert.Equal(t, tt.email, user.Email)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(7, "a@x.com")
	require.NoError(t, err)

	t.Run("stored token yields access token", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(7), "a@x.com", nil)

		service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore)
		accessToken, err := service.RefreshToken(context.Background(), refreshToken)
		require.NoError(t, err)

		claims, err := jwtService.ValidateToken(accessToken)
		require.NoError(t, err)
		assert.Equal(t, uint(7), claims.UserID)
	})

	t.Run("logged out token is rejected", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(0), "", auth.ErrRefreshTokenNotFound)

		service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore)
		_, err := service.RefreshToken(context.Background(), refreshToken)
		assert.Equal(t, apperrors.ErrInvalidToken, err)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		service := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore))
		_, err := service.RefreshToken(context.Background(), "garbage")
		assert.Equal(t, apperrors.ErrInvalidToken, err)
	})
}

func TestAuthService_LogoutAndAuthenticate(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	accessToken, err := jwtService.GenerateAccessToken(7, "a@x.com")
	require.NoError(t, err)
	accessClaims, err := jwtService.ValidateToken(accessToken)
	require.NoError(t, err)
	refreshID, refreshToken, err := jwtService.GenerateRefreshToken(7, "a@x.com")
	require.NoError(t, err)

	mockTokenStore := new(MockTokenStore)
	mockTokenStore.On("DeleteRefreshToken", mock.Anything, refreshID).Return(nil)
	mockTokenStore.On("BlacklistAccessToken", mock.Anything, accessClaims.ID, mock.AnythingOfType("time.Duration")).Return(nil)
	mockTokenStore.On("IsAccessTokenBlacklisted", mock.Anything, accessClaims.ID).Return(true, nil)

	service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore)

	require.NoError(t, service.Logout(context.Background(), accessClaims, refreshToken))

	_, err = service.Authenticate(context.Background(), accessToken)
	assert.Equal(t, apperrors.ErrInvalidToken, err)

	mockTokenStore.AssertExpectations(t)
}

func TestAuthService_Logout_ForeignRefreshToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	accessToken, err := jwtService.GenerateAccessToken(7, "a@x.com")
	require.NoError(t, err)
	accessClaims, err := jwtService.ValidateToken(accessToken)
	require.NoError(t, err)
	_, otherRefresh, err := jwtService.GenerateRefreshToken(8, "b@x.com")
	require.NoError(t, err)

	mockTokenStore := new(MockTokenStore)
	service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore)

	err = service.Logout(context.Background(), accessClaims, otherRefresh)
	assert.Equal(t, apperrors.ErrInvalidToken, err)
	mockTokenStore.AssertNotCalled(t, "DeleteRefreshToken", mock.Anything, mock.Anything)
}

func TestAuthService_Authenticate_Valid(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	accessToken, err := jwtService.GenerateAccessToken(7, "a@x.com")
	require.NoError(t, err)

	mockTokenStore := new(MockTokenStore)
	mockTokenStore.On("IsAccessTokenBlacklisted", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)

	service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore)
	claims, err := service.Authenticate(context.Background(), accessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)

	_, err = service.Authenticate(context.Background(), "not-a-token")
	assert.Equal(t, apperrors.ErrInvalidToken, err)
}

func TestAuthService_TokenTypesAreNotInterchangeable(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	accessToken, err := jwtService.GenerateAccessToken(7, "a@x.com")
	require.NoError(t, err)
	_, refreshToken, err := jwtService.GenerateRefreshToken(7, "a@x.com")
	require.NoError(t, err)

	mockTokenStore := new(MockTokenStore)
	service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore)

	_, err = service.Authenticate(context.Background(), refreshToken)
	assert.Equal(t, apperrors.ErrInvalidToken, err)

	_, err = service.RefreshToken(context.Background(), accessToken)
	assert.Equal(t, apperrors.ErrInvalidToken, err)

	mockTokenStore.AssertNotCalled(t, "GetRefreshToken", mock.Anything, mock.Anything)
	mockTokenStore.AssertNotCalled(t, "IsAccessTokenBlacklisted", mock.Anything, mock.Anything)
}
