package auth

import (
	"testing"
	"time"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/cafeops/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret: "test-secret-key-at-least-32-chars",
		Issuer: "cafeops-test",
	})
}

func newTestInput() IssueInput {
	return IssueInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Role:     shared.RoleAdmin,
		Name:     "Ana",
	}
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	token, err := svc.Issue(input)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, input.TenantID.String(), claims.TenantID)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, time.Minute)

	actor, err := claims.Actor()
	require.NoError(t, err)
	assert.Equal(t, shared.Actor{
		TenantID: input.TenantID,
		UserID:   input.UserID,
		Role:     shared.RoleAdmin,
		Name:     "Ana",
	}, actor)
}

func TestJWTService_Validate_Errors(t *testing.T) {
	svc := newTestJWTService()

	t.Run("expired", func(t *testing.T) {
		input := newTestInput()
		input.TTL = time.Nanosecond
		token, err := svc.Issue(input)
		require.NoError(t, err)

		// outside the leeway
		svc.leeway = 0
		defer func() { svc.leeway = 30 * time.Second }()
		time.Sleep(1100 * time.Millisecond)

		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "another-secret-key-of-32-characters", Issuer: "cafeops-test"})
		token, err := other.Issue(newTestInput())
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "test-secret-key-at-least-32-chars", Issuer: "someone-else"})
		token, err := other.Issue(newTestInput())
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Validate("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned algorithm rejected", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "cafeops-test",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			TenantID: uuid.NewString(),
			UserID:   uuid.NewString(),
			Role:     "owner",
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing business", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "cafeops-test",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			UserID: uuid.NewString(),
			Role:   "owner",
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, ErrMissingTenantID)
	})
}

func TestClaims_Actor(t *testing.T) {
	tests := []struct {
		name    string
		claims  Claims
		wantErr error
	}{
		{
			name:    "bad business id",
			claims:  Claims{TenantID: "nope", UserID: uuid.NewString(), Role: "owner"},
			wantErr: ErrInvalidClaims,
		},
		{
			name:    "bad user id",
			claims:  Claims{TenantID: uuid.NewString(), UserID: "nope", Role: "owner"},
			wantErr: ErrInvalidClaims,
		},
		{
			name:    "unknown role",
			claims:  Claims{TenantID: uuid.NewString(), UserID: uuid.NewString(), Role: "manager"},
			wantErr: ErrInvalidRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.claims.Actor()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("role is case insensitive", func(t *testing.T) {
		c := Claims{TenantID: uuid.NewString(), UserID: uuid.NewString(), Role: "COOK"}
		actor, err := c.Actor()
		require.NoError(t, err)
		assert.Equal(t, shared.RoleCook, actor.Role)
	})
}
