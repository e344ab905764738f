package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestPrincipalContext(t *testing.T) {
	tests := []struct {
		name     string
		setupCtx func() context.Context
		want     *Principal
		wantOK   bool
	}{
		{
			name: "returns principal when present",
			setupCtx: func() context.Context {
				return WithPrincipal(context.Background(), &Principal{
					UserID: 42,
					Role:   RoleAdmin,
				})
			},
			want:   &Principal{UserID: 42, Role: RoleAdmin},
			wantOK: true,
		},
		{
			name: "returns false on empty context",
			setupCtx: func() context.Context {
				return context.Background()
			},
			wantOK: false,
		},
		{
			name: "returns false when a nil principal was stored",
			setupCtx: func() context.Context {
				return WithPrincipal(context.Background(), nil)
			},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PrincipalFromContext(tt.setupCtx())

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestPrincipalFromClaims(t *testing.T) {
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UID:      42,
		UserRole: RoleStudent,
	}

	p := PrincipalFromClaims(claims)

	assert.Equal(t, int64(42), p.UserID)
	assert.Equal(t, RoleStudent, p.Role)
}

func TestJWTClaimsUserIDFallsBackToSubject(t *testing.T) {
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "99"},
	}

	assert.Equal(t, int64(99), claims.UserID())

	claims.RegisteredClaims.Subject = "not-a-number"
	assert.Equal(t, int64(0), claims.UserID())
}
