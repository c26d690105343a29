package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/mall/internal/domain/user"
	"github.com/xiebiao/mall/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/mall/pkg/errors"
)

func newService() user.Service {
	return user.NewServiceWithCost(memory.NewStore().Users(), bcrypt.MinCost)
}

func TestService_RegisterAndLogin(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	u, err := svc.Register(ctx, " Buyer@Example.com ", "passw0rd", "买家")
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", u.Email)
	assert.NotEqual(t, "passw0rd", u.Password)

	logged, err := svc.Login(ctx, "BUYER@example.com", "passw0rd")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	_, err = svc.Login(ctx, "buyer@example.com", "wrong-pass1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	_, err = svc.Login(ctx, "nobody@example.com", "passw0rd")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestService_RegisterValidation(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		nickname string
		code     int
	}{
		{"邮箱格式错误", "not-an-email", "passw0rd", "买家", apperrors.ErrCodeInvalidParams},
		{"密码过短", "a@b.cn", "pw0", "买家", apperrors.ErrCodeWeakPassword},
		{"密码无数字", "a@b.cn", "password", "买家", apperrors.ErrCodeWeakPassword},
		{"昵称过短", "a@b.cn", "passw0rd", "x", apperrors.ErrCodeInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.email, tt.password, tt.nickname)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.GetAppError(err).Code)
		})
	}
}

func TestService_RegisterDuplicateEmail(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "dup@example.com", "passw0rd", "甲乙")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "dup@example.com", "passw0rd", "丙丁")
	assert.ErrorIs(t, err, apperrors.ErrEmailDuplicate)
	assert.Equal(t, 409, apperrors.GetAppError(err).HTTPStatus())
}
