//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserRegister(t *testing.T) {
	t.Run("重复邮箱注册应失败", func(t *testing.T) {
		email, _ := RegisterTestUser(t, "dup")
		resp := PostJSON(t, BaseURL+"/users/register", map[string]string{
			"email":    email,
			"password": "Test1234",
			"nickname": "另一个用户",
		}, "")
		assert.Equal(t, http.StatusConflict, resp.Status)
		assert.Equal(t, 40901, resp.Code)
	})

	t.Run("弱密码", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users/register", map[string]string{
			"email":    Unique("weak") + "@test.com",
			"password": "abcdefgh",
			"nickname": "测试用户",
		}, "")
		assert.Equal(t, http.StatusBadRequest, resp.Status)
	})

	t.Run("邮箱格式错误", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users/register", map[string]string{
			"email":    "invalid-email",
			"password": "Test1234",
			"nickname": "测试用户",
		}, "")
		assert.Equal(t, 40051, resp.Code)
	})
}

func TestUserLogin(t *testing.T) {
	email, _ := RegisterTestUser(t, "login")

	resp := PostJSON(t, BaseURL+"/users/login", map[string]string{
		"email":    email,
		"password": "Wrong1234",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.Equal(t, 40103, resp.Code)

	resp = PostJSON(t, BaseURL+"/users/login", map[string]string{
		"email":    Unique("nobody") + "@test.com",
		"password": "Test1234",
	}, "")
	assert.Equal(t, http.StatusNotFound, resp.Status)
}

func TestUserLogout(t *testing.T) {
	_, token := RegisterTestUser(t, "logout")

	resp := PostJSON(t, BaseURL+"/users/logout", nil, token)
	assert.Equal(t, 0, resp.Code)

	// Token进入Redis黑名单
	resp = GetJSON(t, BaseURL+"/cart", token)
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.Equal(t, 40102, resp.Code)
}
