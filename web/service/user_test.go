package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAdminSeeded(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}
	user := service.CheckUser("admin", "admin123")
	require.NotNil(t, user)
	assert.True(t, user.IsAdmin)
	assert.Equal(t, "管理员", user.RealName)
}

func TestCheckUserWrongCredentials(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}
	assert.Nil(t, service.CheckUser("admin", "wrong"))
	assert.Nil(t, service.CheckUser("nobody", "admin123"))
}

func TestCreateUserValidation(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}

	_, err := service.CreateUser("", "pw", "姓名", false)
	require.Error(t, err)
	assert.Equal(t, "用户名、密码、姓名均不能为空", err.Error())

	_, err = service.CreateUser("user1", "", "姓名", false)
	require.Error(t, err)

	_, err = service.CreateUser("admin", "pw", "姓名", false)
	require.Error(t, err)
	assert.Equal(t, "用户名已存在", err.Error())
}

func TestCreateAndLogin(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}
	created, err := service.CreateUser("sales1", "secret", "销售一", false)
	require.NoError(t, err)
	assert.False(t, created.IsAdmin)

	user := service.CheckUser("sales1", "secret")
	require.NotNil(t, user)
	assert.Equal(t, created.Id, user.Id)
}

func TestDeleteLastAdminRejected(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}
	admin := service.CheckUser("admin", "admin123")
	require.NotNil(t, admin)

	err := service.DeleteUser(admin.Id)
	require.Error(t, err)
	assert.Equal(t, "至少保留一个管理员", err.Error())
}

func TestDeleteAdminWithAnotherAdminLeft(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}
	second, err := service.CreateUser("admin2", "pw", "管理员二", true)
	require.NoError(t, err)

	admin := service.CheckUser("admin", "admin123")
	require.NotNil(t, admin)
	require.NoError(t, service.DeleteUser(admin.Id))

	// remaining admin still works, and is now the last one
	assert.NotNil(t, service.CheckUser("admin2", "pw"))
	err = service.DeleteUser(second.Id)
	require.Error(t, err)
}

func TestDeleteRegularUser(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}
	user, err := service.CreateUser("sales1", "pw", "销售一", false)
	require.NoError(t, err)

	require.NoError(t, service.DeleteUser(user.Id))
	assert.Nil(t, service.CheckUser("sales1", "pw"))

	err = service.DeleteUser(user.Id)
	require.Error(t, err)
	assert.Equal(t, "用户不存在", err.Error())
}

func TestResetPassword(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}
	user, err := service.CreateUser("sales1", "old", "销售一", false)
	require.NoError(t, err)

	require.NoError(t, service.ResetPassword(user.Id, "new"))
	assert.Nil(t, service.CheckUser("sales1", "old"))
	assert.NotNil(t, service.CheckUser("sales1", "new"))

	err = service.ResetPassword(user.Id, "")
	require.Error(t, err)
	assert.Equal(t, "新密码不能为空", err.Error())

	err = service.ResetPassword(99999, "pw")
	require.Error(t, err)
	assert.Equal(t, "用户不存在", err.Error())
}

func TestUpdateFirstUser(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}
	require.NoError(t, service.UpdateFirstUser("boss", "topsecret"))

	assert.Nil(t, service.CheckUser("admin", "admin123"))
	user := service.CheckUser("boss", "topsecret")
	require.NotNil(t, user)
	assert.True(t, user.IsAdmin)
}
