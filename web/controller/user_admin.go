package controller

import (
	"strconv"

	"salespanel/util/common"
	"salespanel/web/service"
	"salespanel/web/session"

	"github.com/gin-gonic/gin"
)

var errCannotDeleteSelf = common.NewError("不能删除当前登录的用户")

// UserAdminController handles the admin-only user management API.
type UserAdminController struct {
	BaseController

	userService service.UserService
}

func NewUserAdminController(g *gin.RouterGroup) *UserAdminController {
	a := &UserAdminController{}
	a.initRouter(g)
	return a
}

func (a *UserAdminController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/api/users")
	g.Use(a.checkAdmin)

	g.GET("/list", a.listUsers)
	g.POST("/add", a.addUser)
	g.POST("/del/:id", a.delUser)
	g.POST("/resetPassword/:id", a.resetPassword)
}

func (a *UserAdminController) listUsers(c *gin.Context) {
	users, err := a.userService.ListUsers()
	if err != nil {
		jsonMsg(c, "获取用户列表", err)
		return
	}
	// never expose password hashes
	type userView struct {
		Id       int    `json:"id"`
		Username string `json:"username"`
		RealName string `json:"realName"`
		IsAdmin  bool   `json:"isAdmin"`
	}
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, userView{
			Id:       u.Id,
			Username: u.Username,
			RealName: u.RealName,
			IsAdmin:  u.IsAdmin,
		})
	}
	jsonObj(c, views, nil)
}

// UserForm represents a user creation request.
type UserForm struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	RealName string `json:"realName" form:"realName"`
	IsAdmin  bool   `json:"isAdmin" form:"isAdmin"`
}

func (a *UserAdminController) addUser(c *gin.Context) {
	var form UserForm
	if err := c.ShouldBind(&form); err != nil {
		jsonMsg(c, "数据格式错误", err)
		return
	}
	_, err := a.userService.CreateUser(form.Username, form.Password, form.RealName, form.IsAdmin)
	jsonMsg(c, "添加成功", err)
}

func (a *UserAdminController) delUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonMsg(c, "数据格式错误", err)
		return
	}
	if user := session.GetLoginUser(c); user != nil && user.Id == id {
		jsonMsg(c, "删除失败", errCannotDeleteSelf)
		return
	}
	err = a.userService.DeleteUser(id)
	jsonMsg(c, "删除成功", err)
}

// PasswordForm carries a new password for the reset endpoint.
type PasswordForm struct {
	Password string `json:"password" form:"password"`
}

func (a *UserAdminController) resetPassword(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonMsg(c, "数据格式错误", err)
		return
	}
	var form PasswordForm
	if err := c.ShouldBind(&form); err != nil {
		jsonMsg(c, "数据格式错误", err)
		return
	}
	err = a.userService.ResetPassword(id, form.Password)
	jsonMsg(c, "重置密码成功", err)
}
