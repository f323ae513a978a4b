package controller

import (
	"net/http"
	"text/template"

	"salespanel/logger"
	"salespanel/web/service"
	"salespanel/web/session"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// LoginForm represents the login request structure.
type LoginForm struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// IndexController handles the login page and session lifecycle routes.
type IndexController struct {
	BaseController

	userService service.UserService
}

func NewIndexController(g *gin.RouterGroup) *IndexController {
	a := &IndexController{}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.GET("/", a.index)
	g.GET("/logout", a.logout)

	g.POST("/login", a.login)
}

// index shows the login page, or forwards logged-in users to the panel.
func (a *IndexController) index(c *gin.Context) {
	if session.IsLogin(c) {
		c.Redirect(http.StatusTemporaryRedirect, "panel/")
		return
	}
	html(c, "login.html", "登录", nil)
}

// login handles user authentication and session creation.
func (a *IndexController) login(c *gin.Context) {
	var form LoginForm

	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, "数据格式错误")
		return
	}
	if form.Username == "" {
		pureJsonMsg(c, http.StatusOK, false, "请输入用户名")
		return
	}
	if form.Password == "" {
		pureJsonMsg(c, http.StatusOK, false, "请输入密码")
		return
	}

	user := a.userService.CheckUser(form.Username, form.Password)
	safeUser := template.HTMLEscapeString(form.Username)

	if user == nil {
		logger.Warningf("wrong username or password, username: \"%s\", IP: \"%s\"", safeUser, getRemoteIp(c))
		pureJsonMsg(c, http.StatusOK, false, "用户名或密码错误")
		return
	}

	session.SetMaxAge(c, 3600*24)
	session.SetLoginUser(c, user)
	if err := sessions.Default(c).Save(); err != nil {
		logger.Warning("Unable to save session: ", err)
		return
	}

	logger.Infof("%s logged in successfully, IP: %s", safeUser, getRemoteIp(c))
	jsonMsg(c, "登录成功", nil)
}

// logout clears the session and redirects to the login page.
func (a *IndexController) logout(c *gin.Context) {
	user := session.GetLoginUser(c)
	if user != nil {
		logger.Infof("%s logged out successfully", user.Username)
	}
	session.ClearSession(c)
	if err := sessions.Default(c).Save(); err != nil {
		logger.Warning("Unable to save session after clearing:", err)
	}
	c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
}
