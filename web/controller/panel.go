package controller

import (
	"net/http"
	"strconv"

	"salespanel/logger"
	"salespanel/web/session"

	"github.com/gin-gonic/gin"
)

// PanelController groups the session-guarded panel pages and mounts the
// record and user admin controllers under them.
type PanelController struct {
	BaseController

	recordController    *RecordController
	userAdminController *UserAdminController
}

func NewPanelController(g *gin.RouterGroup) *PanelController {
	a := &PanelController{}
	a.initRouter(g)
	return a
}

func (a *PanelController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/panel")
	g.Use(a.checkLogin)

	g.GET("/", a.index)
	g.GET("/users", a.users)

	g.POST("/api/logs/:count", a.getLogs)

	a.recordController = NewRecordController(g)
	a.userAdminController = NewUserAdminController(g)
}

func (a *PanelController) index(c *gin.Context) {
	user := session.GetLoginUser(c)
	html(c, "index.html", "销售记录", gin.H{
		"user": user,
	})
}

// getLogs retrieves recent application logs from the in-memory buffer,
// filtered by count and level.
func (a *PanelController) getLogs(c *gin.Context) {
	count, err := strconv.Atoi(c.Param("count"))
	if err != nil || count < 1 || count > 10000 {
		count = 500
	}
	level := c.PostForm("level")
	if level == "" {
		level = "info"
	}
	jsonObj(c, logger.GetLogs(count, level), nil)
}

func (a *PanelController) users(c *gin.Context) {
	if !session.IsAdmin(c) {
		c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path")+"panel/")
		return
	}
	html(c, "users.html", "用户管理", gin.H{
		"user": session.GetLoginUser(c),
	})
}
