// Package controller provides the HTTP request handlers for the sales record
// panel: login, record management, export and user administration.
package controller

import (
	"net/http"

	"salespanel/web/session"

	"github.com/gin-gonic/gin"
)

// BaseController provides common functionality for all controllers, including authentication checks.
type BaseController struct{}

// checkLogin is a middleware that verifies user authentication and handles unauthorized access.
func (a *BaseController) checkLogin(c *gin.Context) {
	if !session.IsLogin(c) {
		if isAjax(c) {
			pureJsonMsg(c, http.StatusUnauthorized, false, "登录时效已过，请重新登录")
		} else {
			c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
		}
		c.Abort()
	} else {
		c.Next()
	}
}

// checkAdmin is a middleware that restricts a route to admin accounts.
func (a *BaseController) checkAdmin(c *gin.Context) {
	if !session.IsAdmin(c) {
		if isAjax(c) {
			pureJsonMsg(c, http.StatusForbidden, false, "没有权限执行该操作")
		} else {
			c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path")+"panel/")
		}
		c.Abort()
	} else {
		c.Next()
	}
}
