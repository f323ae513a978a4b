package controller

import (
	"net/http"
	"os"
	"path/filepath"

	"salespanel/web/service"

	"github.com/gin-gonic/gin"
)

// FileController serves uploaded product photos and their thumbnails.
type FileController struct {
	BaseController

	fileService *service.FileService
}

func NewFileController(g *gin.RouterGroup) *FileController {
	a := &FileController{
		fileService: service.NewFileService(),
	}
	a.initRouter(g)
	return a
}

func (a *FileController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/uploads")
	g.Use(a.checkLogin)

	g.GET("/:filename", a.image)
	g.GET("/thumb/:filename", a.thumbnail)
}

// safeName rejects path traversal in the filename parameter.
func safeName(c *gin.Context) (string, bool) {
	name := c.Param("filename")
	if name == "" || name != filepath.Base(name) {
		c.Status(http.StatusBadRequest)
		return "", false
	}
	return name, true
}

func (a *FileController) image(c *gin.Context) {
	name, ok := safeName(c)
	if !ok {
		return
	}
	if !a.fileService.ImageExists(name) {
		c.Status(http.StatusNotFound)
		return
	}
	c.File(a.fileService.ImagePath(name))
}

// thumbnail serves the 200px thumbnail, falling back to the original image
// when no thumbnail was generated.
func (a *FileController) thumbnail(c *gin.Context) {
	name, ok := safeName(c)
	if !ok {
		return
	}
	thumb := a.fileService.ThumbPath(name)
	if fileExists(thumb) {
		c.File(thumb)
		return
	}
	if a.fileService.ImageExists(name) {
		c.File(a.fileService.ImagePath(name))
		return
	}
	c.Status(http.StatusNotFound)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
