package controller

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"salespanel/excel"
	"salespanel/web/service"
	"salespanel/web/session"

	"github.com/gin-gonic/gin"
)

// RecordController handles the sales record CRUD, batch update and export routes.
type RecordController struct {
	prefService   service.PreferenceService
	recordService service.RecordService
	exportService service.ExportService
}

func NewRecordController(g *gin.RouterGroup) *RecordController {
	a := &RecordController{}
	a.initRouter(g)
	return a
}

func (a *RecordController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/record")

	g.GET("/list", a.getRecords)
	g.GET("/get/:id", a.getRecord)
	g.GET("/columns", a.getColumns)

	g.POST("/add", a.addRecord)
	g.POST("/update/:id", a.updateRecord)
	g.POST("/del/:id", a.delRecord)
	g.POST("/batchUpdate", a.batchUpdate)
	g.POST("/export", a.exportRecords)
	g.POST("/columns", a.setColumns)
}

func (a *RecordController) getRecords(c *gin.Context) {
	var filter service.RecordFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		jsonMsg(c, "数据格式错误", err)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	result, err := a.recordService.GetRecords(filter, page, perPage)
	if err != nil {
		jsonMsg(c, "获取记录列表", err)
		return
	}
	jsonObj(c, result, nil)
}

func (a *RecordController) getRecord(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonMsg(c, "数据格式错误", err)
		return
	}
	record, err := a.recordService.GetRecord(id)
	if err != nil {
		jsonMsg(c, "获取记录", err)
		return
	}
	jsonObj(c, record, nil)
}

// imageFile returns the uploaded image file, or nil when the form carries none.
func imageFile(c *gin.Context) *multipart.FileHeader {
	file, err := c.FormFile("image")
	if err != nil {
		return nil
	}
	return file
}

func (a *RecordController) addRecord(c *gin.Context) {
	var input service.RecordInput
	if err := c.ShouldBind(&input); err != nil {
		jsonMsg(c, "数据格式错误", err)
		return
	}

	id, err := a.recordService.AddRecord(input, imageFile(c))
	if err != nil {
		jsonMsg(c, "添加记录", err)
		return
	}
	jsonMsgObj(c, "添加成功", map[string]int{"id": id}, nil)
}

func (a *RecordController) updateRecord(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonMsg(c, "数据格式错误", err)
		return
	}

	var input service.RecordInput
	if err := c.ShouldBind(&input); err != nil {
		jsonMsg(c, "数据格式错误", err)
		return
	}
	removeImage := c.PostForm("remove_image") == "1"

	err = a.recordService.UpdateRecord(id, input, imageFile(c), removeImage)
	jsonMsg(c, "修改成功", err)
}

func (a *RecordController) delRecord(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonMsg(c, "数据格式错误", err)
		return
	}
	err = a.recordService.DelRecord(id)
	jsonMsg(c, "删除成功", err)
}

func (a *RecordController) batchUpdate(c *gin.Context) {
	var items []service.BatchUpdateItem
	if err := c.ShouldBindJSON(&items); err != nil {
		jsonMsg(c, "数据格式错误", err)
		return
	}
	if len(items) == 0 {
		jsonMsg(c, "没有需要更新的记录", nil)
		return
	}
	results := a.recordService.BatchUpdate(items)
	jsonObj(c, results, nil)
}

// ExportForm carries the filter plus the column selection for an export request.
type ExportForm struct {
	service.RecordFilter
	Columns []string `json:"columns" form:"columns"`
}

func (a *RecordController) exportRecords(c *gin.Context) {
	var form ExportForm
	if err := c.ShouldBind(&form); err != nil {
		jsonMsg(c, "数据格式错误", err)
		return
	}

	columns := form.Columns
	if len(columns) == 0 {
		// fall back to the user's saved column selection
		if user := session.GetLoginUser(c); user != nil {
			saved, err := a.prefService.GetPref(user.Id, service.PrefExportColumns)
			if err == nil && saved != "" {
				columns = strings.Split(saved, ",")
			}
		}
	}

	result, err := a.exportService.ExportRecords(form.RecordFilter, columns)
	if err != nil {
		jsonMsg(c, "导出", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

func (a *RecordController) getColumns(c *gin.Context) {
	user := session.GetLoginUser(c)
	if user == nil {
		pureJsonMsg(c, http.StatusUnauthorized, false, "登录时效已过，请重新登录")
		return
	}

	saved, err := a.prefService.GetPref(user.Id, service.PrefExportColumns)
	if err != nil {
		jsonMsg(c, "获取导出列设置", err)
		return
	}

	var selected []string
	if saved != "" {
		selected = excel.NormalizeColumns(strings.Split(saved, ","))
	} else {
		selected = excel.DefaultColumns()
	}

	available := make([]map[string]string, 0, len(excel.AllColumns()))
	for _, col := range excel.AllColumns() {
		available = append(available, map[string]string{
			"key":  col,
			"name": excel.DisplayName(col),
		})
	}
	jsonObj(c, map[string]any{
		"available": available,
		"selected":  selected,
	}, nil)
}

// ColumnsForm carries a column selection to persist for the current user.
type ColumnsForm struct {
	Columns []string `json:"columns" form:"columns"`
}

func (a *RecordController) setColumns(c *gin.Context) {
	user := session.GetLoginUser(c)
	if user == nil {
		pureJsonMsg(c, http.StatusUnauthorized, false, "登录时效已过，请重新登录")
		return
	}

	var form ColumnsForm
	if err := c.ShouldBind(&form); err != nil {
		jsonMsg(c, "数据格式错误", err)
		return
	}

	columns := excel.NormalizeColumns(form.Columns)
	if len(columns) == 0 {
		jsonMsg(c, "没有可导出的列", excel.ErrNoColumns)
		return
	}

	err := a.prefService.SetPref(user.Id, service.PrefExportColumns, strings.Join(columns, ","))
	jsonMsg(c, "保存成功", err)
}
