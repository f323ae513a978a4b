package service

import (
	"os"
	"testing"

	"salespanel/database"
	"salespanel/database/model"
	"salespanel/logger"

	"github.com/op/go-logging"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logDir, err := os.MkdirTemp("", "salespanel_test_logs")
	if err != nil {
		panic(err)
	}
	os.Setenv("SP_LOG_FOLDER", logDir)
	logger.InitLogger(logging.ERROR)

	code := m.Run()

	logger.CloseLogger()
	os.RemoveAll(logDir)
	os.Exit(code)
}

func setup() {
	dbPath := "test.db"
	os.Remove(dbPath)
	database.InitDB(dbPath)
}

func teardown() {
	db, _ := database.GetDB().DB()
	db.Close()
	os.Remove("test.db")
}

func validInput() RecordInput {
	return RecordInput{
		DocDate:      "2024-03-01",
		CustomerName: "客户甲",
		ProductDesc:  "规格A",
		Quantity:     "2",
		UnitPrice:    "10.5",
		Salesperson:  "小王",
	}
}

func TestAddRecordRequiredFields(t *testing.T) {
	setup()
	defer teardown()

	service := RecordService{}

	cases := []struct {
		name  string
		alter func(*RecordInput)
		msg   string
	}{
		{"missing doc date", func(in *RecordInput) { in.DocDate = " " }, "单据日期不能为空"},
		{"missing customer", func(in *RecordInput) { in.CustomerName = "" }, "客户名称不能为空"},
		{"missing product", func(in *RecordInput) { in.ProductDesc = "" }, "品名规格不能为空"},
		{"missing quantity", func(in *RecordInput) { in.Quantity = "" }, "数量不能为空"},
		{"bad quantity", func(in *RecordInput) { in.Quantity = "abc" }, "数量必须是有效整数"},
		{"negative quantity", func(in *RecordInput) { in.Quantity = "-1" }, "数量必须大于等于0"},
		{"bad unit price", func(in *RecordInput) { in.UnitPrice = "abc" }, "单价必须是有效数字"},
		{"negative unit price", func(in *RecordInput) { in.UnitPrice = "-5" }, "单价必须大于等于0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.alter(&input)
			_, err := service.AddRecord(input, nil)
			require.Error(t, err)
			assert.Equal(t, tc.msg, err.Error())
		})
	}

	// nothing was stored
	var count int64
	database.GetDB().Model(&model.Record{}).Count(&count)
	assert.Zero(t, count)
}

func TestAddRecordRoundTrip(t *testing.T) {
	setup()
	defer teardown()

	service := RecordService{}
	input := validInput()
	input.Freight = "3.5"

	id, err := service.AddRecord(input, nil)
	require.NoError(t, err)
	require.NotZero(t, id)

	rec, err := service.GetRecord(id)
	require.NoError(t, err)
	assert.Equal(t, "客户甲", rec.CustomerName)
	assert.Equal(t, 2, rec.Quantity)
	assert.True(t, rec.UnitPrice.Equal(decimal.RequireFromString("10.5")))
	assert.True(t, rec.Freight.Equal(decimal.RequireFromString("3.5")))
	// empty discount rates default to 100
	assert.True(t, rec.UnitDiscountRate.Equal(decimal.NewFromInt(100)))
	assert.True(t, rec.OrderDiscountRate.Equal(decimal.NewFromInt(100)))
	assert.False(t, rec.CreateTime.IsZero())
}

func TestGetRecordNotFound(t *testing.T) {
	setup()
	defer teardown()

	service := RecordService{}
	_, err := service.GetRecord(12345)
	require.Error(t, err)
	assert.Equal(t, "记录不存在", err.Error())
}

func TestUpdateRecord(t *testing.T) {
	setup()
	defer teardown()

	service := RecordService{}
	id, err := service.AddRecord(validInput(), nil)
	require.NoError(t, err)

	before, err := service.GetRecord(id)
	require.NoError(t, err)

	input := validInput()
	input.CustomerName = "客户乙"
	input.PaidTotal = "7"
	require.NoError(t, service.UpdateRecord(id, input, nil, false))

	after, err := service.GetRecord(id)
	require.NoError(t, err)
	assert.Equal(t, "客户乙", after.CustomerName)
	assert.True(t, after.PaidTotal.Equal(decimal.NewFromInt(7)))
	assert.Equal(t, before.CreateTime.Unix(), after.CreateTime.Unix())
}

func TestUpdateRecordNotFound(t *testing.T) {
	setup()
	defer teardown()

	service := RecordService{}
	err := service.UpdateRecord(9999, validInput(), nil, false)
	require.Error(t, err)
	assert.Equal(t, "记录不存在", err.Error())
}

func TestDelRecord(t *testing.T) {
	setup()
	defer teardown()

	service := RecordService{}
	id, err := service.AddRecord(validInput(), nil)
	require.NoError(t, err)

	require.NoError(t, service.DelRecord(id))
	_, err = service.GetRecord(id)
	assert.Error(t, err)

	err = service.DelRecord(id)
	require.Error(t, err)
	assert.Equal(t, "记录不存在", err.Error())
}

func TestGetRecordsFilterAndPagination(t *testing.T) {
	setup()
	defer teardown()

	service := RecordService{}
	docs := []struct {
		date     string
		customer string
		sales    string
	}{
		{"2024-01-01", "北京客户", "小王"},
		{"2024-02-01", "上海客户", "小王"},
		{"2024-03-01", "北京分公司", "小李"},
	}
	for _, d := range docs {
		input := validInput()
		input.DocDate = d.date
		input.CustomerName = d.customer
		input.Salesperson = d.sales
		_, err := service.AddRecord(input, nil)
		require.NoError(t, err)
	}

	page, err := service.GetRecords(RecordFilter{Customer: "北京"}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	page, err = service.GetRecords(RecordFilter{Salesperson: "小李"}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	page, err = service.GetRecords(RecordFilter{DateFrom: "2024-02-01", DateTo: "2024-02-28"}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, "上海客户", page.Items[0].CustomerName)

	// pagination clamps and counts pages
	page, err = service.GetRecords(RecordFilter{}, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.TotalPages)

	page, err = service.GetRecords(RecordFilter{}, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestBatchUpdateIndependentItems(t *testing.T) {
	setup()
	defer teardown()

	service := RecordService{}
	id, err := service.AddRecord(validInput(), nil)
	require.NoError(t, err)

	results := service.BatchUpdate([]BatchUpdateItem{
		{Id: id, Fields: map[string]any{"remark": "改过", "freight": "12.5"}},
		{Id: 99999, Fields: map[string]any{"remark": "不存在"}},
	})

	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Equal(t, "记录不存在", results[1].Msg)

	rec, err := service.GetRecord(id)
	require.NoError(t, err)
	assert.Equal(t, "改过", rec.Remark)
	assert.True(t, rec.Freight.Equal(decimal.RequireFromString("12.5")))
}

func TestBatchUpdateRejectsNonWhitelistedColumn(t *testing.T) {
	setup()
	defer teardown()

	service := RecordService{}
	id, err := service.AddRecord(validInput(), nil)
	require.NoError(t, err)

	results := service.BatchUpdate([]BatchUpdateItem{
		{Id: id, Fields: map[string]any{"customer_name": "篡改"}},
	})
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Msg, "不允许批量更新")

	rec, err := service.GetRecord(id)
	require.NoError(t, err)
	assert.Equal(t, "客户甲", rec.CustomerName)
}

func TestBatchUpdateBadDecimal(t *testing.T) {
	setup()
	defer teardown()

	service := RecordService{}
	id, err := service.AddRecord(validInput(), nil)
	require.NoError(t, err)

	results := service.BatchUpdate([]BatchUpdateItem{
		{Id: id, Fields: map[string]any{"freight": "abc"}},
	})
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Msg, "必须是有效数字")
}
