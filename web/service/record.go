package service

import (
	"mime/multipart"
	"strconv"
	"strings"

	"salespanel/database"
	"salespanel/database/model"
	"salespanel/util/common"
	"salespanel/web/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var decimalHundred = decimal.NewFromInt(100)

// RecordInput carries the raw form fields of a record entry. Numeric fields
// arrive as strings and are coerced here; empty discount rates default to
// 100 (no discount).
type RecordInput struct {
	DocDate           string `json:"doc_date" form:"doc_date"`
	CustomerName      string `json:"customer_name" form:"customer_name"`
	ProductDesc       string `json:"product_desc" form:"product_desc"`
	Unit              string `json:"unit" form:"unit"`
	Quantity          string `json:"quantity" form:"quantity"`
	UnitPrice         string `json:"unit_price" form:"unit_price"`
	UnitDiscountRate  string `json:"unit_discount_rate" form:"unit_discount_rate"`
	Amount            string `json:"amount" form:"amount"`
	Remark            string `json:"remark" form:"remark"`
	Freight           string `json:"freight" form:"freight"`
	OrderDiscountRate string `json:"order_discount_rate" form:"order_discount_rate"`
	PaidTotal         string `json:"paid_total" form:"paid_total"`
	SettleAccount     string `json:"settle_account" form:"settle_account"`
	Description       string `json:"description" form:"description"`
	Salesperson       string `json:"salesperson" form:"salesperson"`
}

// RecordFilter narrows record listings and exports.
type RecordFilter struct {
	Customer    string `json:"customer" form:"customer"`
	ProductDesc string `json:"product_desc" form:"product_desc"`
	Salesperson string `json:"salesperson" form:"salesperson"`
	DateFrom    string `json:"date_from" form:"date_from"`
	DateTo      string `json:"date_to" form:"date_to"`
}

// BatchUpdateItem is one entry of a batch update request. Only whitelisted
// fields are applied; the rest are rejected per item.
type BatchUpdateItem struct {
	Id     int            `json:"id"`
	Fields map[string]any `json:"fields"`
}

// batchUpdatableColumns is the whitelist of columns a batch update may touch.
// true marks decimal columns that need numeric coercion.
var batchUpdatableColumns = map[string]bool{
	"remark":              false,
	"settle_account":      false,
	"description":         false,
	"salesperson":         false,
	"freight":             true,
	"order_discount_rate": true,
	"paid_total":          true,
}

type RecordService struct {
	fileService FileService
}

// toRecord validates required fields and coerces numeric strings. It returns
// a validation error before any storage or file mutation happens.
func (in *RecordInput) toRecord() (*model.Record, error) {
	if strings.TrimSpace(in.DocDate) == "" {
		return nil, common.NewError("单据日期不能为空")
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		return nil, common.NewError("客户名称不能为空")
	}
	if strings.TrimSpace(in.ProductDesc) == "" {
		return nil, common.NewError("品名规格不能为空")
	}
	if strings.TrimSpace(in.Quantity) == "" {
		return nil, common.NewError("数量不能为空")
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(in.Quantity))
	if err != nil {
		return nil, common.NewError("数量必须是有效整数")
	}
	if quantity < 0 {
		return nil, common.NewError("数量必须大于等于0")
	}

	unitPrice, err := parseMoney(in.UnitPrice, decimal.Zero)
	if err != nil {
		return nil, common.NewError("单价必须是有效数字")
	}
	if unitPrice.IsNegative() {
		return nil, common.NewError("单价必须大于等于0")
	}
	unitDiscount, err := parseMoney(in.UnitDiscountRate, decimalHundred)
	if err != nil {
		return nil, common.NewError("单价折扣必须是有效数字")
	}
	amount, err := parseMoney(in.Amount, decimal.Zero)
	if err != nil {
		return nil, common.NewError("金额必须是有效数字")
	}
	freight, err := parseMoney(in.Freight, decimal.Zero)
	if err != nil {
		return nil, common.NewError("运费必须是有效数字")
	}
	orderDiscount, err := parseMoney(in.OrderDiscountRate, decimalHundred)
	if err != nil {
		return nil, common.NewError("折扣必须是有效数字")
	}
	paidTotal, err := parseMoney(in.PaidTotal, decimal.Zero)
	if err != nil {
		return nil, common.NewError("已收款必须是有效数字")
	}

	return &model.Record{
		DocDate:           strings.TrimSpace(in.DocDate),
		CustomerName:      strings.TrimSpace(in.CustomerName),
		ProductDesc:       strings.TrimSpace(in.ProductDesc),
		Unit:              in.Unit,
		Quantity:          quantity,
		UnitPrice:         unitPrice,
		UnitDiscountRate:  unitDiscount,
		Amount:            amount,
		Remark:            in.Remark,
		Freight:           freight,
		OrderDiscountRate: orderDiscount,
		PaidTotal:         paidTotal,
		SettleAccount:     in.SettleAccount,
		Description:       in.Description,
		Salesperson:       in.Salesperson,
	}, nil
}

func parseMoney(raw string, fallback decimal.Decimal) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	return decimal.NewFromString(raw)
}

// AddRecord validates, stores the optional image, and inserts the record.
// Returns the new record id.
func (s *RecordService) AddRecord(input RecordInput, image *multipart.FileHeader) (int, error) {
	rec, err := input.toRecord()
	if err != nil {
		return 0, err
	}

	if image != nil {
		name, err := s.fileService.SaveImage(image)
		if err != nil {
			return 0, err
		}
		rec.ImagePath = name
	}

	db := database.GetDB()
	if err := db.Create(rec).Error; err != nil {
		s.fileService.DeleteImage(rec.ImagePath)
		return 0, err
	}
	return rec.Id, nil
}

// UpdateRecord re-validates mutable fields and replaces or clears the image.
func (s *RecordService) UpdateRecord(id int, input RecordInput, image *multipart.FileHeader, removeImage bool) error {
	db := database.GetDB()

	existing := &model.Record{}
	err := db.Where("id = ?", id).First(existing).Error
	if database.IsNotFound(err) {
		return common.NewError("记录不存在")
	} else if err != nil {
		return err
	}

	updated, err := input.toRecord()
	if err != nil {
		return err
	}

	oldImage := existing.ImagePath
	switch {
	case image != nil:
		name, err := s.fileService.SaveImage(image)
		if err != nil {
			return err
		}
		updated.ImagePath = name
	case removeImage:
		updated.ImagePath = ""
	default:
		updated.ImagePath = oldImage
	}

	updated.Id = existing.Id
	updated.CreateTime = existing.CreateTime
	if err := db.Save(updated).Error; err != nil {
		if image != nil {
			s.fileService.DeleteImage(updated.ImagePath)
		}
		return err
	}

	if oldImage != "" && oldImage != updated.ImagePath {
		s.fileService.DeleteImage(oldImage)
	}
	return nil
}

// DelRecord removes the record's image files and its row.
func (s *RecordService) DelRecord(id int) error {
	db := database.GetDB()

	rec := &model.Record{}
	err := db.Where("id = ?", id).First(rec).Error
	if database.IsNotFound(err) {
		return common.NewError("记录不存在")
	} else if err != nil {
		return err
	}

	s.fileService.DeleteImage(rec.ImagePath)
	return db.Delete(&model.Record{}, id).Error
}

func (s *RecordService) GetRecord(id int) (*model.Record, error) {
	db := database.GetDB()

	rec := &model.Record{}
	err := db.Where("id = ?", id).First(rec).Error
	if database.IsNotFound(err) {
		return nil, common.NewError("记录不存在")
	} else if err != nil {
		return nil, err
	}
	return rec, nil
}

func applyFilter(filter RecordFilter, q *gorm.DB) *gorm.DB {
	if filter.Customer != "" {
		q = q.Where("customer_name LIKE ?", "%"+filter.Customer+"%")
	}
	if filter.ProductDesc != "" {
		q = q.Where("product_desc LIKE ?", "%"+filter.ProductDesc+"%")
	}
	if filter.Salesperson != "" {
		q = q.Where("salesperson LIKE ?", "%"+filter.Salesperson+"%")
	}
	if filter.DateFrom != "" {
		q = q.Where("doc_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		q = q.Where("doc_date <= ?", filter.DateTo)
	}
	return q
}

// GetRecords returns one page of filtered records ordered by creation time
// descending, with total and page counts. perPage is clamped to [1, 100].
func (s *RecordService) GetRecords(filter RecordFilter, page, perPage int) (*entity.Page[*model.Record], error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	db := database.GetDB()
	q := applyFilter(filter, db.Model(&model.Record{}))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var records []*model.Record
	err := q.Order("create_time DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return &entity.Page[*model.Record]{
		Items:      records,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: int((total + int64(perPage) - 1) / int64(perPage)),
	}, nil
}

// GetAllRecords returns all filtered records without pagination, for export.
func (s *RecordService) GetAllRecords(filter RecordFilter) ([]*model.Record, error) {
	db := database.GetDB()

	var records []*model.Record
	err := applyFilter(filter, db.Model(&model.Record{})).
		Order("create_time DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// BatchUpdate applies whitelisted field updates per item, each succeeding or
// failing independently.
func (s *RecordService) BatchUpdate(items []BatchUpdateItem) []entity.BatchItemResult {
	db := database.GetDB()
	results := make([]entity.BatchItemResult, 0, len(items))

	for _, item := range items {
		result := entity.BatchItemResult{Id: item.Id}

		updates, err := coerceBatchFields(item.Fields)
		if err != nil {
			result.Msg = err.Error()
			results = append(results, result)
			continue
		}
		if len(updates) == 0 {
			result.Msg = "没有可更新的字段"
			results = append(results, result)
			continue
		}

		tx := db.Model(&model.Record{}).Where("id = ?", item.Id).Updates(updates)
		if tx.Error != nil {
			result.Msg = tx.Error.Error()
		} else if tx.RowsAffected == 0 {
			result.Msg = "记录不存在"
		} else {
			result.Success = true
		}
		results = append(results, result)
	}
	return results
}

// coerceBatchFields keeps only whitelisted columns, coercing decimal columns
// from whatever the JSON payload carried.
func coerceBatchFields(fields map[string]any) (map[string]any, error) {
	updates := map[string]any{}
	for col, value := range fields {
		isDecimal, ok := batchUpdatableColumns[col]
		if !ok {
			return nil, common.NewErrorf("字段不允许批量更新: %s", col)
		}
		if !isDecimal {
			updates[col] = value
			continue
		}
		coerced, err := coerceDecimal(value)
		if err != nil {
			return nil, common.NewErrorf("字段 %s 必须是有效数字", col)
		}
		updates[col] = coerced
	}
	return updates, nil
}

func coerceDecimal(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	case int:
		return decimal.NewFromInt(int64(v)), nil
	default:
		return decimal.Zero, common.NewError("不支持的数值类型")
	}
}
