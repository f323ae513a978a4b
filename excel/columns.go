// Package excel implements the spreadsheet export pipeline: it copies the
// macro-enabled template, fills it with record data and images, and packages
// the result as a plain or macro-enabled workbook depending on the platform.
package excel

import (
	"github.com/samber/lo"
)

// Canonical export column keys.
const (
	ColDocDate             = "doc_date"
	ColCustomerName        = "customer_name"
	ColProductDesc         = "product_desc"
	ColUnit                = "unit"
	ColQuantity            = "quantity"
	ColUnitPrice           = "unit_price"
	ColUnitDiscountRate    = "unit_discount_rate"
	ColDiscountedUnitPrice = "discounted_unit_price"
	ColAmount              = "amount"
	ColRemark              = "remark"
	ColFreight             = "freight"
	ColOrderDiscountRate   = "order_discount_rate"
	ColDiscountedAmount    = "discounted_amount"
	ColReceivable          = "receivable"
	ColPaidTotal           = "paid_total"
	ColBalance             = "balance"
	ColSettleAccount       = "settle_account"
	ColDescription         = "description"
	ColSalesperson         = "salesperson"
	ColImage               = "image"
	ColCreateTime          = "create_time"
)

// columnAliases maps every accepted incoming key to its canonical key.
// Legacy front-end names collapse onto the canonical set; anything not in
// this map is dropped during normalization.
var columnAliases = map[string]string{
	ColDocDate:             ColDocDate,
	ColCustomerName:        ColCustomerName,
	ColProductDesc:         ColProductDesc,
	ColUnit:                ColUnit,
	ColQuantity:            ColQuantity,
	ColUnitPrice:           ColUnitPrice,
	ColUnitDiscountRate:    ColUnitDiscountRate,
	ColDiscountedUnitPrice: ColDiscountedUnitPrice,
	ColAmount:              ColAmount,
	ColRemark:              ColRemark,
	ColFreight:             ColFreight,
	ColOrderDiscountRate:   ColOrderDiscountRate,
	ColDiscountedAmount:    ColDiscountedAmount,
	ColReceivable:          ColReceivable,
	ColPaidTotal:           ColPaidTotal,
	ColBalance:             ColBalance,
	ColSettleAccount:       ColSettleAccount,
	ColDescription:         ColDescription,
	ColSalesperson:         ColSalesperson,
	ColImage:               ColImage,
	ColCreateTime:          ColCreateTime,

	// legacy keys
	"image_path": ColImage,
	"name":       ColCustomerName,
	"price":      ColUnitPrice,
	"spec":       ColProductDesc,
}

// displayNames maps canonical keys to the header labels written to the sheet.
var displayNames = map[string]string{
	ColDocDate:             "单据日期",
	ColCustomerName:        "客户名称",
	ColProductDesc:         "品名规格",
	ColUnit:                "单位",
	ColQuantity:            "数量",
	ColUnitPrice:           "单价",
	ColUnitDiscountRate:    "单价折扣",
	ColDiscountedUnitPrice: "折后单价",
	ColAmount:              "金额",
	ColRemark:              "备注",
	ColFreight:             "运费",
	ColOrderDiscountRate:   "折扣",
	ColDiscountedAmount:    "折后金额",
	ColReceivable:          "应收款",
	ColPaidTotal:           "已收款",
	ColBalance:             "余额",
	ColSettleAccount:       "结算账户",
	ColDescription:         "说明",
	ColSalesperson:         "业务员",
	ColImage:               "图片",
	ColCreateTime:          "创建时间",
}

const defaultColumnWidth = 15

// columnWidths holds per-key sheet column widths. Description and image
// columns are wide, short numeric columns narrow.
var columnWidths = map[string]float64{
	ColDocDate:             14,
	ColCustomerName:        25,
	ColProductDesc:         25,
	ColUnit:                8,
	ColQuantity:            12,
	ColUnitPrice:           15,
	ColUnitDiscountRate:    12,
	ColDiscountedUnitPrice: 12,
	ColAmount:              12,
	ColRemark:              20,
	ColFreight:             10,
	ColOrderDiscountRate:   10,
	ColDiscountedAmount:    12,
	ColReceivable:          12,
	ColPaidTotal:           12,
	ColBalance:             12,
	ColSettleAccount:       14,
	ColDescription:         20,
	ColSalesperson:         10,
	ColImage:               50,
	ColCreateTime:          25,
}

// allColumns lists every canonical key in sheet order.
var allColumns = []string{
	ColDocDate,
	ColCustomerName,
	ColProductDesc,
	ColUnit,
	ColQuantity,
	ColUnitPrice,
	ColUnitDiscountRate,
	ColDiscountedUnitPrice,
	ColAmount,
	ColRemark,
	ColFreight,
	ColOrderDiscountRate,
	ColDiscountedAmount,
	ColReceivable,
	ColPaidTotal,
	ColBalance,
	ColSettleAccount,
	ColDescription,
	ColSalesperson,
	ColImage,
	ColCreateTime,
}

// defaultColumns is the selection used before a user saves one.
var defaultColumns = []string{
	ColDocDate,
	ColCustomerName,
	ColProductDesc,
	ColUnit,
	ColQuantity,
	ColUnitPrice,
	ColAmount,
	ColReceivable,
	ColPaidTotal,
	ColBalance,
	ColSalesperson,
}

// AllColumns returns every canonical column key in sheet order.
func AllColumns() []string {
	return append([]string(nil), allColumns...)
}

// DefaultColumns returns the column selection used before a user saves one.
func DefaultColumns() []string {
	return append([]string(nil), defaultColumns...)
}

// NormalizeColumns maps incoming column keys to the canonical set, dropping
// unrecognized keys and duplicates while preserving order.
func NormalizeColumns(keys []string) []string {
	mapped := lo.FilterMap(keys, func(key string, _ int) (string, bool) {
		canonical, ok := columnAliases[key]
		return canonical, ok
	})
	return lo.Uniq(mapped)
}

// DisplayName returns the header label for a canonical column key.
// Unknown keys fall through to the key itself.
func DisplayName(key string) string {
	if name, ok := displayNames[key]; ok {
		return name
	}
	return key
}

// ColumnWidth returns the sheet column width for a canonical column key.
func ColumnWidth(key string) float64 {
	if w, ok := columnWidths[key]; ok {
		return w
	}
	return defaultColumnWidth
}
