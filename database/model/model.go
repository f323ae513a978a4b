// Package model defines the database models for the sales panel.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is one sales/product line item with pricing, discount, and
// customer metadata. Discount rates are percentages: 100 means full price.
//
// The discounted unit price, discounted amount, receivable, and balance are
// derived at export time from the raw columns below; they are not persisted.
type Record struct {
	Id                int             `json:"id" gorm:"primaryKey;autoIncrement"`
	DocDate           string          `json:"doc_date" form:"doc_date" gorm:"not null"`
	CustomerName      string          `json:"customer_name" form:"customer_name" gorm:"not null;index"`
	ProductDesc       string          `json:"product_desc" form:"product_desc" gorm:"not null"`
	Unit              string          `json:"unit" form:"unit"`
	Quantity          int             `json:"quantity" form:"quantity" gorm:"not null"`
	UnitPrice         decimal.Decimal `json:"unit_price" form:"unit_price" gorm:"type:decimal(20,4);default:0"`
	UnitDiscountRate  decimal.Decimal `json:"unit_discount_rate" form:"unit_discount_rate" gorm:"type:decimal(20,4);default:100"`
	Amount            decimal.Decimal `json:"amount" form:"amount" gorm:"type:decimal(20,4);default:0"`
	Remark            string          `json:"remark" form:"remark"`
	Freight           decimal.Decimal `json:"freight" form:"freight" gorm:"type:decimal(20,4);default:0"`
	OrderDiscountRate decimal.Decimal `json:"order_discount_rate" form:"order_discount_rate" gorm:"type:decimal(20,4);default:100"`
	PaidTotal         decimal.Decimal `json:"paid_total" form:"paid_total" gorm:"type:decimal(20,4);default:0"`
	SettleAccount     string          `json:"settle_account" form:"settle_account"`
	Description       string          `json:"description" form:"description"`
	Salesperson       string          `json:"salesperson" form:"salesperson" gorm:"index"`
	ImagePath         string          `json:"image_path" gorm:"column:image_path"`
	CreateTime        time.Time       `json:"create_time" gorm:"autoCreateTime"`
	UpdateTime        time.Time       `json:"update_time" gorm:"autoUpdateTime"`
}

func (Record) TableName() string {
	return "records"
}

// User is a panel account. At least one admin must exist at all times.
type User struct {
	Id           int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	IsAdmin      bool      `json:"is_admin" gorm:"column:is_admin;default:false"`
	RealName     string    `json:"real_name"`
	CreateTime   time.Time `json:"create_time" gorm:"autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}

// UserPreference stores per-user key/value settings, e.g. the last chosen
// export column set under the "export_columns" key.
type UserPreference struct {
	UserId    int    `json:"user_id" gorm:"primaryKey"`
	PrefKey   string `json:"pref_key" gorm:"primaryKey"`
	PrefValue string `json:"pref_value"`
}

func (UserPreference) TableName() string {
	return "user_preferences"
}
