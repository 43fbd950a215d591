//-------------------------------------------------------------------------
//
// pgEdge Retail Demo Data
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package retail generates the synthetic retail demo dataset: household
// demographics, a product catalog and line-item transactions.
package retail

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Household is one row of the household demographics table.
type Household struct {
	Key           int
	Age           string
	MaritalStatus string
	Income        string
	Homeowner     string
	Composition   string
	Size          string
	KidCategory   string
}

// HasKids reports whether the household's kid category indicates children.
func (h Household) HasKids() bool {
	return h.KidCategory != KidsNoneUnknown
}

// Product is one row of the product table.
type Product struct {
	ID           int
	Manufacturer int
	Department   string
	Brand        string
	Commodity    string
	SubCommodity string
	PackageSize  string
}

// Transaction is one purchased line item.
type Transaction struct {
	HouseholdKey   int
	BasketID       int64
	Day            time.Time
	ProductID      int
	Quantity       int
	SalesValue     decimal.Decimal
	StoreID        int
	RetailDiscount decimal.Decimal
	TransTime      int
	WeekNo         int
}

// Dataset holds the three generated tables.
type Dataset struct {
	Households   []Household
	Products     []Product
	Transactions []Transaction
}

// Column headers of the generated files.
var (
	HouseholdHeader = []string{
		"household_key", "AGE_DESC", "MARITAL_STATUS_CODE", "INCOME_DESC",
		"HOMEOWNER_DESC", "HH_COMP_DESC", "HOUSEHOLD_SIZE_DESC", "KID_CATEGORY_DESC",
	}
	ProductHeader = []string{
		"PRODUCT_ID", "MANUFACTURER", "DEPARTMENT", "BRAND",
		"COMMODITY_DESC", "SUB_COMMODITY_DESC", "CURR_SIZE_OF_PRODUCT",
	}
	TransactionHeader = []string{
		"HOUSEHOLD_KEY", "BASKET_ID", "DAY", "PRODUCT_ID", "QUANTITY",
		"SALES_VALUE", "STORE_ID", "RETAIL_DISC", "TRANS_TIME", "WEEK_NO",
	}
)

// Record returns the household as a CSV record in HouseholdHeader order.
func (h Household) Record() []string {
	return []string{
		strconv.Itoa(h.Key),
		h.Age,
		h.MaritalStatus,
		h.Income,
		h.Homeowner,
		h.Composition,
		h.Size,
		h.KidCategory,
	}
}

// Record returns the product as a CSV record in ProductHeader order.
func (p Product) Record() []string {
	return []string{
		strconv.Itoa(p.ID),
		strconv.Itoa(p.Manufacturer),
		p.Department,
		p.Brand,
		p.Commodity,
		p.SubCommodity,
		p.PackageSize,
	}
}

// Record returns the transaction as a CSV record in TransactionHeader order.
func (t Transaction) Record() []string {
	return []string{
		strconv.Itoa(t.HouseholdKey),
		strconv.FormatInt(t.BasketID, 10),
		t.Day.Format("2006-01-02"),
		strconv.Itoa(t.ProductID),
		strconv.Itoa(t.Quantity),
		t.SalesValue.StringFixed(2),
		strconv.Itoa(t.StoreID),
		t.RetailDiscount.StringFixed(2),
		strconv.Itoa(t.TransTime),
		strconv.Itoa(t.WeekNo),
	}
}
