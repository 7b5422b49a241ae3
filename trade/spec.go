// Package trade 定义贸易单据的输入模型：单据规格、行项目与合计。
//
// 该模型是渲染引擎的唯一输入，一次构建、一次渲染、不跨调用持有状态。
package trade

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/itouchgod/tradedoc/money"
)

// DocumentKind 表示单据种类。
type DocumentKind string

const (
	Quotation    DocumentKind = "quotation"    // 报价单
	Confirmation DocumentKind = "confirmation" // 销售确认书
	Invoice      DocumentKind = "invoice"      // 发票
	Purchase     DocumentKind = "purchase"     // 采购订单
	Packing      DocumentKind = "packing"      // 装箱单（含形式发票变体）
)

// PackingVariant 细分装箱单的三种形态。
type PackingVariant string

const (
	VariantProforma PackingVariant = "proforma" // 仅形式发票
	VariantPacking  PackingVariant = "packing"  // 仅装箱单
	VariantBoth     PackingVariant = "both"     // 合并输出
)

// HeaderType 控制页首横幅。
type HeaderType string

const (
	HeaderNone      HeaderType = "none"      // 不绘制横幅，仅居中标题
	HeaderBilingual HeaderType = "bilingual" // 中英双语横幅
	HeaderEnglish   HeaderType = "english"   // 纯英文横幅
)

// DimensionUnit 控制尺寸列的显示单位。
type DimensionUnit string

const (
	DimCM DimensionUnit = "cm"
	DimMM DimensionUnit = "mm"
)

// StampType 控制末页印章。
type StampType string

const (
	StampNone     StampType = "none"
	StampShanghai StampType = "shanghai"
	StampHongkong StampType = "hongkong"
)

// LineItem 是单据中的一行货品。
// Amount 字段不被信任：渲染前一律按 Quantity×UnitPrice 四舍五入重算。
type LineItem struct {
	Description string          `json:"description" validate:"required"`
	CostCode    string          `json:"costCode,omitempty"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	Unit        string          `json:"unit" validate:"required"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
	NetWeight   float64         `json:"netWeight,omitempty" validate:"gte=0"`   // kg
	GrossWeight float64         `json:"grossWeight,omitempty" validate:"gte=0"` // kg
	PackageQty  int             `json:"packageQty,omitempty" validate:"gte=0"`
	Dimensions  string          `json:"dimensions,omitempty"`
}

// DocumentSpec 是一次渲染调用的完整输入。构建后视为不可变。
type DocumentSpec struct {
	Kind           DocumentKind   `json:"kind" validate:"required,oneof=quotation confirmation invoice purchase packing"`
	PackingVariant PackingVariant `json:"packingVariant,omitempty" validate:"omitempty,oneof=proforma packing both"`
	Currency       money.Currency `json:"currency" validate:"required"`
	DimensionUnit  DimensionUnit  `json:"dimensionUnit,omitempty" validate:"omitempty,oneof=cm mm"`
	HeaderType     HeaderType     `json:"headerType" validate:"omitempty,oneof=none bilingual english"`
	StampType      StampType      `json:"stampType,omitempty" validate:"omitempty,oneof=none shanghai hongkong"`

	// 列可见性开关
	ShowCostCode         bool `json:"showCostCode"`
	ShowDimensions       bool `json:"showDimensions"`
	ShowWeightAndPackage bool `json:"showWeightAndPackage"`
	ShowPrice            bool `json:"showPrice"`

	// 自由文本字段
	Counterparty    string    `json:"counterparty"`
	PrimaryNumber   string    `json:"primaryNumber"`
	SecondaryNumber string    `json:"secondaryNumber,omitempty"`
	Date            time.Time `json:"date"`
	Remark          string    `json:"remark,omitempty"`
	ShowRemark      bool      `json:"showRemark"`
	Notes           string    `json:"notes,omitempty"`

	Items []LineItem `json:"items" validate:"required,min=1,dive"`
}

// Title 返回单据种类对应的居中标题。
func (s DocumentSpec) Title() string {
	switch s.Kind {
	case Quotation:
		return "QUOTATION"
	case Confirmation:
		return "SALES CONFIRMATION"
	case Invoice:
		return "INVOICE"
	case Purchase:
		return "PURCHASE ORDER"
	case Packing:
		switch s.PackingVariant {
		case VariantProforma:
			return "PROFORMA INVOICE"
		case VariantBoth:
			return "PROFORMA INVOICE & PACKING LIST"
		default:
			return "PACKING LIST"
		}
	default:
		return string(s.Kind)
	}
}

// NormalizeAmounts 返回重算金额后的行项目副本：amount = round(qty×单价, 2)。
// 输入中的 Amount 永远被覆盖。
func NormalizeAmounts(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, it := range items {
		it.Amount = money.Round(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		out[i] = it
	}
	return out
}
