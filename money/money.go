// Package money 提供币种符号与定点金额格式化。
package money

import "github.com/shopspring/decimal"

// Currency 表示单据级币种代码。
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	CNY Currency = "CNY"
)

// Symbol 返回币种符号；未收录的币种回退为代码本身。
func (c Currency) Symbol() string {
	switch c {
	case USD:
		return "$"
	case EUR:
		return "€"
	case CNY:
		return "¥"
	default:
		return string(c)
	}
}

// Valid 判断币种是否在支持范围内。
func (c Currency) Valid() bool {
	switch c {
	case USD, EUR, CNY:
		return true
	default:
		return false
	}
}

// Format 将金额格式化为固定两位小数（四舍五入，0.5 进位）。
// 不输出千分位分隔符。
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatWithSymbol 在格式化金额前附加币种符号，例如 "$20.00"。
func FormatWithSymbol(c Currency, d decimal.Decimal) string {
	return c.Symbol() + Format(d)
}

// Round 按两位小数四舍五入，用于金额口径统一（qty × 单价之后）。
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
