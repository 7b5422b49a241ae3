package trade

import (
	"github.com/shopspring/decimal"

	"github.com/itouchgod/tradedoc/money"
)

// Totals 是按币种聚合的合计：金额、净重、毛重与件数。
// 币种取单据级设置，实践中只有一组；契约上支持多组以兼容
// 未来行级币种。
type Totals struct {
	Currency    money.Currency
	Amount      decimal.Decimal
	NetWeight   float64
	GrossWeight float64
	PackageQty  int
}

// SumTotals 汇总行项目。金额一律以重算后的 amount 口径累加，
// 调用方应先经 NormalizeAmounts。
func SumTotals(items []LineItem, currency money.Currency) []Totals {
	t := Totals{Currency: currency, Amount: decimal.Zero}
	for _, it := range items {
		t.Amount = t.Amount.Add(it.Amount)
		t.NetWeight += it.NetWeight
		t.GrossWeight += it.GrossWeight
		t.PackageQty += it.PackageQty
	}
	return []Totals{t}
}
