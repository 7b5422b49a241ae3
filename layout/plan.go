package layout

import (
	"fmt"
	"math"

	"github.com/itouchgod/tradedoc/trade"
)

// ColumnKey 标识表格候选列。
type ColumnKey string

const (
	ColNo          ColumnKey = "no"
	ColDescription ColumnKey = "description"
	ColCostCode    ColumnKey = "costCode"
	ColQuantity    ColumnKey = "quantity"
	ColUnit        ColumnKey = "unit"
	ColUnitPrice   ColumnKey = "unitPrice"
	ColAmount      ColumnKey = "amount"
	ColNetWeight   ColumnKey = "netWeight"
	ColGrossWeight ColumnKey = "grossWeight"
	ColPackageQty  ColumnKey = "packageQty"
	ColDimensions  ColumnKey = "dimensions"
)

// Column 是规划后的一个可见列：相对权重与换算出的绝对宽度（mm）。
type Column struct {
	Key    ColumnKey `json:"key"`
	Header string    `json:"header"`
	Align  Align     `json:"align"`
	Weight float64   `json:"weight"`
	Width  float64   `json:"width"`
}

// ColumnPlan 是某一单据在当前开关组合下的有序可见列集。
// 不可见的列不出现（而不是占零宽）；可见列宽度之和恒等于内容宽度。
type ColumnPlan struct {
	Columns      []Column `json:"columns"`
	ContentWidth float64  `json:"contentWidth"`
}

// Flags 是影响列集的可见性开关，与 DocumentSpec 的同名字段一一对应。
type Flags struct {
	ShowCostCode         bool
	ShowDimensions       bool
	ShowWeightAndPackage bool
	ShowPrice            bool
}

// FlagsOf 直接从单据规格提取开关。
func FlagsOf(spec trade.DocumentSpec) Flags {
	return Flags{
		ShowCostCode:         spec.ShowCostCode,
		ShowDimensions:       spec.ShowDimensions,
		ShowWeightAndPackage: spec.ShowWeightAndPackage,
		ShowPrice:            spec.ShowPrice,
	}
}

// candidate 是某一单据种类的候选列及其固定权重。
type candidate struct {
	col     Column
	visible func(Flags) bool
}

func always(Flags) bool { return true }

// 候选列表是按单据种类固定的。权重的意义：候选列最多 11 个、
// 常见可见 5–9 个，绝对宽度在不同开关组合下要么溢出要么留白；
// 按权重占比分摊内容宽度则任何组合都恰好占满一页。
func candidates(kind trade.DocumentKind) ([]candidate, error) {
	no := candidate{Column{Key: ColNo, Header: "No.", Align: AlignCenter, Weight: 3}, always}
	costCode := candidate{
		Column{Key: ColCostCode, Header: "Cost Code", Align: AlignCenter, Weight: 5},
		func(f Flags) bool { return f.ShowCostCode },
	}
	qty := candidate{Column{Key: ColQuantity, Header: "Q'TY", Align: AlignCenter, Weight: 4}, always}
	unit := candidate{Column{Key: ColUnit, Header: "Unit", Align: AlignCenter, Weight: 4}, always}
	price := candidate{
		Column{Key: ColUnitPrice, Header: "U/Price", Align: AlignRight, Weight: 5},
		func(f Flags) bool { return f.ShowPrice },
	}
	amount := candidate{
		Column{Key: ColAmount, Header: "Amount", Align: AlignRight, Weight: 6},
		func(f Flags) bool { return f.ShowPrice },
	}

	switch kind {
	case trade.Quotation, trade.Confirmation, trade.Invoice, trade.Purchase:
		desc := candidate{Column{Key: ColDescription, Header: "Description", Align: AlignLeft, Weight: 15}, always}
		return []candidate{no, desc, costCode, qty, unit, price, amount}, nil
	case trade.Packing:
		desc := candidate{Column{Key: ColDescription, Header: "Description", Align: AlignLeft, Weight: 12}, always}
		netW := candidate{
			Column{Key: ColNetWeight, Header: "N.W.(kg)", Align: AlignCenter, Weight: 5},
			func(f Flags) bool { return f.ShowWeightAndPackage },
		}
		grossW := candidate{
			Column{Key: ColGrossWeight, Header: "G.W.(kg)", Align: AlignCenter, Weight: 5},
			func(f Flags) bool { return f.ShowWeightAndPackage },
		}
		pkg := candidate{
			Column{Key: ColPackageQty, Header: "Pkgs", Align: AlignCenter, Weight: 4},
			func(f Flags) bool { return f.ShowWeightAndPackage },
		}
		dims := candidate{
			Column{Key: ColDimensions, Header: "Dimensions", Align: AlignCenter, Weight: 6},
			func(f Flags) bool { return f.ShowDimensions },
		}
		return []candidate{no, desc, qty, unit, price, amount, netW, grossW, pkg, dims}, nil
	default:
		return nil, fmt.Errorf("未知的单据种类: %s", kind)
	}
}

// PlanColumns 按单据种类与可见性开关生成列计划：
// 过滤不可见候选列，按权重占比把内容宽度分摊到各可见列。
func PlanColumns(kind trade.DocumentKind, flags Flags, contentWidth float64) (ColumnPlan, error) {
	if contentWidth <= 0 {
		return ColumnPlan{}, fmt.Errorf("内容宽度必须为正: %g", contentWidth)
	}
	cands, err := candidates(kind)
	if err != nil {
		return ColumnPlan{}, err
	}

	plan := ColumnPlan{ContentWidth: contentWidth}
	totalWeight := 0.0
	for _, c := range cands {
		if !c.visible(flags) {
			continue
		}
		plan.Columns = append(plan.Columns, c.col)
		totalWeight += c.col.Weight
	}
	for i := range plan.Columns {
		plan.Columns[i].Width = plan.Columns[i].Weight / totalWeight * contentWidth
	}
	return plan, nil
}

// Widths 返回各可见列的绝对宽度。
func (p ColumnPlan) Widths() []float64 {
	out := make([]float64, len(p.Columns))
	for i, c := range p.Columns {
		out[i] = c.Width
	}
	return out
}

// MergeSpan 返回合计行首部合并单元格跨越的列数：
// 合并边界只从已解析的列计划推导一次——凡在首个「金额/重量/件数/尺寸」
// 列之前的列全部并入（即序号、描述、成本码、数量、单位、单价）。
func (p ColumnPlan) MergeSpan() int {
	for i, c := range p.Columns {
		switch c.Key {
		case ColAmount, ColNetWeight, ColGrossWeight, ColPackageQty, ColDimensions:
			return i
		}
	}
	return len(p.Columns)
}

// widthsSumsTo 校验可见列宽度之和与内容宽度在浮点误差内一致，仅供测试使用。
func (p ColumnPlan) widthsSumsTo(contentWidth float64) bool {
	sum := 0.0
	for _, c := range p.Columns {
		sum += c.Width
	}
	return math.Abs(sum-contentWidth) < 1e-9*math.Max(1, contentWidth)
}
