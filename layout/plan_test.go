package layout

import (
	"testing"

	"github.com/itouchgod/tradedoc/trade"
)

var allKinds = []trade.DocumentKind{
	trade.Quotation, trade.Confirmation, trade.Invoice, trade.Purchase, trade.Packing,
}

// TestPlanWidthsFillContentWidth 任意开关组合下可见列宽度之和恒等于内容宽度。
func TestPlanWidthsFillContentWidth(t *testing.T) {
	const contentWidth = 180.0
	for _, kind := range allKinds {
		for mask := 0; mask < 16; mask++ {
			flags := Flags{
				ShowCostCode:         mask&1 != 0,
				ShowDimensions:       mask&2 != 0,
				ShowWeightAndPackage: mask&4 != 0,
				ShowPrice:            mask&8 != 0,
			}
			plan, err := PlanColumns(kind, flags, contentWidth)
			if err != nil {
				t.Fatalf("%s mask=%d 规划失败: %v", kind, mask, err)
			}
			if !plan.widthsSumsTo(contentWidth) {
				t.Fatalf("%s mask=%d 列宽之和未填满内容宽度", kind, mask)
			}
		}
	}
}

// TestPlanHiddenColumnsAbsent 不可见的列不得出现（而不是零宽占位）。
func TestPlanHiddenColumnsAbsent(t *testing.T) {
	plan, err := PlanColumns(trade.Quotation, Flags{ShowPrice: false}, 180)
	if err != nil {
		t.Fatalf("规划失败: %v", err)
	}
	for _, c := range plan.Columns {
		if c.Key == ColUnitPrice || c.Key == ColAmount {
			t.Fatalf("价格关闭时不应出现列 %s", c.Key)
		}
		if c.Width <= 0 {
			t.Fatalf("可见列 %s 宽度必须为正", c.Key)
		}
	}
}

// TestPlanOrderAndAlign 列顺序与对齐方式固定。
func TestPlanOrderAndAlign(t *testing.T) {
	plan, err := PlanColumns(trade.Invoice, Flags{ShowCostCode: true, ShowPrice: true}, 180)
	if err != nil {
		t.Fatalf("规划失败: %v", err)
	}
	wantOrder := []ColumnKey{ColNo, ColDescription, ColCostCode, ColQuantity, ColUnit, ColUnitPrice, ColAmount}
	if len(plan.Columns) != len(wantOrder) {
		t.Fatalf("列数期望 %d，实际 %d", len(wantOrder), len(plan.Columns))
	}
	for i, key := range wantOrder {
		if plan.Columns[i].Key != key {
			t.Fatalf("第 %d 列期望 %s，实际 %s", i, key, plan.Columns[i].Key)
		}
	}
	if plan.Columns[0].Align != AlignCenter {
		t.Fatalf("序号列应居中")
	}
	if plan.Columns[1].Align != AlignLeft {
		t.Fatalf("描述列应左对齐")
	}
	if plan.Columns[6].Align != AlignRight {
		t.Fatalf("金额列应右对齐")
	}
}

// TestMergeSpan 合并边界：首个金额/重量/件数/尺寸列之前的列全部并入。
func TestMergeSpan(t *testing.T) {
	cases := []struct {
		kind  trade.DocumentKind
		flags Flags
		want  int
	}{
		// No., Description, Q'TY, Unit, U/Price → 合并 5 列，Amount 起为求和列
		{trade.Quotation, Flags{ShowPrice: true}, 5},
		// 无价格时报价类列集中没有求和列，整行并入
		{trade.Quotation, Flags{}, 4},
		// 装箱单：No., Description, Q'TY, Unit 合并，重量列起逐列求和
		{trade.Packing, Flags{ShowWeightAndPackage: true}, 4},
		{trade.Packing, Flags{ShowPrice: true, ShowWeightAndPackage: true, ShowDimensions: true}, 5},
	}
	for _, tc := range cases {
		plan, err := PlanColumns(tc.kind, tc.flags, 180)
		if err != nil {
			t.Fatalf("%s 规划失败: %v", tc.kind, err)
		}
		if got := plan.MergeSpan(); got != tc.want {
			t.Fatalf("%s %+v 合并跨度期望 %d，实际 %d", tc.kind, tc.flags, tc.want, got)
		}
	}
}

func TestPlanRejectsBadInput(t *testing.T) {
	if _, err := PlanColumns("memo", Flags{}, 180); err == nil {
		t.Fatalf("未知单据种类应当报错")
	}
	if _, err := PlanColumns(trade.Quotation, Flags{}, 0); err == nil {
		t.Fatalf("非正内容宽度应当报错")
	}
}
