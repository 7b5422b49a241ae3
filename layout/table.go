package layout

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/itouchgod/tradedoc/assets"
	"github.com/itouchgod/tradedoc/dimension"
	"github.com/itouchgod/tradedoc/money"
	"github.com/itouchgod/tradedoc/trade"
	"github.com/itouchgod/tradedoc/units"
)

const (
	cellPadding     = 1.2
	tableFontSizePt = 9.0
	tableLineFactor = 1.3
	totalRowLabel   = "Total:"
	tableBorderGray = 200
	weightPrecision = 2
)

// TableOptions 携带单元格格式化所需的单据级设置。
type TableOptions struct {
	Units         units.Config
	Currency      money.Currency
	DimensionUnit trade.DimensionUnit
}

// Band 描述表格可用的纵向区间（mm，页面坐标）。
// 第一页因横幅与信息块占位，起始位置低于续页。
type Band struct {
	X        float64 // 表格左沿
	FirstTop float64 // 第一页表格起始 Y
	Top      float64 // 续页表格起始 Y（内容区顶部）
	Bottom   float64 // 内容区底部（页脚上沿）
}

// RenderedTable 是分页完成的表格：每页一个 TableBox，列头带逐页重发，
// 末页（且仅末页）带一条合计行。
type RenderedTable struct {
	Plan  ColumnPlan
	Boxes []TableBox
	// EndY 是末页表格结束后的纵向游标，后续区块（备注等）从这里继续。
	EndY float64
}

// PageCount 返回表格占用的页数。
func (t *RenderedTable) PageCount() int { return len(t.Boxes) }

// measuredRow 是尚未定位的行：高度已量出，坐标在装页时回填。
type measuredRow struct {
	height    float64
	isHeading bool
	isTotal   bool
	cells     []measuredCell
}

type measuredCell struct {
	span int
	tb   TextBox
}

// BuildTable 把行项目按列计划排成分页表格：
// 逐行量高，首次放不下即换页并重发列头带，最后追加一条合计行。
func BuildTable(items []trade.LineItem, plan ColumnPlan, band Band, topts TableOptions, opts BuildOptions) (*RenderedTable, error) {
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	if len(plan.Columns) == 0 {
		return nil, fmt.Errorf("列计划为空")
	}

	heading, err := measureHeading(plan, opts)
	if err != nil {
		return nil, err
	}

	rows := make([]measuredRow, 0, len(items)+2)
	for i, it := range items {
		row, err := measureItemRow(i, it, plan, topts, opts)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	for _, g := range trade.SumTotals(items, topts.Currency) {
		row, err := measureTotalRow(g, plan, opts)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return packRows(rows, heading, plan, band, opts), nil
}

// packRows 执行首次适应装页：行高累计越过区间底部即开新页并重发列头带。
// 单行高于整页可用高度时独占一页并记录告警，不视为失败。
func packRows(rows []measuredRow, heading measuredRow, plan ColumnPlan, band Band, opts BuildOptions) *RenderedTable {
	log := opts.logger()
	out := &RenderedTable{Plan: plan}

	fullPageAvail := band.Bottom - band.Top - heading.height

	var box *TableBox
	cursor := 0.0
	newBox := func(top float64) {
		out.Boxes = append(out.Boxes, TableBox{
			X:            band.X,
			Y:            top,
			Width:        plan.ContentWidth,
			ColumnWidths: plan.Widths(),
			BorderColor:  Color{R: tableBorderGray, G: tableBorderGray, B: tableBorderGray},
		})
		box = &out.Boxes[len(out.Boxes)-1]
		cursor = top
		placeRow(box, heading, plan, &cursor)
	}

	newBox(band.FirstTop)
	for _, row := range rows {
		if cursor+row.height > band.Bottom {
			if row.height > fullPageAvail {
				// 单行超过整页：独占一页继续排版，溢出部分由渲染端裁切
				log.Warn("单行高度超过整页可用空间，已独立成页",
					zap.Float64("rowHeight", row.height),
					zap.Float64("pageAvail", fullPageAvail))
				if len(box.Rows) > 1 {
					newBox(band.Top)
				}
				placeRow(box, row, plan, &cursor)
				continue
			}
			newBox(band.Top)
		}
		placeRow(box, row, plan, &cursor)
	}
	out.EndY = cursor
	return out
}

// placeRow 把量好高度的行落位到当前页：按列前缀和回填单元格坐标。
func placeRow(box *TableBox, row measuredRow, plan ColumnPlan, cursor *float64) {
	placed := TableRow{
		Y:         *cursor,
		Height:    row.height,
		IsHeading: row.isHeading,
		IsTotal:   row.isTotal,
	}
	x := box.X
	col := 0
	for _, mc := range row.cells {
		span := mc.span
		if span < 1 {
			span = 1
		}
		width := 0.0
		for i := 0; i < span && col+i < len(plan.Columns); i++ {
			width += plan.Columns[col+i].Width
		}
		tb := mc.tb
		tb.X = x + cellPadding
		tb.Y = *cursor + cellPadding
		tb.Width = width - 2*cellPadding
		placed.Cells = append(placed.Cells, TableCell{Text: tb, Span: span})
		x += width
		col += span
	}
	box.Rows = append(box.Rows, placed)
	*cursor += row.height
}

// measureHeading 量出每页重发的列头带。
func measureHeading(plan ColumnPlan, opts BuildOptions) (measuredRow, error) {
	row := measuredRow{isHeading: true}
	for _, c := range plan.Columns {
		tb, h, err := measureCellText(c.Header, c.Width, assets.FontBold, AlignCenter, opts)
		if err != nil {
			return row, err
		}
		row.cells = append(row.cells, measuredCell{span: 1, tb: tb})
		if h > row.height {
			row.height = h
		}
	}
	row.height += 2 * cellPadding
	return row, nil
}

// measureItemRow 生成一行货品的全部单元格并量高。
func measureItemRow(idx int, it trade.LineItem, plan ColumnPlan, topts TableOptions, opts BuildOptions) (measuredRow, error) {
	var row measuredRow
	for _, c := range plan.Columns {
		content := itemCell(idx, it, c.Key, topts)
		tb, h, err := measureCellText(content, c.Width, assets.FontRegular, c.Align, opts)
		if err != nil {
			return row, err
		}
		row.cells = append(row.cells, measuredCell{span: 1, tb: tb})
		if h > row.height {
			row.height = h
		}
	}
	row.height += 2 * cellPadding
	return row, nil
}

// itemCell 按列键格式化单元格内容。
func itemCell(idx int, it trade.LineItem, key ColumnKey, topts TableOptions) string {
	switch key {
	case ColNo:
		return strconv.Itoa(idx + 1)
	case ColDescription:
		return it.Description
	case ColCostCode:
		return it.CostCode
	case ColQuantity:
		return strconv.Itoa(it.Quantity)
	case ColUnit:
		// 单位按该行自身的数量决定单复数
		return topts.Units.Display(it.Unit, it.Quantity)
	case ColUnitPrice:
		return money.Format(it.UnitPrice)
	case ColAmount:
		return money.Format(it.Amount)
	case ColNetWeight:
		return formatWeight(it.NetWeight)
	case ColGrossWeight:
		return formatWeight(it.GrossWeight)
	case ColPackageQty:
		return strconv.Itoa(it.PackageQty)
	case ColDimensions:
		unit := dimension.CM
		if topts.DimensionUnit == trade.DimMM {
			unit = dimension.MM
		}
		return dimension.Display(it.Dimensions, unit)
	default:
		return ""
	}
}

// measureTotalRow 生成合计行：首部各列并成一个 "Total:" 单元格，
// 其余可见数值列逐列求和，尺寸列留空。
func measureTotalRow(g trade.Totals, plan ColumnPlan, opts BuildOptions) (measuredRow, error) {
	row := measuredRow{isTotal: true}
	span := plan.MergeSpan()

	mergedWidth := 0.0
	for i := 0; i < span; i++ {
		mergedWidth += plan.Columns[i].Width
	}
	if span > 0 {
		tb, h, err := measureCellText(totalRowLabel, mergedWidth, assets.FontBold, AlignRight, opts)
		if err != nil {
			return row, err
		}
		row.cells = append(row.cells, measuredCell{span: span, tb: tb})
		if h > row.height {
			row.height = h
		}
	}

	for _, c := range plan.Columns[span:] {
		var content string
		switch c.Key {
		case ColAmount:
			content = money.FormatWithSymbol(g.Currency, g.Amount)
		case ColNetWeight:
			content = formatWeight(g.NetWeight)
		case ColGrossWeight:
			content = formatWeight(g.GrossWeight)
		case ColPackageQty:
			content = strconv.Itoa(g.PackageQty)
		case ColDimensions:
			content = ""
		}
		tb, h, err := measureCellText(content, c.Width, assets.FontBold, c.Align, opts)
		if err != nil {
			return row, err
		}
		row.cells = append(row.cells, measuredCell{span: 1, tb: tb})
		if h > row.height {
			row.height = h
		}
	}
	row.height += 2 * cellPadding
	return row, nil
}

// measureCellText 用排版后端量出单元格文本的行与总高（mm）。
func measureCellText(content string, colWidth float64, fontKey string, align Align, opts BuildOptions) (TextBox, float64, error) {
	fontSize := Pt(tableFontSizePt).ToMM()
	lineHeight := fontSize * tableLineFactor
	innerWidth := colWidth - 2*cellPadding
	if innerWidth <= 0 {
		innerWidth = colWidth
	}

	lines, err := opts.Typesetter.LayoutLines(content, innerWidth, fontKey, fontSize, lineHeight, "anywhere")
	if err != nil {
		return TextBox{}, 0, err
	}
	if len(lines) == 0 {
		lines = []TextLine{{Content: "", Width: 0, Height: fontSize}}
	}
	total := 0.0
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = fontSize
		}
		if i == 0 {
			lines[i].GapBefore = 0
		} else if lines[i].GapBefore <= 0 {
			lines[i].GapBefore = lineHeight - fontSize
		}
		total += lines[i].GapBefore + lines[i].Height
	}

	tb := TextBox{
		Content:    content,
		Width:      innerWidth,
		LineHeight: lineHeight,
		Font:       fontKey,
		FontSize:   fontSize,
		Color:      Color{R: 30, G: 30, B: 30},
		Lines:      lines,
		Height:     total,
		Align:      align,
	}
	return tb, total, nil
}

func formatWeight(kg float64) string {
	return strconv.FormatFloat(kg, 'f', weightPrecision, 64)
}
