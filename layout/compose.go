package layout

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/itouchgod/tradedoc/assets"
	"github.com/itouchgod/tradedoc/trade"
)

const (
	blockSpacing = 3.0

	titleFontSizePt = 16.0
	bodyFontSizePt  = 9.0
	footerFontSize  = 8.0

	bannerHeight = 22.0
	stampSize    = 40.0
	footerOffset = 4.0 // 页脚文本距内容区底部的偏移
)

// Compose 自上而下组装整份单据：横幅/标题、信息块、已分页的表格、
// 备注列表与印章，最后统一补写页脚页码。
//
// 页码采用两段式：先完整装配所有页面，总页数确定后再回填
// "Page N of M"——在装配过程中 M 是未知的。
func Compose(spec trade.DocumentSpec, table *RenderedTable, opts BuildOptions) (*Result, error) {
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	if table == nil || len(table.Boxes) == 0 {
		return nil, fmt.Errorf("缺少可插入的表格")
	}
	margin := opts.margin()
	collector := newPageCollector(margin)

	// 第一页：横幅/标题 + 信息块。表格位置在 PlanBand 阶段已按同一口径算出。
	if _, err := buildFrontMatter(spec, collector.curr(), margin, opts); err != nil {
		return nil, err
	}

	// 表格逐页落位；表格页数可能超过当前已有页数
	for i, box := range table.Boxes {
		for collector.count() <= i {
			collector.newPage()
		}
		collector.at(i).tables = append(collector.at(i).tables, box)
	}
	collector.current = len(table.Boxes) - 1
	noteCursor := table.EndY + blockSpacing

	// 备注：逐条编号，一行一条，空行跳过
	noteCursor, err := buildNotes(spec.Notes, collector, margin, noteCursor, opts)
	if err != nil {
		return nil, err
	}

	// 印章（可选，资源缺失时跳过并告警）
	buildStamp(spec, collector, margin, noteCursor, opts)

	pages := collector.pages()

	// 末段：总页数已知，回填每页右下角的页码
	if err := stampFooters(pages, margin, opts); err != nil {
		return nil, err
	}

	return &Result{
		Pages: pages,
		Meta: DocumentMeta{
			Title:   spec.Title(),
			Subject: spec.PrimaryNumber,
			Creator: "tradedoc",
			Date:    spec.Date,
		},
	}, nil
}

// PlanBand 计算表格可用的纵向区间。第一页的起点在横幅与信息块之后；
// Compose 使用同一套量高逻辑，两处口径保证一致。
func PlanBand(spec trade.DocumentSpec, opts BuildOptions) (Band, error) {
	margin := opts.margin()
	scratch := &pageAccumulator{}
	cursor, err := buildFrontMatter(spec, scratch, margin, opts)
	if err != nil {
		return Band{}, err
	}
	return Band{
		X:        margin.Left,
		FirstTop: cursor,
		Top:      margin.Top,
		Bottom:   PageHeight - margin.Bottom,
	}, nil
}

// buildFrontMatter 在第一页顶部布置横幅（或纯标题）与信息块，
// 返回其后的纵向游标。
func buildFrontMatter(spec trade.DocumentSpec, acc *pageAccumulator, margin Margin, opts BuildOptions) (float64, error) {
	log := opts.logger()
	contentWidth := ContentWidth(margin)
	cursor := margin.Top

	// 横幅：只有显式指定 bilingual/english 才向资源方发起请求；
	// none 与未填写一律视为无横幅，不做任何隐式兜底。
	if key := bannerKey(spec.HeaderType); key != "" && opts.Assets != nil {
		if _, err := opts.Assets.Image(key); err != nil {
			// 横幅缺失可恢复：降级为纯标题页首
			log.Warn("横幅资源不可用，降级为纯标题", zap.String("key", key), zap.Error(err))
		} else {
			acc.images = append(acc.images, ImageBox{
				Key:     key,
				X:       margin.Left,
				Y:       cursor,
				Width:   contentWidth,
				Height:  bannerHeight,
				Opacity: 1,
			})
			cursor += bannerHeight + blockSpacing
		}
	}

	// 居中标题
	title, h, err := composeText(spec.Title(), margin.Left, cursor, contentWidth,
		assets.FontBold, Pt(titleFontSizePt).ToMM(), AlignCenter, opts)
	if err != nil {
		return 0, err
	}
	acc.texts = append(acc.texts, title)
	cursor += h + blockSpacing

	// 标记备注行：紧贴在信息块上方
	if spec.ShowRemark && strings.TrimSpace(spec.Remark) != "" {
		tb, rh, err := composeText(spec.Remark, margin.Left, cursor, contentWidth,
			assets.FontRegular, Pt(bodyFontSizePt).ToMM(), AlignLeft, opts)
		if err != nil {
			return 0, err
		}
		acc.texts = append(acc.texts, tb)
		cursor += rh + blockSpacing
	}

	// 信息块：左列客户与主单号，右列参考号、日期与（显示价格时的）币种
	leftWidth := contentWidth * 0.55
	rightX := margin.Left + contentWidth*0.6
	rightWidth := contentWidth * 0.4

	left := []string{
		"To: " + spec.Counterparty,
		numberLabel(spec.Kind) + " " + spec.PrimaryNumber,
	}
	var right []string
	if spec.SecondaryNumber != "" {
		right = append(right, "Ref: "+spec.SecondaryNumber)
	}
	right = append(right, "Date: "+spec.Date.Format("2006-01-02"))
	if spec.ShowPrice {
		right = append(right, "Currency: "+string(spec.Currency))
	}

	leftCursor := cursor
	for _, line := range left {
		tb, lh, err := composeText(line, margin.Left, leftCursor, leftWidth,
			assets.FontRegular, Pt(bodyFontSizePt).ToMM(), AlignLeft, opts)
		if err != nil {
			return 0, err
		}
		acc.texts = append(acc.texts, tb)
		leftCursor += lh + blockSpacing/2
	}
	rightCursor := cursor
	for _, line := range right {
		tb, lh, err := composeText(line, rightX, rightCursor, rightWidth,
			assets.FontRegular, Pt(bodyFontSizePt).ToMM(), AlignLeft, opts)
		if err != nil {
			return 0, err
		}
		acc.texts = append(acc.texts, tb)
		rightCursor += lh + blockSpacing/2
	}
	if rightCursor > leftCursor {
		leftCursor = rightCursor
	}
	return leftCursor + blockSpacing, nil
}

// buildNotes 把非空备注行排成编号列表，空间不足时换页继续。
func buildNotes(notes string, collector *pageCollector, margin Margin, cursor float64, opts BuildOptions) (float64, error) {
	if strings.TrimSpace(notes) == "" {
		return cursor, nil
	}
	contentWidth := ContentWidth(margin)
	bottom := PageHeight - margin.Bottom

	head, h, err := composeText("Notes:", margin.Left, cursor, contentWidth,
		assets.FontBold, Pt(bodyFontSizePt).ToMM(), AlignLeft, opts)
	if err != nil {
		return 0, err
	}
	if cursor+h > bottom {
		collector.newPage()
		cursor = margin.Top
		head.Y = cursor
	}
	collector.curr().texts = append(collector.curr().texts, head)
	cursor += h + blockSpacing/2

	n := 0
	for _, raw := range strings.Split(notes, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		n++
		tb, lh, err := composeText(fmt.Sprintf("%d. %s", n, line), margin.Left, cursor, contentWidth,
			assets.FontRegular, Pt(bodyFontSizePt).ToMM(), AlignLeft, opts)
		if err != nil {
			return 0, err
		}
		if cursor+lh > bottom {
			collector.newPage()
			cursor = margin.Top
			tb.Y = cursor
		}
		collector.curr().texts = append(collector.curr().texts, tb)
		cursor += lh + blockSpacing/2
	}
	return cursor + blockSpacing, nil
}

// buildStamp 在末页右下内容区放置印章图片；资源缺失时跳过。
func buildStamp(spec trade.DocumentSpec, collector *pageCollector, margin Margin, cursor float64, opts BuildOptions) {
	if opts.Assets == nil {
		return
	}
	var key string
	switch spec.StampType {
	case trade.StampShanghai:
		key = assets.StampShanghai
	case trade.StampHongkong:
		key = assets.StampHongkong
	default:
		return
	}
	if _, err := opts.Assets.Image(key); err != nil {
		opts.logger().Warn("印章资源不可用，已跳过", zap.String("key", key), zap.Error(err))
		return
	}
	bottom := PageHeight - margin.Bottom
	y := cursor
	if y+stampSize > bottom {
		y = bottom - stampSize
	}
	collector.curr().images = append(collector.curr().images, ImageBox{
		Key:     key,
		X:       PageWidth - margin.Right - stampSize,
		Y:       y,
		Width:   stampSize,
		Height:  stampSize,
		Opacity: 0.9,
	})
}

// stampFooters 在所有页面装配完成后回填 "Page N of M"。
func stampFooters(pages []Page, margin Margin, opts BuildOptions) error {
	total := len(pages)
	for i := range pages {
		content := fmt.Sprintf("Page %d of %d", i+1, total)
		tb, _, err := composeText(content, margin.Left, PageHeight-margin.Bottom+footerOffset,
			ContentWidth(margin), assets.FontRegular, Pt(footerFontSize).ToMM(), AlignRight, opts)
		if err != nil {
			return err
		}
		pages[i].Texts = append(pages[i].Texts, tb)
	}
	return nil
}

// composeText 量出一个文本块并返回其总高（mm）。
func composeText(content string, x, y, width float64, fontKey string, fontSize float64, align Align, opts BuildOptions) (TextBox, float64, error) {
	lineHeight := fontSize * tableLineFactor
	lines, err := opts.Typesetter.LayoutLines(content, width, fontKey, fontSize, lineHeight, "anywhere")
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
		X:          x,
		Y:          y,
		Width:      width,
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

// bannerKey 返回横幅对应的资源键；none 或未填写返回空串。
func bannerKey(h trade.HeaderType) string {
	switch h {
	case trade.HeaderBilingual:
		return assets.BannerBilingual
	case trade.HeaderEnglish:
		return assets.BannerEnglish
	default:
		return ""
	}
}

// numberLabel 返回主单号在信息块中的标签。
func numberLabel(kind trade.DocumentKind) string {
	switch kind {
	case trade.Quotation:
		return "Quotation No.:"
	case trade.Confirmation:
		return "S/C No.:"
	case trade.Invoice:
		return "Invoice No.:"
	case trade.Purchase:
		return "Order No.:"
	case trade.Packing:
		return "Invoice No.:"
	default:
		return "No.:"
	}
}

// pageAccumulator 聚集一页的全部元素。
type pageAccumulator struct {
	texts  []TextBox
	images []ImageBox
	tables []TableBox
	lines  []Line
}

// pageCollector 管理页面序列与当前页游标。
type pageCollector struct {
	margin  Margin
	accs    []*pageAccumulator
	current int
}

func newPageCollector(margin Margin) *pageCollector {
	pc := &pageCollector{margin: margin}
	pc.newPage()
	return pc
}

func (pc *pageCollector) newPage() *pageAccumulator {
	acc := &pageAccumulator{}
	pc.accs = append(pc.accs, acc)
	pc.current = len(pc.accs) - 1
	return acc
}

func (pc *pageCollector) count() int { return len(pc.accs) }

func (pc *pageCollector) curr() *pageAccumulator { return pc.accs[pc.current] }

func (pc *pageCollector) at(i int) *pageAccumulator { return pc.accs[i] }

func (pc *pageCollector) pages() []Page {
	out := make([]Page, len(pc.accs))
	for i, acc := range pc.accs {
		out[i] = Page{
			Width:  PageWidth,
			Height: PageHeight,
			Margin: pc.margin,
			Texts:  acc.texts,
			Images: acc.images,
			Tables: acc.tables,
			Lines:  acc.lines,
		}
	}
	return out
}
