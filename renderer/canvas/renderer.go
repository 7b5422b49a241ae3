package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"strings"
	"sync"
	"unicode"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/itouchgod/tradedoc/assets"
	"github.com/itouchgod/tradedoc/layout"
	"github.com/itouchgod/tradedoc/renderer"
)

const tableBorderWidth = 0.2

// Renderer 基于 github.com/tdewolff/canvas 绘制布局结果并输出 PDF。
// 字体与图片一律通过 AssetProvider 按符号键取用；字体族按键缓存，
// 首次加载后只读。
type Renderer struct {
	provider layout.AssetProvider

	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// NewRenderer 创建渲染器。provider 为空时使用内置资源。
func NewRenderer(provider layout.AssetProvider) *Renderer {
	if provider == nil {
		provider = embeddedProvider{}
	}
	return &Renderer{
		provider:     provider,
		fontFamilies: map[string]*canvas.FontFamily{},
	}
}

// embeddedProvider 直接转接 assets 包的内置资源。
type embeddedProvider struct{}

func (embeddedProvider) Font(key string) ([]byte, error)  { return assets.Font(key) }
func (embeddedProvider) Image(key string) ([]byte, error) { return assets.Image(key) }

// Render 把布局结果渲染成 PDF 字节切片。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	writer.SetInfo(result.Meta.Title, result.Meta.Subject, "", "", result.Meta.Creator)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if err := r.drawPage(ctx, page); err != nil {
			return nil, err
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page) error {
	for _, ln := range page.Lines {
		w := ln.Width
		if w <= 0 {
			w = tableBorderWidth
		}
		ctx.SetStrokeColor(colorFromLayout(ln.Color))
		ctx.SetStrokeWidth(w)
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
		ctx.DrawPath(ln.X1, ln.Y1, p)
	}
	for _, tb := range page.Texts {
		if err := r.drawTextBox(ctx, tb); err != nil {
			return err
		}
	}
	if err := r.drawImages(ctx, page.Images); err != nil {
		return err
	}
	return r.drawTables(ctx, page.Tables)
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox) error {
	// TextBox 的坐标/字号/行高均为 mm；创建字体面需要 pt，这里做一次 mm→pt。
	face, err := r.fontFace(tb.Font, toPt(tb.FontSize), tb.Color)
	if err != nil {
		return err
	}

	lines := tb.Lines
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: tb.Content, Width: tb.Width, Height: tb.LineHeight}}
	}

	var textAlign canvas.TextAlign
	var anchorX float64
	switch tb.Align {
	case layout.AlignCenter:
		textAlign = canvas.Center
		anchorX = tb.X + tb.Width/2
	case layout.AlignRight:
		textAlign = canvas.Right
		anchorX = tb.X + tb.Width
	default:
		textAlign = canvas.Left
		anchorX = tb.X
	}

	cursorY := tb.Y
	for _, line := range lines {
		cursorY += line.GapBefore
		textLine := canvas.NewTextLine(face, line.Content, textAlign)

		lineHeight := line.Height
		if lineHeight <= 0 {
			lineHeight = tb.LineHeight
		}

		// 基线位置：行顶部（mm）加上字体上升部
		metrics := face.Metrics()
		ctx.DrawText(anchorX, cursorY+metrics.Ascent, textLine)
		cursorY += lineHeight
	}
	return nil
}

func (r *Renderer) drawImages(ctx *canvas.Context, images []layout.ImageBox) error {
	for _, img := range images {
		if img.Key == "" {
			continue
		}
		blob, err := r.provider.Image(img.Key)
		if err != nil {
			return err
		}
		decoded, _, err := image.Decode(bytes.NewReader(blob))
		if err != nil {
			return fmt.Errorf("解码图片 %s 失败: %w", img.Key, err)
		}
		width := img.Width
		if width <= 0 {
			width = 40
		}
		dpmm := float64(decoded.Bounds().Dx()) / width
		if dpmm <= 0 {
			dpmm = 1
		}
		ctx.DrawImage(img.X, img.Y, decoded, canvas.DPMM(dpmm))
	}
	return nil
}

// drawTables 绘制表格：合并单元格（Span>1）按列宽前缀和横跨。
func (r *Renderer) drawTables(ctx *canvas.Context, tables []layout.TableBox) error {
	for _, table := range tables {
		if len(table.ColumnWidths) == 0 {
			continue
		}
		for _, row := range table.Rows {
			x := table.X
			col := 0
			for _, cell := range row.Cells {
				span := cell.Span
				if span < 1 {
					span = 1
				}
				width := 0.0
				for i := 0; i < span && col+i < len(table.ColumnWidths); i++ {
					width += table.ColumnWidths[col+i]
				}

				fill := canvas.White
				if row.IsHeading {
					fill = canvas.Hex("#f8f8f8")
				} else if row.IsTotal {
					fill = canvas.Hex("#fcfcf4")
				}
				ctx.SetFillColor(fill)
				ctx.SetStrokeColor(colorFromLayout(table.BorderColor))
				ctx.SetStrokeWidth(tableBorderWidth)
				ctx.DrawPath(x, row.Y, canvas.Rectangle(width, row.Height))

				textBox := cell.Text
				textBox.X += tableBorderWidth
				textBox.Y += tableBorderWidth
				if err := r.drawTextBox(ctx, textBox); err != nil {
					return err
				}
				x += width
				col += span
			}
		}
	}
	return nil
}

// LayoutLines 实现 layout.Typesetter 接口，使用贪心换行算法。
// 约定：fontSize/lineHeight 入参均为毫米（mm）。
func (r *Renderer) LayoutLines(content string, width float64, fontKey string, fontSize, lineHeight float64, wrap string) ([]layout.TextLine, error) {
	face, err := r.fontFace(fontKey, toPt(fontSize), layout.Color{R: 30, G: 30, B: 30})
	if err != nil {
		return nil, err
	}

	lines := greedyWrap(content, width, face, wrap)
	textHeight := face.Metrics().LineHeight
	if textHeight <= 0 {
		textHeight = lineHeight
	}
	leading := math.Max(lineHeight-textHeight, 0)
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: "", Width: 0, Height: textHeight}}
	}
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = textHeight
		}
		if i == 0 {
			lines[i].GapBefore = 0
		} else {
			lines[i].GapBefore = leading
		}
	}
	return lines, nil
}

// fontFace 按符号键解析字体面。正文常规字体不可用属致命错误：
// 绝不在零字形的状态下渲染。加粗字体缺失时回退到常规字体。
func (r *Renderer) fontFace(fontKey string, sizePt float64, col layout.Color) (*canvas.FontFace, error) {
	if fontKey == "" {
		fontKey = assets.FontRegular
	}
	family, err := r.ensureFontFamily(fontKey)
	if err != nil {
		if fontKey != assets.FontRegular {
			family, err = r.ensureFontFamily(assets.FontRegular)
		}
		if err != nil {
			return nil, fmt.Errorf("没有任何可用字体: %w", err)
		}
	}
	style := canvas.FontRegular
	if fontKey == assets.FontBold {
		style = canvas.FontBold
	}
	return family.Face(sizePt, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(fontKey string) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[fontKey]; ok {
		return family, nil
	}
	data, err := r.provider.Font(fontKey)
	if err != nil {
		return nil, err
	}
	style := canvas.FontRegular
	if fontKey == assets.FontBold {
		style = canvas.FontBold
	}
	family := canvas.NewFontFamily(fontKey)
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, fmt.Errorf("装载字体 %s 失败: %w", fontKey, err)
	}
	r.fontFamilies[fontKey] = family
	return family, nil
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return layout.Mm(mm).ToPT() }

// greedyWrap 贪心换行：优先在空白处分割，超过限制时在词内拆分。
// nowrap 模式仅按显式换行划分。
func greedyWrap(content string, width float64, face *canvas.FontFace, wrap string) []layout.TextLine {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	if wrap == "nowrap" {
		parts := strings.Split(content, "\n")
		lines := make([]layout.TextLine, 0, len(parts))
		for _, p := range parts {
			lines = append(lines, layout.TextLine{Content: p, Width: face.TextWidth(p)})
		}
		return lines
	}

	tokens := tokenizeContent(content)
	var lines []layout.TextLine
	var builder strings.Builder
	currentWidth := 0.0

	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, layout.TextLine{Content: "", Width: 0})
			}
			return
		}
		lines = append(lines, layout.TextLine{Content: builder.String(), Width: currentWidth})
		builder.Reset()
		currentWidth = 0
	}

	appendToken := func(token string) {
		builder.WriteString(token)
		currentWidth += face.TextWidth(token)
	}

	for _, token := range tokens {
		if token == "\n" {
			emit(true)
			continue
		}

		tokenWidth := face.TextWidth(token)
		if currentWidth > 0 && currentWidth+tokenWidth > limit {
			emit(false)
		}
		if tokenWidth <= limit {
			appendToken(token)
			if currentWidth > limit {
				emit(false)
			}
			continue
		}

		for _, chunk := range splitTokenByWidth(token, limit, face) {
			chunkWidth := face.TextWidth(chunk)
			if currentWidth > 0 && currentWidth+chunkWidth > limit {
				emit(false)
			}
			appendToken(chunk)
			if currentWidth > limit {
				emit(false)
			}
		}
	}

	emit(true)
	return lines
}

func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitTokenByWidth(token string, limit float64, face *canvas.FontFace) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var builder strings.Builder
	for _, r := range token {
		builder.WriteRune(r)
		if face.TextWidth(builder.String()) > limit && builder.Len() > 1 {
			runes := []rune(builder.String())
			parts = append(parts, string(runes[:len(runes)-1]))
			builder.Reset()
			builder.WriteRune(r)
		}
	}
	if builder.Len() > 0 {
		parts = append(parts, builder.String())
	}
	return parts
}
