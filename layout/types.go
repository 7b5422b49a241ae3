package layout

import "time"

// 该文件定义布局结果的值类型，供排版计算、渲染与调试 JSON 共用。
// 所有坐标与尺寸均以毫米（mm）为单位，原点在页面左上角。

// Result 保存整份单据排版后的页面与元信息。
type Result struct {
	Pages []Page       `json:"pages"`
	Meta  DocumentMeta `json:"meta"`
}

// DocumentMeta 保存 PDF 元信息。Date 是单据上的业务日期，
// 输出文件名从这里取日期，而不是读系统时钟。
type DocumentMeta struct {
	Title   string    `json:"title"`
	Subject string    `json:"subject"`
	Creator string    `json:"creator"`
	Date    time.Time `json:"date"`
}

// Page 记录页面尺寸、边距与可直接渲染的元素。
type Page struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin Margin  `json:"margin"`

	Texts  []TextBox  `json:"texts"`
	Images []ImageBox `json:"images"`
	Tables []TableBox `json:"tables"`
	Lines  []Line     `json:"lines,omitempty"`
}

// Margin 以毫米为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// TextBox 表示一个已经排好坐标的文本块。
// Font 存放 assets 包的符号键（正文/加粗），由渲染器按键取字节。
type TextBox struct {
	Content    string     `json:"content"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	LineHeight float64    `json:"lineHeight"`
	Font       string     `json:"font"`
	FontSize   float64    `json:"fontSize"`
	Color      Color      `json:"color"`
	Lines      []TextLine `json:"lines"`
	Height     float64    `json:"height"`
	Align      Align      `json:"align,omitempty"`
}

// TextLine 表示排版后的一行文本内容及其宽高。
type TextLine struct {
	Content   string  `json:"content"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	GapBefore float64 `json:"gapBefore,omitempty"`
}

// ImageBox 描述图片位置与尺寸。Key 为 assets 包的符号键。
type ImageBox struct {
	Key     string  `json:"key"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Opacity float64 `json:"opacity"`
}

// TableBox 保存一页内的表格片段：列宽来自 ColumnPlan 的绝对宽度。
type TableBox struct {
	X            float64    `json:"x"`
	Y            float64    `json:"y"`
	Width        float64    `json:"width"`
	ColumnWidths []float64  `json:"columnWidths"`
	Rows         []TableRow `json:"rows"`
	BorderColor  Color      `json:"borderColor"`
}

// TableRow 记录每一行的高度与单元格。
// IsHeading 的行是每页重发的列头带；IsTotal 的行是合计行。
type TableRow struct {
	Y         float64     `json:"y"`
	Height    float64     `json:"height"`
	IsHeading bool        `json:"isHeading"`
	IsTotal   bool        `json:"isTotal"`
	Cells     []TableCell `json:"cells"`
}

// TableCell 复用 TextBox 作为单元格内容。
// Span ≥1，表示该单元格横跨的列数（合计行的 "Total:" 使用合并单元格）。
type TableCell struct {
	Text TextBox `json:"text"`
	Span int     `json:"span,omitempty"`
}

// Line 表示一条线段（信息块分隔线等）。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Align 是文本水平对齐方式。
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)
