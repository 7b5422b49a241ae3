// Package dimension 解析行项目中的尺寸文本（如 "30×40×50cm"），
// 用于在 cm/mm 两种显示单位之间换算。
//
// 尺寸文本来自人工录入，允许任意自由文本；解析失败时调用方应
// 原样展示，换算只是尽力而为。
package dimension

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Unit 表示尺寸的显示单位。
type Unit string

const (
	CM Unit = "cm"
	MM Unit = "mm"
)

var (
	dimLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t]+`},
		{Name: "Unit", Pattern: `(?:mm|cm|MM|CM)`},
		{Name: "Number", Pattern: `\d+(?:\.\d+)?`},
		{Name: "Times", Pattern: `[x×X*]`},
	})

	dimParser = participle.MustBuild[expr](
		participle.Lexer(dimLexer),
		participle.Elide("Whitespace"),
	)
)

// expr 是尺寸文本的 AST：二至三个数值以乘号连接，可选单位后缀。
type expr struct {
	First string   `parser:"@Number"`
	Rest  []string `parser:"( Times @Number )+"`
	Unit  string   `parser:"@Unit?"`
}

// Dims 保存解析后的尺寸数值与单位。Unit 为空表示原文未标注单位。
type Dims struct {
	Values []float64
	Unit   Unit
}

// Parse 按「数 × 数 [× 数] [单位]」解析尺寸文本。
func Parse(text string) (Dims, error) {
	ast, err := dimParser.ParseString("", strings.TrimSpace(text))
	if err != nil {
		return Dims{}, fmt.Errorf("尺寸文本 %q 无法解析: %w", text, err)
	}
	raw := append([]string{ast.First}, ast.Rest...)
	if len(raw) > 3 {
		return Dims{}, fmt.Errorf("尺寸文本 %q 的维度超过三个", text)
	}
	d := Dims{Unit: Unit(strings.ToLower(ast.Unit))}
	for _, s := range raw {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Dims{}, fmt.Errorf("尺寸数值 %q 无法解析: %w", s, err)
		}
		d.Values = append(d.Values, v)
	}
	return d, nil
}

// Convert 把尺寸换算到目标单位。未标注单位的尺寸视为已处于目标单位，
// 仅补写单位标注，不做缩放。
func (d Dims) Convert(target Unit) Dims {
	out := Dims{Unit: target, Values: make([]float64, len(d.Values))}
	factor := 1.0
	switch {
	case d.Unit == CM && target == MM:
		factor = 10
	case d.Unit == MM && target == CM:
		factor = 0.1
	}
	for i, v := range d.Values {
		out.Values[i] = v * factor
	}
	return out
}

// String 以 "30×40×50cm" 的形式重排尺寸。
func (d Dims) String() string {
	parts := make([]string, len(d.Values))
	for i, v := range d.Values {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, "×") + string(d.Unit)
}

// Display 将任意尺寸文本尽力换算到目标单位；解析失败则原样返回。
func Display(text string, target Unit) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	d, err := Parse(text)
	if err != nil {
		return text
	}
	return d.Convert(target).String()
}
