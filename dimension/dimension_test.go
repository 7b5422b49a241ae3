package dimension

import "testing"

func TestParseBasicForms(t *testing.T) {
	cases := []struct {
		in   string
		vals []float64
		unit Unit
	}{
		{"30×40×50cm", []float64{30, 40, 50}, CM},
		{"30 x 40 x 50 mm", []float64{30, 40, 50}, MM},
		{"20*35", []float64{20, 35}, Unit("")},
		{"12.5×40cm", []float64{12.5, 40}, CM},
	}
	for _, tc := range cases {
		d, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("解析 %q 失败: %v", tc.in, err)
		}
		if d.Unit != tc.unit {
			t.Fatalf("%q 单位期望 %q，实际 %q", tc.in, tc.unit, d.Unit)
		}
		if len(d.Values) != len(tc.vals) {
			t.Fatalf("%q 维度数期望 %d，实际 %d", tc.in, len(tc.vals), len(d.Values))
		}
		for i, v := range tc.vals {
			if d.Values[i] != v {
				t.Fatalf("%q 第 %d 维期望 %g，实际 %g", tc.in, i, v, d.Values[i])
			}
		}
	}
}

func TestParseRejectsFreeText(t *testing.T) {
	for _, in := range []string{"", "按客户要求", "30", "1×2×3×4cm"} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("%q 应当解析失败", in)
		}
	}
}

func TestConvert(t *testing.T) {
	d := Dims{Values: []float64{30, 40, 50}, Unit: CM}
	mm := d.Convert(MM)
	if mm.String() != "300×400×500mm" {
		t.Fatalf("cm→mm 期望 300×400×500mm，实际 %q", mm.String())
	}
	back := mm.Convert(CM)
	if back.String() != "30×40×50cm" {
		t.Fatalf("mm→cm 期望 30×40×50cm，实际 %q", back.String())
	}
	// 未标注单位：只补写单位，不缩放
	anon := Dims{Values: []float64{20, 35}}
	if got := anon.Convert(MM).String(); got != "20×35mm" {
		t.Fatalf("无单位换算期望 20×35mm，实际 %q", got)
	}
}

// TestDisplayFallsBackVerbatim 解析失败时原样展示。
func TestDisplayFallsBackVerbatim(t *testing.T) {
	if got := Display("按客户要求", MM); got != "按客户要求" {
		t.Fatalf("自由文本应原样返回，实际 %q", got)
	}
	if got := Display("30×40×50cm", MM); got != "300×400×500mm" {
		t.Fatalf("期望 300×400×500mm，实际 %q", got)
	}
	if got := Display("  ", MM); got != "" {
		t.Fatalf("空白输入期望空串，实际 %q", got)
	}
}
