package layout

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/itouchgod/tradedoc/money"
	"github.com/itouchgod/tradedoc/trade"
)

// stubAssets 记录每一次资源请求，用于断言"从不请求横幅"这类属性。
type stubAssets struct {
	imageCalls []string
	fontCalls  []string
	missing    map[string]bool
}

func (s *stubAssets) Font(key string) ([]byte, error) {
	s.fontCalls = append(s.fontCalls, key)
	if s.missing[key] {
		return nil, fmt.Errorf("资源 %s 不存在", key)
	}
	return []byte("font"), nil
}

func (s *stubAssets) Image(key string) ([]byte, error) {
	s.imageCalls = append(s.imageCalls, key)
	if s.missing[key] {
		return nil, fmt.Errorf("资源 %s 不存在", key)
	}
	return []byte("image"), nil
}

func composeSpec() trade.DocumentSpec {
	return trade.DocumentSpec{
		Kind:          trade.Invoice,
		Currency:      money.USD,
		HeaderType:    trade.HeaderBilingual,
		Counterparty:  "ACME Trading Co.",
		PrimaryNumber: "INV-2024-001",
		Date:          time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ShowPrice:     true,
		Items: []trade.LineItem{
			{Description: "Widget", Quantity: 2, Unit: "pc", UnitPrice: decimal.NewFromFloat(10)},
		},
	}
}

func composeDoc(t *testing.T, spec trade.DocumentSpec, provider AssetProvider) *Result {
	t.Helper()
	opts := BuildOptions{Typesetter: &stubTypesetter{}, Assets: provider}
	band, err := PlanBand(spec, opts)
	if err != nil {
		t.Fatalf("计算表格区间失败: %v", err)
	}
	plan, err := PlanColumns(spec.Kind, FlagsOf(spec), ContentWidth(opts.margin()))
	if err != nil {
		t.Fatalf("规划列失败: %v", err)
	}
	topts := TableOptions{Units: testUnits(t), Currency: spec.Currency, DimensionUnit: spec.DimensionUnit}
	table, err := BuildTable(trade.NormalizeAmounts(spec.Items), plan, band, topts, opts)
	if err != nil {
		t.Fatalf("构建表格失败: %v", err)
	}
	res, err := Compose(spec, table, opts)
	if err != nil {
		t.Fatalf("组装失败: %v", err)
	}
	return res
}

// TestComposeBannerRequested 有横幅时请求对应资源并放置图片。
func TestComposeBannerRequested(t *testing.T) {
	provider := &stubAssets{}
	res := composeDoc(t, composeSpec(), provider)
	// PlanBand 与 Compose 各探测一次横幅资源
	if len(provider.imageCalls) == 0 {
		t.Fatalf("应请求横幅资源")
	}
	for _, key := range provider.imageCalls {
		if key != "banner-bilingual" {
			t.Fatalf("只应请求 banner-bilingual，实际 %v", provider.imageCalls)
		}
	}
	if len(res.Pages) == 0 || len(res.Pages[0].Images) != 1 {
		t.Fatalf("第一页应放置横幅图片")
	}
}

// TestComposeHeaderNoneNeverRequestsBanner headerType=none 时从不请求横幅资源。
func TestComposeHeaderNoneNeverRequestsBanner(t *testing.T) {
	spec := composeSpec()
	spec.HeaderType = trade.HeaderNone
	provider := &stubAssets{}
	res := composeDoc(t, spec, provider)
	if len(provider.imageCalls) != 0 {
		t.Fatalf("headerType=none 不应请求任何图片资源，实际 %v", provider.imageCalls)
	}
	if len(res.Pages[0].Images) != 0 {
		t.Fatalf("headerType=none 不应放置任何图片")
	}
	// 标题仍然居中绘制
	found := false
	for _, tb := range res.Pages[0].Texts {
		if tb.Content == "INVOICE" && tb.Align == AlignCenter {
			found = true
		}
	}
	if !found {
		t.Fatalf("应有居中标题 INVOICE")
	}
}

// TestComposeHeaderEmptyTreatedAsNone 未填写 headerType 等同 none：
// 不请求横幅资源，也不隐式回退到双语横幅。
func TestComposeHeaderEmptyTreatedAsNone(t *testing.T) {
	spec := composeSpec()
	spec.HeaderType = ""
	provider := &stubAssets{}
	res := composeDoc(t, spec, provider)
	if len(provider.imageCalls) != 0 {
		t.Fatalf("headerType 未填写时不应请求任何图片资源，实际 %v", provider.imageCalls)
	}
	if len(res.Pages[0].Images) != 0 {
		t.Fatalf("headerType 未填写时不应放置任何图片")
	}
}

// TestComposeBannerMissingFallsBack 横幅资源缺失降级为纯标题，不报错。
func TestComposeBannerMissingFallsBack(t *testing.T) {
	provider := &stubAssets{missing: map[string]bool{"banner-bilingual": true}}
	res := composeDoc(t, composeSpec(), provider)
	if len(res.Pages[0].Images) != 0 {
		t.Fatalf("横幅缺失时不应放置图片")
	}
	found := false
	for _, tb := range res.Pages[0].Texts {
		if tb.Content == "INVOICE" {
			found = true
		}
	}
	if !found {
		t.Fatalf("应降级为纯标题")
	}
}

// TestComposeFooterOnEveryPage 每页右下角有 "Page N of M"，M 为总页数。
func TestComposeFooterOnEveryPage(t *testing.T) {
	spec := composeSpec()
	items := make([]trade.LineItem, 120)
	for i := range items {
		items[i] = trade.LineItem{Description: "Item", Quantity: 1, Unit: "pc", UnitPrice: decimal.NewFromInt(1)}
	}
	spec.Items = items
	res := composeDoc(t, spec, &stubAssets{})
	total := len(res.Pages)
	if total < 2 {
		t.Fatalf("120 行应跨多页，实际 %d 页", total)
	}
	for i, page := range res.Pages {
		want := fmt.Sprintf("Page %d of %d", i+1, total)
		found := false
		for _, tb := range page.Texts {
			if tb.Content == want && tb.Align == AlignRight {
				found = true
			}
		}
		if !found {
			t.Fatalf("第 %d 页缺少页码 %q", i+1, want)
		}
	}
}

// TestComposeNotesNumbered 备注逐条编号，空行跳过。
func TestComposeNotesNumbered(t *testing.T) {
	spec := composeSpec()
	spec.Notes = "货物完好\n\n三十日内付款\n"
	res := composeDoc(t, spec, &stubAssets{})
	last := res.Pages[len(res.Pages)-1]
	var notes []string
	for _, tb := range last.Texts {
		if strings.HasPrefix(tb.Content, "1. ") || strings.HasPrefix(tb.Content, "2. ") {
			notes = append(notes, tb.Content)
		}
	}
	want := []string{"1. 货物完好", "2. 三十日内付款"}
	if !reflect.DeepEqual(notes, want) {
		t.Fatalf("备注期望 %v，实际 %v", want, notes)
	}
}

// TestComposeInfoBlock 信息块左右两列内容齐全。
func TestComposeInfoBlock(t *testing.T) {
	res := composeDoc(t, composeSpec(), &stubAssets{})
	contents := map[string]bool{}
	for _, tb := range res.Pages[0].Texts {
		contents[tb.Content] = true
	}
	for _, want := range []string{
		"To: ACME Trading Co.",
		"Invoice No.: INV-2024-001",
		"Date: 2024-03-01",
		"Currency: USD",
	} {
		if !contents[want] {
			t.Fatalf("第一页缺少信息块文本 %q", want)
		}
	}
}

// TestComposeStamp 指定印章时在末页放置印章图片。
func TestComposeStamp(t *testing.T) {
	spec := composeSpec()
	spec.StampType = trade.StampShanghai
	provider := &stubAssets{}
	res := composeDoc(t, spec, provider)
	last := res.Pages[len(res.Pages)-1]
	found := false
	for _, img := range last.Images {
		if img.Key == "stamp-shanghai" {
			found = true
		}
	}
	if !found {
		t.Fatalf("末页应放置印章图片")
	}
}

// TestComposeDeterministic 同一输入两次组装得到完全一致的布局。
func TestComposeDeterministic(t *testing.T) {
	a := composeDoc(t, composeSpec(), &stubAssets{})
	b := composeDoc(t, composeSpec(), &stubAssets{})
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("两次组装结果不一致")
	}
}
