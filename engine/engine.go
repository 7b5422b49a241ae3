// Package engine 串联整条管线：校验 → 金额归一 → 布局 → 渲染 → 输出。
package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/itouchgod/tradedoc/assets"
	"github.com/itouchgod/tradedoc/layout"
	"github.com/itouchgod/tradedoc/output"
	"github.com/itouchgod/tradedoc/renderer"
	canvasrenderer "github.com/itouchgod/tradedoc/renderer/canvas"
	"github.com/itouchgod/tradedoc/trade"
	"github.com/itouchgod/tradedoc/units"
)

// Options 控制一次渲染。零值可用：内置渲染器、内置资源、无声日志。
type Options struct {
	// Preview 为真时产物留在内存，通过句柄取回。
	Preview bool
	// OutDir 指定落盘目录。
	OutDir string
	// Filename 覆盖自动命名。
	Filename string
	// Units 单位配置，缺省仅含内置单位。
	Units units.Config
	// Logger 结构化日志，缺省丢弃。
	Logger *zap.Logger
	// Renderer 输出后端，缺省为内置 canvas PDF 渲染器。
	Renderer renderer.Renderer
	// Typesetter 文本测量器。为空且 Renderer 自身可测量时复用 Renderer。
	Typesetter layout.Typesetter
	// Assets 资源提供方，缺省为内置资源。
	Assets layout.AssetProvider
}

type embeddedAssets struct{}

func (embeddedAssets) Font(key string) ([]byte, error)  { return assets.Font(key) }
func (embeddedAssets) Image(key string) ([]byte, error) { return assets.Image(key) }

func (o *Options) fill() error {
	if o.Renderer == nil {
		r := canvasrenderer.NewRenderer(nil)
		o.Renderer = r
		if o.Typesetter == nil {
			o.Typesetter = r
		}
	}
	if o.Typesetter == nil {
		if ts, ok := o.Renderer.(layout.Typesetter); ok {
			o.Typesetter = ts
		} else {
			return fmt.Errorf("缺少文本测量器")
		}
	}
	if o.Assets == nil {
		o.Assets = embeddedAssets{}
	}
	return nil
}

// Render 按给定规格生成单据并输出。
func Render(spec *trade.DocumentSpec, opts Options) (*output.Emission, error) {
	if spec == nil {
		return nil, fmt.Errorf("缺少单据规格")
	}
	if err := opts.fill(); err != nil {
		return nil, err
	}
	if err := trade.Validate(*spec); err != nil {
		return nil, err
	}

	normalized := *spec
	normalized.Items = trade.NormalizeAmounts(spec.Items)

	buildOpts := layout.BuildOptions{
		Typesetter: opts.Typesetter,
		Assets:     opts.Assets,
		Logger:     opts.Logger,
		Margin:     layout.DefaultMargin(),
	}

	band, err := layout.PlanBand(normalized, buildOpts)
	if err != nil {
		return nil, fmt.Errorf("规划版心失败: %w", err)
	}
	plan, err := layout.PlanColumns(normalized.Kind, layout.FlagsOf(normalized), layout.ContentWidth(buildOpts.Margin))
	if err != nil {
		return nil, fmt.Errorf("规划列宽失败: %w", err)
	}
	table, err := layout.BuildTable(normalized.Items, plan, band, layout.TableOptions{
		Units:         opts.Units,
		Currency:      normalized.Currency,
		DimensionUnit: normalized.DimensionUnit,
	}, buildOpts)
	if err != nil {
		return nil, fmt.Errorf("排布表格失败: %w", err)
	}
	result, err := layout.Compose(normalized, table, buildOpts)
	if err != nil {
		return nil, fmt.Errorf("组版失败: %w", err)
	}

	return output.Emit(result, opts.Renderer, output.EmitOptions{
		Preview:  opts.Preview,
		OutDir:   opts.OutDir,
		Filename: opts.Filename,
	})
}

// RenderQuotation 渲染报价单。
func RenderQuotation(spec *trade.DocumentSpec, opts Options) (*output.Emission, error) {
	return renderKind(spec, trade.Quotation, opts)
}

// RenderConfirmation 渲染销售确认书。
func RenderConfirmation(spec *trade.DocumentSpec, opts Options) (*output.Emission, error) {
	return renderKind(spec, trade.Confirmation, opts)
}

// RenderInvoice 渲染发票。
func RenderInvoice(spec *trade.DocumentSpec, opts Options) (*output.Emission, error) {
	return renderKind(spec, trade.Invoice, opts)
}

// RenderPurchaseOrder 渲染采购订单。
func RenderPurchaseOrder(spec *trade.DocumentSpec, opts Options) (*output.Emission, error) {
	return renderKind(spec, trade.Purchase, opts)
}

// RenderPackingList 渲染装箱单。
func RenderPackingList(spec *trade.DocumentSpec, opts Options) (*output.Emission, error) {
	return renderKind(spec, trade.Packing, opts)
}

func renderKind(spec *trade.DocumentSpec, kind trade.DocumentKind, opts Options) (*output.Emission, error) {
	if spec == nil {
		return nil, fmt.Errorf("缺少单据规格")
	}
	if spec.Kind != kind {
		return nil, fmt.Errorf("单据类型不符: 期望 %s，实际 %s", kind, spec.Kind)
	}
	return Render(spec, opts)
}
