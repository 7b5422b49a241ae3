package layout

import "go.uber.org/zap"

// 页面几何常量：单据固定使用 A4 纵向，单位 mm。
const (
	PageWidth  = 210.0
	PageHeight = 297.0
)

// DefaultMargin 是单据的默认页边距。
func DefaultMargin() Margin {
	return Margin{Top: 15, Right: 15, Bottom: 18, Left: 15}
}

// ContentWidth 返回可排版内容宽度。
func ContentWidth(m Margin) float64 { return PageWidth - m.Left - m.Right }

// Typesetter 负责按字体与宽度约束将文本拆成可绘制的行。
// fontKey 为 assets 包的符号键；所有长度入参与返回值均为 mm。
type Typesetter interface {
	LayoutLines(content string, width float64, fontKey string, fontSize, lineHeight float64, wrap string) ([]TextLine, error)
}

// AssetProvider 以符号键提供字体与图片字节。
// compose 阶段只在需要横幅/印章时请求图片；headerType 为 none 时不会发起请求。
type AssetProvider interface {
	Font(key string) ([]byte, error)
	Image(key string) ([]byte, error)
}

// BuildOptions 配置布局阶段所需的依赖：排版后端、资源提供方与日志。
// 显式传参，不读取任何环境态。
type BuildOptions struct {
	Typesetter Typesetter
	Assets     AssetProvider
	Logger     *zap.Logger
	Margin     Margin
}

func (o BuildOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o BuildOptions) margin() Margin {
	if o.Margin == (Margin{}) {
		return DefaultMargin()
	}
	return o.Margin
}
