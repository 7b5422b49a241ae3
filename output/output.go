package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/itouchgod/tradedoc/layout"
	"github.com/itouchgod/tradedoc/renderer"
)

// Filename 生成输出文件名：{标题}-{单据号}-{日期}.pdf。
// 单据号为空时以 DRAFT 占位。
func Filename(title, primaryNumber string, date time.Time) string {
	number := primaryNumber
	if number == "" {
		number = "DRAFT"
	}
	return fmt.Sprintf("%s-%s-%s.pdf", title, number, date.Format("2006-01-02"))
}

// Artifact 描述已落盘的输出文件。
type Artifact struct {
	Path string
	Size int64
}

// Handle 是预览产物的句柄。产物驻留内存，通过句柄取回或释放；
// 释放后句柄失效。
type Handle struct {
	ID       uuid.UUID
	Filename string

	registry *registry
}

// Bytes 取回预览数据。句柄已释放时返回错误。
func (h *Handle) Bytes() ([]byte, error) {
	data, ok := h.registry.get(h.ID)
	if !ok {
		return nil, fmt.Errorf("预览句柄 %s 已释放或不存在", h.ID)
	}
	return data, nil
}

// Release 释放预览数据。重复释放是无害的。
func (h *Handle) Release() {
	h.registry.drop(h.ID)
}

type registry struct {
	mu    sync.Mutex
	blobs map[uuid.UUID][]byte
}

func (r *registry) put(id uuid.UUID, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.blobs == nil {
		r.blobs = map[uuid.UUID][]byte{}
	}
	r.blobs[id] = data
}

func (r *registry) get(id uuid.UUID) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.blobs[id]
	return data, ok
}

func (r *registry) drop(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.blobs, id)
}

var previews = &registry{}

// EmitOptions 控制产物去向。
type EmitOptions struct {
	// Preview 为真时产物留在内存并返回句柄，不写任何文件。
	Preview bool
	// OutDir 指定落盘目录，为空时用当前目录。
	OutDir string
	// Filename 覆盖自动命名，为空时按 Filename 规则生成。
	Filename string
}

// Emission 是一次输出的结果。Preview 模式填 Handle，否则填 Artifact。
type Emission struct {
	Artifact *Artifact
	Handle   *Handle
}

// Emit 渲染布局结果并按选项输出。序列化只发生一次，
// 预览与落盘共用同一份字节。
func Emit(result *layout.Result, r renderer.Renderer, opts EmitOptions) (*Emission, error) {
	if r == nil {
		return nil, fmt.Errorf("缺少渲染器")
	}
	data, err := r.Render(result)
	if err != nil {
		return nil, fmt.Errorf("渲染失败: %w", err)
	}

	// 文件名中的日期取单据上的业务日期，不读系统时钟
	name := opts.Filename
	if name == "" {
		name = Filename(result.Meta.Title, result.Meta.Subject, result.Meta.Date)
	}

	if opts.Preview {
		id := uuid.New()
		previews.put(id, data)
		return &Emission{Handle: &Handle{ID: id, Filename: name, registry: previews}}, nil
	}

	dir := opts.OutDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	return &Emission{Artifact: &Artifact{Path: path, Size: int64(len(data))}}, nil
}
