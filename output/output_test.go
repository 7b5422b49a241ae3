package output

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/itouchgod/tradedoc/layout"
)

type fakeRenderer struct {
	data []byte
	err  error
}

func (f fakeRenderer) Render(*layout.Result) ([]byte, error) { return f.data, f.err }

func testResult() *layout.Result {
	return &layout.Result{
		Pages: []layout.Page{{Width: layout.PageWidth, Height: layout.PageHeight}},
		Meta: layout.DocumentMeta{
			Title:   "INVOICE",
			Subject: "INV-2026-001",
			Date:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestFilename(t *testing.T) {
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	got := Filename("INVOICE", "INV-2026-001", date)
	want := "INVOICE-INV-2026-001-2026-03-15.pdf"
	if got != want {
		t.Fatalf("文件名不符: got %q want %q", got, want)
	}
}

func TestFilenameDraftFallback(t *testing.T) {
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	got := Filename("QUOTATION", "", date)
	if got != "QUOTATION-DRAFT-2026-03-15.pdf" {
		t.Fatalf("缺单据号时应使用 DRAFT 占位: %q", got)
	}
}

func TestEmitToDisk(t *testing.T) {
	dir := t.TempDir()
	em, err := Emit(testResult(), fakeRenderer{data: []byte("%PDF-fake")}, EmitOptions{OutDir: dir, Filename: "out.pdf"})
	if err != nil {
		t.Fatalf("Emit 失败: %v", err)
	}
	if em.Artifact == nil || em.Handle != nil {
		t.Fatalf("落盘模式应返回 Artifact: %+v", em)
	}
	if em.Artifact.Path != filepath.Join(dir, "out.pdf") {
		t.Fatalf("路径不符: %s", em.Artifact.Path)
	}
	data, err := os.ReadFile(em.Artifact.Path)
	if err != nil {
		t.Fatalf("读取输出失败: %v", err)
	}
	if string(data) != "%PDF-fake" {
		t.Fatalf("文件内容不符: %q", data)
	}
	if em.Artifact.Size != int64(len(data)) {
		t.Fatalf("Size 不符: %d", em.Artifact.Size)
	}
}

func TestEmitPreviewHandle(t *testing.T) {
	em, err := Emit(testResult(), fakeRenderer{data: []byte("%PDF-mem")}, EmitOptions{Preview: true})
	if err != nil {
		t.Fatalf("Emit 失败: %v", err)
	}
	if em.Handle == nil || em.Artifact != nil {
		t.Fatalf("预览模式应返回 Handle: %+v", em)
	}
	data, err := em.Handle.Bytes()
	if err != nil {
		t.Fatalf("取回预览数据失败: %v", err)
	}
	if string(data) != "%PDF-mem" {
		t.Fatalf("预览数据不符: %q", data)
	}

	em.Handle.Release()
	if _, err := em.Handle.Bytes(); err == nil {
		t.Fatal("释放后仍能取回数据")
	}
	// 重复释放不应 panic
	em.Handle.Release()
}

// TestEmitDefaultFilenameUsesDocumentDate 自动命名取单据业务日期，不取系统时钟。
func TestEmitDefaultFilenameUsesDocumentDate(t *testing.T) {
	dir := t.TempDir()
	em, err := Emit(testResult(), fakeRenderer{data: []byte("%PDF-fake")}, EmitOptions{OutDir: dir})
	if err != nil {
		t.Fatalf("Emit 失败: %v", err)
	}
	want := filepath.Join(dir, "INVOICE-INV-2026-001-2024-03-01.pdf")
	if em.Artifact.Path != want {
		t.Fatalf("文件名应使用单据日期: got %s want %s", em.Artifact.Path, want)
	}
}

func TestEmitRendererError(t *testing.T) {
	_, err := Emit(testResult(), fakeRenderer{err: os.ErrInvalid}, EmitOptions{Preview: true})
	if err == nil {
		t.Fatal("渲染失败时应返回错误")
	}
}
