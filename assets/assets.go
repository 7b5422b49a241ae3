// Package assets 内置单据渲染所需的字体与图片资源，按符号键取用。
//
// 键表是封闭的：横幅两种、印章两种、正文字体常规/加粗各一。
// 资源首次读取后冻结缓存，之后只读，可被并发渲染安全共享。
package assets

import (
	"embed"
	"fmt"
	"sync"
)

//go:embed fonts/*.ttf
var fontFS embed.FS

//go:embed images/*.png
var imageFS embed.FS

// 符号键表。调用方只允许使用这些键。
const (
	BannerBilingual = "banner-bilingual"
	BannerEnglish   = "banner-english"
	StampShanghai   = "stamp-shanghai"
	StampHongkong   = "stamp-hongkong"
	FontRegular     = "body-font-regular"
	FontBold        = "body-font-bold"
)

var fontFiles = map[string]string{
	FontRegular: "fonts/NotoSansSC-Regular.ttf",
	FontBold:    "fonts/NotoSansSC-Bold.ttf",
}

var imageFiles = map[string]string{
	BannerBilingual: "images/banner-bilingual.png",
	BannerEnglish:   "images/banner-english.png",
	StampShanghai:   "images/stamp-shanghai.png",
	StampHongkong:   "images/stamp-hongkong.png",
}

// LoadError 表示按键取资源失败（键不在表内或资源读取失败）。
// 横幅图片缺失可降级为纯标题页首；正文字体缺失则无法渲染，属致命错误。
type LoadError struct {
	Key string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("资源 %s 加载失败: %v", e.Key, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

var (
	cacheMu sync.Mutex
	cache   = map[string][]byte{}
)

// Font 返回正文字体的字节数据。首次读取后缓存冻结。
func Font(key string) ([]byte, error) {
	path, ok := fontFiles[key]
	if !ok {
		return nil, &LoadError{Key: key, Err: fmt.Errorf("未知的字体键")}
	}
	return load(key, func() ([]byte, error) { return fontFS.ReadFile(path) })
}

// Image 返回横幅或印章图片的字节数据。首次读取后缓存冻结。
func Image(key string) ([]byte, error) {
	path, ok := imageFiles[key]
	if !ok {
		return nil, &LoadError{Key: key, Err: fmt.Errorf("未知的图片键")}
	}
	return load(key, func() ([]byte, error) { return imageFS.ReadFile(path) })
}

func load(key string, read func() ([]byte, error)) ([]byte, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if data, ok := cache[key]; ok {
		return data, nil
	}
	data, err := read()
	if err != nil {
		return nil, &LoadError{Key: key, Err: err}
	}
	cache[key] = data
	return data, nil
}
