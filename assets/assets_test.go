package assets

import (
	"errors"
	"testing"
)

func TestFontUnknownKey(t *testing.T) {
	_, err := Font("no-such-font")
	if err == nil {
		t.Fatal("未知键应返回错误")
	}
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("错误类型不符: %T", err)
	}
	if le.Key != "no-such-font" {
		t.Fatalf("错误应携带键名: %q", le.Key)
	}
}

func TestImageUnknownKey(t *testing.T) {
	_, err := Image("banner-french")
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("未知图片键应返回 LoadError: %v", err)
	}
}

func TestKeyTablesClosed(t *testing.T) {
	for _, key := range []string{FontRegular, FontBold} {
		if _, ok := fontFiles[key]; !ok {
			t.Fatalf("字体键 %s 不在键表中", key)
		}
	}
	for _, key := range []string{BannerBilingual, BannerEnglish, StampShanghai, StampHongkong} {
		if _, ok := imageFiles[key]; !ok {
			t.Fatalf("图片键 %s 不在键表中", key)
		}
	}
}
