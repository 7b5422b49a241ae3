package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/itouchgod/tradedoc/engine"
	"github.com/itouchgod/tradedoc/trade"
	"github.com/itouchgod/tradedoc/units"
)

func main() {
	input := flag.String("in", "examples/invoice.json", "单据规格 JSON 文件路径")
	outDir := flag.String("out", "output", "PDF 输出目录")
	preview := flag.Bool("preview", false, "只在内存中生成，不落盘")
	customUnits := flag.String("units", "", "自定义单位，逗号分隔")
	verbose := flag.Bool("v", false, "输出布局警告日志")
	flag.Parse()

	if err := run(*input, *outDir, *preview, *customUnits, *verbose); err != nil {
		log.Fatalf("生成单据失败: %v", err)
	}
}

// run 串联读取、校验与渲染。
func run(inputPath, outDir string, preview bool, customUnits string, verbose bool) error {
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("无法读取规格文件 %s: %w", inputPath, err)
	}

	var spec trade.DocumentSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return fmt.Errorf("解析规格 JSON 失败: %w", err)
	}

	var custom []string
	if customUnits != "" {
		for _, u := range strings.Split(customUnits, ",") {
			if u = strings.TrimSpace(u); u != "" {
				custom = append(custom, u)
			}
		}
	}
	unitCfg, err := units.NewConfig(custom...)
	if err != nil {
		return fmt.Errorf("单位配置无效: %w", err)
	}

	logger := zap.NewNop()
	if verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("初始化日志失败: %w", err)
		}
		defer logger.Sync()
	}

	em, err := engine.Render(&spec, engine.Options{
		Preview: preview,
		OutDir:  outDir,
		Units:   unitCfg,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	if preview {
		data, err := em.Handle.Bytes()
		if err != nil {
			return err
		}
		defer em.Handle.Release()
		fmt.Printf("已生成预览：%s（%d 字节，句柄 %s）\n", em.Handle.Filename, len(data), em.Handle.ID)
		return nil
	}
	fmt.Printf("已生成 PDF：%s（%d 字节）\n", em.Artifact.Path, em.Artifact.Size)
	return nil
}
