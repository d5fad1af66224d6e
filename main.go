package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ByLCY/parallax/dsl"
	"github.com/ByLCY/parallax/scene"
)

func main() {
	input := flag.String("in", "examples/demo.scene", "场景文件路径")
	output := flag.String("out", "output/frames.json", "逐帧布局 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到场景的 JSON 数据")
	width := flag.Float64("width", 0, "根视口宽度（px），source 未声明时使用")
	height := flag.Float64("height", 0, "根视口高度（px），source 未声明时使用")
	debugRawUnits := flag.Bool("debug-raw-units", false, "在输出中附带 debug.rawUnits 影子字段")
	verbose := flag.Bool("verbose", false, "逐帧打印重算情况")
	flag.Parse()

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	opts := scene.BuildOptions{
		Width:  *width,
		Height: *height,
		Debug:  scene.DebugOptions{RawUnits: *debugRawUnits},
	}
	res, err := run(*input, *output, inputData, opts)
	if err != nil {
		log.Fatalf("生成帧数据失败: %v", err)
	}
	if *verbose {
		logFrames(res)
	}
	fmt.Printf("已生成帧数据：%s（%d 帧）\n", *output, len(res.Frames))
}

// run 串联解析、构建、回放与输出。
func run(inputPath, outputPath string, data any, opts scene.BuildOptions) (*scene.Result, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("无法打开场景文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("解析场景失败: %w", err)
	}

	s, err := scene.Build(doc, data, opts)
	if err != nil {
		return nil, fmt.Errorf("构建场景失败: %w", err)
	}
	res, err := s.Run()
	if err != nil {
		return nil, fmt.Errorf("回放场景失败: %w", err)
	}

	if err := writeOutput(res, outputPath); err != nil {
		return nil, err
	}
	return res, nil
}

// writeOutput 创建输出目录并写出逐帧 JSON。
func writeOutput(res *scene.Result, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("无法创建输出文件 %s: %w", path, err)
	}
	if err := res.WriteJSON(out); err != nil {
		out.Close()
		return fmt.Errorf("输出 JSON 失败: %w", err)
	}
	return out.Close()
}

func logFrames(res *scene.Result) {
	for _, f := range res.Frames {
		for _, lf := range f.Layers {
			state := "cached"
			if lf.Recomputed {
				state = "recomputed"
			}
			log.Printf("frame %d %s@%g %s: ratio=%.4f offset=(%.2f, %.2f) %s",
				f.Index, f.Source, f.Offset, lf.Name, lf.Layout.Ratio.Value,
				lf.Layout.ChildOffset.X, lf.Layout.ChildOffset.Y, state)
		}
	}
}
