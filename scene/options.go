package scene

// BuildOptions 配置场景构建：根视口尺寸与调试输出。
type BuildOptions struct {
	// Width/Height 为根视口尺寸（px），作为 source 未声明 viewport/cross 时的默认值。
	Width  float64
	Height float64
	Debug  DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	RawUnits bool // 在结果 JSON 中输出 debug.rawUnits 影子字段
}
