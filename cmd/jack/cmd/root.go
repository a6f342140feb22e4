// Package cmd 实现 jack 命令行工具
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tangzhangming/jack/internal/config"
)

var (
	cfgFile string
	verbose bool

	// 由 PersistentPreRunE 初始化
	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "jack",
	Short: "Jack 语法树工具",
	Long: `jack 处理以 JSON 或 YAML 转储的 Jack 语法树。

命令：
  fmt      打印类似源代码的文本
  convert  在 JSON 与 YAML 之间转换
  hash     计算结构哈希与指纹
  stats    节点统计
  outline  输出编辑器大纲（LSP DocumentSymbol）
  store    内容寻址的树存储`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) { _ = logger.Sync() },
}

// Execute 执行根命令
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件（默认向上查找 jack.toml）")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")
}

// setup 加载配置并创建日志器
func setup(cmd *cobra.Command, args []string) error {
	var (
		path string
		err  error
	)
	if cfgFile != "" {
		path = cfgFile
		cfg, err = config.Load(cfgFile)
	} else {
		dir, _ := os.Getwd()
		cfg, path, err = config.LoadOrDefault(dir)
	}
	if err != nil {
		return err
	}

	logCfg := cfg.Log
	if verbose {
		logCfg.Level = "debug"
		logCfg.Development = true
	}
	l, err := logCfg.NewLogger()
	if err != nil {
		return err
	}
	logger = l

	if path != "" {
		logger.Debug("config loaded", zap.String("path", path))
	}
	return nil
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "错误: %s: %v\n", msg, err)
}
