package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.lsp.dev/uri"

	"github.com/tangzhangming/jack/internal/formatter"
	"github.com/tangzhangming/jack/internal/outline"
)

var (
	fmtNames  string
	fmtAllman bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <tree>",
	Short: "打印类似源代码的文本",
	Long: `按 jack.toml 的 [format] 选项把语法树打印为类似源代码的文本。

单类程序以文件名作为类名，多类程序可用 --names 指定。

示例：
  jack fmt Main.json
  jack fmt game.yaml --names Game,Ball,Bat`,
	Args: cobra.ExactArgs(1),
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().StringVar(&fmtNames, "names", "", "逗号分隔的类名")
	fmtCmd.Flags().BoolVar(&fmtAllman, "allman", false, "使用 Allman 大括号风格")
}

func runFmt(cmd *cobra.Command, args []string) error {
	p, err := readTree(args[0])
	if err != nil {
		return err
	}

	options := cfg.Format
	if fmtAllman {
		options.BraceStyle = "Allman"
	}

	var names []string
	if fmtNames != "" {
		names = strings.Split(fmtNames, ",")
	} else if len(p.Classes) == 1 {
		names = []string{outline.ClassName(uri.File(args[0]))}
	}

	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatNamed(p, names, &options))
	return nil
}
