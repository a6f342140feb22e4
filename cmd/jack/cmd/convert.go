package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tangzhangming/jack/internal/codec"
)

var (
	convertTo     string
	convertOutput string
)

var convertCmd = &cobra.Command{
	Use:   "convert <tree>",
	Short: "在 JSON 与 YAML 之间转换",
	Long: `读取语法树转储并以另一种格式写出。

示例：
  jack convert Main.json --to yaml
  jack convert Main.yaml --to json -o Main.json`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&convertTo, "to", "json", "目标格式：json 或 yaml")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "输出文件（默认标准输出）")
}

func runConvert(cmd *cobra.Command, args []string) error {
	format, err := codec.ParseFormat(convertTo)
	if err != nil {
		return err
	}

	p, err := readTree(args[0])
	if err != nil {
		return err
	}

	if convertOutput == "" {
		return codec.Encode(cmd.OutOrStdout(), p, format)
	}

	data, err := codec.Marshal(p, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(convertOutput, data, 0644); err != nil {
		return err
	}

	logger.Info("tree converted", zap.String("from", args[0]), zap.String("to", convertOutput))
	return nil
}
