package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/tangzhangming/jack/internal/outline"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <tree>...",
	Short: "输出编辑器大纲",
	Long: `以 JSON 输出 LSP DocumentSymbol 列表。

每个文件视为一个类，类名取自文件名；多类程序中其余的类依次命名为 Class<i>。`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOutline,
}

func init() {
	rootCmd.AddCommand(outlineCmd)
}

func runOutline(cmd *cobra.Command, args []string) error {
	var symbols []protocol.DocumentSymbol
	for _, path := range args {
		p, err := readTree(path)
		if err != nil {
			return err
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		symbols = append(symbols, outline.ProgramSymbols(p, []uri.URI{uri.File(abs)})...)
	}

	data, err := json.MarshalIndent(symbols, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
