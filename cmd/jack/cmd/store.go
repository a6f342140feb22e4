package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tangzhangming/jack/internal/ast"
	"github.com/tangzhangming/jack/internal/codec"
	"github.com/tangzhangming/jack/internal/store"
)

var (
	storePath string
	storeTo   string
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "内容寻址的树存储",
	Long: `把语法树按指纹保存到 SQLite 数据库，结构相同的树只保存一份。

示例：
  jack store put Main.json Game.yaml
  jack store ls
  jack store get 3f2a... --to yaml
  jack store rm 3f2a...`,
}

var storePutCmd = &cobra.Command{
	Use:   "put <tree>...",
	Short: "保存语法树",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runStorePut,
}

var storeGetCmd = &cobra.Command{
	Use:   "get <digest>",
	Short: "读取语法树",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreGet,
}

var storeListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "列出已保存的树",
	Args:    cobra.NoArgs,
	RunE:    runStoreList,
}

var storeRemoveCmd = &cobra.Command{
	Use:     "rm <digest>",
	Aliases: []string{"delete"},
	Short:   "删除语法树",
	Args:    cobra.ExactArgs(1),
	RunE:    runStoreRemove,
}

func init() {
	rootCmd.AddCommand(storeCmd)
	storeCmd.AddCommand(storePutCmd, storeGetCmd, storeListCmd, storeRemoveCmd)

	storeCmd.PersistentFlags().StringVar(&storePath, "db", "", "数据库文件（默认取 jack.toml 的 [store] path）")
	storeGetCmd.Flags().StringVar(&storeTo, "to", "json", "输出格式：json 或 yaml")
}

func openStore() (*store.Store, error) {
	path := storePath
	if path == "" {
		path = cfg.StorePath()
	}
	if path == "" {
		path = store.DefaultConfig().Path
	}
	return store.Open(store.Config{Path: path, Logger: logger})
}

func runStorePut(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	failed := 0
	for _, path := range args {
		p, err := readTree(path)
		if err != nil {
			printError(path, err)
			failed++
			continue
		}
		d, err := s.Put(ctx, p)
		if err != nil {
			printError(path, err)
			failed++
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", d, path)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d trees not stored", failed, len(args))
	}
	return nil
}

func runStoreGet(cmd *cobra.Command, args []string) error {
	format, err := codec.ParseFormat(storeTo)
	if err != nil {
		return err
	}
	d, err := ast.ParseDigest(args[0])
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := s.Get(context.Background(), d)
	if err != nil {
		return err
	}
	return codec.Encode(cmd.OutOrStdout(), p, format)
}

func runStoreList(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	entries, err := s.List(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DIGEST\tKIND\tSIZE\tCREATED")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", e.Digest, e.Kind, e.Size, e.CreatedAt.Local().Format(time.DateTime))
	}
	return w.Flush()
}

func runStoreRemove(cmd *cobra.Command, args []string) error {
	d, err := ast.ParseDigest(args[0])
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	return s.Delete(context.Background(), d)
}
