package cmd

import (
	"fmt"

	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tangzhangming/jack/internal/astutil"
	"github.com/tangzhangming/jack/internal/intern"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats <tree>",
	Short: "节点统计",
	Long: `统计语法树中各类节点的数量、表达式深度和语句嵌套层数，
并报告表达式驻留后的去重效果。`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "以 JSON 输出")
}

// sharingReport 表达式驻留结果
type sharingReport struct {
	Expressions int     `json:"expressions" yaml:"expressions"`
	Unique      int     `json:"unique" yaml:"unique"`
	HitRate     float64 `json:"hit_rate" yaml:"hit_rate"`
}

type statsReport struct {
	astutil.Stats `yaml:",inline"`
	Sharing       sharingReport `json:"sharing" yaml:"sharing"`
}

func runStats(cmd *cobra.Command, args []string) error {
	p, err := readTree(args[0])
	if err != nil {
		return err
	}

	arena := intern.NewArena(0)
	arena.InternProgram(p)
	is := arena.Stats()

	report := statsReport{
		Stats: astutil.Count(p),
		Sharing: sharingReport{
			Expressions: is.Lookups,
			Unique:      is.Unique,
			HitRate:     is.HitRate(),
		},
	}

	out := cmd.OutOrStdout()
	if statsJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return err
	}
	fmt.Fprint(out, string(data))
	return nil
}
