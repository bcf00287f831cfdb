package main

import (
	"fmt"
	"sort"

	"github.com/sepamod/gopart/pstat"
	"github.com/sepamod/gopart/trackfile"
	"github.com/spf13/cobra"
)

var statsNames []string

var statsCmd = &cobra.Command{
	Use:   "stats <fields.tsf>",
	Short: "Summary statistics of a stored field",
	Long: `Prints NaN-stripped summary statistics for every matrix of a stored
fields file, one row per site.`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringSliceVar(&statsNames, "stats", nil, "statistics to compute (default length,mean,median,std,min,max)")
}

func runStats(cmd *cobra.Command, args []string) error {
	f, err := trackfile.LoadFields(args[0])
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	names := statsNames
	if len(names) == 0 {
		names = pstat.DefaultStats
	}
	header := append(append([]string{}, names...), "q95")
	fmt.Printf("%-30s", "site")
	for _, n := range header {
		fmt.Printf(" %12s", n)
	}
	fmt.Println()
	for _, k := range keys {
		s, err := pstat.SummaryDense(f[k], names...)
		if err != nil {
			return err
		}
		fmt.Printf("%-30s", k)
		for _, n := range header {
			fmt.Printf(" %12.6g", s[n])
		}
		fmt.Println()
	}
	return nil
}
