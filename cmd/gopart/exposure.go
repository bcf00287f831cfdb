package main

import (
	"fmt"
	"sort"

	"github.com/sepamod/gopart/exposure"
	"github.com/sepamod/gopart/trackfile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exposureOffsets []int

var exposureCmd = &cobra.Command{
	Use:   "exposure <conc.tsf> <legs.csv>",
	Short: "Accumulate concentration along a fish track",
	Long: `Reads a concentration fields file and a track legs CSV (element, timestep,
duration columns) and prints per-site and overall exposure totals. Offsets
shift the track in time, one totals column per offset.`,
	Args: cobra.ExactArgs(2),
	RunE: runExposure,
}

func init() {
	exposureCmd.Flags().IntSliceVar(&exposureOffsets, "offsets", nil, "timestep offsets (default from config, else 0)")
}

func runExposure(cmd *cobra.Command, args []string) error {
	f, err := trackfile.LoadFields(args[0])
	if err != nil {
		return err
	}
	legs, err := exposure.ReadLegsCSV(args[1])
	if err != nil {
		return err
	}
	offsets := exposureOffsets
	if len(offsets) == 0 {
		offsets = cfg.Exposure.Offsets
	}
	if len(offsets) == 0 {
		offsets = []int{0}
	}
	logger.Info("computing exposure",
		zap.Int("sites", len(f)),
		zap.Int("legs", legs.Len()),
		zap.Ints("offsets", offsets))
	e, err := exposure.TrackFields(f, legs, offsets)
	if err != nil {
		return err
	}
	perSite, all, err := exposure.Totals(e)
	if err != nil {
		return err
	}
	sites := make([]string, 0, len(perSite))
	for k := range perSite {
		sites = append(sites, k)
	}
	sort.Strings(sites)
	fmt.Printf("%-30s", "site")
	for _, off := range offsets {
		fmt.Printf(" %14s", fmt.Sprintf("offset %d", off))
	}
	fmt.Println()
	for _, s := range sites {
		fmt.Printf("%-30s", s)
		for _, v := range perSite[s] {
			fmt.Printf(" %14.6g", v)
		}
		fmt.Println()
	}
	fmt.Printf("%-30s", "total")
	for _, v := range all {
		fmt.Printf(" %14.6g", v)
	}
	fmt.Println()
	return nil
}
