package main

import (
	part "github.com/sepamod/gopart"
	"github.com/sepamod/gopart/conc"
	"github.com/sepamod/gopart/trackfile"
	"github.com/sepamod/gopart/tracks"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	concSurface bool
	concZCutoff float64
	concScale   float64
	concWorkers int
	concOut     string
)

var concCmd = &cobra.Command{
	Use:   "conc <tracks.tsf> <mesh.tsf>",
	Short: "Compute a concentration field from converted tracks",
	Long: `Maps the particle positions of a converted track file onto a mesh and
computes per-element concentration over time. The result is written as a
fields file keyed by the site name recovered from the track file name.`,
	Args: cobra.ExactArgs(2),
	RunE: runConc,
}

func init() {
	concCmd.Flags().BoolVar(&concSurface, "surface", false, "surface concentration instead of volumetric")
	concCmd.Flags().Float64Var(&concZCutoff, "z-cutoff", 0, "depth below surface counted as surface water, in m (0 means all)")
	concCmd.Flags().Float64Var(&concScale, "scale", 0, "output scale factor (0 means the configured or built-in default)")
	concCmd.Flags().IntVar(&concWorkers, "workers", 0, "timestep workers (0 means one per CPU)")
	concCmd.Flags().StringVarP(&concOut, "out", "o", "", "output file (default <tracks>_conc.tsf)")
}

func runConc(cmd *cobra.Command, args []string) error {
	trackName, meshName := args[0], args[1]
	T, err := trackfile.LoadTracks(trackName)
	if err != nil {
		return err
	}
	M, err := trackfile.LoadMesh(meshName)
	if err != nil {
		return err
	}
	logger.Info("loaded",
		zap.String("tracks", trackName),
		zap.Int("particles", T.NParticles()),
		zap.Int("steps", T.NSteps()),
		zap.Int("elements", M.NElements()))
	workers := concWorkers
	if workers == 0 {
		workers = cfg.Conc.Workers
	}
	if err := conc.MapToMesh(T, M, conc.MapOptions{Workers: workers}); err != nil {
		return err
	}
	zcut := concZCutoff
	if zcut == 0 {
		zcut = cfg.Conc.ZCutoff
	}
	scale := concScale
	if scale == 0 {
		scale = cfg.Conc.Scale
	}
	c, err := conc.Calculate(T, M, conc.Options{Surface: concSurface, ZCutoff: zcut, Scale: scale})
	if err != nil {
		return err
	}
	site := tracks.SiteNameFromString(trackName)
	if site == "" {
		site = stem(trackName)
	}
	out := concOut
	if out == "" {
		out = trimTsf(trackName) + "_conc.tsf"
	}
	if err := trackfile.SaveFields(out, part.Fields{site: c}); err != nil {
		return err
	}
	logger.Info("concentration written", zap.String("site", site), zap.String("out", out))
	return nil
}
