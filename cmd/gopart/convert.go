package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sepamod/gopart/xmlpt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	convertWatch    bool
	convertAllSteps bool
	convertForce    bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [dir|file...]",
	Short: "Convert particle XML output to compressed track files",
	Long: `Converts the XML written by a particle-tracking run into the compressed
track format. Directories are processed recursively, skipping files whose
converted output already exists. With --watch the command keeps running and
converts new files as the model writes them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().BoolVarP(&convertWatch, "watch", "w", false, "keep watching the directory for new files")
	convertCmd.Flags().BoolVar(&convertAllSteps, "all-steps", false, "keep every timestep instead of whole hours only")
	convertCmd.Flags().BoolVarP(&convertForce, "force", "f", false, "reconvert files whose output exists")
}

func convertOptions() xmlpt.Options {
	o := xmlpt.DefaultOptions()
	o.HourlyOnly = cfg.hourlyOnly()
	o.HeaderLines = cfg.headerLines()
	if convertAllSteps {
		o.HourlyOnly = false
	}
	o.Force = convertForce
	return o
}

func runConvert(cmd *cobra.Command, args []string) error {
	o := convertOptions()
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			if !strings.EqualFold(filepath.Ext(arg), ".xml") {
				logger.Warn("not an XML file, skipping", zap.String("file", arg))
				continue
			}
			out, err := xmlpt.Convert(arg, o)
			if err != nil {
				return err
			}
			logger.Info("converted", zap.String("in", arg), zap.String("out", out))
			continue
		}
		written, err := xmlpt.ProcessFolder(arg, o)
		if err != nil {
			return err
		}
		logger.Info("folder processed", zap.String("dir", arg), zap.Int("written", len(written)))
		if convertWatch {
			logger.Info("watching for new files", zap.String("dir", arg))
			done := make(chan struct{})
			go func() {
				sig := make(chan os.Signal, 1)
				signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
				<-sig
				close(done)
			}()
			if err := xmlpt.Watch(arg, o, done); err != nil {
				return err
			}
		}
	}
	return nil
}
