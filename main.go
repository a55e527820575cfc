package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/neonfolio/common"
	"github.com/milk9111/neonfolio/config"
	"github.com/milk9111/neonfolio/logging"
	"github.com/milk9111/neonfolio/prefabs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg         config.Config
	envErr      error
	baseMonitor bool
)

var rootCmd = &cobra.Command{
	Use:          "neonfolio",
	Short:        "Animated, gamified developer portfolio",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envErr != nil {
			return envErr
		}
		cfg.ClampVolume()
		if err := cfg.Validate(); err != nil {
			return err
		}
		prefabs.SetDiskRoot(cfg.PrefabsDir)
		return nil
	},
	RunE: runGame,
}

var scenesCmd = &cobra.Command{
	Use:   "scenes",
	Short: "List the scene sequence",
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := prefabs.LoadScenes()
		if err != nil {
			return err
		}
		for i, sc := range spec.Scenes {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%d entities\n", i+1, sc.ID, sc.Name, len(sc.Entities))
		}
		return nil
	},
}

func init() {
	// Environment first; flags parsed later override it.
	cfg, envErr = config.Load()

	f := rootCmd.PersistentFlags()
	f.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging and prefab hot reload")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	f.StringVar(&cfg.PrefabsDir, "prefabs-dir", cfg.PrefabsDir, "directory checked for prefab overrides before the embedded copies")

	rf := rootCmd.Flags()
	rf.IntVar(&cfg.Width, "width", cfg.Width, "window width")
	rf.IntVar(&cfg.Height, "height", cfg.Height, "window height")
	rf.Float64Var(&cfg.Volume, "volume", cfg.Volume, "master volume in [0,1]")
	rf.BoolVar(&cfg.Mute, "mute", cfg.Mute, "start muted")
	rf.StringVar(&cfg.StartScene, "start-scene", cfg.StartScene, "id of the first scene")
	rf.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "seed for notification placement (0 picks one)")
	rf.BoolVar(&cfg.Glitch, "glitch", cfg.Glitch, "enable the screen glitch effect")
	rf.BoolVarP(&baseMonitor, "monitor", "m", false, "use the first monitor instead of the primary one")

	rootCmd.AddCommand(scenesCmd)
}

func runGame(cmd *cobra.Command, args []string) error {
	logger, err := logging.New(cfg.LogLevel, cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if baseMonitor {
		if monitors := ebiten.AppendMonitors(nil); len(monitors) > 0 {
			ebiten.SetMonitor(monitors[0])
		}
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle("neonfolio")
	ebiten.SetTPS(common.TPS)

	game, err := NewGame(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := game.Close(); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
