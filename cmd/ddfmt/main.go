package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ddfmt/internal/config"
	appLog "ddfmt/internal/log"
	"ddfmt/internal/pipeline"
)

const version = "0.2.0"

// rootFlags holds persistent CLI flag values.
type rootFlags struct {
	configPath string
	dir        string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	render := newRenderCmd(flags)
	root := &cobra.Command{
		Use:           "ddfmt",
		Short:         "Format the weekly deep dive schedule for chat",
		Long:          "ddfmt reads the weekly deep dive schedule from a JSON, YAML or TOML document and writes an emoji-annotated post.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          render.RunE,
	}
	root.Flags().AddFlagSet(render.Flags())

	root.PersistentFlags().StringVar(&flags.configPath, "config", "ddfmt.yaml", "path to config file, created with defaults on first run")
	root.PersistentFlags().StringVar(&flags.dir, "dir", "", "base directory for relative paths (default: current directory)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		render,
		newExampleCmd(flags),
		newCheckCmd(flags),
		newResetsCmd(flags),
		newConvertCmd(flags),
		newServeCmd(flags),
	)
	return root
}

// load resolves the config against the base directory and applies the
// configured log level.
func (f *rootFlags) load() (config.Config, error) {
	dir := f.dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return config.Config{}, err
		}
		dir = wd
	}

	path := f.configPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	conf, err := config.Load(path)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", path)
		return config.Config{}, err
	}

	if l, err := appLog.ParseLevel(conf.LogLevel); err == nil {
		appLog.SetLevel(l)
	} else {
		appLog.Warn("ignoring log level", "log_level", conf.LogLevel)
	}
	if f.verbose {
		appLog.SetLevel(appLog.LevelDebug)
	}

	resolved := conf.Resolve(dir)
	appLog.Debug("effective config",
		"config_path", path,
		"input", resolved.Input,
		"example", resolved.Example,
		"output", resolved.Output,
		"calendar", resolved.Calendar,
		"reset", resolved.Reset,
		"timezone", resolved.Timezone,
		"cache_dir", resolved.CacheDir,
		"listen", resolved.Listen,
	)
	return resolved, nil
}

func (f *rootFlags) options() (pipeline.Options, error) {
	conf, err := f.load()
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.OptionsFromConfig(conf)
}
