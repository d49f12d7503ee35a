package main

import (
	"context"
	"flag"

	"github.com/Smoopi/D2-Assignment/internal/appstate"
	"github.com/Smoopi/D2-Assignment/internal/config"
	"github.com/Smoopi/D2-Assignment/internal/sketch"
)

type windowCmd struct {
	r  *root
	fs *flag.FlagSet

	output  string
	saveDir string
	watch   bool
}

func parseWindowCmd(args []string, r *root) (*windowCmd, error) {
	fs := flag.NewFlagSet("window", flag.ExitOnError)
	c := &windowCmd{r: r.subcommand("window"), fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.output, "output", "", "file Ctrl+S writes to (default: a timestamped file in -save-dir)")
	fs.StringVar(&c.saveDir, "save-dir", r.config.SaveDir, "directory for timestamped saves")
	fs.BoolVar(&c.watch, "watch", true, "reload presets and theme when the config file changes")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *windowCmd) Program() string        { return c.r.Program() }
func (c *windowCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *windowCmd) Run() error {
	raster, err := c.r.newRaster()
	if err != nil {
		return err
	}
	ctrl := sketch.NewController(raster,
		sketch.WithPresets(c.r.config.Presets()),
		sketch.WithLogger(c.r.logger),
	)
	ctrl.Render()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := appstate.New(
		appstate.WithController(ctrl),
		appstate.WithRaster(raster),
		appstate.WithTheme(c.r.theme()),
		appstate.WithOutput(c.output),
		appstate.WithSaveDir(c.saveDir),
		appstate.WithNotifier(c.r.notifier),
		appstate.WithLogger(c.r.logger),
		appstate.WithOnClose(cancel),
	)

	if c.watch && c.r.configPath != "" {
		go func() {
			err := config.Watch(ctx, c.r.configPath, c.r.logger, func(cfg *config.Config) {
				st.Reconfigure(cfg.Presets(), c.r.resolveTheme(cfg))
			})
			if err != nil {
				c.r.logger.Warn("config reload disabled", "err", err)
			}
		}()
	}

	st.Run()
	return nil
}
