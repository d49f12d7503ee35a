package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Smoopi/D2-Assignment/internal/config"
	"github.com/Smoopi/D2-Assignment/internal/notify"
	"github.com/Smoopi/D2-Assignment/internal/render"
	"github.com/Smoopi/D2-Assignment/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	notifier    *notify.Notifier
	config      *config.Config
	configPath  string
	logger      *log.Logger
	verbose     bool
	saveAlerts  bool
	copyAlerts  bool
	themeName   string
	activeTheme *theme.Theme

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (r *root) Program() string {
	return r.program
}

func (r *root) subcommand(name string) *root {
	program := strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	return &root{
		program:     program,
		notifier:    r.notifier,
		config:      r.config,
		configPath:  r.configPath,
		logger:      r.logger,
		verbose:     r.verbose,
		saveAlerts:  r.saveAlerts,
		copyAlerts:  r.copyAlerts,
		themeName:   r.themeName,
		activeTheme: r.activeTheme,
		stdin:       r.stdin,
		stdout:      r.stdout,
		stderr:      r.stderr,
	}
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	if configPathOverride == "" {
		configPathOverride = os.Getenv("SKETCHPAD_CONFIG")
	}
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:         flag.NewFlagSet("sketchpad", flag.ExitOnError),
		program:    "sketchpad",
		config:     cfg,
		configPath: loader.GetConfigPath(),
		logger:     newLogger(os.Stderr, log.WarnLevel),
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}
	r.notifier = notify.New(prefs, notify.WithLogger(r.logger))
	r.fs.StringVar(&r.configPath, "config", r.configPath, "configuration file to load")
	r.fs.BoolVar(&r.verbose, "v", false, "enable debug logging")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")

	// CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (light, dark, or a theme file)")
	r.fs.Usage = usageFunc(r)
	return r
}

// reloadConfig honours -config when it names a different file than the one
// loaded at startup. Notification flags not given explicitly follow the file.
func (r *root) reloadConfig(initial string) error {
	if r.configPath == "" || r.configPath == initial {
		return nil
	}
	cfg, err := config.LoadFile(r.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	set := map[string]bool{}
	r.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["notify-save"] {
		r.saveAlerts = cfg.Notify.Save
	}
	if !set["notify-copy"] {
		r.copyAlerts = cfg.Notify.Copy
	}
	r.config = cfg
	return nil
}

// resolveTheme picks the theme by name from the flag, the environment and
// then cfg. Unknown names fall back to the default with a warning.
func (r *root) resolveTheme(cfg *config.Config) *theme.Theme {
	name := r.themeName
	if name == "" {
		name = os.Getenv("SKETCHPAD_THEME")
	}
	if name == "" {
		name = cfg.Theme
	}
	loader := theme.NewLoader()
	loader.Inline = cfg.Themes
	t, err := loader.Load(name)
	if err != nil {
		r.logger.Warn("failed to load theme, using default", "theme", name, "err", err)
		return theme.Default()
	}
	return t
}

func (r *root) theme() *theme.Theme {
	if r.activeTheme == nil {
		return theme.Default()
	}
	return r.activeTheme
}

func (r *root) Run(args []string) error {
	initial := r.configPath
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.verbose {
		r.logger.SetLevel(log.DebugLevel)
	}
	if err := r.reloadConfig(initial); err != nil {
		return err
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}
	r.activeTheme = r.resolveTheme(r.config)

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "window":
		cmd, err = parseWindowCmd(subArgs, r)
	case "script":
		cmd, err = parseScriptCmd(subArgs, r)
	case "interactive":
		cmd, err = parseInteractiveCmd(subArgs, r)
	case "tools":
		cmd, err = parseToolsCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		if errors.Is(err, render.ErrNoSurface) {
			r.logger.Error("cannot start", "err", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyCopy(detail string, img image.Image) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail, img)
}
