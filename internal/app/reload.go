package app

import (
	"strings"

	"github.com/dshills/markpad/internal/config"
	"github.com/dshills/markpad/internal/event"
	"github.com/dshills/markpad/internal/input/keymap"
	"github.com/dshills/markpad/internal/logging"
)

// userKeymapSource marks keymaps loaded from the user's keymap paths.
const userKeymapSource = "user"

// Reloaded is the payload of config.reloaded events.
type Reloaded struct {
	Paths []string
	Err   error
}

// loadUserKeymaps replaces the user keymaps with the files found on the
// configured keymap paths. Keymaps that load are applied even when others
// fail.
func (app *Application) loadUserKeymaps() error {
	paths := app.Config().Keymap.Paths
	kms, loadErr := keymap.NewLoader(paths...).LoadAll()
	if err := app.keys.Replace(userKeymapSource, kms); err != nil {
		return err
	}
	if len(kms) > 0 {
		app.log.Info("loaded %d user keymaps", len(kms))
	}
	return loadErr
}

// loadPlugins reloads the Lua scripts and re-registers their actions.
func (app *Application) loadPlugins() error {
	if app.plugins == nil {
		return nil
	}
	var errs ErrorList
	errs.Add(app.plugins.LoadAll())
	errs.Add(app.plugins.Register(app.session))
	return errs.AsError()
}

// watchPaths lists the files and directories whose changes trigger a
// reload.
func (app *Application) watchPaths() []string {
	cfg := app.Config()
	paths := []string{app.configPath}
	paths = append(paths, cfg.Keymap.Paths...)
	if cfg.Plugins.Enabled && cfg.Plugins.Dir != "" {
		paths = append(paths, cfg.Plugins.Dir)
	}
	return paths
}

// reload re-reads the configuration, keymaps and plugins after a change
// to any watched path. Settings that only apply at startup, such as the
// store directory, keep their old values.
func (app *Application) reload(paths []string) {
	app.log.Info("reloading after change to %s", strings.Join(paths, ", "))
	app.metrics.RecordReload()

	var errs ErrorList
	errs.Add(app.reloadConfig())
	errs.Add(app.loadUserKeymaps())
	errs.Add(app.loadPlugins())

	err := errs.AsError()
	if err != nil {
		app.log.Warn("reload: %v", err)
	}
	if perr := app.bus.Publish(event.TopicConfigReloaded, "app", Reloaded{Paths: paths, Err: err}); perr != nil {
		app.log.Warn("publish: %v", perr)
	}
}

// reloadConfig applies the settings that can change while running.
func (app *Application) reloadConfig() error {
	cfg, err := config.NewLoader(config.WithFiles(app.configPath)).Load()
	if err != nil {
		return NewOperationError("reload", app.configPath, err)
	}

	app.mu.Lock()
	old := app.config
	// Startup-only settings.
	cfg.Store = old.Store
	cfg.Log.File = old.Log.File
	app.config = cfg
	app.mu.Unlock()

	if app.opts.LogLevel == "" {
		app.log.SetLevel(cfg.LogLevel())
	} else {
		app.log.SetLevel(logging.ParseLevel(app.opts.LogLevel))
	}
	app.session.Scroll().SetEnabled(cfg.Scroll.Sync)
	app.preview.SetStyle(cfg.Preview.Style)
	return nil
}
