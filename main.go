package main

import (
	"embed"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"

	csvApp "csvmanager/internal/app"
	"csvmanager/internal/config"
	"csvmanager/internal/logging"
	"csvmanager/internal/service"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "csvmanager:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.NewStderr(level)
	slog.SetDefault(logger)

	if cfg.MCP {
		return csvApp.ServeMCP(cfg, logger)
	}

	app, err := csvApp.New(cfg, logger)
	if err != nil {
		return err
	}
	size := app.WindowSize()
	minSize := service.MinWindowSize()

	// macOS needs an Edit menu for Cmd+C/V/X/A to reach the WebView
	appMenu := menu.NewMenu()
	appMenu.Append(menu.EditMenu())

	return wails.Run(&options.App{
		Title:     "CSV Manager",
		Width:     size.Width,
		Height:    size.Height,
		MinWidth:  minSize.Width,
		MinHeight: minSize.Height,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour:   &options.RGBA{R: 15, G: 15, B: 20, A: 1},
		Menu:               appMenu,
		Logger:             logging.NewWailsLogger(logger),
		LogLevel:           logging.WailsLevel(level),
		LogLevelProduction: logging.WailsLevel(level),
		OnStartup:          app.Startup,
		OnBeforeClose:      app.BeforeClose,
		OnShutdown:         app.Shutdown,
		Bind: []interface{}{
			app,
		},
		Mac: &mac.Options{
			About: &mac.AboutInfo{
				Title:   "CSV Manager",
				Message: "Edit a CSV file as a table",
			},
		},
	})
}
