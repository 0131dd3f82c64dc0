package main

import (
	"embed"
	"flag"

	"github.com/chazu/cratekit/pkg/config"
	log "github.com/sirupsen/logrus"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Warn("using default config")
	}
	if err := cfg.ApplyLogging(); err != nil {
		log.WithError(err).Warn("keeping default log level")
	}

	app := NewApp(cfg)

	err = wails.Run(&options.App{
		Title:     "Box Input",
		Width:     1024,
		Height:    768,
		MinWidth:  420,
		MinHeight: 360,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup: app.startup,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		log.WithError(err).Fatal("wails")
	}
}
