package main

import (
	"errors"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/rewind/config"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/rewind.toml", "path to the toml config file")
	levelName := flag.String("level", "", "level name in levels/ (basename, .yaml optional)")
	debug := flag.Bool("debug", false, "enable hot reload and collider outlines")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("using default config: %v", err)
		cfg = config.Default()
	}
	if *levelName != "" {
		cfg.Game.Level = *levelName
	}
	if *debug {
		cfg.Game.Debug = true
		cfg.Logging.Level = "debug"
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetTPS(cfg.Game.TickRate)

	game, err := NewGame(cfg, logger)
	if err != nil {
		logger.Fatal("game: start", zap.Error(err))
	}
	defer func() { _ = game.Close() }()

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, errQuit) {
		logger.Error("game: run", zap.Error(err))
	}
}
