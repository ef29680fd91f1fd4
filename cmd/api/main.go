package main

import (
	"context"
	"log"

	"brainplan/internal/bootstrap"
	"brainplan/internal/shared/config"
	"brainplan/internal/shared/server"
)

func main() {
	cfg := config.Load()
	app, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	addr := server.Addr(cfg.Port)
	log.Printf("Starting brainstorm server on %s (%s mode)", addr, cfg.Mode().Label())

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
