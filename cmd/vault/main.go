package main

import (
	"context"
	"log"

	"github.com/avetrovs/swipevault/internal/cli"
	"github.com/avetrovs/swipevault/internal/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
