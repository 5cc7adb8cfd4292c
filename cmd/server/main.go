package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/sbts/internal/buildinfo"
	"github.com/dmitrijs2005/sbts/internal/server"
	"github.com/dmitrijs2005/sbts/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
