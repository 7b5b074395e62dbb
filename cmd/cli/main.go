package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/useradmin/internal/buildinfo"
	"github.com/dmitrijs2005/useradmin/internal/client/cli"
	"github.com/dmitrijs2005/useradmin/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
