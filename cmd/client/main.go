package main

import (
	"context"
	"log"
	"os"

	"github.com/grovellows/tendertrack/internal/buildinfo"
	"github.com/grovellows/tendertrack/internal/client/cli"
	"github.com/grovellows/tendertrack/internal/client/config"
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

	app.Run(ctx)

}
