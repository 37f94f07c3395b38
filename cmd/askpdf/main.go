package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/vkazlou/askpdf/internal/buildinfo"
	"github.com/vkazlou/askpdf/internal/client/cli"
	"github.com/vkazlou/askpdf/internal/client/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
