package main

import (
	"context"
	"log"
	"os"

	"github.com/UdayKhare09/Elrond/internal/buildinfo"
	"github.com/UdayKhare09/Elrond/internal/server"
	"github.com/UdayKhare09/Elrond/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}

}
