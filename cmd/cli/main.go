package main

import (
	"context"
	"os"

	"github.com/UdayKhare09/Elrond/internal/buildinfo"
	"github.com/UdayKhare09/Elrond/internal/client/cli"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		buildinfo.PrintBuildData(os.Stdout)
		return
	}
	os.Exit(cli.Main(context.Background()))
}
