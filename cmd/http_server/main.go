package main

import (
	"github.com/labstack/gommon/log"

	"github.com/radhian/pix-reconciliation/config"
	"github.com/radhian/pix-reconciliation/controllers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	app := controllers.App{}
	if err := app.Initialize(cfg); err != nil {
		log.Fatal(err)
	}
	defer app.Close()

	app.RunServer()
}
