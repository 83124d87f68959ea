//go:generate swag init -g internal/risk/http/router.go -d ../../,../../pkg/risksdk -o ../../api/risk --packageName risk

package main

import (
	"log"

	"github.com/aussiebroadwan/riskregister/internal/risk/app"
)

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
