package main

import (
	"flag"
	"log"
	"os"

	"MortgageCalc/internal/di"
	"MortgageCalc/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Printf("mortgagecalc: %v", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return err
	}
	log.Printf("env=%s rates=%s cache=%s kafka=%t", cfg.Environment, cfg.Rates.Source, cfg.Cache.Backend, cfg.Kafka.Enabled)

	// Wire DI: rate table load failures abort here
	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// blocks until SIGINT/SIGTERM
	return app.Run()
}
