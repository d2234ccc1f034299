package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/iliyamo/timeclock/internal/cli"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	if err := cli.NewRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}
