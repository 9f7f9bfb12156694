package main

import (
	"github.com/joho/godotenv"

	"github.com/asaupe/course-recommendation-system/internal/cli"
)

func main() {
	// Provider API keys commonly live in a local .env file.
	_ = godotenv.Load()

	cli.Execute()
}
