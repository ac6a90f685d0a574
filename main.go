package main

import (
	"log"

	"autoshop-backend/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cmd.Execute()
}
