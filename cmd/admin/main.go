package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"whisperwall/backend/internal/config"
	"whisperwall/backend/internal/storage"
)

// Moderation CLI: inspect and resolve reports, and pull reported content.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file loaded")
	}
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	store := storage.NewService(db, nil) // no redis needed for the admin CLI

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "reports":
		reports, err := store.ListOpenReports()
		if err != nil {
			log.Fatalf("Error listing reports: %v", err)
		}
		if len(reports) == 0 {
			fmt.Println("No open reports.")
			return
		}
		for _, r := range reports {
			fmt.Printf("#%d\t%s %s\treason: %s\treporter: %s\n",
				r.ID, r.TargetType, r.TargetID, r.Reason, r.ReporterID)
		}

	case "resolve":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin resolve <report_id>")
			os.Exit(1)
		}
		id, err := strconv.Atoi(os.Args[2])
		if err != nil {
			fmt.Println("Invalid report ID. Please provide an integer.")
			os.Exit(1)
		}
		if err := store.ResolveReport(uint(id)); err != nil {
			log.Fatalf("Error resolving report: %v", err)
		}
		fmt.Printf("Report #%d resolved.\n", id)

	case "delete-confession":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin delete-confession <confession_id>")
			os.Exit(1)
		}
		id := os.Args[2]
		if err := store.DeleteConfession(id); err != nil {
			log.Fatalf("Error deleting confession: %v", err)
		}
		fmt.Printf("Confession %s deleted.\n", id)

	default:
		usage()
	}
}

func usage() {
	fmt.Println("Usage: admin <reports|resolve|delete-confession> [args]")
	os.Exit(1)
}
