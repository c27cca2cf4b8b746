package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"ecoreport/internal/database"
	"ecoreport/internal/domain/notification"
)

func main() {
	_ = godotenv.Load()

	days := flag.Int("days", 30, "prune read notifications older than this many days")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	repo := notification.NewRepository(db)
	cutoff := time.Now().AddDate(0, 0, -*days)

	deleted, err := repo.DeleteReadBefore(context.Background(), cutoff)
	if err != nil {
		log.Fatalf("cleanup notifications failed: %v", err)
	}

	log.Printf("notification cleanup completed: deleted=%d cutoff=%s", deleted, cutoff.Format(time.RFC3339))
}
