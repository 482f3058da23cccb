// Command seed populates the Aurora database with generated demo data.
package main

import (
	"flag"
	"log"

	"aurora/internal/config"
	"aurora/internal/database"
	"aurora/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	numChats := flag.Int("chats", 40, "Number of chats to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext passwords for faster seeding (dev only)")
	preset := flag.String("preset", "", "Path to a YAML preset file overriding the flags")
	flag.Parse()

	opts := seed.DefaultOptions()
	opts.NumUsers = *numUsers
	opts.NumPosts = *numPosts
	opts.NumChats = *numChats
	opts.ShouldClean = *shouldClean
	opts.SkipBcrypt = *skipBcrypt

	if *preset != "" {
		var err error
		opts, err = seed.LoadPreset(*preset)
		if err != nil {
			log.Fatalf("Failed to load preset: %v", err)
		}
		log.Printf("Loaded preset %s (ignoring other flags)", *preset)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
