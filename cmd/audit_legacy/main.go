package main

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/mansoorceksport/flexpro/internal/config"
	"github.com/mansoorceksport/flexpro/internal/domain"
	"github.com/mansoorceksport/flexpro/internal/repository"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type dayCount struct {
	current int
	legacy  int
}

// countDays tallies current and legacy entries per training day
func countDays(p *domain.Program) (map[int]dayCount, []int) {
	counts := make(map[int]dayCount, len(p.Days))
	days := make([]int, 0, len(p.Days))
	for day, entries := range p.Days {
		var c dayCount
		for _, e := range entries {
			if e.IsCurrent() {
				c.current++
			} else {
				c.legacy++
			}
		}
		counts[day] = c
		days = append(days, day)
	}
	sort.Ints(days)
	return counts, days
}

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	mongoURI := flag.String("mongo", cfg.MongoDB.URI, "MongoDB connection URI")
	dbName := flag.String("db", cfg.MongoDB.Database, "Database name")
	coachID := flag.String("coach", "", "Only audit programs owned by this coach")
	verbose := flag.Bool("v", false, "Print every day, not only days holding legacy entries")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(*mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	repo := repository.NewMongoProgramRepository(client.Database(*dbName))

	var programs []*domain.Program
	if *coachID != "" {
		programs, err = repo.ListByCoach(ctx, *coachID)
	} else {
		programs, err = repo.List(ctx)
	}
	if err != nil {
		log.Fatalf("Failed to list programs: %v", err)
	}

	fmt.Println("=== Legacy Entry Audit ===")
	fmt.Printf("Database: %s\n", *dbName)
	fmt.Printf("Programs: %d\n\n", len(programs))

	var totalCurrent, totalLegacy, affected int
	for _, p := range programs {
		counts, days := countDays(p)
		programLegacy := 0
		for _, day := range days {
			programLegacy += counts[day].legacy
		}
		if programLegacy > 0 {
			affected++
		}
		if programLegacy == 0 && !*verbose {
			for _, day := range days {
				totalCurrent += counts[day].current
			}
			continue
		}

		fmt.Printf("%s  %q (coach %s)\n", p.ID, p.Name, p.CoachID)
		for _, day := range days {
			c := counts[day]
			totalCurrent += c.current
			totalLegacy += c.legacy
			if c.legacy == 0 && !*verbose {
				continue
			}
			fmt.Printf("  day %d: %d current, %d legacy\n", day, c.current, c.legacy)
		}
	}

	fmt.Println("\n=== Summary ===")
	fmt.Printf("Programs with legacy entries: %d/%d\n", affected, len(programs))
	fmt.Printf("Current entries: %d\n", totalCurrent)
	fmt.Printf("Legacy entries:  %d\n", totalLegacy)
}
