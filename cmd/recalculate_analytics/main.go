package main

import (
	"context"
	"flag"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/mansoorceksport/flexpro/internal/config"
	"github.com/mansoorceksport/flexpro/internal/domain"
	"github.com/mansoorceksport/flexpro/internal/repository"
	"github.com/mansoorceksport/flexpro/internal/service"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	programID := flag.String("program", "", "Recalculate a single program (default: all)")
	concurrency := flag.Int("concurrency", 8, "Programs processed in parallel")
	dryRun := flag.Bool("dry-run", false, "Compute analytics without writing snapshots")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.MongoDB.Database)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password})
	defer redisClient.Close()
	if !*dryRun {
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
	}
	cache := repository.NewRedisCacheRepository(redisClient)

	catalog, err := service.NewCatalogService(repository.NewMongoExerciseRepository(db), nil, 0).Catalog(ctx)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	programRepo := repository.NewMongoProgramRepository(db)
	var programs []*domain.Program
	if *programID != "" {
		p, err := programRepo.GetByID(ctx, *programID)
		if err != nil {
			log.Fatalf("Failed to load program %s: %v", *programID, err)
		}
		programs = []*domain.Program{p}
	} else if programs, err = programRepo.List(ctx); err != nil {
		log.Fatalf("Failed to list programs: %v", err)
	}

	log.WithFields(log.Fields{
		"programs":        len(programs),
		"catalog_version": catalog.Version(),
		"dry_run":         *dryRun,
	}).Info("Recalculating day analytics")

	var written int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*concurrency)
	for _, p := range programs {
		p := p
		g.Go(func() error {
			// fingerprint days as the service sees them after load
			store, err := service.LoadProgramStore(p.Days)
			if err != nil {
				return fmt.Errorf("program %s: %w", p.ID, err)
			}
			for _, day := range store.Days() {
				entries, err := store.Day(day)
				if err != nil {
					return err
				}
				analytics := service.ComputeAnalytics(entries, catalog)
				if *dryRun {
					fmt.Printf("%s day %d: %d exercises, %d sets, %s intensity\n",
						p.ID, day, analytics.TotalExercises, analytics.TotalSets, analytics.IntensityLabel)
					continue
				}
				fingerprint := service.DayFingerprint(entries, catalog.Version())
				if err := cache.SetDayAnalytics(gctx, p.ID, day, fingerprint, &analytics, cfg.Cache.AnalyticsTTL); err != nil {
					return fmt.Errorf("program %s day %d: %w", p.ID, day, err)
				}
				atomic.AddInt64(&written, 1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("Recalculation failed: %v", err)
	}

	log.WithField("snapshots", atomic.LoadInt64(&written)).Info("Recalculation complete")
}
