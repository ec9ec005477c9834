package main

import (
	"context"
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/mansoorceksport/flexpro/internal/config"
	"github.com/mansoorceksport/flexpro/internal/domain"
	"github.com/mansoorceksport/flexpro/internal/repository"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ex(name, muscle, equipment, category, difficulty string, compound bool, secondary ...string) domain.Exercise {
	return domain.Exercise{
		Name:             name,
		MuscleGroup:      muscle,
		SecondaryMuscles: secondary,
		Equipment:        equipment,
		Category:         category,
		Difficulty:       difficulty,
		IsCompound:       compound,
	}
}

func unilateral(e domain.Exercise) domain.Exercise {
	e.IsUnilateral = true
	return e
}

var starterCatalog = []domain.Exercise{
	// Legs
	ex("Barbell Squat", "Legs (Quadriceps)", "Barbell", "resistance", "intermediate", true, "Glutes", "Hamstrings"),
	ex("Leg Press", "Legs (Quadriceps)", "Machine", "resistance", "beginner", true, "Glutes"),
	unilateral(ex("Walking Lunge", "Legs (Quadriceps)", "Bodyweight/Dumbbell", "resistance", "beginner", true, "Glutes")),
	ex("Leg Extension", "Legs (Quadriceps)", "Machine", "resistance", "beginner", false),
	ex("Lying Leg Curl", "Legs (Hamstrings)", "Machine", "resistance", "beginner", false),
	ex("Romanian Deadlift", "Legs (Hamstrings)", "Barbell", "resistance", "intermediate", true, "Glutes", "Lower Back"),
	ex("Calf Raise", "Legs (Calves)", "Machine", "resistance", "beginner", false),
	unilateral(ex("Bulgarian Split Squat", "Legs (Quadriceps)", "Dumbbell", "resistance", "intermediate", true, "Glutes")),
	ex("Hip Thrust", "Glutes", "Barbell", "resistance", "intermediate", true, "Hamstrings"),

	// Chest
	ex("Barbell Bench Press", "Chest", "Barbell", "resistance", "intermediate", true, "Triceps", "Shoulders"),
	ex("Incline Dumbbell Press", "Chest", "Dumbbell", "resistance", "intermediate", true, "Shoulders", "Triceps"),
	ex("Push Up", "Chest", "Bodyweight", "resistance", "beginner", true, "Triceps"),
	ex("Cable Fly", "Chest", "Cable", "resistance", "beginner", false),
	ex("Dips", "Chest/Triceps", "Bodyweight", "resistance", "intermediate", true, "Shoulders"),

	// Back
	ex("Pull Up", "Back", "Bodyweight", "resistance", "intermediate", true, "Biceps"),
	ex("Lat Pulldown", "Back", "Cable", "resistance", "beginner", true, "Biceps"),
	ex("Barbell Row", "Back", "Barbell", "resistance", "intermediate", true, "Biceps", "Lower Back"),
	unilateral(ex("Single Arm Dumbbell Row", "Back", "Dumbbell", "resistance", "beginner", true, "Biceps")),
	ex("Deadlift", "Back/Legs", "Barbell", "resistance", "advanced", true, "Glutes", "Hamstrings", "Traps"),
	ex("Face Pull", "Back (Rear Delts)", "Cable", "resistance", "beginner", false, "Traps"),

	// Shoulders and arms
	ex("Overhead Press", "Shoulders", "Barbell", "resistance", "intermediate", true, "Triceps"),
	ex("Lateral Raise", "Shoulders", "Dumbbell", "resistance", "beginner", false),
	ex("Barbell Curl", "Biceps", "Barbell", "resistance", "beginner", false, "Forearms"),
	ex("Hammer Curl", "Biceps", "Dumbbell", "resistance", "beginner", false, "Forearms"),
	ex("Tricep Pushdown", "Triceps", "Cable", "resistance", "beginner", false),
	ex("Skullcrusher", "Triceps", "EZ Bar", "resistance", "intermediate", false),

	// Core
	ex("Plank", "Core", "Bodyweight", "resistance", "beginner", false, "Obliques"),
	ex("Russian Twist", "Obliques", "Bodyweight/Weight", "resistance", "beginner", false, "Abs"),
	ex("Ab Wheel Rollout", "Core", "Ab Wheel", "resistance", "advanced", false),

	// Cardio
	ex("Treadmill Run", "Full Body", "Treadmill", "cardio", "beginner", false, "Quadriceps", "Calves"),
	ex("Rowing Machine", "Back", "Rower", "cardio", "beginner", true, "Quadriceps"),
	ex("Assault Bike", "Full Body", "Bike", "cardio", "intermediate", false),
	ex("Jump Rope", "Calves", "Jump Rope", "cardio", "beginner", false),

	// Plyometric
	ex("Box Jump", "Legs (Quadriceps)", "Plyo Box", "plyometric", "intermediate", true, "Glutes", "Calves"),
	ex("Depth Jump", "Legs (Quadriceps)", "Plyo Box", "plyometric", "advanced", true, "Calves"),
	unilateral(ex("Lateral Bound", "Glutes", "Bodyweight", "plyometric", "intermediate", true, "Adductors")),
	ex("Medicine Ball Slam", "Core", "Medicine Ball", "plyometric", "beginner", true, "Shoulders"),

	// Corrective
	ex("Foam Roll Thoracic Spine", "Back", "Foam Roller", "corrective", "beginner", false),
	ex("Hip Flexor Stretch", "Hip Flexors", "Bodyweight", "corrective", "beginner", false),
	ex("Band Pull Apart", "Shoulders (Rear)", "Resistance Band", "corrective", "beginner", false, "Traps"),
	ex("Dead Bug", "Core", "Bodyweight", "corrective", "beginner", false),
	ex("Glute Bridge", "Glutes", "Bodyweight", "corrective", "beginner", false, "Hamstrings"),
}

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		log.Fatalf("Failed to connect to Mongo: %v", err)
	}
	defer client.Disconnect(context.Background())

	repo := repository.NewMongoExerciseRepository(client.Database(cfg.MongoDB.Database))

	created, skipped := 0, 0
	for i := range starterCatalog {
		e := starterCatalog[i]
		if err := repo.Create(ctx, &e); err != nil {
			if errors.Is(err, domain.ErrDuplicateExercise) {
				log.WithField("name", e.Name).Info("Skipping duplicate")
				skipped++
				continue
			}
			log.WithError(err).WithField("name", e.Name).Error("Failed to create exercise")
			continue
		}
		created++
	}
	log.WithFields(log.Fields{"created": created, "skipped": skipped}).Info("Seeding exercises complete")
}
