package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/mansoorceksport/flexpro/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// programRecord is the stored shape of a program. Day entries are kept as the documents
// they were written as, so legacy and current entries coexist in one list.
type programRecord struct {
	ID            string                `bson:"_id"`
	Name          string                `bson:"name"`
	Description   string                `bson:"description,omitempty"`
	CoachID       string                `bson:"coach_id"`
	ClientID      string                `bson:"client_id"`
	Goal          string                `bson:"goal,omitempty"`
	Level         string                `bson:"level,omitempty"`
	Phase         string                `bson:"phase,omitempty"`
	DaysPerWeek   int                   `bson:"days_per_week,omitempty"`
	DurationWeeks int                   `bson:"duration_weeks,omitempty"`
	Days          map[string][]bson.Raw `bson:"days"`
	CreatedAt     time.Time             `bson:"created_at"`
	UpdatedAt     time.Time             `bson:"updated_at"`
}

type MongoProgramRepository struct {
	collection *mongo.Collection
}

func NewMongoProgramRepository(db *mongo.Database) *MongoProgramRepository {
	coll := db.Collection("programs")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "coach_id", Value: 1}, {Key: "updated_at", Value: -1}},
	})

	return &MongoProgramRepository{
		collection: coll,
	}
}

// entryToBSON converts an entry's JSON form into a BSON document through relaxed
// Extended JSON, keeping field order.
func entryToBSON(e domain.Entry) (bson.Raw, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	var doc bson.D
	if err := bson.UnmarshalExtJSON(data, false, &doc); err != nil {
		return nil, err
	}
	return bson.Marshal(doc)
}

func entryFromBSON(raw bson.Raw) (domain.Entry, error) {
	data, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return domain.Entry{}, err
	}
	return domain.ParseEntry(data)
}

func toProgramRecord(p *domain.Program) (*programRecord, error) {
	rec := &programRecord{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		CoachID:       p.CoachID,
		ClientID:      p.ClientID,
		Goal:          string(p.Goal),
		Level:         string(p.Level),
		Phase:         string(p.Phase),
		DaysPerWeek:   p.DaysPerWeek,
		DurationWeeks: p.DurationWeeks,
		Days:          make(map[string][]bson.Raw, len(p.Days)),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	for day, entries := range p.Days {
		docs := make([]bson.Raw, 0, len(entries))
		for i, e := range entries {
			doc, err := entryToBSON(e)
			if err != nil {
				return nil, fmt.Errorf("day %d entry %d: %w", day, i, err)
			}
			docs = append(docs, doc)
		}
		rec.Days[strconv.Itoa(day)] = docs
	}
	return rec, nil
}

func (rec *programRecord) toDomain() (*domain.Program, error) {
	p := &domain.Program{
		ID:            rec.ID,
		Name:          rec.Name,
		Description:   rec.Description,
		CoachID:       rec.CoachID,
		ClientID:      rec.ClientID,
		Goal:          domain.ProgramGoal(rec.Goal),
		Level:         domain.DifficultyLevel(rec.Level),
		Phase:         domain.TrainingPhase(rec.Phase),
		DaysPerWeek:   rec.DaysPerWeek,
		DurationWeeks: rec.DurationWeeks,
		Days:          make(domain.ProgramDocument, len(rec.Days)),
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
	for key, docs := range rec.Days {
		day, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("program %s: bad day key %q", rec.ID, key)
		}
		entries := make([]domain.Entry, 0, len(docs))
		for i, doc := range docs {
			e, err := entryFromBSON(doc)
			if err != nil {
				return nil, fmt.Errorf("program %s day %d entry %d: %w", rec.ID, day, i, err)
			}
			entries = append(entries, e)
		}
		p.Days[day] = entries
	}
	return p, nil
}

func (r *MongoProgramRepository) Create(ctx context.Context, p *domain.Program) error {
	rec, err := toProgramRecord(p)
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("failed to create program: %w", err)
	}
	return nil
}

func (r *MongoProgramRepository) GetByID(ctx context.Context, id string) (*domain.Program, error) {
	var rec programRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrProgramNotFound
		}
		return nil, err
	}
	return rec.toDomain()
}

func (r *MongoProgramRepository) Update(ctx context.Context, p *domain.Program) error {
	rec, err := toProgramRecord(p)
	if err != nil {
		return err
	}
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": p.ID}, rec)
	if err != nil {
		return fmt.Errorf("failed to update program: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrProgramNotFound
	}
	return nil
}

func (r *MongoProgramRepository) ListByCoach(ctx context.Context, coachID string) ([]*domain.Program, error) {
	return r.find(ctx, bson.M{"coach_id": coachID})
}

func (r *MongoProgramRepository) List(ctx context.Context) ([]*domain.Program, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoProgramRepository) find(ctx context.Context, query bson.M) ([]*domain.Program, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	programs := []*domain.Program{}
	for cursor.Next(ctx) {
		var rec programRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, err
		}
		p, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	return programs, cursor.Err()
}

func (r *MongoProgramRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrProgramNotFound
	}
	return nil
}
