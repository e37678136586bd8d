package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SindhuAbhirami/civic-watch/models"
)

// Mongo stores each collection as a MongoDB collection keyed by _id.
type Mongo struct {
	db *mongo.Database
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

// EnsureIndexes creates the unique username index on both actor
// collections.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	for _, role := range []models.Role{models.RoleCitizen, models.RoleOfficial} {
		if _, err := m.db.Collection(collectionFor(role)).Indexes().CreateOne(ctx, indexModel); err != nil {
			return fmt.Errorf("index %s: %w", collectionFor(role), err)
		}
	}
	return nil
}

func (m *Mongo) findActor(ctx context.Context, role models.Role, filter bson.M) (*models.Actor, error) {
	var actor models.Actor
	err := m.db.Collection(collectionFor(role)).FindOne(ctx, filter).Decode(&actor)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &actor, nil
}

func (m *Mongo) FindActor(ctx context.Context, role models.Role, id int64) (*models.Actor, error) {
	return m.findActor(ctx, role, bson.M{"_id": id})
}

func (m *Mongo) FindActorByUsername(ctx context.Context, role models.Role, username string) (*models.Actor, error) {
	return m.findActor(ctx, role, bson.M{"username": username})
}

func (m *Mongo) ListActors(ctx context.Context, role models.Role) ([]models.Actor, error) {
	cursor, err := m.db.Collection(collectionFor(role)).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var actors []models.Actor
	if err := cursor.All(ctx, &actors); err != nil {
		return nil, err
	}
	return actors, nil
}

func (m *Mongo) SaveActor(ctx context.Context, actor *models.Actor) error {
	_, err := m.db.Collection(collectionFor(actor.Role)).ReplaceOne(ctx,
		bson.M{"_id": actor.ID}, actor, options.Replace().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: username %q", ErrDuplicate, actor.Username)
	}
	return err
}

func (m *Mongo) FindIssue(ctx context.Context, id int64) (*models.Issue, error) {
	var issue models.Issue
	err := m.db.Collection("issues").FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

func (m *Mongo) ListIssues(ctx context.Context) ([]models.Issue, error) {
	cursor, err := m.db.Collection("issues").Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

func (m *Mongo) SaveIssue(ctx context.Context, issue *models.Issue) error {
	_, err := m.db.Collection("issues").ReplaceOne(ctx,
		bson.M{"_id": issue.ID}, issue, options.Replace().SetUpsert(true))
	return err
}
