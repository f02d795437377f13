package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/tendant/ministry-hub/pkg/ministry"
)

// Collection names
const (
	RegistrationsCollection = "registrations"
	PostsCollection         = "posts"
	EventsCollection        = "events"
)

// Repository implements ministry.Repository on a MongoDB database
type Repository struct {
	db            *mongo.Database
	registrations *collection[ministry.Registration]
	posts         *collection[ministry.Post]
	events        *collection[ministry.Event]
}

// New creates a repository on an already connected database
func New(db *mongo.Database) *Repository {
	return &Repository{
		db:            db,
		registrations: newCollection[ministry.Registration](db.Collection(RegistrationsCollection)),
		posts:         newCollection[ministry.Post](db.Collection(PostsCollection)),
		events:        newCollection[ministry.Event](db.Collection(EventsCollection)),
	}
}

// Connect dials uri and returns a repository on dbName. When dbName is empty
// the database named in the URI is used.
func Connect(ctx context.Context, uri, dbName string) (*Repository, error) {
	connDSN, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid mongodb uri: %w", err)
	}
	if dbName == "" {
		dbName = connDSN.Database
	}
	if dbName == "" {
		return nil, fmt.Errorf("mongodb database name is required")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return New(client.Database(dbName)), nil
}

// EnsureIndexes creates the indexes used by the upcoming-events and
// newest-posts reads
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(EventsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: ministry.FieldDate, Value: 1}},
			Options: options.Index().SetName("events_date"),
		},
	})
	if err != nil {
		return fmt.Errorf("events indexes: %w", err)
	}

	_, err = r.db.Collection(PostsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: ministry.FieldCreatedAt, Value: -1}},
			Options: options.Index().SetName("posts_created_at"),
		},
	})
	if err != nil {
		return fmt.Errorf("posts indexes: %w", err)
	}
	return nil
}

func (r *Repository) Registrations() ministry.Collection[ministry.Registration] {
	return r.registrations
}

func (r *Repository) Posts() ministry.Collection[ministry.Post] {
	return r.posts
}

func (r *Repository) Events() ministry.Collection[ministry.Event] {
	return r.events
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, readpref.Primary())
}

func (r *Repository) Close(ctx context.Context) error {
	return r.db.Client().Disconnect(ctx)
}
