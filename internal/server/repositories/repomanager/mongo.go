package repomanager

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/users"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultDatabaseName = "gophtasks"

type MongoRepositoryManager struct {
	client *mongo.Client
	db     *mongo.Database
	users  users.Repository
	tasks  tasks.Repository
}

func (m *MongoRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MongoRepositoryManager) Tasks() tasks.Repository {
	return m.tasks
}

func (m *MongoRepositoryManager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// ensureIndexes creates the unique index enforcing email uniqueness, the
// document-store counterpart of the SQL migration.
func (m *MongoRepositoryManager) ensureIndexes(ctx context.Context) error {
	_, err := m.db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = m.db.Collection("tasks").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	})
	return err
}

// databaseNameFromDSN extracts the database name from the DSN path, falling
// back to the default when the path is empty.
func databaseNameFromDSN(dsn string) string {
	rest := dsn
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.Index(rest, "/"); i >= 0 {
		name := rest[i+1:]
		if j := strings.Index(name, "?"); j >= 0 {
			name = name[:j]
		}
		if name != "" {
			return name
		}
	}
	return defaultDatabaseName
}

func NewMongoRepositoryManager(ctx context.Context, dsn string) (*MongoRepositoryManager, error) {

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(dsn))
	if err != nil {
		return nil, fmt.Errorf("db connect error: %w", err)
	}

	db := client.Database(databaseNameFromDSN(dsn))

	m := &MongoRepositoryManager{
		client: client,
		db:     db,
		users:  users.NewMongoRepository(db),
		tasks:  tasks.NewMongoRepository(db),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("index error: %w", err)
	}

	return m, nil
}
