package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lokvista_admin/internal/adapters/observability"
	"lokvista_admin/internal/domain"
)

// Connect opens a client and checks the server is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// Store implements the place and hotel repositories on one database.
type Store struct {
	cli  *mongo.Client
	db   *mongo.Database
	txns bool
}

// New wraps db. With txns set, WithTransaction runs inside a session
// transaction, which needs a replica set.
func New(cli *mongo.Client, db *mongo.Database, txns bool) *Store {
	return &Store{cli: cli, db: db, txns: txns}
}

func (s *Store) c(name string) *mongo.Collection { return s.db.Collection(name) }

// EnsureIndexes creates the lookup indexes used by the read and approval paths.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.c(domain.CollImages).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "placeId", Value: 1}, {Key: "uploadedAt", Value: 1}},
	}); err != nil {
		return fmt.Errorf("images index: %w", err)
	}
	if _, err := s.c(domain.CollSubmissionImages).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "submissionId", Value: 1}, {Key: "uploadedAt", Value: 1}},
	}); err != nil {
		return fmt.Errorf("submission images index: %w", err)
	}
	if _, err := s.c(domain.CollSubmissions).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "verified", Value: 1}, {Key: "approvalStage", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("submissions index: %w", err)
	}
	if _, err := s.c(domain.CollHotels).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.M{"status": 1},
	}); err != nil {
		return fmt.Errorf("hotels index: %w", err)
	}
	return nil
}

// WithTransaction runs fn in a session transaction when enabled, else directly.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.txns {
		return fn(ctx)
	}
	session, err := s.cli.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// idFilter matches documents whose _id is either the raw string or, when id
// is 24 hex chars, the equivalent ObjectID.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{oid, id}}}
	}
	return bson.M{"_id": id}
}

// observe records the duration and outcome of one store call.
func observe(op string, start time.Time, err *error) {
	observability.ObserveStore("mongo", op, *err, time.Since(start))
}

// notFoundOr resolves a zero-match conditional write: ErrNotFound when the
// document is gone, conflict otherwise.
func (s *Store) notFoundOr(ctx context.Context, coll, id string, conflict error) error {
	n, err := s.c(coll).CountDocuments(ctx, idFilter(id))
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return conflict
}

func findOne(ctx context.Context, coll *mongo.Collection, filter any, dst any, opts ...*options.FindOneOptions) error {
	err := coll.FindOne(ctx, filter, opts...).Decode(dst)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrNotFound
	}
	return err
}
