package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// DefaultOverridesCollection is the collection used when Config leaves it empty.
const DefaultOverridesCollection = "feature_overrides"

// Collection is the subset of *mongo.Collection the override store uses.
type Collection interface {
	FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongo.SingleResult
	UpdateOne(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateOneOptions]) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter any, opts ...options.Lister[options.DeleteOneOptions]) (*mongo.DeleteResult, error)
}

// SubjectFunc extracts the owner of an override from a request context.
// An empty subject stores the override globally.
type SubjectFunc func(ctx context.Context) string

// OverrideStoreOption configures an OverrideStore.
type OverrideStoreOption func(*OverrideStore)

// WithSubject scopes overrides to the subject returned by fn.
func WithSubject(fn SubjectFunc) OverrideStoreOption {
	return func(s *OverrideStore) { s.subject = fn }
}

type overrideDocument struct {
	Subject   string    `bson:"subject"`
	Key       string    `bson:"key"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// OverrideStore keeps one document per (subject, key).
type OverrideStore struct {
	coll    Collection
	subject SubjectFunc
	now     func() time.Time
}

// NewOverrideStore creates a store over coll. Call EnsureOverrideIndexes once
// so concurrent upserts cannot create duplicates.
func NewOverrideStore(coll Collection, opts ...OverrideStoreOption) *OverrideStore {
	s := &OverrideStore{coll: coll, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *OverrideStore) Get(ctx context.Context, key string) (string, bool, error) {
	var doc overrideDocument
	if err := s.coll.FindOne(ctx, s.filter(ctx, key)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", false, nil
		}
		return "", false, errors.Join(ErrOverrideStore, err)
	}
	return doc.Value, true, nil
}

func (s *OverrideStore) Set(ctx context.Context, key, value string) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "value", Value: value},
		{Key: "updated_at", Value: s.now().UTC()},
	}}}
	if _, err := s.coll.UpdateOne(ctx, s.filter(ctx, key), update, options.UpdateOne().SetUpsert(true)); err != nil {
		return errors.Join(ErrOverrideStore, err)
	}
	return nil
}

// Remove deletes the override. Deleting a missing document is not an error.
func (s *OverrideStore) Remove(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, s.filter(ctx, key)); err != nil {
		return errors.Join(ErrOverrideStore, err)
	}
	return nil
}

func (s *OverrideStore) filter(ctx context.Context, key string) bson.D {
	subject := ""
	if s.subject != nil {
		subject = s.subject(ctx)
	}
	return bson.D{{Key: "subject", Value: subject}, {Key: "key", Value: key}}
}

// EnsureOverrideIndexes creates the unique (subject, key) index.
func EnsureOverrideIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "subject", Value: 1}, {Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("subject_key_unique"),
	})
	if err != nil {
		return errors.Join(ErrOverrideStore, err)
	}
	return nil
}
