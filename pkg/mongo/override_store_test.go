package mongo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	driver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/flagkit/pkg/feature"
	"github.com/dmitrymomot/flagkit/pkg/mongo"
)

var _ feature.OverrideStore = (*mongo.OverrideStore)(nil)

type mockCollection struct {
	mock.Mock
}

func (m *mockCollection) FindOne(ctx context.Context, filter any, _ ...options.Lister[options.FindOneOptions]) *driver.SingleResult {
	return m.Called(ctx, filter).Get(0).(*driver.SingleResult)
}

func (m *mockCollection) UpdateOne(ctx context.Context, filter any, update any, _ ...options.Lister[options.UpdateOneOptions]) (*driver.UpdateResult, error) {
	args := m.Called(ctx, filter, update)
	return args.Get(0).(*driver.UpdateResult), args.Error(1)
}

func (m *mockCollection) DeleteOne(ctx context.Context, filter any, _ ...options.Lister[options.DeleteOneOptions]) (*driver.DeleteResult, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(*driver.DeleteResult), args.Error(1)
}

func filterFor(subject, key string) bson.D {
	return bson.D{{Key: "subject", Value: subject}, {Key: "key", Value: key}}
}

type subjectKey struct{}

func subjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey{}).(string)
	return s
}

func TestOverrideStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	errDown := errors.New("server selection timeout")

	t.Run("get existing", func(t *testing.T) {
		t.Parallel()
		coll := &mockCollection{}
		doc := bson.D{{Key: "subject", Value: ""}, {Key: "key", Value: "ff_a"}, {Key: "value", Value: "on"}}
		coll.On("FindOne", mock.Anything, filterFor("", "ff_a")).
			Return(driver.NewSingleResultFromDocument(doc, nil, nil))

		v, ok, err := mongo.NewOverrideStore(coll).Get(ctx, "ff_a")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "on", v)
		coll.AssertExpectations(t)
	})

	t.Run("get missing", func(t *testing.T) {
		t.Parallel()
		coll := &mockCollection{}
		coll.On("FindOne", mock.Anything, mock.Anything).
			Return(driver.NewSingleResultFromDocument(bson.D{}, driver.ErrNoDocuments, nil))

		_, ok, err := mongo.NewOverrideStore(coll).Get(ctx, "ff_a")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("get failure", func(t *testing.T) {
		t.Parallel()
		coll := &mockCollection{}
		coll.On("FindOne", mock.Anything, mock.Anything).
			Return(driver.NewSingleResultFromDocument(bson.D{}, errDown, nil))

		_, _, err := mongo.NewOverrideStore(coll).Get(ctx, "ff_a")
		assert.ErrorIs(t, err, mongo.ErrOverrideStore)
		assert.ErrorIs(t, err, errDown)
	})

	t.Run("set upserts per subject", func(t *testing.T) {
		t.Parallel()
		coll := &mockCollection{}
		coll.On("UpdateOne", mock.Anything, filterFor("user-1", "ff_a"), mock.MatchedBy(func(update bson.D) bool {
			set, ok := update[0].Value.(bson.D)
			return ok && update[0].Key == "$set" && set[0].Key == "value" && set[0].Value == "off"
		})).Return(&driver.UpdateResult{UpsertedCount: 1}, nil)

		store := mongo.NewOverrideStore(coll, mongo.WithSubject(subjectFromContext))
		require.NoError(t, store.Set(context.WithValue(ctx, subjectKey{}, "user-1"), "ff_a", "off"))
		coll.AssertExpectations(t)
	})

	t.Run("remove missing document", func(t *testing.T) {
		t.Parallel()
		coll := &mockCollection{}
		coll.On("DeleteOne", mock.Anything, filterFor("", "ff_a")).Return(&driver.DeleteResult{DeletedCount: 0}, nil)

		require.NoError(t, mongo.NewOverrideStore(coll).Remove(ctx, "ff_a"))
		coll.AssertExpectations(t)
	})

	t.Run("write failures", func(t *testing.T) {
		t.Parallel()
		coll := &mockCollection{}
		coll.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return((*driver.UpdateResult)(nil), errDown)
		coll.On("DeleteOne", mock.Anything, mock.Anything).Return((*driver.DeleteResult)(nil), errDown)

		store := mongo.NewOverrideStore(coll)
		assert.ErrorIs(t, store.Set(ctx, "ff_a", "on"), mongo.ErrOverrideStore)
		assert.ErrorIs(t, store.Remove(ctx, "ff_a"), mongo.ErrOverrideStore)
	})
}
