package store

import (
	"context"
	"testing"
	"time"

	"github.com/Daskott/contacts/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

var (
	created = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	updated = created.Add(time.Hour)
)

func newTestMongoStore(mt *mtest.T) *MongoContactStore {
	store := NewMongoContactStore(CollectionProviderFunc(func(name string) (*mongo.Collection, error) {
		return mt.Coll, nil
	}), "", time.Second)
	store.now = func() time.Time { return updated }
	return store
}

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func contactDoc(id primitive.ObjectID, firstName, color string, updatedAt time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "firstName", Value: firstName},
		{Key: "lastName", Value: "Doe"},
		{Key: "email", Value: "john.doe@example.com"},
		{Key: "favoriteColor", Value: color},
		{Key: "birthday", Value: time.Date(1990, time.May, 15, 0, 0, 0, 0, time.UTC)},
		{Key: "createdAt", Value: created},
		{Key: "updatedAt", Value: updatedAt},
	}
}

func TestMongoContactStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("list decodes every document", func(mt *mtest.T) {
		first, second := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			contactDoc(second, "Jane", "Green", created),
			contactDoc(first, "John", "Blue", created),
		))

		contacts, err := newTestMongoStore(mt).List(context.Background())
		require.NoError(mt, err)
		require.Len(mt, contacts, 2)
		assert.Equal(mt, second.Hex(), contacts[0].ID)
		assert.Equal(mt, "Jane", contacts[0].FirstName)
		assert.Equal(mt, "1990-05-15", contacts[1].Birthday.String())

		evt := mt.GetStartedEvent()
		assert.Equal(mt, "find", evt.CommandName)
		sort := evt.Command.Lookup("sort").Document()
		assert.Equal(mt, int32(-1), sort.Lookup("createdAt").Int32())
	})

	mt.Run("list of an empty collection", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		contacts, err := newTestMongoStore(mt).List(context.Background())
		require.NoError(mt, err)
		assert.NotNil(mt, contacts)
		assert.Empty(mt, contacts)
	})

	mt.Run("find by id", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			contactDoc(id, "John", "Blue", created)))

		contact, err := newTestMongoStore(mt).FindByID(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), contact.ID)
		assert.True(mt, contact.CreatedAt.Equal(created))
	})

	mt.Run("find missing id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := newTestMongoStore(mt).FindByID(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, models.ErrNotFound)
	})

	mt.Run("malformed id never reaches the server", func(mt *mtest.T) {
		store := newTestMongoStore(mt)

		_, err := store.FindByID(context.Background(), "abc")
		assert.ErrorIs(mt, err, models.ErrInvalidID)
		_, err = store.UpdateByID(context.Background(), "abc", &models.ContactPatch{})
		assert.ErrorIs(mt, err, models.ErrInvalidID)
		_, err = store.DeleteByID(context.Background(), "abc")
		assert.ErrorIs(mt, err, models.ErrInvalidID)

		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("insert assigns id and timestamps", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		contact, err := models.NewContact(SampleContacts[0])
		require.NoError(mt, err)

		id, err := newTestMongoStore(mt).Insert(context.Background(), contact)
		require.NoError(mt, err)
		assert.NoError(mt, models.ValidateID(id))

		evt := mt.GetStartedEvent()
		assert.Equal(mt, "insert", evt.CommandName)
		doc := evt.Command.Lookup("documents").Array().Index(0).Value().Document()
		assert.Equal(mt, id, doc.Lookup("_id").ObjectID().Hex())
		assert.Equal(mt, "john.doe@example.com", doc.Lookup("email").StringValue())
		assert.Equal(mt, doc.Lookup("createdAt").DateTime(), doc.Lookup("updatedAt").DateTime())
	})

	mt.Run("update uses an atomic pipeline", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: contactDoc(id, "John", "Purple", updated)},
		})

		color := "Purple"
		contact, err := newTestMongoStore(mt).UpdateByID(context.Background(), id.Hex(), &models.ContactPatch{FavoriteColor: &color})
		require.NoError(mt, err)
		assert.Equal(mt, "Purple", contact.FavoriteColor)
		assert.True(mt, contact.UpdatedAt.Equal(updated))

		evt := mt.GetStartedEvent()
		assert.Equal(mt, "findAndModify", evt.CommandName)
		assert.Equal(mt, bsontype.Array, evt.Command.Lookup("update").Type)
		assert.Contains(mt, evt.Command.String(), "$literal")
		assert.Contains(mt, evt.Command.String(), "$max")
		assert.True(mt, evt.Command.Lookup("new").Boolean())
	})

	mt.Run("update missing id", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		_, err := newTestMongoStore(mt).UpdateByID(context.Background(), primitive.NewObjectID().Hex(), &models.ContactPatch{})
		assert.ErrorIs(mt, err, models.ErrNotFound)
	})

	mt.Run("delete reports removal", func(mt *mtest.T) {
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}},
			bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}},
		)
		store := newTestMongoStore(mt)
		id := primitive.NewObjectID().Hex()

		deleted, err := store.DeleteByID(context.Background(), id)
		require.NoError(mt, err)
		assert.True(mt, deleted)

		deleted, err = store.DeleteByID(context.Background(), id)
		require.NoError(mt, err)
		assert.False(mt, deleted)
	})

	mt.Run("delete all", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 3}})

		removed, err := newTestMongoStore(mt).DeleteAll(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), removed)
	})

	mt.Run("server errors are store unavailable", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    8000,
			Name:    "AtlasError",
			Message: "cluster paused",
		}))

		_, err := newTestMongoStore(mt).List(context.Background())
		assert.ErrorIs(mt, err, models.ErrStoreUnavailable)
	})

	mt.Run("provider errors pass through", func(mt *mtest.T) {
		store := NewMongoContactStore(CollectionProviderFunc(func(name string) (*mongo.Collection, error) {
			return nil, models.ErrNotInitialized
		}), "", time.Second)

		_, err := store.List(context.Background())
		assert.ErrorIs(mt, err, models.ErrNotInitialized)
		_, err = store.FindByID(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, models.ErrNotInitialized)
	})
}

func TestNextUpdatedAt(t *testing.T) {
	assert.Equal(t, updated, nextUpdatedAt(updated, created))
	assert.Equal(t, created.Add(time.Millisecond), nextUpdatedAt(created, created))
	assert.Equal(t, created.Add(time.Millisecond), nextUpdatedAt(created.Add(-time.Second), created))
}
