package store

import (
	"context"
	"errors"
	"time"

	"github.com/Daskott/contacts/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const DefaultCollection = "contacts"

// CollectionProvider hands out collections of a connected database.
type CollectionProvider interface {
	Collection(name string) (*mongo.Collection, error)
}

type CollectionProviderFunc func(name string) (*mongo.Collection, error)

func (f CollectionProviderFunc) Collection(name string) (*mongo.Collection, error) {
	return f(name)
}

type contactDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	FirstName     string             `bson:"firstName"`
	LastName      string             `bson:"lastName"`
	Email         string             `bson:"email"`
	FavoriteColor string             `bson:"favoriteColor"`
	Birthday      time.Time          `bson:"birthday"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (doc *contactDocument) toModel() *models.Contact {
	return &models.Contact{
		BaseModel: models.BaseModel{
			ID:        doc.ID.Hex(),
			CreatedAt: doc.CreatedAt.UTC(),
			UpdatedAt: doc.UpdatedAt.UTC(),
		},
		FirstName:     doc.FirstName,
		LastName:      doc.LastName,
		Email:         doc.Email,
		FavoriteColor: doc.FavoriteColor,
		Birthday:      models.NewDate(doc.Birthday.UTC()),
	}
}

// MongoContactStore keeps contacts in a MongoDB collection.
type MongoContactStore struct {
	provider   CollectionProvider
	collection string
	timeout    time.Duration
	now        func() time.Time
}

func NewMongoContactStore(provider CollectionProvider, collection string, timeout time.Duration) *MongoContactStore {
	if collection == "" {
		collection = DefaultCollection
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &MongoContactStore{
		provider:   provider,
		collection: collection,
		timeout:    timeout,
		now:        time.Now,
	}
}

func (s *MongoContactStore) coll(ctx context.Context) (*mongo.Collection, context.Context, context.CancelFunc, error) {
	coll, err := s.provider.Collection(s.collection)
	if err != nil {
		return nil, nil, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return coll, ctx, cancel, nil
}

func objectID(id string) (primitive.ObjectID, error) {
	canonical, err := models.ParseID(id)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return primitive.ObjectIDFromHex(canonical)
}

func (s *MongoContactStore) List(ctx context.Context) ([]*models.Contact, error) {
	coll, ctx, cancel, err := s.coll(ctx)
	if err != nil {
		return nil, wrapErr("list contacts", err)
	}
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, wrapErr("list contacts", err)
	}

	docs := []contactDocument{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrapErr("list contacts", err)
	}

	contacts := make([]*models.Contact, 0, len(docs))
	for i := range docs {
		contacts = append(contacts, docs[i].toModel())
	}

	return contacts, nil
}

func (s *MongoContactStore) FindByID(ctx context.Context, id string) (*models.Contact, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	coll, ctx, cancel, err := s.coll(ctx)
	if err != nil {
		return nil, wrapErr("find contact", err)
	}
	defer cancel()

	doc := contactDocument{}
	err = coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("find contact "+id, err)
	}

	return doc.toModel(), nil
}

func (s *MongoContactStore) Insert(ctx context.Context, contact *models.Contact) (string, error) {
	coll, ctx, cancel, err := s.coll(ctx)
	if err != nil {
		return "", wrapErr("insert contact", err)
	}
	defer cancel()

	now := timestamp(s.now)
	res, err := coll.InsertOne(ctx, contactDocument{
		FirstName:     contact.FirstName,
		LastName:      contact.LastName,
		Email:         contact.Email,
		FavoriteColor: contact.FavoriteColor,
		Birthday:      contact.Birthday.Time,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return "", wrapErr("insert contact", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", wrapErr("insert contact", errors.New("unexpected inserted id type"))
	}

	return oid.Hex(), nil
}

// UpdateByID applies the patch with a single pipeline update so the merge and
// the updatedAt bump happen atomically on the server.
func (s *MongoContactStore) UpdateByID(ctx context.Context, id string, patch *models.ContactPatch) (*models.Contact, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	coll, ctx, cancel, err := s.coll(ctx)
	if err != nil {
		return nil, wrapErr("update contact", err)
	}
	defer cancel()

	set := bson.M{}
	for field, value := range patch.Fields() {
		set[field] = bson.M{"$literal": value}
	}
	set["updatedAt"] = bson.M{"$max": bson.A{
		timestamp(s.now),
		bson.M{"$add": bson.A{"$updatedAt", 1}},
	}}

	update := mongo.Pipeline{bson.D{{Key: "$set", Value: set}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	doc := contactDocument{}
	err = coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("update contact "+id, err)
	}

	return doc.toModel(), nil
}

func (s *MongoContactStore) DeleteByID(ctx context.Context, id string) (bool, error) {
	oid, err := objectID(id)
	if err != nil {
		return false, err
	}

	coll, ctx, cancel, err := s.coll(ctx)
	if err != nil {
		return false, wrapErr("delete contact", err)
	}
	defer cancel()

	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, wrapErr("delete contact "+id, err)
	}

	return res.DeletedCount > 0, nil
}

func (s *MongoContactStore) DeleteAll(ctx context.Context) (int64, error) {
	coll, ctx, cancel, err := s.coll(ctx)
	if err != nil {
		return 0, wrapErr("delete contacts", err)
	}
	defer cancel()

	res, err := coll.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, wrapErr("delete contacts", err)
	}

	return res.DeletedCount, nil
}
