package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"pguncle/internal/config"
	"pguncle/internal/logger"
	"pguncle/internal/models"
)

const (
	collProperties  = "properties"
	collUsers       = "users"
	collBookings    = "bookings"
	collDiagnostics = "diagnostics"
)

// MongoStore is the DocumentStore backed by MongoDB.
type MongoStore struct {
	client     *mongo.Client
	properties *mongo.Collection
	users      *mongo.Collection
	bookings   *mongo.Collection
	probes     *mongo.Collection
	log        *logger.Logger
}

func NewMongoStore(ctx context.Context, cfg config.MongoConfig, log *logger.Logger) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo: MONGO_URI is not set")
	}
	log.LogDatabase("CONNECT", "mongo", fmt.Sprintf("Connecting to MongoDB database %s", cfg.Database))

	cctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	client, err := mongo.Connect(cctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(cctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	store := NewMongoStoreFromDatabase(client.Database(cfg.Database), log)
	if err := store.ensureIndexes(cctx); err != nil {
		log.Warn("DATABASE", "Failed to ensure mongo indexes: "+err.Error())
	}

	log.LogDatabase("SUCCESS", "mongo", "MongoDB connection established")
	return store, nil
}

// NewMongoStoreFromDatabase wraps an already connected database.
func NewMongoStoreFromDatabase(db *mongo.Database, log *logger.Logger) *MongoStore {
	return &MongoStore{
		client:     db.Client(),
		properties: db.Collection(collProperties),
		users:      db.Collection(collUsers),
		bookings:   db.Collection(collBookings),
		probes:     db.Collection(collDiagnostics),
		log:        log,
	}
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	if _, err := s.bookings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	}); err != nil {
		return err
	}
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	})
	return err
}

func (s *MongoStore) ListProperties(ctx context.Context) ([]models.Property, error) {
	s.log.LogDatabase("FIND", "mongo", "Listing properties")

	cur, err := s.properties.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.Property{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}
	return out, nil
}

func (s *MongoStore) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	s.log.LogDatabase("FIND_ONE", "mongo", fmt.Sprintf("Fetching property %s", id))

	var p models.Property
	err := s.properties.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("property %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property %s: %w", id, err)
	}
	return &p, nil
}

func (s *MongoStore) GetPropertiesByIDs(ctx context.Context, ids []string) (map[string]models.Property, error) {
	out := make(map[string]models.Property, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	s.log.LogDatabase("FIND", "mongo", fmt.Sprintf("Fetching %d properties by id", len(ids)))

	cur, err := s.properties.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch properties: %w", err)
	}
	defer cur.Close(ctx)

	var found []models.Property
	if err := cur.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}
	for _, p := range found {
		out[p.ID] = p
	}
	return out, nil
}

func (s *MongoStore) CreateProperty(ctx context.Context, p models.Property) (*models.Property, error) {
	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	s.log.LogDatabase("INSERT", "mongo", fmt.Sprintf("Creating property %s", p.ID))
	if _, err := s.properties.InsertOne(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}
	return &p, nil
}

func (s *MongoStore) UpdateProperty(ctx context.Context, id string, patch models.PropertyPatch) (*models.Property, error) {
	set := bson.M{}
	for k, v := range patch.Fields() {
		set[k] = v
	}
	set["updated_at"] = time.Now().UTC()

	s.log.LogDatabase("UPDATE", "mongo", fmt.Sprintf("Updating property %s", id))

	var p models.Property
	err := s.properties.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("property %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update property %s: %w", id, err)
	}
	return &p, nil
}

func (s *MongoStore) SetPropertyActive(ctx context.Context, id string, active bool) (*models.Property, error) {
	return s.UpdateProperty(ctx, id, models.PropertyPatch{IsActive: &active})
}

func (s *MongoStore) DeleteProperty(ctx context.Context, id string) error {
	s.log.LogDatabase("DELETE", "mongo", fmt.Sprintf("Deleting property %s", id))
	if _, err := s.properties.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete property %s: %w", id, err)
	}
	return nil
}

func (s *MongoStore) CountProperties(ctx context.Context) (int64, error) {
	n, err := s.properties.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count properties: %w", err)
	}
	return n, nil
}

func (s *MongoStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var doc bson.M
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return userFromDoc(doc), nil
}

func (s *MongoStore) UpdateUser(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	s.log.LogDatabase("UPDATE", "mongo", fmt.Sprintf("Updating user %s (%d fields)", id, len(fields)))

	var doc bson.M
	err := s.users.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", id, err)
	}
	return userFromDoc(doc), nil
}

func (s *MongoStore) UpsertUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	now := time.Now().UTC()

	var doc bson.M
	err := s.users.FindOneAndUpdate(ctx,
		bson.M{"email": email},
		bson.M{
			"$set":         bson.M{"lastLoginAt": now},
			"$setOnInsert": bson.M{"_id": uuid.NewString(), "email": email, "createdAt": now},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user %s: %w", email, err)
	}
	return userFromDoc(doc), nil
}

func (s *MongoStore) ListBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	s.log.LogDatabase("FIND", "mongo", fmt.Sprintf("Listing bookings for user %s", userID))

	cur, err := s.bookings.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.Booking{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return out, nil
}

func (s *MongoStore) ListBookings(ctx context.Context, limit, offset int) ([]models.Booking, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.bookings.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.Booking{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return out, nil
}

func (s *MongoStore) CreateBooking(ctx context.Context, b models.Booking) (*models.Booking, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = models.BookingPending
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}

	s.log.LogDatabase("INSERT", "mongo", fmt.Sprintf("Creating booking %s for user %s", b.ID, b.UserID))
	if _, err := s.bookings.InsertOne(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	return &b, nil
}

func (s *MongoStore) WriteProbe(ctx context.Context) (string, error) {
	id := "probe_" + uuid.NewString()
	_, err := s.probes.InsertOne(ctx, bson.M{"_id": id, "created_at": time.Now().UTC()})
	if err != nil {
		return "", fmt.Errorf("failed to write probe document: %w", err)
	}
	return id, nil
}

func (s *MongoStore) DeleteProbe(ctx context.Context, id string) error {
	if _, err := s.probes.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete probe document %s: %w", id, err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	s.log.LogDatabase("CLOSE", "mongo", "Closing MongoDB connection")
	return s.client.Disconnect(ctx)
}

func userFromDoc(doc bson.M) *models.User {
	u := &models.User{Fields: make(map[string]interface{}, len(doc))}
	for k, v := range doc {
		if k == "_id" {
			u.ID = fmt.Sprint(v)
			continue
		}
		u.Fields[k] = v
	}
	return u
}
