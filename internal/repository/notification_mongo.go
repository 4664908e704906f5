package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"whiskaway/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	notificationsCollection = "notifications"
	countersCollection      = "counters"
)

type notificationDoc struct {
	ID            uint64    `bson:"_id"`
	Type          string    `bson:"type"`
	FromProfileID *uint64   `bson:"from_profile_id"`
	ToProfileID   uint64    `bson:"to_profile_id"`
	Data          string    `bson:"data"`
	Read          bool      `bson:"read"`
	CreatedAt     time.Time `bson:"created_at"`
}

func toNotificationDoc(n *models.Notification) notificationDoc {
	doc := notificationDoc{
		ID:          uint64(n.ID),
		Type:        string(n.Type),
		ToProfileID: uint64(n.ToProfileID),
		Data:        string(n.Data),
		Read:        n.Read,
		CreatedAt:   n.CreatedAt.UTC(),
	}
	if n.FromProfileID != nil {
		from := uint64(*n.FromProfileID)
		doc.FromProfileID = &from
	}
	return doc
}

func (d notificationDoc) model() models.Notification {
	n := models.Notification{
		ID:          uint(d.ID),
		Type:        models.NotificationType(d.Type),
		ToProfileID: uint(d.ToProfileID),
		Data:        json.RawMessage(d.Data),
		Read:        d.Read,
		CreatedAt:   d.CreatedAt,
	}
	if d.FromProfileID != nil {
		from := uint(*d.FromProfileID)
		n.FromProfileID = &from
	}
	return n
}

type mongoNotificationRepository struct {
	notifications *mongo.Collection
	counters      *mongo.Collection
}

// NewMongoNotificationRepository returns a NotificationRepository backed by
// MongoDB. Ids come from a counters sequence so they stay numeric.
func NewMongoNotificationRepository(db *mongo.Database) NotificationRepository {
	return &mongoNotificationRepository{
		notifications: db.Collection(notificationsCollection),
		counters:      db.Collection(countersCollection),
	}
}

// EnsureNotificationIndexes creates the recipient listing index.
func EnsureNotificationIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(notificationsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "to_profile_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "to_profile_id", Value: 1}, {Key: "read", Value: 1}}},
	})
	return err
}

func (r *mongoNotificationRepository) nextID(ctx context.Context) (uint64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": notificationsCollection},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return uint64(counter.Seq), nil
}

func (r *mongoNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	id, err := r.nextID(ctx)
	if err != nil {
		return models.NewInternalError(err)
	}
	n.ID = uint(id)
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if _, err := r.notifications.InsertOne(ctx, toNotificationDoc(n)); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *mongoNotificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var doc notificationDoc
	if err := r.notifications.FindOne(ctx, bson.M{"_id": uint64(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewNotFoundError("Notification", id)
		}
		return nil, models.NewInternalError(err)
	}
	n := doc.model()
	return &n, nil
}

func (r *mongoNotificationRepository) ListForRecipient(ctx context.Context, profileID uint, limit, offset int) ([]models.Notification, error) {
	limit, offset = clampPage(limit, offset, 20)
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.notifications.Find(ctx, bson.M{"to_profile_id": uint64(profileID)}, opts)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer cursor.Close(ctx)

	var docs []notificationDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, models.NewInternalError(err)
	}
	list := make([]models.Notification, 0, len(docs))
	for _, d := range docs {
		list = append(list, d.model())
	}
	return list, nil
}

func (r *mongoNotificationRepository) MarkRead(ctx context.Context, id uint) (bool, error) {
	res, err := r.notifications.UpdateOne(ctx,
		bson.M{"_id": uint64(id), "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *mongoNotificationRepository) MarkAllRead(ctx context.Context, profileID uint) (int64, error) {
	res, err := r.notifications.UpdateMany(ctx,
		bson.M{"to_profile_id": uint64(profileID), "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return res.ModifiedCount, nil
}

func (r *mongoNotificationRepository) CountUnread(ctx context.Context, profileID uint) (int64, error) {
	count, err := r.notifications.CountDocuments(ctx, bson.M{"to_profile_id": uint64(profileID), "read": false})
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *mongoNotificationRepository) PurgeProfile(ctx context.Context, profileID uint) error {
	if _, err := r.notifications.DeleteMany(ctx, bson.M{"to_profile_id": uint64(profileID)}); err != nil {
		return models.NewInternalError(err)
	}
	if _, err := r.notifications.UpdateMany(ctx,
		bson.M{"from_profile_id": uint64(profileID)},
		bson.M{"$set": bson.M{"from_profile_id": nil}},
	); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
