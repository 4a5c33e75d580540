package mongorepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"travelagency/internal/domain"
	"travelagency/internal/domain/models"
)

type NotificationRepository struct {
	Coll *mongo.Collection
}

func (r NotificationRepository) Insert(ctx context.Context, n models.Notification) error {
	if _, err := r.Coll.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func notificationFilter(q models.NotificationQuery) bson.M {
	f := bson.M{}
	if q.Type != "" {
		f["type"] = q.Type
	}
	if q.Status != "" {
		f["status"] = q.Status
	}
	return f
}

func (r NotificationRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Notification, error) {
	cur, err := r.Coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find notifications: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.Notification{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return out, nil
}

func (r NotificationRepository) List(ctx context.Context, q models.NotificationQuery) ([]models.Notification, int64, error) {
	filter := notificationFilter(q)
	total, err := r.Coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}
	page := domain.PageRequest{Page: q.Page, Limit: q.Limit}.Normalize(domain.DefaultPageSize)
	opts := options.Find().
		SetSort(newestFirst).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit))
	items, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func typeCount(field string, value any) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$" + field, value}}, 1, 0}}}
}

func systemWithStatus(status models.NotificationStatus) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{
		bson.M{"$and": bson.A{
			bson.M{"$eq": bson.A{"$type", models.NotificationSystem}},
			bson.M{"$eq": bson.A{"$status", status}},
		}}, 1, 0,
	}}}
}

func (r NotificationRepository) Stats(ctx context.Context) (models.NotificationStats, error) {
	cur, err := r.Coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":            nil,
			"total":          bson.M{"$sum": 1},
			"system":         typeCount("type", models.NotificationSystem),
			"booking":        typeCount("type", models.NotificationBooking),
			"success":        typeCount("type", models.NotificationSuccess),
			"cancel":         typeCount("type", models.NotificationCancel),
			"activeSystem":   systemWithStatus(models.NotificationActive),
			"inactiveSystem": systemWithStatus(models.NotificationInactive),
		}}},
	})
	if err != nil {
		return models.NotificationStats{}, fmt.Errorf("aggregate notification stats: %w", err)
	}
	defer cur.Close(ctx)

	var out []struct {
		Total          int64 `bson:"total"`
		System         int64 `bson:"system"`
		Booking        int64 `bson:"booking"`
		Success        int64 `bson:"success"`
		Cancel         int64 `bson:"cancel"`
		ActiveSystem   int64 `bson:"activeSystem"`
		InactiveSystem int64 `bson:"inactiveSystem"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return models.NotificationStats{}, fmt.Errorf("decode notification stats: %w", err)
	}
	if len(out) == 0 {
		return models.NotificationStats{}, nil
	}
	return models.NotificationStats(out[0]), nil
}

func feedFilter(recipientID string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"type": models.NotificationSystem, "status": models.NotificationActive},
		bson.M{"type": bson.M{"$ne": models.NotificationSystem}, "recipient": recipientID},
	}}
}

func (r NotificationRepository) Feed(ctx context.Context, recipientID string) ([]models.Notification, error) {
	return r.find(ctx, feedFilter(recipientID), options.Find().SetSort(newestFirst))
}

func (r NotificationRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.Coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete notification: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r NotificationRepository) Deactivate(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := r.Coll.UpdateOne(ctx,
		bson.M{"_id": id, "type": models.NotificationSystem},
		bson.M{"$set": bson.M{"status": models.NotificationInactive, "updatedAt": at.UTC()}},
	)
	if err != nil {
		return false, fmt.Errorf("deactivate notification: %w", err)
	}
	return res.MatchedCount > 0, nil
}
