// Package mongorepo stores bookings, notifications and accounts in MongoDB.
package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"travelagency/internal/domain/models"
)

const (
	CollBookings        = "bookings"
	CollDefaultBookings = "defaultPackageBookings"
	CollNotifications   = "notifications"
	CollAgents          = "agents"
	CollAdmins          = "admins"
)

// fixedFields are never rewritten by Replace.
var fixedFields = []string{"_id", "user_id", "contact", "status", "createdAt"}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// VariantRepository keeps one booking variant in its own collection.
type VariantRepository[T models.Record] struct {
	Coll *mongo.Collection
}

func (r VariantRepository[T]) Insert(ctx context.Context, rec T) error {
	if _, err := r.Coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert into %s: %w", r.Coll.Name(), err)
	}
	return nil
}

func (r VariantRepository[T]) FindByID(ctx context.Context, id string) (T, bool, error) {
	var rec T
	err := r.Coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, fmt.Errorf("find in %s: %w", r.Coll.Name(), err)
	}
	return rec, true, nil
}

func (r VariantRepository[T]) UpdateStatus(ctx context.Context, id string, from []models.Status, to models.Status, at time.Time) (bool, error) {
	if len(from) == 0 {
		return false, nil
	}
	res, err := r.Coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": bson.M{"$in": from}},
		bson.M{"$set": bson.M{"status": to, "updatedAt": at.UTC()}},
	)
	if err != nil {
		return false, fmt.Errorf("update status in %s: %w", r.Coll.Name(), err)
	}
	return res.MatchedCount == 1, nil
}

// editableFields renders rec as a $set document without the fixed fields.
func editableFields(rec any) (bson.M, error) {
	raw, err := bson.Marshal(rec)
	if err != nil {
		return nil, err
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	for _, f := range fixedFields {
		delete(doc, f)
	}
	return doc, nil
}

func (r VariantRepository[T]) Replace(ctx context.Context, rec T) (bool, error) {
	set, err := editableFields(rec)
	if err != nil {
		return false, fmt.Errorf("encode %s record: %w", r.Coll.Name(), err)
	}
	res, err := r.Coll.UpdateOne(ctx, bson.M{"_id": rec.RecordID()}, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("replace in %s: %w", r.Coll.Name(), err)
	}
	return res.MatchedCount == 1, nil
}

func (r VariantRepository[T]) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.Coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", r.Coll.Name(), err)
	}
	return res.DeletedCount > 0, nil
}

func (r VariantRepository[T]) ListByAgent(ctx context.Context, agentID string) ([]T, error) {
	cur, err := r.Coll.Find(ctx, bson.M{"user_id": agentID}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.Coll.Name(), err)
	}
	defer cur.Close(ctx)

	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.Coll.Name(), err)
	}
	return out, nil
}
