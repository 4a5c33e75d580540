package mongorepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"travelagency/internal/domain/models"
	"travelagency/internal/services"
)

func NewStores(db *mongo.Database) services.Stores {
	return services.Stores{
		Bookings:        VariantRepository[models.Booking]{Coll: db.Collection(CollBookings)},
		DefaultBookings: VariantRepository[models.DefaultPackageBooking]{Coll: db.Collection(CollDefaultBookings)},
		Listing:         ListingRepository{DB: db},
		Notifications:   NotificationRepository{Coll: db.Collection(CollNotifications)},
		Accounts: AccountRepository{
			Agents: db.Collection(CollAgents),
			Admins: db.Collection(CollAdmins),
		},
	}
}

// indexPlan lists the indexes each collection needs.
func indexPlan() map[string][]mongo.IndexModel {
	byAgent := mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "createdAt", Value: -1}}}
	uniqueEmail := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	return map[string][]mongo.IndexModel{
		CollBookings:        {byAgent},
		CollDefaultBookings: {byAgent},
		CollNotifications: {
			{Keys: bson.D{{Key: "type", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		CollAgents: {uniqueEmail},
		CollAdmins: {uniqueEmail},
	}
}

// EnsureIndexes creates missing indexes. Existing ones are left alone.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for coll, idx := range indexPlan() {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
