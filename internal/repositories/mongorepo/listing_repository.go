package mongorepo

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"travelagency/internal/domain"
	"travelagency/internal/domain/models"
)

// ListingRepository unions the default collection into the custom one.
type ListingRepository struct {
	DB *mongo.Database
}

func contains(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}

func listingMatch(q models.ListingQuery) bson.M {
	match := bson.M{}
	if s := strings.TrimSpace(q.State); s != "" {
		match["contact.state"] = contains(s)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		match["$or"] = bson.A{
			bson.M{"contact.email": contains(s)},
			bson.M{"contact.name": contains(s)},
		}
	}
	return match
}

func countWhere(status string) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", status}}, 1, 0}}}
}

var statsGroup = bson.M{"$group": bson.M{
	"_id":               nil,
	"totalBookings":     bson.M{"$sum": 1},
	"pendingBookings":   countWhere(string(models.StatusPending)),
	"confirmedBookings": countWhere(string(models.StatusConfirmed)),
	"cancelledBookings": countWhere(string(models.StatusCancelled)),
	"totalRevenue": bson.M{"$sum": bson.M{"$cond": bson.A{
		bson.M{"$eq": bson.A{"$status", string(models.StatusConfirmed)}}, "$pricing.base_total", 0,
	}}},
}}

func unionStages() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$addFields", Value: bson.M{"variant": string(models.VariantNormal)}}},
		{{Key: "$unionWith", Value: bson.M{
			"coll":     CollDefaultBookings,
			"pipeline": bson.A{bson.M{"$addFields": bson.M{"variant": string(models.VariantDefault)}}},
		}}},
	}
}

// listingPipeline returns stats, the matching count and one page in a single round trip.
func listingPipeline(q models.ListingQuery) mongo.Pipeline {
	page := domain.PageRequest{Page: q.Page, Limit: q.Limit}.Normalize(domain.DefaultPageSize)
	match := bson.M{"$match": listingMatch(q)}
	return append(unionStages(), bson.D{{Key: "$facet", Value: bson.M{
		"stats":    bson.A{statsGroup},
		"matching": bson.A{match, bson.M{"$count": "n"}},
		"page": bson.A{
			match,
			bson.M{"$sort": newestFirst},
			bson.M{"$skip": page.Offset()},
			bson.M{"$limit": page.Limit},
		},
	}}})
}

type facetResult struct {
	Stats    []models.BookingStats `bson:"stats"`
	Matching []struct {
		N int64 `bson:"n"`
	} `bson:"matching"`
	Page []bson.Raw `bson:"page"`
}

func decodeResolved(raw bson.Raw) (models.ResolvedBooking, error) {
	variant, _ := raw.Lookup("variant").StringValueOK()
	switch models.Variant(variant) {
	case models.VariantDefault:
		var b models.DefaultPackageBooking
		if err := bson.Unmarshal(raw, &b); err != nil {
			return models.ResolvedBooking{}, err
		}
		return models.ResolveDefault(b), nil
	default:
		var b models.Booking
		if err := bson.Unmarshal(raw, &b); err != nil {
			return models.ResolvedBooking{}, err
		}
		return models.ResolveNormal(b), nil
	}
}

func (r ListingRepository) ListCombined(ctx context.Context, q models.ListingQuery) (models.ListingPage, error) {
	cur, err := r.DB.Collection(CollBookings).Aggregate(ctx, listingPipeline(q))
	if err != nil {
		return models.ListingPage{}, fmt.Errorf("aggregate bookings: %w", err)
	}
	defer cur.Close(ctx)

	var results []facetResult
	if err := cur.All(ctx, &results); err != nil {
		return models.ListingPage{}, fmt.Errorf("decode bookings: %w", err)
	}

	page := models.ListingPage{Records: []models.ResolvedBooking{}}
	if len(results) == 0 {
		return page, nil
	}
	res := results[0]
	if len(res.Stats) > 0 {
		page.Stats = res.Stats[0]
	}
	if len(res.Matching) > 0 {
		page.Matching = res.Matching[0].N
	}
	for _, raw := range res.Page {
		rec, err := decodeResolved(raw)
		if err != nil {
			return models.ListingPage{}, fmt.Errorf("decode booking: %w", err)
		}
		page.Records = append(page.Records, rec)
	}
	return page, nil
}

func (r ListingRepository) Stats(ctx context.Context) (models.BookingStats, error) {
	pipeline := append(unionStages(), bson.D{{Key: "$group", Value: statsGroup["$group"]}})
	cur, err := r.DB.Collection(CollBookings).Aggregate(ctx, pipeline)
	if err != nil {
		return models.BookingStats{}, fmt.Errorf("aggregate booking stats: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.BookingStats
	if err := cur.All(ctx, &out); err != nil {
		return models.BookingStats{}, fmt.Errorf("decode booking stats: %w", err)
	}
	if len(out) == 0 {
		return models.BookingStats{}, nil
	}
	return out[0], nil
}
