package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"travelagency/internal/domain"
	"travelagency/internal/domain/models"
)

type AccountRepository struct {
	Agents *mongo.Collection
	Admins *mongo.Collection
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.M) (T, bool, error) {
	var out T
	err := coll.FindOne(ctx, filter).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return out, false, nil
	}
	if err != nil {
		return out, false, fmt.Errorf("find in %s: %w", coll.Name(), err)
	}
	return out, true, nil
}

func (r AccountRepository) InsertAgent(ctx context.Context, a models.Agent) error {
	if _, err := r.Agents.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("insert agent: %w", err)
	}
	return nil
}

func (r AccountRepository) FindAgentByID(ctx context.Context, id string) (models.Agent, bool, error) {
	return findOne[models.Agent](ctx, r.Agents, bson.M{"_id": id})
}

func (r AccountRepository) FindAgentByEmail(ctx context.Context, email string) (models.Agent, bool, error) {
	return findOne[models.Agent](ctx, r.Agents, bson.M{"email": email})
}

func (r AccountRepository) SetAgentApproval(ctx context.Context, id string, status models.ApprovalStatus, at time.Time) (bool, error) {
	res, err := r.Agents.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"isApproved": status, "updatedAt": at.UTC()}},
	)
	if err != nil {
		return false, fmt.Errorf("set agent approval: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (r AccountRepository) ListAgents(ctx context.Context, q models.AgentQuery) ([]models.Agent, int64, error) {
	filter := bson.M{}
	if q.Approval != "" {
		filter["isApproved"] = q.Approval
	}
	total, err := r.Agents.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count agents: %w", err)
	}
	page := domain.PageRequest{Page: q.Page, Limit: q.Limit}.Normalize(domain.DefaultPageSize)
	cur, err := r.Agents.Find(ctx, filter, options.Find().
		SetSort(newestFirst).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit)))
	if err != nil {
		return nil, 0, fmt.Errorf("list agents: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.Agent{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("decode agents: %w", err)
	}
	return out, total, nil
}

func (r AccountRepository) CountAgents(ctx context.Context) (models.AgentCounts, error) {
	cur, err := r.Agents.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":      nil,
			"total":    bson.M{"$sum": 1},
			"pending":  typeCount("isApproved", models.ApprovalPending),
			"approved": typeCount("isApproved", models.ApprovalApproved),
			"rejected": typeCount("isApproved", models.ApprovalRejected),
		}}},
	})
	if err != nil {
		return models.AgentCounts{}, fmt.Errorf("count agents: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.AgentCounts
	if err := cur.All(ctx, &out); err != nil {
		return models.AgentCounts{}, fmt.Errorf("decode agent counts: %w", err)
	}
	if len(out) == 0 {
		return models.AgentCounts{}, nil
	}
	return out[0], nil
}

func (r AccountRepository) InsertAdmin(ctx context.Context, a models.Admin) error {
	if _, err := r.Admins.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

func (r AccountRepository) FindAdminByID(ctx context.Context, id string) (models.Admin, bool, error) {
	return findOne[models.Admin](ctx, r.Admins, bson.M{"_id": id})
}

func (r AccountRepository) FindAdminByEmail(ctx context.Context, email string) (models.Admin, bool, error) {
	return findOne[models.Admin](ctx, r.Admins, bson.M{"email": email})
}
