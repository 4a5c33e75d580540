package mongorepo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"travelagency/internal/domain/models"
)

func TestListingMatch_EscapesRegex(t *testing.T) {
	m := listingMatch(models.ListingQuery{State: "  a.b ", Search: "x+y"})

	state, ok := m["contact.state"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, `a\.b`, state.Pattern)
	assert.Equal(t, "i", state.Options)

	or, ok := m["$or"].(bson.A)
	require.True(t, ok)
	assert.Len(t, or, 2)
}

func TestListingMatch_EmptyQueryMatchesAll(t *testing.T) {
	assert.Empty(t, listingMatch(models.ListingQuery{Search: "   "}))
}

func TestListingPipeline_Shape(t *testing.T) {
	p := listingPipeline(models.ListingQuery{Page: 2, Limit: 25})
	require.Len(t, p, 3)
	assert.Equal(t, "$addFields", p[0][0].Key)
	assert.Equal(t, "$unionWith", p[1][0].Key)
	require.Equal(t, "$facet", p[2][0].Key)

	facet := p[2][0].Value.(bson.M)
	stages := facet["page"].(bson.A)
	require.Len(t, stages, 4)
	assert.Equal(t, bson.M{"$skip": 25}, stages[2])
	assert.Equal(t, bson.M{"$limit": 25}, stages[3])
}

func TestEditableFields_DropsFixedFields(t *testing.T) {
	b := models.Booking{
		ID:          "b1",
		AgentID:     "agent-1",
		Contact:     models.Contact{Name: "Asha"},
		PackageName: "Munnar",
		Status:      models.StatusConfirmed,
		CreatedAt:   time.Now(),
	}
	doc, err := editableFields(b)
	require.NoError(t, err)
	for _, f := range fixedFields {
		assert.NotContains(t, doc, f)
	}
	assert.Equal(t, "Munnar", doc["package_name"])
	assert.Contains(t, doc, "pricing")
}

func TestDecodeResolved_UsesVariantTag(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"_id":          "d1",
		"variant":      "default",
		"package_name": "Goa Fixed",
		"status":       "pending",
		"guests":       bson.M{"adults_total": 2},
	})
	require.NoError(t, err)

	rec, err := decodeResolved(raw)
	require.NoError(t, err)
	assert.Equal(t, models.VariantDefault, rec.Variant)
	assert.Equal(t, "d1", rec.ID())
	assert.Equal(t, 2, rec.Default.Guests.AdultsTotal)
}

func TestFeedFilter_ExcludesInactiveSystem(t *testing.T) {
	f := feedFilter("agent-1")
	or := f["$or"].(bson.A)
	require.Len(t, or, 2)
	assert.Equal(t, models.NotificationActive, or[0].(bson.M)["status"])
	assert.Equal(t, "agent-1", or[1].(bson.M)["recipient"])
}
