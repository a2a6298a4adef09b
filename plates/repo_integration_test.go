package plates

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tixplate/db"
	"tixplate/models"
)

// Live-deployment tests, opt-in via TIXPLATE_MONGO_URI (the linked
// writes need a replica-set mongod for session transactions).
func testDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("TIXPLATE_MONGO_URI")
	if uri == "" {
		t.Skip("TIXPLATE_MONGO_URI not set")
	}

	ctx := context.Background()
	client, err := db.Open(ctx, uri)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	database := client.Database("tixplate_test")
	for _, col := range []string{db.ColUsers, db.ColSmartPlates} {
		require.NoError(t, database.Collection(col).Drop(ctx))
	}
	return database
}

func seedUser(t *testing.T, database *mongo.Database, email string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           primitive.NewObjectID(),
		Name:         "Seed",
		Email:        email,
		Events:       []primitive.ObjectID{},
		BoughtEvents: []primitive.ObjectID{},
		SmartPlates:  []primitive.ObjectID{},
	}
	_, err := database.Collection(db.ColUsers).InsertOne(context.Background(), user)
	require.NoError(t, err)
	return user
}

func loadUser(t *testing.T, database *mongo.Database, id primitive.ObjectID) models.User {
	t.Helper()
	var user models.User
	require.NoError(t, database.Collection(db.ColUsers).FindOne(context.Background(), bson.M{"_id": id}).Decode(&user))
	return user
}

func samplePlate(creator primitive.ObjectID, title string) *models.SmartPlate {
	return &models.SmartPlate{
		Ingredients:        "rice, beans",
		CuisineType:        "mexican",
		Servings:           3,
		Occasion:           "lunch",
		DietaryPreferences: "vegan",
		Title:              title,
		CookingTime:        "20 Minutes",
		Recipe:             "1. Cook rice\n2. Add beans",
		Creator:            creator,
	}
}

func TestRepoSaveWritesBothSides(t *testing.T) {
	database := testDatabase(t)
	ctx := context.Background()
	repo := NewRepo(database)

	owner := seedUser(t, database, "owner@example.com")
	plate := samplePlate(owner.ID, "Quick Burrito Bowl")
	require.NoError(t, repo.Save(ctx, plate))
	require.False(t, plate.ID.IsZero())

	stored, err := repo.GetByID(ctx, plate.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "mexican", stored.CuisineType)

	assert.Contains(t, loadUser(t, database, owner.ID).SmartPlates, plate.ID)
}

func TestRepoSaveUnknownOwnerLeavesNothing(t *testing.T) {
	database := testDatabase(t)
	ctx := context.Background()
	repo := NewRepo(database)

	plate := samplePlate(primitive.NewObjectID(), "Orphan Bowl")
	require.ErrorIs(t, repo.Save(ctx, plate), ErrUserNotFound)

	count, err := database.Collection(db.ColSmartPlates).CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRepoDeletePullsReference(t *testing.T) {
	database := testDatabase(t)
	ctx := context.Background()
	repo := NewRepo(database)

	owner := seedUser(t, database, "owner@example.com")
	plate := samplePlate(owner.ID, "Quick Burrito Bowl")
	require.NoError(t, repo.Save(ctx, plate))

	require.NoError(t, repo.Delete(ctx, plate))

	stored, err := repo.GetByID(ctx, plate.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
	assert.NotContains(t, loadUser(t, database, owner.ID).SmartPlates, plate.ID)
}

func TestRepoDeleteAllEmptiesReferenceList(t *testing.T) {
	database := testDatabase(t)
	ctx := context.Background()
	repo := NewRepo(database)

	owner := seedUser(t, database, "owner@example.com")
	other := seedUser(t, database, "other@example.com")

	for _, title := range []string{"First", "Second"} {
		require.NoError(t, repo.Save(ctx, samplePlate(owner.ID, title)))
	}
	kept := samplePlate(other.ID, "Kept")
	require.NoError(t, repo.Save(ctx, kept))

	require.NoError(t, repo.DeleteAllByCreator(ctx, owner.ID))

	mine, err := repo.ListByCreator(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)
	assert.Empty(t, loadUser(t, database, owner.ID).SmartPlates)

	theirs, err := repo.ListByCreator(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
	assert.Contains(t, loadUser(t, database, other.ID).SmartPlates, kept.ID)
}
