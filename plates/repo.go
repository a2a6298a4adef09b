package plates

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tixplate/db"
	"tixplate/models"
)

var ErrUserNotFound = errors.New("user not found")

// Store is the persistence surface the smart-plate handlers consume.
type Store interface {
	ListByCreator(ctx context.Context, creator primitive.ObjectID) ([]models.SmartPlate, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.SmartPlate, error)
	FindUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Save(ctx context.Context, plate *models.SmartPlate) error
	Delete(ctx context.Context, plate *models.SmartPlate) error
	DeleteAllByCreator(ctx context.Context, creator primitive.ObjectID) error
}

type Repo struct {
	client *mongo.Client
	plates *mongo.Collection
	users  *mongo.Collection
}

func NewRepo(database *mongo.Database) *Repo {
	return &Repo{
		client: database.Client(),
		plates: database.Collection(db.ColSmartPlates),
		users:  database.Collection(db.ColUsers),
	}
}

func (r *Repo) ListByCreator(ctx context.Context, creator primitive.ObjectID) ([]models.SmartPlate, error) {
	cursor, err := r.plates.Find(ctx, bson.M{"creator": creator})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	plates := []models.SmartPlate{}
	if err := cursor.All(ctx, &plates); err != nil {
		return nil, err
	}
	return plates, nil
}

// GetByID returns (nil, nil) when no plate matches.
func (r *Repo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.SmartPlate, error) {
	var plate models.SmartPlate
	err := r.plates.FindOne(ctx, bson.M{"_id": id}).Decode(&plate)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plate, nil
}

// FindUser returns (nil, nil) when no user matches.
func (r *Repo) FindUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Save is the linked insert: plate document plus the creator's reference
// list in one session transaction.
func (r *Repo) Save(ctx context.Context, plate *models.SmartPlate) error {
	count, err := r.users.CountDocuments(ctx, bson.M{"_id": plate.Creator})
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}

	plate.ID = primitive.NewObjectID()

	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.plates.InsertOne(sc, plate); err != nil {
			return nil, err
		}
		_, err := r.users.UpdateOne(sc,
			bson.M{"_id": plate.Creator},
			bson.M{"$push": bson.M{"smartPlates": plate.ID}},
		)
		return nil, err
	})
	return err
}

func (r *Repo) Delete(ctx context.Context, plate *models.SmartPlate) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.plates.DeleteOne(sc, bson.M{"_id": plate.ID}); err != nil {
			return nil, err
		}
		_, err := r.users.UpdateOne(sc,
			bson.M{"_id": plate.Creator},
			bson.M{"$pull": bson.M{"smartPlates": plate.ID}},
		)
		return nil, err
	})
	return err
}

// DeleteAllByCreator clears every plate a user owns and empties the
// reference list in one transaction.
func (r *Repo) DeleteAllByCreator(ctx context.Context, creator primitive.ObjectID) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.plates.DeleteMany(sc, bson.M{"creator": creator}); err != nil {
			return nil, err
		}
		_, err := r.users.UpdateOne(sc,
			bson.M{"_id": creator},
			bson.M{"$set": bson.M{"smartPlates": []primitive.ObjectID{}}},
		)
		return nil, err
	})
	return err
}
