package events

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tixplate/db"
	"tixplate/models"
)

// ErrUserNotFound is returned when a linked insert references a creator
// or buyer that does not exist.
var ErrUserNotFound = errors.New("user not found")

// Store is the persistence surface the event handlers consume.
type Store interface {
	List(ctx context.Context) ([]models.Event, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	ListByCreator(ctx context.Context, creator primitive.ObjectID) ([]models.Event, error)
	ListBoughtByBuyer(ctx context.Context, buyerID string) ([]models.BoughtEvent, error)
	FindUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, event *models.Event) error
	FindBought(ctx context.Context, eventID primitive.ObjectID, buyerID string) (*models.BoughtEvent, error)
	SetBoughtQuantity(ctx context.Context, id primitive.ObjectID, quantity int, price float64) error
	InsertBought(ctx context.Context, buyer *models.User, lines []models.BoughtEvent) error
}

type Repo struct {
	client *mongo.Client
	events *mongo.Collection
	bought *mongo.Collection
	users  *mongo.Collection
}

func NewRepo(database *mongo.Database) *Repo {
	return &Repo{
		client: database.Client(),
		events: database.Collection(db.ColEvents),
		bought: database.Collection(db.ColBoughtEvents),
		users:  database.Collection(db.ColUsers),
	}
}

func (r *Repo) List(ctx context.Context) ([]models.Event, error) {
	cursor, err := r.events.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetByID returns (nil, nil) when no event matches.
func (r *Repo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var event models.Event
	err := r.events.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *Repo) ListByCreator(ctx context.Context, creator primitive.ObjectID) ([]models.Event, error) {
	cursor, err := r.events.Find(ctx, bson.M{"creator": creator})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *Repo) ListBoughtByBuyer(ctx context.Context, buyerID string) ([]models.BoughtEvent, error) {
	cursor, err := r.bought.Find(ctx, bson.M{"userThatBought": buyerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bought := []models.BoughtEvent{}
	if err := cursor.All(ctx, &bought); err != nil {
		return nil, err
	}
	return bought, nil
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

// Create is the linked insert: the event document and the creator's
// reference list are written in one session transaction, so either both
// land or neither does.
func (r *Repo) Create(ctx context.Context, event *models.Event) error {
	count, err := r.users.CountDocuments(ctx, bson.M{"_id": event.Creator})
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}

	event.ID = primitive.NewObjectID()

	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.events.InsertOne(sc, event); err != nil {
			return nil, err
		}
		_, err := r.users.UpdateOne(sc,
			bson.M{"_id": event.Creator},
			bson.M{"$push": bson.M{"events": event.ID}},
		)
		return nil, err
	})
	return err
}

func (r *Repo) Update(ctx context.Context, event *models.Event) error {
	_, err := r.events.UpdateOne(ctx, bson.M{"_id": event.ID}, bson.M{"$set": bson.M{
		"title":       event.Title,
		"description": event.Description,
		"organizer":   event.Organizer,
		"category":    event.Category,
		"province":    event.Province,
		"date":        event.Date,
		"startTime":   event.StartTime,
		"endTime":     event.EndTime,
		"price":       event.Price,
		"address":     event.Address,
		"location":    event.Location,
	}})
	return err
}

// Delete removes the event, every purchase line referencing it, and the
// creator's back-reference as one atomic unit.
func (r *Repo) Delete(ctx context.Context, event *models.Event) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.events.DeleteOne(sc, bson.M{"_id": event.ID}); err != nil {
			return nil, err
		}
		if _, err := r.bought.DeleteMany(sc, bson.M{"eventId": event.ID}); err != nil {
			return nil, err
		}
		_, err := r.users.UpdateOne(sc,
			bson.M{"_id": event.Creator},
			bson.M{"$pull": bson.M{"events": event.ID}},
		)
		return nil, err
	})
	return err
}

// FindBought returns (nil, nil) when the buyer has no line for the event.
func (r *Repo) FindBought(ctx context.Context, eventID primitive.ObjectID, buyerID string) (*models.BoughtEvent, error) {
	var line models.BoughtEvent
	err := r.bought.FindOne(ctx, bson.M{"eventId": eventID, "userThatBought": buyerID}).Decode(&line)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *Repo) SetBoughtQuantity(ctx context.Context, id primitive.ObjectID, quantity int, price float64) error {
	_, err := r.bought.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"quantity": quantity,
		"price":    price,
	}})
	return err
}

// InsertBought bulk-inserts the new purchase lines and appends their ids
// to the buyer's boughtEvents list, persisting the user once.
func (r *Repo) InsertBought(ctx context.Context, buyer *models.User, lines []models.BoughtEvent) error {
	if len(lines) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(lines))
	ids := make([]primitive.ObjectID, 0, len(lines))
	for i := range lines {
		docs = append(docs, lines[i])
		ids = append(ids, lines[i].ID)
	}

	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.bought.InsertMany(sc, docs); err != nil {
			return nil, err
		}
		_, err := r.users.UpdateOne(sc,
			bson.M{"_id": buyer.ID},
			bson.M{"$push": bson.M{"boughtEvents": bson.M{"$each": ids}}},
		)
		return nil, err
	})
	return err
}
