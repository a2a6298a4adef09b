package auth

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tixplate/db"
	"tixplate/models"
)

// UserStore is the persistence surface the auth handlers need.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
}

// ErrDuplicateEmail surfaces the unique index violation on users.email.
var ErrDuplicateEmail = errors.New("email already registered")

type Repo struct {
	users *mongo.Collection
}

func NewRepo(database *mongo.Database) *Repo {
	return &Repo{users: database.Collection(db.ColUsers)}
}

// FindByEmail returns (nil, nil) when no user matches.
func (r *Repo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID returns (nil, nil) when no user matches.
func (r *Repo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
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

func (r *Repo) Insert(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	_, err := r.users.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	return err
}
