package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Image struct {
	URL      string `bson:"url" json:"url"`
	Filename string `bson:"filename,omitempty" json:"filename,omitempty"`
}

type GeoPoint struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// User is the ownership root. The reference lists are secondary indexes
// into independently stored entities; repositories keep them in sync with
// the owned documents inside one session transaction.
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name         string               `bson:"name" json:"name"`
	Email        string               `bson:"email" json:"email"`
	Password     string               `bson:"password" json:"-"`
	Image        Image                `bson:"image" json:"image"`
	Events       []primitive.ObjectID `bson:"events" json:"events"`
	BoughtEvents []primitive.ObjectID `bson:"boughtEvents" json:"boughtEvents"`
	SmartPlates  []primitive.ObjectID `bson:"smartPlates" json:"smartPlates"`
}

type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Organizer   string             `bson:"organizer" json:"organizer"`
	Category    string             `bson:"category" json:"category"`
	Province    string             `bson:"province" json:"province"`
	Date        string             `bson:"date" json:"date"`
	StartTime   string             `bson:"startTime" json:"startTime"`
	EndTime     string             `bson:"endTime" json:"endTime"`
	Price       float64            `bson:"price" json:"price"`
	Address     string             `bson:"address" json:"address"`
	Location    GeoPoint           `bson:"location" json:"location"`
	Image       Image              `bson:"image" json:"image"`
	Creator     primitive.ObjectID `bson:"creator" json:"creator"`
}

// BoughtEvent is a purchase line: a denormalized snapshot of the event at
// purchase time. At most one document exists per (eventId, buyer) pair;
// repeat purchases fold into quantity and price.
type BoughtEvent struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title"`
	Description    string             `bson:"description" json:"description"`
	Organizer      string             `bson:"organizer" json:"organizer"`
	Category       string             `bson:"category" json:"category"`
	Province       string             `bson:"province" json:"province"`
	Date           string             `bson:"date" json:"date"`
	StartTime      string             `bson:"startTime" json:"startTime"`
	EndTime        string             `bson:"endTime" json:"endTime"`
	Image          Image              `bson:"image" json:"image"`
	Address        string             `bson:"address" json:"address"`
	Location       GeoPoint           `bson:"location" json:"location"`
	Quantity       int                `bson:"quantity" json:"quantity"`
	Price          float64            `bson:"price" json:"price"`
	Creator        primitive.ObjectID `bson:"creator" json:"creator"`
	EventID        primitive.ObjectID `bson:"eventId" json:"eventId"`
	UserThatBought string             `bson:"userThatBought" json:"userThatBought"`
}

type SmartPlate struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Ingredients        string             `bson:"ingredients" json:"ingredients"`
	CuisineType        string             `bson:"cusineType" json:"cusineType"`
	Servings           int                `bson:"servings" json:"servings"`
	Occasion           string             `bson:"occasion" json:"occasion"`
	DietaryPreferences string             `bson:"dietaryPreferences" json:"dietaryPreferences"`
	Title              string             `bson:"title" json:"title"`
	CookingTime        string             `bson:"cookingTime" json:"cookingTime"`
	Recipe             string             `bson:"recipe" json:"recipe"`
	Creator            primitive.ObjectID `bson:"creator" json:"creator"`
}

type Contact struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name    string             `bson:"name" json:"name"`
	Email   string             `bson:"email" json:"email"`
	Message string             `bson:"message" json:"message"`
}
