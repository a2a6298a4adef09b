package events

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tixplate/models"
)

func TestFoldPurchase(t *testing.T) {
	qty, price := foldPurchase(2, 3, 10)
	assert.Equal(t, 5, qty)
	assert.Equal(t, 50.0, price)

	qty, price = foldPurchase(0, 1, 19.99)
	assert.Equal(t, 1, qty)
	assert.Equal(t, 19.99, price)
}

func purchaseBody(eventID, creator string, quantity int, price float64) string {
	return fmt.Sprintf(`{"event":[{"id":%q,"title":"Show","description":"desc","organizer":"Org",`+
		`"category":"Music","province":"Lagos","date":"2026-10-02","startTime":"19:00","endTime":"23:00",`+
		`"image":{"url":"/uploads/images/x.jpg","filename":"x.jpg"},"address":"1 Marina Road",`+
		`"location":{"lat":6.5,"lng":3.4},"creator":%q,"quantity":%d,"price":%g}]}`,
		eventID, creator, quantity, price)
}

func TestPurchaseRepeatBuyUpdatesExistingLine(t *testing.T) {
	store := new(MockStore)
	h := newHandler(store, t)

	buyer := &models.User{ID: primitive.NewObjectID()}
	eventID := primitive.NewObjectID()
	creator := primitive.NewObjectID()
	lineID := primitive.NewObjectID()

	store.On("FindUser", mock.Anything, buyer.ID).Return(buyer, nil)
	store.On("FindBought", mock.Anything, eventID, buyer.ID.Hex()).
		Return(&models.BoughtEvent{ID: lineID, Quantity: 2}, nil)
	// 2 already held + 3 incoming at unit price 10 -> quantity 5, price 50.
	store.On("SetBoughtQuantity", mock.Anything, lineID, 5, 50.0).Return(nil)
	store.On("InsertBought", mock.Anything, buyer, mock.MatchedBy(func(lines []models.BoughtEvent) bool {
		return len(lines) == 0
	})).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/events/"+buyer.ID.Hex(),
		strings.NewReader(purchaseBody(eventID.Hex(), creator.Hex(), 3, 10)))
	req = asCaller(req, buyer.ID.Hex())

	rec := httptest.NewRecorder()
	h.Purchase(rec, req, httprouter.Params{{Key: "uid", Value: buyer.ID.Hex()}})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, float64(0), body["created"])
	assert.Equal(t, float64(1), body["updated"])
	store.AssertExpectations(t)
}

func TestPurchaseFirstBuyCreatesSnapshot(t *testing.T) {
	store := new(MockStore)
	h := newHandler(store, t)

	buyer := &models.User{ID: primitive.NewObjectID()}
	eventID := primitive.NewObjectID()
	creator := primitive.NewObjectID()

	store.On("FindUser", mock.Anything, buyer.ID).Return(buyer, nil)
	store.On("FindBought", mock.Anything, eventID, buyer.ID.Hex()).Return(nil, nil)
	store.On("InsertBought", mock.Anything, buyer, mock.MatchedBy(func(lines []models.BoughtEvent) bool {
		if len(lines) != 1 {
			return false
		}
		line := lines[0]
		return line.EventID == eventID &&
			line.Creator == creator &&
			line.UserThatBought == buyer.ID.Hex() &&
			line.Quantity == 2 &&
			line.Price == 40.0
	})).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/events/"+buyer.ID.Hex(),
		strings.NewReader(purchaseBody(eventID.Hex(), creator.Hex(), 2, 20)))
	req = asCaller(req, buyer.ID.Hex())

	rec := httptest.NewRecorder()
	h.Purchase(rec, req, httprouter.Params{{Key: "uid", Value: buyer.ID.Hex()}})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["created"])
	assert.Equal(t, float64(0), body["updated"])
	store.AssertExpectations(t)
}

func TestPurchaseUnknownBuyer(t *testing.T) {
	store := new(MockStore)
	h := newHandler(store, t)

	uid := primitive.NewObjectID()
	store.On("FindUser", mock.Anything, uid).Return(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/events/"+uid.Hex(),
		strings.NewReader(purchaseBody(primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(), 1, 5)))
	req = asCaller(req, uid.Hex())

	rec := httptest.NewRecorder()
	h.Purchase(rec, req, httprouter.Params{{Key: "uid", Value: uid.Hex()}})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	store.AssertNotCalled(t, "InsertBought", mock.Anything, mock.Anything, mock.Anything)
}

func TestPurchaseBadCreatorID(t *testing.T) {
	store := new(MockStore)
	h := newHandler(store, t)

	buyer := &models.User{ID: primitive.NewObjectID()}
	eventID := primitive.NewObjectID()

	store.On("FindUser", mock.Anything, buyer.ID).Return(buyer, nil)
	store.On("FindBought", mock.Anything, eventID, buyer.ID.Hex()).Return(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/events/"+buyer.ID.Hex(),
		strings.NewReader(purchaseBody(eventID.Hex(), "not-a-hex-id", 1, 5)))
	req = asCaller(req, buyer.ID.Hex())

	rec := httptest.NewRecorder()
	h.Purchase(rec, req, httprouter.Params{{Key: "uid", Value: buyer.ID.Hex()}})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	store.AssertNotCalled(t, "InsertBought", mock.Anything, mock.Anything, mock.Anything)
}

func TestPurchaseEmptyBody(t *testing.T) {
	store := new(MockStore)
	h := newHandler(store, t)

	uid := primitive.NewObjectID()
	req := httptest.NewRequest(http.MethodPost, "/api/events/"+uid.Hex(), strings.NewReader(`{"event":[]}`))
	req = asCaller(req, uid.Hex())

	rec := httptest.NewRecorder()
	h.Purchase(rec, req, httprouter.Params{{Key: "uid", Value: uid.Hex()}})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
