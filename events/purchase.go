package events

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tixplate/apperr"
	"tixplate/models"
	"tixplate/utils"
)

// PurchaseLine is one checkout row: the event snapshot the frontend
// holds, the quantity bought and the flat unit price.
type PurchaseLine struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Organizer   string          `json:"organizer"`
	Category    string          `json:"category"`
	Province    string          `json:"province"`
	Date        string          `json:"date"`
	StartTime   string          `json:"startTime"`
	EndTime     string          `json:"endTime"`
	Image       models.Image    `json:"image"`
	Address     string          `json:"address"`
	Location    models.GeoPoint `json:"location"`
	Creator     string          `json:"creator"`
	Quantity    int             `json:"quantity"`
	Price       float64         `json:"price"`
}

type purchaseRequest struct {
	Event []PurchaseLine `json:"event"`
}

// foldPurchase merges a repeat purchase into the stored line: quantities
// sum, and the price is recomputed from the incoming unit price for the
// whole new quantity (flat-rate assumption).
func foldPurchase(existingQty, incomingQty int, unitPrice float64) (int, float64) {
	qty := existingQty + incomingQty
	return qty, float64(qty) * unitPrice
}

// Purchase records a checkout for the authenticated caller. Each line
// either updates the caller's existing purchase of that event or creates
// a new snapshot; new lines are bulk-inserted and linked to the buyer in
// one transaction. The response reports both counts.
func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid, err := primitive.ObjectIDFromHex(ps.ByName("uid"))
	if err != nil {
		utils.RespondWithError(w, apperr.NotFound("Could not find user that created event"))
		return
	}

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Event) == 0 {
		utils.RespondWithError(w, apperr.BadInput("Invalid inputs passed, please check your data"))
		return
	}

	ctx := r.Context()
	buyer, err := h.Store.FindUser(ctx, uid)
	if err != nil {
		utils.RespondWithError(w, apperr.Internal("Something Went Wrong, could not find user that created event"))
		return
	}
	if buyer == nil {
		utils.RespondWithError(w, apperr.NotFound("Could not find user that created event"))
		return
	}

	callerID := utils.GetUserIDFromContext(ctx)

	var created []models.BoughtEvent
	updated := 0

	for _, line := range req.Event {
		eventID, err := primitive.ObjectIDFromHex(line.ID)
		if err != nil {
			utils.RespondWithError(w, apperr.BadInput("Invalid inputs passed, please check your data"))
			return
		}

		existing, err := h.Store.FindBought(ctx, eventID, callerID)
		if err != nil {
			utils.RespondWithError(w, apperr.Internal("Error Buying Ticket, try again later."))
			return
		}

		if existing != nil {
			qty, price := foldPurchase(existing.Quantity, line.Quantity, line.Price)
			if err := h.Store.SetBoughtQuantity(ctx, existing.ID, qty, price); err != nil {
				utils.RespondWithError(w, apperr.Internal("Could not purchase ticket"))
				return
			}
			updated++
			continue
		}

		creator, err := primitive.ObjectIDFromHex(line.Creator)
		if err != nil {
			utils.RespondWithError(w, apperr.BadInput("Invalid inputs passed, please check your data"))
			return
		}
		created = append(created, models.BoughtEvent{
			ID:             primitive.NewObjectID(),
			Title:          line.Title,
			Description:    line.Description,
			Organizer:      line.Organizer,
			Category:       line.Category,
			Province:       line.Province,
			Date:           line.Date,
			StartTime:      line.StartTime,
			EndTime:        line.EndTime,
			Image:          line.Image,
			Address:        line.Address,
			Location:       line.Location,
			Quantity:       line.Quantity,
			Price:          line.Price * float64(line.Quantity),
			Creator:        creator,
			EventID:        eventID,
			UserThatBought: callerID,
		})
	}

	if err := h.Store.InsertBought(ctx, buyer, created); err != nil {
		utils.RespondWithError(w, apperr.Internal("Issues With buying your tickets. Try again later"))
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"message": "Tickets purchased.",
		"created": len(created),
		"updated": updated,
	})
}
