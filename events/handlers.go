package events

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tixplate/apperr"
	"tixplate/geo"
	"tixplate/live"
	"tixplate/models"
	"tixplate/mq"
	"tixplate/utils"
	"tixplate/validate"
)

type Handler struct {
	Store     Store
	Geo       geo.Geocoder
	UploadDir string
	Emitter   *mq.Emitter
	Live      *live.Hub
}

type eventRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required,min=5"`
	Organizer   string `json:"organizer" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Province    string `json:"province" validate:"required"`
	Date        string `json:"date" validate:"required"`
	StartTime   string `json:"startTime" validate:"required"`
	EndTime     string `json:"endTime" validate:"required"`
	Address     string `json:"address" validate:"required"`
	Price       float64
}

// List returns every event; an empty marketplace is a success.
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	events, err := h.Store.List(r.Context())
	if err != nil {
		utils.RespondWithError(w, apperr.Internal("Fetching events failed, please try again later"))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"events": events})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eid, err := primitive.ObjectIDFromHex(ps.ByName("eid"))
	if err != nil {
		utils.RespondWithError(w, apperr.NotFound("Could not find a event for the provided event id."))
		return
	}

	event, err := h.Store.GetByID(r.Context(), eid)
	if err != nil {
		utils.RespondWithError(w, apperr.Internal("Something went wrong, could not find an event."))
		return
	}
	if event == nil {
		utils.RespondWithError(w, apperr.NotFound("Could not find a event for the provided event id."))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"event": event})
}

func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid, err := primitive.ObjectIDFromHex(ps.ByName("uid"))
	if err != nil {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"events": []models.Event{}})
		return
	}

	events, err := h.Store.ListByCreator(r.Context(), uid)
	if err != nil {
		utils.RespondWithError(w, apperr.Internal("Fetching Events Failed, please try again later"))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"events": events})
}

func (h *Handler) ListBoughtByUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bought, err := h.Store.ListBoughtByBuyer(r.Context(), ps.ByName("uid"))
	if err != nil {
		utils.RespondWithError(w, apperr.Internal("Fetching BoughtEvent Failed, please try again later"))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"boughtEvents": bought})
}

// Create takes a multipart form (image field included), geocodes the
// address and runs the linked insert against the caller's account.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, apperr.BadInput("Invalid inputs passed, please check your data"))
		return
	}

	req, appErr := bindEventForm(r)
	if appErr != nil {
		utils.RespondWithError(w, appErr)
		return
	}

	callerID, err := primitive.ObjectIDFromHex(utils.GetUserIDFromContext(r.Context()))
	if err != nil {
		utils.RespondWithError(w, apperr.Unauthorized("Authentication failed!"))
		return
	}

	ctx := r.Context()
	coords, err := h.Geo.Resolve(ctx, req.Address)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		utils.RespondWithError(w, apperr.BadInput("Invalid inputs passed, please check your data"))
		return
	}
	image, err := utils.SaveImage(files[0], h.UploadDir)
	if err != nil {
		utils.RespondWithError(w, apperr.Internal("Creating Event Failed, Please try again"))
		return
	}

	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Organizer:   req.Organizer,
		Category:    req.Category,
		Province:    req.Province,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Price:       req.Price,
		Address:     req.Address,
		Location:    coords,
		Image:       image,
		Creator:     callerID,
	}
	if err := h.Store.Create(ctx, event); err != nil {
		utils.RemoveImage(h.UploadDir, image.Filename)
		if err == ErrUserNotFound {
			utils.RespondWithError(w, apperr.NotFound("Could not find user for the provided id"))
			return
		}
		utils.RespondWithError(w, apperr.Internal("Creating event failed, Please try again."))
		return
	}

	h.Emitter.Emit(ctx, mq.Index{EntityType: "event", Method: "POST", EntityID: event.ID.Hex()})
	h.Live.Broadcast("event_created", event.ID.Hex())

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"event": event})
}

// Update re-geocodes the address and overwrites the mutable fields.
// Creator-only.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eid, err := primitive.ObjectIDFromHex(ps.ByName("eid"))
	if err != nil {
		utils.RespondWithError(w, apperr.NotFound("Could not find a event for the provided event id."))
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, apperr.BadInput("Invalid inputs passed, please check your data"))
		return
	}
	if appErr := validate.Struct(req); appErr != nil {
		utils.RespondWithError(w, appErr)
		return
	}

	ctx := r.Context()
	event, err := h.Store.GetByID(ctx, eid)
	if err != nil {
		utils.RespondWithError(w, apperr.Internal("Something Went Wrong, could not update event"))
		return
	}
	if event == nil {
		utils.RespondWithError(w, apperr.NotFound("Could not find a event for the provided event id."))
		return
	}
	if event.Creator.Hex() != utils.GetUserIDFromContext(ctx) {
		utils.RespondWithError(w, apperr.Forbidden("You are not allowed to edit this event"))
		return
	}

	coords, err := h.Geo.Resolve(ctx, req.Address)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	event.Title = req.Title
	event.Description = req.Description
	event.Organizer = req.Organizer
	event.Category = req.Category
	event.Province = req.Province
	event.Date = req.Date
	event.StartTime = req.StartTime
	event.EndTime = req.EndTime
	event.Price = req.Price
	event.Address = req.Address
	event.Location = coords

	if err := h.Store.Update(ctx, event); err != nil {
		utils.RespondWithError(w, apperr.Internal("Something went wrong could not update event"))
		return
	}

	h.Emitter.Emit(ctx, mq.Index{EntityType: "event", Method: "PATCH", EntityID: event.ID.Hex()})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"event": event})
}

// Delete cascades: the event, its purchase lines and the creator's
// back-reference go in one transaction, then the stored image is cleaned
// up best effort.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eid, err := primitive.ObjectIDFromHex(ps.ByName("eid"))
	if err != nil {
		utils.RespondWithError(w, apperr.NotFound("Could not find event for this id"))
		return
	}

	ctx := r.Context()
	event, err := h.Store.GetByID(ctx, eid)
	if err != nil {
		utils.RespondWithError(w, apperr.Internal("Something went wrong, could not delete event"))
		return
	}
	if event == nil {
		utils.RespondWithError(w, apperr.NotFound("Could not find event for this id"))
		return
	}
	if event.Creator.Hex() != utils.GetUserIDFromContext(ctx) {
		utils.RespondWithError(w, apperr.Forbidden("You are not allowed to delete this event"))
		return
	}

	if err := h.Store.Delete(ctx, event); err != nil {
		utils.RespondWithError(w, apperr.Internal("Something went wrong, could not delete the event"))
		return
	}

	utils.RemoveImage(h.UploadDir, event.Image.Filename)
	h.Emitter.Emit(ctx, mq.Index{EntityType: "event", Method: "DELETE", EntityID: event.ID.Hex()})
	h.Live.Broadcast("event_deleted", event.ID.Hex())

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Deleted Event."})
}

func bindEventForm(r *http.Request) (eventRequest, *apperr.Error) {
	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		return eventRequest{}, apperr.BadInput("Invalid inputs passed, please check your data")
	}

	req := eventRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Organizer:   r.FormValue("organizer"),
		Category:    r.FormValue("category"),
		Province:    r.FormValue("province"),
		Date:        r.FormValue("date"),
		StartTime:   r.FormValue("startTime"),
		EndTime:     r.FormValue("endTime"),
		Address:     r.FormValue("address"),
		Price:       price,
	}
	if appErr := validate.Struct(req); appErr != nil {
		return eventRequest{}, appErr
	}
	return req, nil
}
