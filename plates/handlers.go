package plates

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tixplate/apperr"
	"tixplate/llm"
	"tixplate/models"
	"tixplate/mq"
	"tixplate/utils"
	"tixplate/validate"
)

type Handler struct {
	Store   Store
	Gen     llm.Completer
	Emitter *mq.Emitter
}

type generateRequest struct {
	SpiceLevel         string `json:"spicelevel" validate:"required"`
	Occasion           string `json:"occasion" validate:"required"`
	CuisineType        string `json:"cusineType" validate:"required"`
	Servings           int    `json:"servings" validate:"required"`
	Ingredients        string `json:"ingredients" validate:"required"`
	DietaryPreferences string `json:"dietaryPreferences" validate:"required"`
}

type saveRequest struct {
	Ingredients        string `json:"ingredients" validate:"required"`
	DietaryPreferences string `json:"dietaryPreferences" validate:"required"`
	CuisineType        string `json:"cusineType" validate:"required"`
	Servings           int    `json:"servings" validate:"required"`
	Occasion           string `json:"occasion" validate:"required"`
	Title              string `json:"title" validate:"required"`
	CookingTime        string `json:"cookingTime" validate:"required"`
	Recipe             string `json:"recipe" validate:"required"`
}

// Generate runs the four-call pipeline and returns the draft without
// persisting anything; saving is a separate explicit call.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, apperr.BadInput("Invalid inputs passed, please check your data"))
		return
	}
	if appErr := validate.Struct(req); appErr != nil {
		utils.RespondWithError(w, appErr)
		return
	}

	draft, err := Generate(r.Context(), h.Gen, GenerateInput{
		SpiceLevel:         req.SpiceLevel,
		Occasion:           req.Occasion,
		CuisineType:        req.CuisineType,
		Ingredients:        req.Ingredients,
		DietaryPreferences: req.DietaryPreferences,
		Servings:           req.Servings,
	})
	if err != nil {
		utils.RespondWithError(w, apperr.Internal("Ooops! seems we experienced an error creating your recipe"))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, draft)
}

// Save persists a previously generated draft for the caller via the
// linked insert.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, apperr.BadInput("Invalid inputs passed, please check your data"))
		return
	}
	if appErr := validate.Struct(req); appErr != nil {
		utils.RespondWithError(w, appErr)
		return
	}

	ctx := r.Context()
	callerID, err := primitive.ObjectIDFromHex(utils.GetUserIDFromContext(ctx))
	if err != nil {
		utils.RespondWithError(w, apperr.Unauthorized("Authentication failed!"))
		return
	}

	plate := &models.SmartPlate{
		Ingredients:        req.Ingredients,
		DietaryPreferences: req.DietaryPreferences,
		CuisineType:        req.CuisineType,
		Servings:           req.Servings,
		Occasion:           req.Occasion,
		Title:              req.Title,
		CookingTime:        req.CookingTime,
		Recipe:             req.Recipe,
		Creator:            callerID,
	}
	if err := h.Store.Save(ctx, plate); err != nil {
		if err == ErrUserNotFound {
			utils.RespondWithError(w, apperr.NotFound("Could not find user for the provided id"))
			return
		}
		utils.RespondWithError(w, apperr.Internal("Saving Recipe failed, Please try again."))
		return
	}

	h.Emitter.Emit(ctx, mq.Index{EntityType: "smartplate", Method: "POST", EntityID: plate.ID.Hex()})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"recipe": plate})
}

func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid, err := primitive.ObjectIDFromHex(ps.ByName("uid"))
	if err != nil {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"smartPlates": []models.SmartPlate{}})
		return
	}

	plates, err := h.Store.ListByCreator(r.Context(), uid)
	if err != nil {
		utils.RespondWithError(w, apperr.Internal("Fetching Recipe Failed, please try again later"))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"smartPlates": plates})
}

// Delete removes a single plate. Owner-only.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sid, err := primitive.ObjectIDFromHex(ps.ByName("sid"))
	if err != nil {
		utils.RespondWithError(w, apperr.NotFound("Could not find recipe for this id"))
		return
	}

	ctx := r.Context()
	plate, err := h.Store.GetByID(ctx, sid)
	if err != nil {
		utils.RespondWithError(w, apperr.Internal("Something went wrong, could not delete recipe"))
		return
	}
	if plate == nil {
		utils.RespondWithError(w, apperr.NotFound("Could not find recipe for this id"))
		return
	}
	if plate.Creator.Hex() != utils.GetUserIDFromContext(ctx) {
		utils.RespondWithError(w, apperr.Forbidden("You are not allowed to delete this recipe"))
		return
	}

	if err := h.Store.Delete(ctx, plate); err != nil {
		utils.RespondWithError(w, apperr.Internal("Something went wrong, could not delete the recipe"))
		return
	}

	h.Emitter.Emit(ctx, mq.Index{EntityType: "smartplate", Method: "DELETE", EntityID: plate.ID.Hex()})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Deleted Recipe."})
}

// DeleteAll wipes every plate the caller owns along with the reference
// list. The path uid must be the caller.
func (h *Handler) DeleteAll(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid, err := primitive.ObjectIDFromHex(ps.ByName("uid"))
	if err != nil {
		utils.RespondWithError(w, apperr.NotFound("Could not find user for the provided id"))
		return
	}

	ctx := r.Context()
	user, err := h.Store.FindUser(ctx, uid)
	if err != nil {
		utils.RespondWithError(w, apperr.Internal("Something went wrong, could not delete recipes"))
		return
	}
	if user == nil {
		utils.RespondWithError(w, apperr.NotFound("Could not find user for the provided id"))
		return
	}
	if user.ID.Hex() != utils.GetUserIDFromContext(ctx) {
		utils.RespondWithError(w, apperr.Forbidden("You are not allowed to delete these recipes"))
		return
	}

	if err := h.Store.DeleteAllByCreator(ctx, uid); err != nil {
		utils.RespondWithError(w, apperr.Internal("Something went wrong, could not delete the recipe"))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Deleted Recipes."})
}
