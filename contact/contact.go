package contact

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tixplate/apperr"
	"tixplate/db"
	"tixplate/models"
	"tixplate/utils"
	"tixplate/validate"
)

// Store holds terminal write-once contact messages.
type Store interface {
	Insert(ctx context.Context, msg *models.Contact) error
}

type Repo struct {
	contacts *mongo.Collection
}

func NewRepo(database *mongo.Database) *Repo {
	return &Repo{contacts: database.Collection(db.ColContacts)}
}

func (r *Repo) Insert(ctx context.Context, msg *models.Contact) error {
	msg.ID = primitive.NewObjectID()
	_, err := r.contacts.InsertOne(ctx, msg)
	return err
}

type Handler struct {
	Store Store
}

type contactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,min=5"`
}

// Submit records a contact-form message. No auth, field-validated only.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, apperr.BadInput("Invalid inputs passed, please check your data"))
		return
	}
	if appErr := validate.Struct(req); appErr != nil {
		utils.RespondWithError(w, appErr)
		return
	}

	msg := &models.Contact{Name: req.Name, Email: req.Email, Message: req.Message}
	if err := h.Store.Insert(r.Context(), msg); err != nil {
		utils.RespondWithError(w, apperr.Internal("Sending Message Failed"))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "Your message has been successfully sent. I will respond to you within one business day.",
	})
}
