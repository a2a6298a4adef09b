package auth

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"tixplate/apperr"
	"tixplate/models"
	"tixplate/utils"
	"tixplate/validate"
)

type Handler struct {
	Users     UserStore
	Secret    []byte
	UploadDir string
}

type signupRequest struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type credentialResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Image  string `json:"image"`
	Name   string `json:"name"`
	Token  string `json:"token"`
}

// Signup creates an account from a multipart form carrying the profile
// image. Duplicate emails fail with 422 and leave exactly one user.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, apperr.BadInput("Invalid inputs passed, please check your data"))
		return
	}

	req := signupRequest{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	ctx := r.Context()
	existing, err := h.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		utils.RespondWithError(w, apperr.Internal("Signing up failed, please try again later"))
		return
	}
	if existing != nil {
		utils.RespondWithError(w, apperr.BadInput("User exists already, please login instead"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		utils.RespondWithError(w, apperr.Internal("Could not create user, please try again"))
		return
	}

	var image models.Image
	if files := r.MultipartForm.File["image"]; len(files) > 0 {
		image, err = utils.SaveImage(files[0], h.UploadDir)
		if err != nil {
			utils.RespondWithError(w, apperr.Internal("Could not create user, please try again"))
			return
		}
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		Password:     string(hashed),
		Image:        image,
		Events:       []primitive.ObjectID{},
		BoughtEvents: []primitive.ObjectID{},
		SmartPlates:  []primitive.ObjectID{},
	}
	if err := h.Users.Insert(ctx, user); err != nil {
		if err == ErrDuplicateEmail {
			utils.RespondWithError(w, apperr.BadInput("User exists already, please login instead"))
			return
		}
		utils.RespondWithError(w, apperr.Internal("Signing up failed, please try again."))
		return
	}

	token, err := NewToken(h.Secret, user)
	if err != nil {
		utils.RespondWithError(w, apperr.Internal("Signing up failed, please try again."))
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, credentialResponse{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		Image:  user.Image.URL,
		Name:   user.Name,
		Token:  token,
	})
}

// Login checks the password and issues a fresh credential. Unknown email
// and wrong password are indistinguishable to the caller.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, apperr.BadInput("Invalid inputs passed, please check your data"))
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	user, err := h.Users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		utils.RespondWithError(w, apperr.Internal("Logging in failed, please try again later"))
		return
	}
	if user == nil {
		utils.RespondWithError(w, apperr.Unauthorized("Invalid credentials, could not log you in"))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		utils.RespondWithError(w, apperr.Unauthorized("Invalid credentials, could not log you in"))
		return
	}

	token, err := NewToken(h.Secret, user)
	if err != nil {
		utils.RespondWithError(w, apperr.Internal("Logging in failed, please try again later"))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, credentialResponse{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		Image:  user.Image.URL,
		Name:   user.Name,
		Token:  token,
	})
}

// GetUser returns a public profile. The password hash never serializes.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid, err := primitive.ObjectIDFromHex(ps.ByName("uid"))
	if err != nil {
		utils.RespondWithError(w, apperr.NotFound("Could not find user for the provided id"))
		return
	}

	user, err := h.Users.FindByID(r.Context(), uid)
	if err != nil {
		utils.RespondWithError(w, apperr.Internal("Fetching user failed, please try again later"))
		return
	}
	if user == nil {
		utils.RespondWithError(w, apperr.NotFound("Could not find user for the provided id"))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"user": user})
}
