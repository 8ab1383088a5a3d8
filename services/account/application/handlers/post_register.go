package handlers

import (
	"net/http"

	"github.com/ghuser/itemtracker/pkg/errhttp"
	"github.com/ghuser/itemtracker/pkg/httpx"
	pkgvalidator "github.com/ghuser/itemtracker/pkg/validator"
	appsvcs "github.com/ghuser/itemtracker/services/account/application/services"
)

const msgRegistered = "User registered successfully"

// CredentialsRequest is the request body for POST /register and POST /login.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required" example:"alice"`
	Password string `json:"password" validate:"required" example:"s3cret"`
} // @name CredentialsRequest

// ValidationMessage implements validator.Messager.
func (CredentialsRequest) ValidationMessage() string {
	return errhttp.MsgMissingCredentials
}

// PostRegisterHandler handles POST /register requests.
type PostRegisterHandler struct {
	svc  *appsvcs.Services
	errs errhttp.Writer
}

// NewPostRegisterHandler returns a PostRegisterHandler backed by the given services.
func NewPostRegisterHandler(svc *appsvcs.Services, errs errhttp.Writer) *PostRegisterHandler {
	return &PostRegisterHandler{svc: svc, errs: errs}
}

// Execute registers a new user.
//
//	@Summary		Register
//	@Description	Creates a user account with a unique username
//	@Tags			account
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CredentialsRequest	true	"Credentials"
//	@Success		201		{object}	httpx.MessageResponse
//	@Failure		400		{object}	httpx.MessageResponse
//	@Router			/register [post]
func (h *PostRegisterHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CredentialsRequest](w, r)
	if !ok {
		return
	}

	if _, err := h.svc.Account.Register(r.Context(), req.Username, req.Password); err != nil {
		h.errs.Write(w, err)
		return
	}

	httpx.JSONMessage(w, http.StatusCreated, msgRegistered)
}
