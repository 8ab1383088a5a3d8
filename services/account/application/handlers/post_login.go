package handlers

import (
	"net/http"

	"github.com/ghuser/itemtracker/pkg/errhttp"
	"github.com/ghuser/itemtracker/pkg/httpx"
	pkgvalidator "github.com/ghuser/itemtracker/pkg/validator"
	appsvcs "github.com/ghuser/itemtracker/services/account/application/services"
)

const msgLoggedIn = "Login successful"

// PostLoginHandler handles POST /login requests. A successful login issues
// no session or token.
type PostLoginHandler struct {
	svc  *appsvcs.Services
	errs errhttp.Writer
}

// NewPostLoginHandler returns a PostLoginHandler backed by the given services.
func NewPostLoginHandler(svc *appsvcs.Services, errs errhttp.Writer) *PostLoginHandler {
	return &PostLoginHandler{svc: svc, errs: errs}
}

// Execute verifies a username and password.
//
//	@Summary		Log in
//	@Description	Verifies credentials
//	@Tags			account
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CredentialsRequest	true	"Credentials"
//	@Success		200		{object}	httpx.MessageResponse
//	@Failure		400		{object}	httpx.MessageResponse
//	@Failure		401		{object}	httpx.MessageResponse
//	@Router			/login [post]
func (h *PostLoginHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CredentialsRequest](w, r)
	if !ok {
		return
	}

	if err := h.svc.Account.Verify(r.Context(), req.Username, req.Password); err != nil {
		h.errs.Write(w, err)
		return
	}

	httpx.JSONMessage(w, http.StatusOK, msgLoggedIn)
}
