package handlers

import (
	"net/http"

	"github.com/ghuser/itemtracker/pkg/auth"
	"github.com/ghuser/itemtracker/pkg/errhttp"
	"github.com/ghuser/itemtracker/pkg/httpx"
	pkgvalidator "github.com/ghuser/itemtracker/pkg/validator"
	appsvcs "github.com/ghuser/itemtracker/services/item/application/services"
)

// CreateItemRequest is the request body for POST /items.
type CreateItemRequest struct {
	Name        string  `json:"name" validate:"required" example:"Desk lamp"`
	Description *string `json:"description,omitempty" example:"Brass, 40W"`
	UserID      OwnerID `json:"user_id,omitempty" swaggertype:"integer" example:"1"` // 0 or absent picks the default owner
} // @name CreateItemRequest

// ValidationMessage implements validator.Messager.
func (CreateItemRequest) ValidationMessage() string {
	return errhttp.MsgItemNameRequired
}

// PostItemHandler handles POST /items requests.
type PostItemHandler struct {
	svc  *appsvcs.Services
	errs errhttp.Writer
}

// NewPostItemHandler returns a PostItemHandler backed by the given services.
func NewPostItemHandler(svc *appsvcs.Services, errs errhttp.Writer) *PostItemHandler {
	return &PostItemHandler{svc: svc, errs: errs}
}

// Execute creates a new item.
//
//	@Summary		Create item
//	@Description	Creates an item. Without user_id the item goes to the first registered user, who is created when none exists.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateItemRequest	true	"Item creation request"
//	@Success		201		{object}	ItemResponse
//	@Failure		400		{object}	httpx.MessageResponse
//	@Router			/items [post]
func (h *PostItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateItemRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Item.Create(r.Context(), auth.ActorFromCtx(r.Context()), req.Name, req.Description, int64(req.UserID))
	if err != nil {
		h.errs.Write(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toItemResponse(item))
}
