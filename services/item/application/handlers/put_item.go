package handlers

import (
	"net/http"

	"github.com/ghuser/itemtracker/pkg/auth"
	"github.com/ghuser/itemtracker/pkg/errhttp"
	"github.com/ghuser/itemtracker/pkg/httpx"
	pkgvalidator "github.com/ghuser/itemtracker/pkg/validator"
	appsvcs "github.com/ghuser/itemtracker/services/item/application/services"
)

// UpdateItemRequest is the request body for PUT /items/{id}. Absent fields
// keep their stored values; a null description clears it.
type UpdateItemRequest struct {
	Name        *string        `json:"name,omitempty" validate:"omitnil,min=1" example:"Floor lamp"`
	Description NullableString `json:"description" swaggertype:"string" extensions:"x-nullable" example:"Steel, 60W"`
} // @name UpdateItemRequest

// ValidationMessage implements validator.Messager.
func (UpdateItemRequest) ValidationMessage() string {
	return errhttp.MsgItemNameRequired
}

// PutItemHandler handles PUT /items/{id} requests.
type PutItemHandler struct {
	svc  *appsvcs.Services
	errs errhttp.Writer
}

// NewPutItemHandler returns a PutItemHandler backed by the given services.
func NewPutItemHandler(svc *appsvcs.Services, errs errhttp.Writer) *PutItemHandler {
	return &PutItemHandler{svc: svc, errs: errs}
}

// Execute partially updates an item.
//
//	@Summary		Update item
//	@Description	Updates name and/or description; the owner never changes. A null description clears it.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"Item ID"
//	@Param			request	body		UpdateItemRequest	true	"Fields to change"
//	@Success		200		{object}	ItemResponse
//	@Failure		400		{object}	httpx.MessageResponse
//	@Failure		404		{object}	httpx.MessageResponse
//	@Router			/items/{id} [put]
func (h *PutItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := itemIDParam(w, r, h.errs)
	if !ok {
		return
	}

	req, ok := pkgvalidator.ValidateRequest[UpdateItemRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Item.Update(r.Context(), auth.ActorFromCtx(r.Context()), id, req.Name, req.Description.change())
	if err != nil {
		h.errs.Write(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}
