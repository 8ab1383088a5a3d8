package handlers

import (
	"net/http"

	"github.com/ghuser/itemtracker/pkg/auth"
	"github.com/ghuser/itemtracker/pkg/errhttp"
	"github.com/ghuser/itemtracker/pkg/httpx"
	appsvcs "github.com/ghuser/itemtracker/services/item/application/services"
)

const msgItemDeleted = "Item deleted"

// DeleteItemHandler handles DELETE /items/{id} requests.
type DeleteItemHandler struct {
	svc  *appsvcs.Services
	errs errhttp.Writer
}

// NewDeleteItemHandler returns a DeleteItemHandler backed by the given services.
func NewDeleteItemHandler(svc *appsvcs.Services, errs errhttp.Writer) *DeleteItemHandler {
	return &DeleteItemHandler{svc: svc, errs: errs}
}

// Execute deletes an item.
//
//	@Summary		Delete item
//	@Tags			items
//	@Produce		json
//	@Param			id	path		int	true	"Item ID"
//	@Success		200	{object}	httpx.MessageResponse
//	@Failure		404	{object}	httpx.MessageResponse
//	@Router			/items/{id} [delete]
func (h *DeleteItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := itemIDParam(w, r, h.errs)
	if !ok {
		return
	}

	if err := h.svc.Item.Delete(r.Context(), auth.ActorFromCtx(r.Context()), id); err != nil {
		h.errs.Write(w, err)
		return
	}

	httpx.JSONMessage(w, http.StatusOK, msgItemDeleted)
}
