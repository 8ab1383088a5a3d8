package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/itemtracker/pkg/errhttp"
	itemdomain "github.com/ghuser/itemtracker/services/item/domain"
	"github.com/ghuser/itemtracker/services/item/domain/models"
)

// ItemResponse is the JSON representation of an item.
type ItemResponse struct {
	ID          int64   `json:"id"          example:"1"`
	Name        string  `json:"name"        example:"Desk lamp"`
	Description *string `json:"description" example:"Brass, 40W"`
	UserID      int64   `json:"user_id"     example:"1"`
} // @name ItemResponse

func toItemResponse(item *models.Item) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		Name:        item.Name.String(),
		Description: item.Description,
		UserID:      item.OwnerID,
	}
}

// itemIDParam parses the {id} path segment. A segment that is not an integer
// names no item, so it is answered like a missing one.
func itemIDParam(w http.ResponseWriter, r *http.Request, errs errhttp.Writer) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		errs.Write(w, itemdomain.ErrItemNotFound)
		return 0, false
	}
	return id, true
}
