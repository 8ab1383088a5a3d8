package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/itemtracker/pkg/app"
	"github.com/ghuser/itemtracker/services/item/application/handlers"
	appsvcs "github.com/ghuser/itemtracker/services/item/application/services"
	domainsvcs "github.com/ghuser/itemtracker/services/item/domain/services"
)

// ItemRoutes registers item endpoints on the provided chi router.
// owners supplies the default owner for items created without one.
func ItemRoutes(r chi.Router, a *app.Application, owners domainsvcs.OwnerResolver) {
	svcs := appsvcs.New(a, owners)
	r.Group(func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Post("/", handlers.NewPostItemHandler(svcs, a.Errors).Execute)
			r.Get("/", handlers.NewGetItemsHandler(svcs, a.Errors).Execute)
			r.Get("/{id}", handlers.NewGetItemHandler(svcs, a.Errors).Execute)
			r.Put("/{id}", handlers.NewPutItemHandler(svcs, a.Errors).Execute)
			r.Delete("/{id}", handlers.NewDeleteItemHandler(svcs, a.Errors).Execute)
		})
	})
}
