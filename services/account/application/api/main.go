package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/itemtracker/pkg/app"
	"github.com/ghuser/itemtracker/services/account/application/handlers"
	appsvcs "github.com/ghuser/itemtracker/services/account/application/services"
)

// AccountRoutes registers account endpoints on the provided chi router.
func AccountRoutes(r chi.Router, a *app.Application, svcs *appsvcs.Services) {
	r.Group(func(r chi.Router) {
		r.Post("/register", handlers.NewPostRegisterHandler(svcs, a.Errors).Execute)
		r.Post("/login", handlers.NewPostLoginHandler(svcs, a.Errors).Execute)
	})
}
