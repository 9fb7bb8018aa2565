package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handlers groups the API's handlers for route registration.
type Handlers struct {
	Auth     *AuthHandler
	Decks    *DeckHandler
	Progress *ProgressHandler
	Groups   *GroupHandler
}

// RegisterRoutes mounts the API on r. Everything except the auth endpoints
// runs behind authenticate.
func RegisterRoutes(r chi.Router, h Handlers, authenticate func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
		r.Post("/refresh", h.Auth.RefreshToken)
		r.Post("/logout", h.Auth.Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Route("/decks", func(r chi.Router) {
			r.Get("/", h.Decks.ListDecks)
			r.Post("/", h.Decks.CreateDeck)
			r.Get("/mine", h.Decks.ListOwnDecks)
			r.Get("/published", h.Decks.ListPublishedDecks)
			r.Get("/{id}", h.Decks.GetDeck)
			r.Put("/{id}", h.Decks.UpdateDeck)
			r.Delete("/{id}", h.Decks.DeleteDeck)
			r.Put("/{id}/publish", h.Decks.SetPublished)
			r.Post("/{id}/cards", h.Decks.AddCard)
			r.Post("/{id}/import", h.Decks.ImportCards)
			r.Post("/{id}/generate", h.Decks.GenerateCards)
		})
		r.Put("/cards/{cardID}", h.Decks.UpdateCard)
		r.Delete("/cards/{cardID}", h.Decks.DeleteCard)

		r.Route("/progress-decks", func(r chi.Router) {
			r.Get("/", h.Progress.ListProgressDecks)
			r.Post("/", h.Progress.CreateProgressDeck)
			r.Get("/statistics", h.Progress.GetCombinedStatistics)
			r.Post("/reviews", h.Progress.SubmitReview)
			r.Get("/{id}", h.Progress.GetProgressDeck)
			r.Put("/{id}", h.Progress.UpdateProgressDeck)
			r.Delete("/{id}", h.Progress.DeleteProgressDeck)
			r.Get("/{id}/session", h.Progress.GetSession)
			r.Get("/{id}/next", h.Progress.GetNextCard)
			r.Get("/{id}/counts", h.Progress.GetCounts)
			r.Get("/{id}/statistics", h.Progress.GetDeckStatistics)
		})

		r.Route("/groups", func(r chi.Router) {
			r.Get("/", h.Groups.ListGroups)
			r.Post("/", h.Groups.CreateGroup)
			r.Get("/{id}", h.Groups.GetGroup)
			r.Get("/{id}/users", h.Groups.ListGroupUsers)
			r.Post("/{id}/users", h.Groups.AddUser)
			r.Delete("/{id}/users/{userName}", h.Groups.RemoveUser)
			r.Get("/{id}/progress-decks", h.Groups.ListGroupProgressDecks)
			r.Get("/{id}/statistics", h.Groups.GetGroupStatistics)
		})

		r.Get("/invitations", h.Groups.ListInvitations)
		r.Post("/invitations/{id}/accept", h.Groups.AcceptInvitation)
		r.Delete("/invitations/{id}", h.Groups.DeclineInvitation)
	})
}
