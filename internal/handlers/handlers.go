package handlers

import (
	"CardForge/internal/bundle"
	"CardForge/internal/config"
	"CardForge/internal/middleware"
	"CardForge/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler wires every route of the study API.
func NewHandler(
	deckService *service.DeckService,
	cardService *service.CardService,
	codec *bundle.Codec,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	userHandler := NewUserHandler(logger, config)
	deckHandler := NewDeckHandler(deckService, cardService, codec, logger, config)
	cardHandler := NewCardHandler(cardService, logger)
	quizHandler := NewQuizHandler(cardService, logger)

	// Пользователь
	r.Post("/api/user/login", userHandler.Login)
	r.Post("/api/user/logout", userHandler.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)

		r.Get("/api/user/me", userHandler.Me)

		// Decks
		r.Get("/api/decks", deckHandler.List)
		r.Post("/api/decks", deckHandler.Create)
		r.Post("/api/decks/import", deckHandler.Import)
		r.Get("/api/decks/{id}", deckHandler.Get)
		r.Patch("/api/decks/{id}", deckHandler.Rename)
		r.Get("/api/decks/{id}/cards", deckHandler.Cards)
		r.Post("/api/decks/{id}/cards", deckHandler.CreateCard)
		r.Post("/api/decks/{id}/images", deckHandler.UploadImages)
		r.Get("/api/decks/{id}/export", deckHandler.Export)

		// Cards
		r.Post("/api/cards/move", cardHandler.Move)
		r.Get("/api/cards/{id}", cardHandler.Get)
		r.Patch("/api/cards/{id}", cardHandler.Update)
		r.Delete("/api/cards/{id}", cardHandler.Delete)
		r.Post("/api/cards/{id}/restore", cardHandler.Restore)
		r.Post("/api/cards/{id}/masks", cardHandler.AddMask)
		r.Post("/api/cards/{id}/masks/link", cardHandler.LinkMasks)
		r.Patch("/api/cards/{id}/masks/{mid}", cardHandler.UpdateMask)
		r.Delete("/api/cards/{id}/masks/{mid}", cardHandler.DeleteMask)
		r.Delete("/api/cards/{id}/groups/{gid}", cardHandler.UnlinkGroup)
		r.Post("/api/cards/{id}/translate", cardHandler.Translate)
		r.Post("/api/cards/{id}/extract", cardHandler.Extract)
		r.Get("/api/images/{id}", cardHandler.Image)

		// Сессии квиза
		r.Post("/api/decks/{id}/quiz", quizHandler.Start)
		r.Get("/api/quiz/{sid}", quizHandler.Get)
		r.Post("/api/quiz/{sid}/reveal", quizHandler.Reveal)
		r.Post("/api/quiz/{sid}/grade", quizHandler.Grade)
		r.Post("/api/quiz/{sid}/restart", quizHandler.Restart)
		r.Get("/api/quiz/{sid}/image", quizHandler.Image)
	})

	return &Handler{Router: r}
}
