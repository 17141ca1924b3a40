// Package http wires the API routes and request middleware.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"eduquest/internal/handlers"
	"eduquest/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Quiz       handlers.QuizService
	Grader     handlers.AnswerGrader
	Ingester   handlers.DocumentIngester
	Answerer   handlers.QuestionAnswerer
	Documents  storage.DocumentStore
	Health     handlers.CollectionChecker
	Collection string
}

// NewRouter creates the HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	documentHandler := handlers.NewDocumentHandler(deps.Ingester, deps.Documents)
	questionHandler := handlers.NewQuestionHandler(deps.Quiz)
	answerHandler := handlers.NewAnswerHandler(deps.Grader)
	askHandler := handlers.NewAskHandler(deps.Answerer)
	healthHandler := handlers.NewHealthHandler(deps.Health, deps.Collection)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)

		r.Post("/documents", documentHandler.Upload)
		r.Get("/documents/{userID}", documentHandler.List)
		r.Delete("/documents/{documentID}", documentHandler.Delete)

		r.Post("/questions/generate", questionHandler.Generate)
		r.Post("/questions", questionHandler.Save)
		r.Get("/questions/{userID}", questionHandler.List)

		r.Post("/answers/check", answerHandler.Check)
		r.Post("/answers/check-one", answerHandler.CheckOne)

		r.Method(http.MethodPost, "/ask", askHandler)
	})

	return r
}
