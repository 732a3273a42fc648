package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kanmind/kanmind-be/internal/api/handlers"
	"github.com/kanmind/kanmind-be/internal/auth"
	"github.com/kanmind/kanmind-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	tokenService services.TokenServiceProvider,
	userService services.UserServiceProvider,
	boardService services.BoardServiceProvider,
	taskService services.TaskServiceProvider,
	commentService services.CommentServiceProvider,
	defaultPageSize int,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes) // the API is documented with trailing slashes

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, tokenService)
	boardHandler := handlers.NewBoardHandler(boardService)
	taskHandler := handlers.NewTaskHandler(taskService, defaultPageSize)
	commentHandler := handlers.NewCommentHandler(commentService)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/login", userHandler.Login)
		r.Post("/registration", userHandler.Register)
		r.Get("/email-check", userHandler.EmailCheck)

		// Everything else requires a token
		r.Group(func(r chi.Router) {
			r.Use(auth.TokenMiddleware(tokenService))

			r.Route("/boards", func(r chi.Router) {
				r.Get("/", boardHandler.GetAll)
				r.Post("/", boardHandler.Create)
				r.Route("/{boardID}", func(r chi.Router) {
					r.Get("/", boardHandler.Get)
					r.Put("/", boardHandler.Update)
					r.Patch("/", boardHandler.Update)
					r.Delete("/", boardHandler.Delete)
				})
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.GetAll)
				r.Post("/", taskHandler.Create)
				r.Get("/assigned_to_me", taskHandler.AssignedToMe)
				r.Get("/reviewing", taskHandler.Reviewing)
				r.Route("/{taskID}", func(r chi.Router) {
					r.Get("/", taskHandler.Get)
					r.Put("/", taskHandler.Update)
					r.Patch("/", taskHandler.Update)
					r.Delete("/", taskHandler.Delete)

					r.Route("/comments", func(r chi.Router) {
						r.Get("/", commentHandler.List)
						r.Post("/", commentHandler.Create)
						r.Delete("/{commentID}", commentHandler.Delete)
					})
				})
			})
		})
	})

	return r
}
