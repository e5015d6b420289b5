// Package rest
package rest

import (
	"net/http"

	"edumeet/internal/config"
	"edumeet/internal/domain"
	"edumeet/internal/transport/rest/middleware"
	"edumeet/internal/transport/ws"
)

type RouterDeps struct {
	Auth  *AuthHandler
	Event *EventHandler
	User  *UserHandler
	Ws    *ws.WebHandler

	Verifier middleware.TokenVerifier
}

func NewRouter(cfg *config.Config, deps *RouterDeps) http.Handler {
	mux := http.NewServeMux()

	globalMw := middleware.New()
	globalMw.Use(middleware.CORS(cfg))

	userStack := middleware.New()
	userStack.Use(middleware.JWT(deps.Verifier))
	userStack.Use(middleware.CSRF(cfg))

	adminStack := middleware.New()
	adminStack.Use(middleware.JWT(deps.Verifier))
	adminStack.Use(middleware.CSRF(cfg))
	adminStack.Use(middleware.RequireRole(domain.RoleAdmin))

	publisherStack := middleware.New()
	publisherStack.Use(middleware.JWT(deps.Verifier))
	publisherStack.Use(middleware.CSRF(cfg))
	publisherStack.Use(middleware.RequireRole(domain.RoleAdmin, domain.RolePublisher))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /ws", deps.Ws.Serve)

	mux.HandleFunc("POST /auth/signup", deps.Auth.Signup)
	mux.HandleFunc("POST /auth/signin", deps.Auth.Signin)
	mux.HandleFunc("POST /auth/forgot-password", deps.Auth.ForgotPassword)
	mux.HandleFunc("POST /auth/reset-password/{token}", deps.Auth.ResetPassword)

	mux.Handle("GET /auth/verify", userStack.Then(http.HandlerFunc(deps.Auth.Verify)))
	mux.Handle("POST /auth/logout", userStack.Then(http.HandlerFunc(deps.Auth.Logout)))

	mux.HandleFunc("GET /events/cards", deps.Event.Index)
	mux.HandleFunc("GET /events/{id}", deps.Event.Show)
	mux.HandleFunc("GET /events/{id}/reactions", deps.Event.Reactions)

	mux.Handle("POST /events", publisherStack.Then(http.HandlerFunc(deps.Event.Store)))
	mux.Handle("PUT /events/{id}", userStack.Then(http.HandlerFunc(deps.Event.Update)))
	mux.Handle("DELETE /events/{id}", userStack.Then(http.HandlerFunc(deps.Event.Destroy)))

	mux.Handle("POST /events/{id}/like", userStack.Then(http.HandlerFunc(deps.Event.Like)))
	mux.Handle("POST /events/{id}/dislike", userStack.Then(http.HandlerFunc(deps.Event.Dislike)))

	mux.Handle("GET /users", adminStack.Then(http.HandlerFunc(deps.User.Index)))
	mux.Handle("PUT /users/{id}/role", adminStack.Then(http.HandlerFunc(deps.User.UpdateRole)))
	mux.Handle("DELETE /users/{id}", adminStack.Then(http.HandlerFunc(deps.User.Destroy)))

	return globalMw.Apply(mux)
}

func NewServer(handler http.Handler, addr string) *http.Server {
	return &http.Server{
		Addr:    addr,
		Handler: handler,
	}
}
