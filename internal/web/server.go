package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Laolu02/Linq/internal"
	"github.com/Laolu02/Linq/internal/handler"
	"github.com/Laolu02/Linq/internal/middleware"
	"github.com/Laolu02/Linq/internal/nlog"
	"github.com/Laolu02/Linq/internal/realtime"
	"github.com/Laolu02/Linq/internal/service"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// Server manages the HTTP surface: REST routes, the websocket endpoint and
// the metrics endpoint, with graceful shutdown.
type Server struct {
	logger nlog.Logger
	server *http.Server

	stopFromOutsideChan chan struct{}
	doneFromInsideChan  chan struct{}

	authService    service.AuthService
	userService    service.UserService
	groupService   service.GroupService
	messageService service.MessageService
	hub            *realtime.Hub
}

func NewServer(
	authService service.AuthService,
	userService service.UserService,
	groupService service.GroupService,
	messageService service.MessageService,
	hub *realtime.Hub,
	logger nlog.Logger,
) *Server {
	return &Server{
		logger:              logger,
		stopFromOutsideChan: make(chan struct{}),
		doneFromInsideChan:  make(chan struct{}),
		authService:         authService,
		userService:         userService,
		groupService:        groupService,
		messageService:      messageService,
		hub:                 hub,
	}
}

func (s *Server) Logf(format string, a ...any) {
	s.logger.Logf(format, a...)
}

// Run builds the router and serves until the context is cancelled or Stop
// is called.
func (s *Server) Run(ctx context.Context, cfg *internal.Config) error {
	cookieStore := sessions.NewCookieStore([]byte(cfg.SecretKey))
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(7 * 24 * time.Hour.Seconds()),
	}

	authHandler := handler.NewAuthHandler(s.authService, cookieStore)
	userHandler := handler.NewUserHandler(s.userService)
	groupHandler := handler.NewGroupHandler(s.groupService, s.messageService)
	messageHandler := handler.NewMessageHandler(s.messageService)

	auth := func(next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
		return middleware.AuthMiddleware(cookieStore, next)
	}

	r := mux.NewRouter()

	// Authentication routes
	r.HandleFunc("/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/logout", authHandler.Logout).Methods("GET")

	// User routes
	r.HandleFunc("/users", auth(userHandler.GetUsers)).Methods("GET")
	r.HandleFunc("/users/{uuid}", auth(userHandler.GetUser)).Methods("GET")
	r.HandleFunc("/profile", auth(userHandler.UpdateProfile)).Methods("PUT")
	r.HandleFunc("/presence/ping", auth(userHandler.Ping)).Methods("POST")

	// Group routes
	r.HandleFunc("/groups", auth(groupHandler.GetGroups)).Methods("GET")
	r.HandleFunc("/groups", auth(groupHandler.CreateGroup)).Methods("POST")
	r.HandleFunc("/groups/{uuid}", auth(groupHandler.GetGroup)).Methods("GET")
	r.HandleFunc("/groups/{uuid}", auth(groupHandler.UpdateGroup)).Methods("PUT")
	r.HandleFunc("/groups/{uuid}", auth(groupHandler.DeleteGroup)).Methods("DELETE")
	r.HandleFunc("/groups/{uuid}/join", auth(groupHandler.JoinGroup)).Methods("POST")
	r.HandleFunc("/groups/{uuid}/leave", auth(groupHandler.LeaveGroup)).Methods("POST")
	r.HandleFunc("/groups/{uuid}/members", auth(groupHandler.GetMembers)).Methods("GET")
	r.HandleFunc("/groups/{uuid}/members/role", auth(groupHandler.SetMemberRole)).Methods("PUT")

	// Message routes
	r.HandleFunc("/conversations", auth(messageHandler.GetConversations)).Methods("GET")
	r.HandleFunc("/messages/private", auth(messageHandler.CreateDMMessage)).Methods("POST")
	r.HandleFunc("/messages/private/{uuid}", auth(messageHandler.GetDMMessages)).Methods("GET")
	r.HandleFunc("/messages/group/{uuid}", auth(messageHandler.CreateGroupMessage)).Methods("POST")
	r.HandleFunc("/messages/group/{uuid}", auth(messageHandler.GetGroupMessages)).Methods("GET")
	r.HandleFunc("/messages/{uuid}", auth(messageHandler.EditMessage)).Methods("PUT")
	r.HandleFunc("/messages/{uuid}", auth(messageHandler.DeleteMessage)).Methods("DELETE")

	// Live socket endpoint
	r.HandleFunc("/ws", auth(func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		s.hub.ServeWS(w, r, user.UUID)
	})).Methods("GET")

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	s.server = &http.Server{
		Addr:           ":" + cfg.HTTPServerPort,
		Handler:        c.Handler(r),
		ReadTimeout:    time.Duration(cfg.ReadTimeout * int64(time.Second)),
		WriteTimeout:   time.Duration(cfg.WriteTimeout * int64(time.Second)),
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		select {
		case <-ctx.Done():
			s.Logf("Received stop signal. Shutting down...")
		case <-s.stopFromOutsideChan:
			s.Logf("Server was asked to stop. Shutting down...")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.Logf("Error during shutdown... %v", err)
		}
		close(s.doneFromInsideChan)
	}()

	s.Logf("Http server starting on port {%s}", cfg.HTTPServerPort)
	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		s.Logf("FATAL: HTTP Server error{%v}", err)
		return fmt.Errorf("http server failed: %w", err)
	}
	<-s.doneFromInsideChan
	return nil
}

func (s *Server) Stop() {
	close(s.stopFromOutsideChan)
	<-s.doneFromInsideChan
}
