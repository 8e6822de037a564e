package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/10Vaibhav/CollabDraw/internal/auth"
	"github.com/10Vaibhav/CollabDraw/internal/config"
	"github.com/10Vaibhav/CollabDraw/internal/db"
	"github.com/10Vaibhav/CollabDraw/internal/document"
	"github.com/10Vaibhav/CollabDraw/internal/element"
	mw "github.com/10Vaibhav/CollabDraw/internal/middleware"
	"github.com/10Vaibhav/CollabDraw/internal/relay"
	"github.com/10Vaibhav/CollabDraw/internal/typeid"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Without a database the server keeps shapes in memory and lets
	// anyone connect, which is enough for local sketching.
	var (
		elements    element.Store
		authService *auth.Service
		docHandler  *document.Handler
	)
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := db.Migrate(pool); err != nil {
			slog.Error("run migrations", "error", err)
			os.Exit(1)
		}

		queries := db.New(pool)
		elements = element.NewPostgres(pool)
		authService = auth.NewService(queries, cfg.JWTSecret)
		docHandler = document.NewHandler(document.NewService(queries, elements))
	} else {
		slog.Warn("no DATABASE_URL set, running with in-memory element store")
		elements = element.NewMemory()
	}

	hub := relay.NewHub(elements)
	go hub.Run()

	r := mux.NewRouter()

	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	if authService != nil {
		authHandler := auth.NewHandler(authService)
		r.HandleFunc("/signup", authHandler.Signup).Methods("POST", "OPTIONS")
		r.HandleFunc("/login", authHandler.Login).Methods("POST", "OPTIONS")

		api := r.PathPrefix("/api").Subrouter()
		api.Use(authService.RequireAuth)

		api.HandleFunc("/documents", docHandler.List).Methods("GET")
		api.HandleFunc("/documents", docHandler.Create).Methods("POST")
		api.HandleFunc("/documents/{documentId}", docHandler.Get).Methods("GET")
		api.HandleFunc("/documents/{documentId}", docHandler.Delete).Methods("DELETE")
		api.HandleFunc("/documents/{documentId}/elements", docHandler.ListElements).Methods("GET")
		api.HandleFunc("/elements", docHandler.DeleteElements).Methods("DELETE")
	}

	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, cfg.Origins())
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *relay.Hub, authSvc *auth.Service, origins []string) {
	var userID string

	if authSvc != nil {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		var err error
		userID, err = authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
	} else {
		userID = typeid.NewSessionID()
	}

	opts := &websocket.AcceptOptions{}
	if len(origins) == 0 {
		opts.InsecureSkipVerify = true
	} else {
		for _, o := range origins {
			opts.OriginPatterns = append(opts.OriginPatterns, stripScheme(o))
		}
	}

	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := relay.NewClient(hub, conn, userID, clientID)

	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// stripScheme reduces an origin URL to the host pattern Accept expects.
func stripScheme(origin string) string {
	for _, prefix := range []string{"https://", "http://"} {
		if len(origin) > len(prefix) && origin[:len(prefix)] == prefix {
			return origin[len(prefix):]
		}
	}
	return origin
}
