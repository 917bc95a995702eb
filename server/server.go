package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MyMedia/config"
	"MyMedia/core/auth"
	"MyMedia/core/cleanup"
	"MyMedia/db"
	"MyMedia/logger"
	"MyMedia/model"
	"MyMedia/repository"
	"MyMedia/storage"

	"github.com/gorilla/mux"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})

	auth.SetSecret(cfg.JWTSecret)

	server := &http.Server{
		Addr:         ":8080",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Connect to the database
	if err := db.ConnectDB(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.DB.Close()

	// Initialize database schema
	if err := db.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// GORM connection for the posts module
	if err := db.ConnectGormDB(cfg); err != nil {
		log.Fatalf("Failed to connect GORM database: %v", err)
	}
	defer db.CloseGormDB()
	if err := db.AutoMigrateModels(&model.Post{}); err != nil {
		log.Fatalf("Failed to migrate models: %v", err)
	}

	// Redis is optional; without it listings are served from the store.
	if err := db.ConnectRedis(cfg); err != nil {
		logger.Warn("Redis unavailable, media list caching disabled", logger.ErrorField(err))
	} else {
		defer db.CloseRedis()
		log.Println("Successfully connected to Redis")
	}

	// Create necessary directories if they don't exist
	ensureDirExists(cfg.UploadDir)
	ensureDirExists(cfg.StaticDir)

	store := storage.NewStore(cfg.UploadDir, cfg.StaticDir)
	mediaRepo := repository.NewMySQLMediaRepository(db.DB)
	userRepo := repository.NewMySQLUserRepository(db.DB)
	artistRepo := repository.NewMySQLArtistRepository(db.DB)
	albumRepo := repository.NewMySQLAlbumRepository(db.DB)
	postRepo := repository.NewGormPostRepository(db.GormDB)

	apiHandler := NewAPIHandler(mediaRepo, userRepo, artistRepo, albumRepo, postRepo, store, cfg)

	// Background reconciliation of records against the content store
	cleanupSvc := cleanup.NewService(mediaRepo, store, cfg.CleanupInterval)
	cleanupSvc.Start(context.Background())

	router := mux.NewRouter()

	// CORS middleware
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Range")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Range")
			w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// API root probe
	router.HandleFunc("/api", apiHandler.RootHandler).Methods(http.MethodGet)

	// Auth endpoints
	router.HandleFunc("/api/auth/register", apiHandler.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", apiHandler.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/users/me", apiHandler.AuthMiddleware(apiHandler.MeHandler)).Methods(http.MethodGet)

	// File endpoints
	router.HandleFunc("/api/upload/", apiHandler.AuthMiddleware(apiHandler.UploadHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/download/{filename}", apiHandler.AuthMiddleware(apiHandler.DownloadHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/delete/{filename}", apiHandler.AuthMiddleware(apiHandler.DeleteFileHandler)).Methods(http.MethodDelete)

	// Streaming takes its token as a query parameter so audio elements can
	// use a plain URL.
	router.HandleFunc("/api/stream/{filename}", apiHandler.QueryTokenMiddleware(apiHandler.StreamHandler)).Methods(http.MethodGet)

	// Library endpoints
	router.HandleFunc("/api/media/", apiHandler.AuthMiddleware(apiHandler.ListMediaHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/media/search", apiHandler.AuthMiddleware(apiHandler.SearchMediaHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/media/{id}", apiHandler.AuthMiddleware(apiHandler.GetMediaHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/media/{id}", apiHandler.AuthMiddleware(apiHandler.UpdateMediaHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/media/{id}", apiHandler.AuthMiddleware(apiHandler.DeleteMediaHandler)).Methods(http.MethodDelete)

	// Entity endpoints
	router.HandleFunc("/api/artist", apiHandler.AuthMiddleware(apiHandler.CreateArtistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/artist/{id}", apiHandler.AuthMiddleware(apiHandler.GetArtistHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/album", apiHandler.AuthMiddleware(apiHandler.CreateAlbumHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/album/{id}", apiHandler.AuthMiddleware(apiHandler.GetAlbumHandler)).Methods(http.MethodGet)

	// Posts endpoints
	router.HandleFunc("/api/posts", apiHandler.AuthMiddleware(apiHandler.CreatePostHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/posts", apiHandler.AuthMiddleware(apiHandler.ListPostsHandler)).Methods(http.MethodGet)

	// Static resources (default cover art)
	staticFileServer := http.FileServer(http.Dir(cfg.StaticDir))
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", staticFileServer))

	server.Handler = router

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Println("Server starting on :8080...")
		log.Println("Upload files via POST to http://localhost:8080/api/upload/")
		log.Println("List media via GET from http://localhost:8080/api/media/")
		log.Println("Stream media via GET from http://localhost:8080/api/stream/{filename}?token=...")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	cleanupSvc.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func ensureDirExists(path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Printf("Creating directory: %s", path)
		if err := os.MkdirAll(path, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", path, err)
		}
	} else if err != nil {
		log.Fatalf("Failed to check directory %s: %v", path, err)
	}
}
