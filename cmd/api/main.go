package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/foolclub/boleta-api/internal/adapters/analytics"
	handler "github.com/foolclub/boleta-api/internal/adapters/http"
	"github.com/foolclub/boleta-api/internal/adapters/render"
	"github.com/foolclub/boleta-api/internal/adapters/spotify"
	"github.com/foolclub/boleta-api/internal/adapters/store"
	"github.com/foolclub/boleta-api/internal/collections"
	"github.com/foolclub/boleta-api/internal/config"
	"github.com/foolclub/boleta-api/internal/export"
	"github.com/foolclub/boleta-api/internal/rating"
	"github.com/foolclub/boleta-api/internal/uistate"

	_ "github.com/foolclub/boleta-api/docs"
)

// @title			Boleta API
// @version		1.0
// @description	API for the fool club album-rating boletas: billboard and
// @description	review scheduling, track rating sheets and JPEG/zip exports.

// @contact.name	Boleta API Support
// @license.name	MIT

// @host		localhost:8080
// @BasePath	/

// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				Session bearer token issued by /auth/login
func main() {
	cfg := config.Load()

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	// Create provider adapters
	httpClient := &http.Client{Timeout: 30 * time.Second}
	catalog := spotify.NewProvider(httpClient, cfg.SpotifyClientID, cfg.SpotifyClientSecret)
	renderer, err := render.New(httpClient)
	if err != nil {
		log.Fatalf("Failed to set up renderer: %v", err)
	}
	tracker := analytics.New(httpClient, cfg.GAMeasurementID, cfg.GAAPISecret)

	// Create application services
	collectionService := collections.NewService(db, catalog)
	ratingService := rating.NewService()
	pipeline := export.NewPipeline(renderer, tracker)
	batch := export.NewOrchestrator(pipeline, cfg.ExportSettleDelay)

	// Register collection kinds for batch export
	kinds := export.NewKindRegistry()
	kinds.Register(collections.BillboardSource{Service: collectionService})
	kinds.Register(collections.ReviewSource{Service: collectionService})

	// Setup HTTP server
	r := gin.Default()
	h := handler.NewHandler(handler.Options{
		Sessions:      db,
		Catalog:       catalog,
		Collections:   collectionService,
		Rating:        ratingService,
		Pipeline:      pipeline,
		Batch:         batch,
		Kinds:         kinds,
		Sidebar:       uistate.NewSidebarStore(),
		AdminUser:     cfg.AdminUser,
		AdminPassword: cfg.AdminPassword,
		SessionTTL:    cfg.SessionTTL,
	})
	h.RegisterRoutes(r)

	// Periodic session cleanup
	go func() {
		for range time.Tick(time.Hour) {
			if n, err := db.DeleteExpiredSessions(context.Background()); err != nil {
				log.Printf("[sessions] cleanup failed: %v", err)
			} else if n > 0 {
				log.Printf("[sessions] deleted %d expired sessions", n)
			}
		}
	}()

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	addr := ":" + cfg.Port
	log.Printf("Starting Boleta API on %s", addr)
	log.Printf("Export settle delay: %s", cfg.ExportSettleDelay)
	log.Printf("Registered collection kinds: %v", kinds.Available())
	log.Printf("Swagger UI: http://localhost%s/swagger/index.html", addr)

	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
