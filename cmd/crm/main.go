package main

import (
	"log"
	"os"
	"time"

	v1 "go_crm/api/v1"
	"go_crm/internal/analytics"
	"go_crm/internal/auth"
	"go_crm/internal/cache"
	"go_crm/internal/config"
	"go_crm/internal/db"
	"go_crm/internal/pipeline"
	"go_crm/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}
	log.Println("✓ Configuration loaded")

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	rootEntry := logrus.NewEntry(logger)

	auth.InitJWT(cfg.JWT.Secret)

	// 2. Initialize MySQL
	if err := db.InitMySQL(cfg.MySQL.DSN); err != nil {
		log.Fatalf("Failed to initialize MySQL: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Migrate {
		if err := db.Migrate(db.GetDB()); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
			os.Exit(1)
		}
	}

	// 3. Initialize Redis
	if err := cache.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
		os.Exit(1)
	}
	defer cache.Close()

	// 4. Initialize Socket.IO server
	if err := ws.InitServer(); err != nil {
		log.Fatalf("Failed to initialize WebSocket server: %v", err)
		os.Exit(1)
	}

	// 5. Wire services
	store := cache.NewRedisStore(cache.Client)
	analyticsSvc := analytics.NewService(db.GetDB(), store,
		time.Duration(cfg.Analytics.CacheTTLSec)*time.Second, rootEntry)
	transitionSvc := pipeline.NewService(db.GetDB(), rootEntry, ws.NewPublisher())

	// 6. Initialize Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	r.GET("/socket.io/*any", gin.WrapH(ws.WrapWithAuth(ws.Server)))
	r.POST("/socket.io/*any", gin.WrapH(ws.WrapWithAuth(ws.Server)))

	v1.SetupRouter(r, &v1.Deps{
		DB:         db.GetDB(),
		Config:     cfg,
		Transition: transitionSvc,
		Analytics:  analyticsSvc,
	})

	log.Printf("✓ Server starting on %s", cfg.HTTPAddr)

	// Start server
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
