package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/class-schedule/internal/cache"      // Week-grid cache
	"github.com/iliyamo/class-schedule/internal/config"     // Internal config loader
	"github.com/iliyamo/class-schedule/internal/database"   // MySQL connection pool
	"github.com/iliyamo/class-schedule/internal/handler"    // HTTP handlers
	"github.com/iliyamo/class-schedule/internal/queue"      // Background event consumer
	"github.com/iliyamo/class-schedule/internal/repository" // DB repositories
	"github.com/iliyamo/class-schedule/internal/router"     // Route registration
)

func main() {
	_ = godotenv.Load() // Best effort; real env vars win over .env

	cfg := config.Load()                 // Load environment config
	cacheCfg := config.LoadCacheConfig() // Week cache settings
	rlCfg := config.LoadRateLimitConfig()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName) // Connect to MySQL
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // Nil when redis is unreachable; features degrade

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	verifs := repository.NewVerificationRepo(db)
	lessons := repository.NewLessonRepo(db)

	weekCache := cache.NewWeekCache(cacheCfg, rdb)

	authH := handler.NewAuthHandler(cfg, users, tokens, verifs)
	schedH := handler.NewScheduleHandler(lessons, weekCache)

	e := echo.New()
	router.RegisterRoutes(e) // Health check
	router.RegisterAuth(e, authH, cfg.JWTSecret, rlCfg, rdb)
	router.RegisterSchedule(e, schedH, cfg.JWTSecret)

	// Consume lesson-changed events in the background for the audit log.
	go func() {
		if err := queue.StartLessonConsumer(); err != nil {
			log.Printf("lesson consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}
