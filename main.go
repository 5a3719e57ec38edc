package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"lg/nutri-track-api/internal/config"
	"lg/nutri-track-api/internal/store"
)

func main() {
	log.SetPrefix("nutri-track-api: ")
	log.SetFlags(log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	st, err := store.Open(ctx, cfg.DBDriver, cfg.DSN())
	if err != nil {
		cancel()
		log.Fatalf("open %s store: %v", cfg.DBDriver, err)
	}
	defer st.Close()

	// SQLite databases are local files; bring the schema up on start so a
	// fresh checkout runs without a separate migrate step. Postgres is
	// migrated explicitly with `nutrictl migrate`.
	if cfg.DBDriver == store.DriverSQLite {
		applied, err := st.Migrate(ctx)
		if err != nil {
			cancel()
			log.Fatalf("migrate: %v", err)
		}
		for _, name := range applied {
			log.Printf("applied migration %s", name)
		}
	}
	cancel()

	h := newHandler(st, cfg)

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	log.Printf("listening on :%s (db=%s)", cfg.Port, cfg.DBDriver)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
