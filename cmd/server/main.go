package main // Entry point package

import (
    "log"  // Logging library
    "time" // basket TTL arithmetic

    "github.com/joho/godotenv"    // .env loader for local development
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/lab-room-reservation/internal/config"     // Internal config loader
    "github.com/iliyamo/lab-room-reservation/internal/database"   // MySQL connector
    "github.com/iliyamo/lab-room-reservation/internal/handler"    // HTTP handlers
    "github.com/iliyamo/lab-room-reservation/internal/middleware" // rate limiting
    "github.com/iliyamo/lab-room-reservation/internal/queue"      // booking history consumer
    "github.com/iliyamo/lab-room-reservation/internal/repository" // data access layer
    "github.com/iliyamo/lab-room-reservation/internal/reservation" // booking engine
    "github.com/iliyamo/lab-room-reservation/internal/router"     // route registration
)

func main() {
    // Load .env when present; real deployments set the environment
    // directly and the file is simply absent.
    _ = godotenv.Load()

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    // Redis backs both the basket store and the rate limiter.  The
    // limiter degrades gracefully without it, the basket does not.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Fatal("redis: connection failed; baskets require redis")
    }

    labs := repository.NewLabRepo(db)
    bookings := repository.NewBookingRepo(db)
    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    baskets := repository.NewBasketRepo(rdb, time.Duration(cfg.BasketTTLMin)*time.Minute)

    engine := reservation.NewEngine(labs, repository.NewReservationStore(db), bookings, nil)

    e := echo.New()
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

    router.RegisterRoutes(e)
    router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
    router.RegisterPublic(e, handler.NewPublicHandler(labs))
    router.RegisterMember(e,
        handler.NewBasketHandler(baskets, labs),
        handler.NewBookingHandler(engine, baskets, bookings, users),
        cfg.JWTSecret)
    router.RegisterAdmin(e,
        handler.NewAdminLabHandler(labs),
        handler.NewAdminBookingHandler(engine, bookings),
        handler.NewAdminUserHandler(users, tokens),
        cfg.JWTSecret)

    // The history consumer runs for the life of the process and
    // reconnects on its own; a broker outage never blocks startup.
    go func() {
        if err := queue.StartBookingConsumer(); err != nil {
            log.Printf("booking consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)

    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
