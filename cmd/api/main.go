package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	cacheadapter "github.com/dihanio/LapakNesaBackend/internal/infrastructure/cache/adapter"
	"github.com/dihanio/LapakNesaBackend/internal/infrastructure/database"
	queueadapter "github.com/dihanio/LapakNesaBackend/internal/infrastructure/queue/adapter"
	"github.com/dihanio/LapakNesaBackend/internal/infrastructure/ratelimit"
	"github.com/dihanio/LapakNesaBackend/internal/infrastructure/realtime"
	"github.com/dihanio/LapakNesaBackend/internal/infrastructure/upload"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/auth"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/chat/application/task"
	repoadapter "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/persistence/repository/adapter"
	httpHandler "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/presentation/http"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/presence"

	v1 "github.com/dihanio/LapakNesaBackend/cmd/api/router/v1"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found or could not be loaded", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := database.NewPoolFromEnv(ctx)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	deps := httpHandler.Dependencies{
		Pool:        pool,
		Hub:         realtime.NewHub(),
		Tracker:     presence.NewTracker(),
		Limiter:     ratelimit.NopLimiter{},
		TokenSecret: auth.SecretFromEnv(),
	}
	defer deps.Hub.Close()

	// Redis backs the rate limiter, the typing markers and the presence
	// mirror; all degrade to no-ops when it is absent.
	if cache, err := cacheadapter.NewRedisAdapter(); err != nil {
		slog.Warn("redis unavailable, typing markers and rate limits disabled", "error", err)
	} else {
		defer cache.Close()
		deps.Cache = cache
		deps.Limiter = ratelimit.NewRedisLimiter(cache.Client())
	}

	if uploader, err := upload.NewCloudinaryFromEnv(); err != nil {
		slog.Warn("image uploads disabled", "error", err)
	} else {
		deps.Uploader = uploader
	}

	if client, err := queueadapter.NewAsynqClientFromEnv(); err != nil {
		slog.Warn("task queue unavailable, conversation repair disabled", "error", err)
	} else {
		defer client.Close()
		deps.Queue = client
		startWorker(deps)
	}

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	v1.RegisterRoutes(r, deps)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{Addr: ":" + port, Handler: r}

	go func() {
		slog.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}

// startWorker runs the background queue consumer in-process.
func startWorker(deps httpHandler.Dependencies) {
	server, err := queueadapter.NewAsynqServer()
	if err != nil {
		slog.Warn("queue worker unavailable", "error", err)
		return
	}
	server.Register(task.TypeSyncConversation,
		task.NewSyncConversationHandler(repoadapter.NewPgConversationRepository(deps.Pool)))
	go func() {
		if err := server.Run(context.Background()); err != nil {
			slog.Error("queue worker stopped", "error", err)
		}
	}()
}
