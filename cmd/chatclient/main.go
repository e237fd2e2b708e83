package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/englishcorner/chatclient/internal/chat"
	"github.com/englishcorner/chatclient/internal/config"
	"github.com/englishcorner/chatclient/internal/device"
	"github.com/englishcorner/chatclient/internal/kvstore"
	"github.com/englishcorner/chatclient/internal/protocol"
	"github.com/englishcorner/chatclient/internal/session"
	"github.com/englishcorner/chatclient/internal/telemetry"
	"github.com/englishcorner/chatclient/internal/transcript"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	runID := uuid.NewString()
	shutdown, err := telemetry.InitTracer("chatclient", runID, logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	backend, err := newBackend(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to open storage backend: %v", err)
	}
	defer backend.Close()

	emitter := telemetry.NewSpanEmitter("chatclient", runID)
	reader := device.HostReader{}

	snap := reader.Snapshot()
	emitter.Emit("client_started", map[string]any{
		"user_agent": snap.UserAgent,
		"platform":   snap.Platform,
	})

	sessions := session.NewManager(backend, reader, emitter, logger)
	store := transcript.NewStore(backend, logger)
	client := protocol.NewClient(emitter, logger, protocol.WithEndpoint(cfg.Endpoint))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	engine := chat.NewEngine(ctx, sessions, store, client, logger)
	logger.Info("session resolved", slog.String("session_id", engine.SessionID()))

	printEntries(os.Stdout, engine.Log())

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}

		seen := len(engine.Log())
		_, logEntries, err := engine.HandleTurn(ctx, scanner.Text())
		switch {
		case errors.Is(err, chat.ErrEmptyInput):
			// Nothing to do.
		case err != nil:
			logger.Error("turn failed", slog.String("error", err.Error()))
		default:
			// Echo everything the turn appended, the user's own line
			// included, so the screen matches what a later launch replays.
			printEntries(os.Stdout, logEntries[seen:])
		}
		fmt.Print("> ")
	}

	logger.Info("chat client exiting")
}

func newBackend(cfg config.StorageConfig) (kvstore.Backend, error) {
	opts := []kvstore.Option{kvstore.WithMaxValueBytes(cfg.Quota)}

	switch kvstore.Driver(cfg.Driver) {
	case kvstore.DriverMemory:
		return kvstore.NewBackend(kvstore.DriverMemory, opts...)
	case kvstore.DriverSQLite:
		return kvstore.NewBackend(kvstore.DriverSQLite, append(opts, kvstore.WithPath(cfg.Path))...)
	case kvstore.DriverBadger:
		return kvstore.NewBackend(kvstore.DriverBadger, append(opts, kvstore.WithPath(cfg.Path))...)
	case kvstore.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return kvstore.NewBackend(kvstore.DriverRedis, append(opts, kvstore.WithRedisClient(client))...)
	default:
		return nil, kvstore.ErrInvalidDriver
	}
}

func printEntries(w io.Writer, entries []transcript.Entry) {
	for _, entry := range entries {
		prefix := "corner"
		if entry.Role == transcript.RoleUser {
			prefix = "you"
		}
		fmt.Fprintf(w, "[%s] %s\n", prefix, entry.Text)
	}
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
