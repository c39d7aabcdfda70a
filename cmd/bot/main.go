package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/ranked-arena/internal/coin"
	"github.com/KirkDiggler/ranked-arena/internal/common/clock"
	"github.com/KirkDiggler/ranked-arena/internal/common/uuid"
	"github.com/KirkDiggler/ranked-arena/internal/config"
	"github.com/KirkDiggler/ranked-arena/internal/handlers/discord"
	"github.com/KirkDiggler/ranked-arena/internal/metrics"
	"github.com/KirkDiggler/ranked-arena/internal/notify"
	"github.com/KirkDiggler/ranked-arena/internal/oracle"
	"github.com/KirkDiggler/ranked-arena/internal/orchestrator"
	playerRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/player"
	queueRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/queue"
	sessionRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/session"
	"github.com/KirkDiggler/ranked-arena/internal/services/draft"
	"github.com/KirkDiggler/ranked-arena/internal/services/matchmaking"
	"github.com/KirkDiggler/ranked-arena/internal/services/monitor"
	"github.com/KirkDiggler/ranked-arena/internal/services/rating"
	"github.com/KirkDiggler/ranked-arena/internal/services/vote"
)

func main() {
	// Local development convenience; a missing .env is fine
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Initialize repositories
	players, err := playerRepo.NewRedis(&playerRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create player repository: %v", err)
	}

	queues, err := queueRepo.NewRedis(&queueRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create queue repository: %v", err)
	}

	sessions, err := sessionRepo.NewRedis(&sessionRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create session repository: %v", err)
	}

	flipper := coin.New(&coin.Config{})
	systemClock := &clock.DefaultClock{}

	// Initialize services
	matchmakingSvc, err := matchmaking.NewService(&matchmaking.Config{
		QueueTimeout:    time.Duration(cfg.QueueTimeoutMin) * time.Minute,
		DraftOptionPool: cfg.DraftOptionPool,
		QueueRepo:       queues,
		PlayerRepo:      players,
		SessionRepo:     sessions,
		Clock:           systemClock,
		UUIDGenerator:   uuid.New(),
	})
	if err != nil {
		log.Fatalf("Failed to create matchmaking service: %v", err)
	}

	voteSvc, err := vote.NewService(&vote.Config{
		Quorum:      cfg.CancelQuorum,
		SessionRepo: sessions,
	})
	if err != nil {
		log.Fatalf("Failed to create vote service: %v", err)
	}

	draftSvc, err := draft.NewService(&draft.Config{
		ReadyCheckTimeout: time.Duration(cfg.ReadyCheckTimeoutMin) * time.Minute,
		CoinflipTimeout:   time.Duration(cfg.CoinflipTimeoutMin) * time.Minute,
		TurnTimeout:       time.Duration(cfg.DraftTurnTimeoutMin) * time.Minute,
		SessionRepo:       sessions,
		Flipper:           flipper,
		Clock:             systemClock,
	})
	if err != nil {
		log.Fatalf("Failed to create draft service: %v", err)
	}

	ratingSvc, err := rating.NewService(&rating.Config{
		SessionRepo: sessions,
		PlayerRepo:  players,
		Flipper:     flipper,
	})
	if err != nil {
		log.Fatalf("Failed to create rating service: %v", err)
	}

	oracleClient := oracle.NewDisabled()
	if cfg.OracleBaseURL != "" {
		oracleClient, err = oracle.NewHTTP(&oracle.HTTPConfig{
			BaseURL: cfg.OracleBaseURL,
		})
		if err != nil {
			log.Fatalf("Failed to create oracle client: %v", err)
		}
	} else {
		log.Println("No oracle base URL configured, outcome monitoring is disabled")
	}

	monitorSvc, err := monitor.NewService(&monitor.Config{
		InitialDelayRanked: time.Duration(cfg.MonitorDelayRankedMin) * time.Minute,
		InitialDelayDraft:  time.Duration(cfg.MonitorDelayDraftMin) * time.Minute,
		PollInterval:       time.Duration(cfg.MonitorPollSec) * time.Second,
		Ceiling:            time.Duration(cfg.MonitorCeilingMin) * time.Minute,
		SessionRepo:        sessions,
		Oracle:             oracleClient,
		Clock:              systemClock,
	})
	if err != nil {
		log.Fatalf("Failed to create monitor service: %v", err)
	}

	// Without a Discord token announcements go to the log, which keeps
	// the engine usable for local runs
	var notifier notify.Notifier = notify.NewLogNotifier()
	var bot *discord.Bot

	if cfg.DiscordToken != "" {
		bot, err = discord.New(&discord.Config{
			Token:              cfg.DiscordToken,
			ApplicationID:      cfg.DiscordAppID,
			GuildID:            cfg.DiscordGuildID,
			AnnounceChannelID:  cfg.DiscordAnnounceChannel,
			MatchmakingService: matchmakingSvc,
			DraftService:       draftSvc,
			VoteService:        voteSvc,
			PlayerRepo:         players,
			SessionRepo:        sessions,
		})
		if err != nil {
			log.Fatalf("Failed to create Discord bot: %v", err)
		}
		notifier = bot
	} else {
		log.Println("No Discord token configured, announcements go to the log")
	}

	orch, err := orchestrator.NewOrchestrator(&orchestrator.Config{
		ScanInterval:       time.Duration(cfg.ScanIntervalSec) * time.Second,
		DraftSweepInterval: time.Duration(cfg.DraftSweepIntervalSec) * time.Second,
		SessionRepo:        sessions,
		Matchmaking:        matchmakingSvc,
		Draft:              draftSvc,
		Rating:             ratingSvc,
		Monitor:            monitorSvc,
		Notifier:           notifier,
	})
	if err != nil {
		log.Fatalf("Failed to create orchestrator: %v", err)
	}

	// Expose Prometheus metrics
	metricsServer := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Metrics server stopped: %v", err)
		}
	}()

	if bot != nil {
		if err := bot.Start(); err != nil {
			log.Fatalf("Failed to start Discord bot: %v", err)
		}
	}

	orch.Start(context.Background())
	log.Println("Arena engine is now running. Press CTRL-C to exit.")

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	orch.Stop()

	if bot != nil {
		if err := bot.Stop(); err != nil {
			log.Printf("Error stopping bot: %v", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error stopping metrics server: %v", err)
	}

	log.Println("Arena engine has been shut down")
}
