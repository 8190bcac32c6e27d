package bootstrap

import (
	"context"
	"fmt"
	"log"
	"os"

	"ai-twin-be/internal/config"
	"ai-twin-be/internal/controller"
	"ai-twin-be/internal/mcpserver"
	"ai-twin-be/internal/model"
	"ai-twin-be/internal/pkg/logger"
	"ai-twin-be/internal/repository/memory"
	redisRepo "ai-twin-be/internal/repository/redis"
	"ai-twin-be/internal/repository/unitofwork"
	"ai-twin-be/internal/service"
	"ai-twin-be/pkg/analytics"
	"ai-twin-be/pkg/database"
	"ai-twin-be/pkg/embedding"
	"ai-twin-be/pkg/llm"
	"ai-twin-be/pkg/llm/factory"
	"ai-twin-be/pkg/persona"
	"ai-twin-be/pkg/rag/faq"
	"ai-twin-be/pkg/rag/orchestrator"
	"ai-twin-be/pkg/rag/response"
	"ai-twin-be/pkg/rag/retrieval"
	"ai-twin-be/pkg/store"
	"ai-twin-be/pkg/vector"
	"ai-twin-be/pkg/vector/pgvector"
	"ai-twin-be/pkg/vector/upstash"

	pktNats "ai-twin-be/pkg/nats"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Config *config.Config
	Logger logger.ILogger

	// Controllers
	ChatbotController   controller.IChatbotController
	AnalyticsController controller.IAnalyticsController // nil when analytics storage is not configured
	HealthController    controller.IHealthController
	McpController       controller.IMcpController

	// Services
	ChatbotService   service.IChatbotService
	AnalyticsService service.IAnalyticsService // nil when analytics storage is not configured

	// MCP chat tool, served over HTTP by the controller and over stdio by twinctl
	McpServer *mcpserver.Server

	// Domain
	Orchestrator *orchestrator.Orchestrator
	Sessions     store.SessionStore
	VectorStore  vector.Store
	LLM          llm.Streamer
	Persona      *persona.Persona

	closers []func() error
}

// NewContainer wires every component from cfg. Optional backends (Redis,
// Postgres analytics, NATS) degrade with a warning when unreachable.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	// 1. Logging
	console := os.Stdout
	if cfg.App.LogToStderr {
		console = os.Stderr
	}
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction(), console)
	pipelineLogger := logger.NewIsolatedLogger(cfg.App.PipelineLogPath)
	c.Logger = sysLogger
	c.closers = append(c.closers, func() error {
		// Sync on a console core fails on some terminals.
		_ = pipelineLogger.Sync()
		_ = sysLogger.Sync()
		return nil
	})

	// 2. Persona and curated content
	p, err := persona.Load(cfg.App.PersonaFile)
	if err != nil {
		return nil, fmt.Errorf("loading persona: %w", err)
	}
	c.Persona = p

	faqBank, err := faq.Load(cfg.App.FAQFile)
	if err != nil {
		return nil, fmt.Errorf("loading faq bank: %w", err)
	}

	// 3. Generation
	llmProvider, err := factory.NewLLMProvider(cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.BaseURL, cfg.LLM.APIKey)
	if err != nil {
		return nil, fmt.Errorf("initializing LLM provider: %w", err)
	}
	c.LLM = llmProvider
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.LLM.Provider, cfg.LLM.Model)

	// 4. Vector index
	vectorStore, err := c.newVectorStore(ctx, sysLogger)
	if err != nil {
		return nil, err
	}
	c.VectorStore = vectorStore
	searcher := vector.NewCachedSearcher(vectorStore, cfg.Vector.CacheTTL)

	// 5. Sessions
	var healthChecks []controller.HealthCheck
	if cfg.Redis.URL != "" {
		rdb := redisRepo.NewClient(cfg.Redis.URL)
		if err := rdb.Ping(ctx).Err(); err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to Redis, sessions may fail", map[string]interface{}{"error": err.Error()})
		}
		c.Sessions = redisRepo.NewSessionRepository(rdb, cfg.Redis.SessionTTL)
		c.closers = append(c.closers, rdb.Close)
		healthChecks = append(healthChecks, controller.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
		log.Printf("[INFO] Using Redis session store")
	} else {
		c.Sessions = memory.NewSessionRepository(cfg.Redis.SessionTTL)
		log.Printf("[WARN] REDIS_URL not set, using in-process session store")
	}

	// 6. Analytics
	var sink analytics.Sink = analytics.NopSink{}
	if cfg.Database.Connection != "" {
		analyticsService, db, err := c.newAnalyticsService(ctx, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Analytics disabled", map[string]interface{}{"error": err.Error()})
		} else {
			c.AnalyticsService = analyticsService
			c.AnalyticsController = controller.NewAnalyticsController(analyticsService)
			sink = analyticsService
			healthChecks = append(healthChecks, controller.HealthCheck{Name: "postgres", Check: func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			}})
		}
	} else {
		log.Printf("[WARN] DB_CONNECTION_STRING not set, analytics disabled")
	}

	// 7. Pipeline
	opts := orchestrator.DefaultOptions()
	opts.Retrieval = retrieval.Options{
		TopK:     cfg.Pipeline.TopK,
		MinScore: cfg.Pipeline.MinScore,
		Timeout:  cfg.Pipeline.RetrievalTimeout,
	}
	opts.FAQMaxResults = cfg.Pipeline.FAQMaxResults
	opts.GenerationTimeout = cfg.Pipeline.GenerationTimeout
	opts.LengthPolicy = response.DefaultLengthPolicy()
	if cfg.Pipeline.MaxResponseWords > 0 {
		opts.LengthPolicy.HardMaxWords = cfg.Pipeline.MaxResponseWords
	}

	c.Orchestrator = orchestrator.New(orchestrator.Deps{
		Persona:   p,
		FAQ:       faqBank,
		Retriever: retrieval.NewRetriever(searcher, pipelineLogger),
		LLM:       llmProvider,
		Sessions:  c.Sessions,
		Analytics: sink,
		Logger:    sysLogger,
		Trace:     pipelineLogger,
	}, opts)

	// 8. Services and controllers
	c.ChatbotService = service.NewChatbotService(c.Orchestrator, c.Sessions, p, sysLogger)
	c.ChatbotController = controller.NewChatbotController(c.ChatbotService, sysLogger)
	c.HealthController = controller.NewHealthController(healthChecks...)
	c.McpServer = mcpserver.New(c.ChatbotService, sysLogger)
	c.McpController = controller.NewMcpController(c.McpServer)

	return c, nil
}

func (c *Container) newVectorStore(ctx context.Context, log logger.ILogger) (vector.Store, error) {
	cfg := c.Config.Vector
	switch cfg.Provider {
	case "pgvector":
		db, err := database.NewGormDBFromDSN(cfg.DSN, !c.Config.IsProduction())
		if err != nil {
			return nil, fmt.Errorf("connecting to pgvector database: %w", err)
		}
		c.closeGorm(db)

		embedder := embedding.NewOpenAIProvider(cfg.EmbeddingURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel)
		s := pgvector.NewStore(db, embedder, cfg.Table)
		if err := s.Migrate(ctx); err != nil {
			log.Warn("BOOTSTRAP", "pgvector migration failed", map[string]interface{}{"error": err.Error()})
		}
		return s, nil
	case "upstash", "":
		return upstash.NewClient(cfg.RestURL, cfg.RestToken), nil
	default:
		return nil, fmt.Errorf("unsupported vector provider: %s", cfg.Provider)
	}
}

func (c *Container) newAnalyticsService(ctx context.Context, log logger.ILogger) (service.IAnalyticsService, *gorm.DB, error) {
	db, err := database.NewGormDBFromDSN(c.Config.Database.Connection, !c.Config.IsProduction())
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to analytics database: %w", err)
	}
	c.closeGorm(db)

	if err := db.WithContext(ctx).AutoMigrate(&model.ChatAnalytics{}, &model.FrequentQuestion{}); err != nil {
		return nil, nil, fmt.Errorf("migrating analytics tables: %w", err)
	}

	var publisher service.EventPublisher
	if c.Config.Nats.URL != "" {
		natsPub, err := pktNats.NewPublisher(ctx, c.Config.Nats.URL)
		if err != nil {
			log.Warn("BOOTSTRAP", "Failed to connect to NATS Publisher", map[string]interface{}{"error": err.Error()})
		} else {
			publisher = natsPub
			c.closers = append(c.closers, func() error {
				natsPub.Close()
				return nil
			})
		}
	}

	svc := service.NewAnalyticsService(unitofwork.NewRepositoryFactory(db), publisher, log)
	if err := svc.Start(context.Background()); err != nil {
		_ = svc.Close()
		return nil, nil, fmt.Errorf("starting analytics consumer: %w", err)
	}
	// analytics drains before the database handle closes
	c.closers = append(c.closers, svc.Close)
	return svc, db, nil
}

func (c *Container) closeGorm(db *gorm.DB) {
	c.closers = append(c.closers, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && firstErr == nil && err != redis.ErrClosed {
			firstErr = err
		}
	}
	c.closers = nil
	return firstErr
}
