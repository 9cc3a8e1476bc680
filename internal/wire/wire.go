package wire

import (
	"Mintora/internal/api"
	"Mintora/internal/api/config"
	"Mintora/internal/api/handler"
	"Mintora/internal/api/middleware"
	"Mintora/internal/job"
	"Mintora/internal/pkg/coin"
	"Mintora/internal/pkg/cron"
	"Mintora/internal/pkg/es"
	"Mintora/internal/pkg/kafka"
	"Mintora/internal/pkg/llm"
	"Mintora/internal/pkg/mongo"
	"Mintora/internal/pkg/predictor"
	"Mintora/internal/pkg/redis"
	"Mintora/internal/pkg/storage"
	"Mintora/internal/repository"
	"Mintora/internal/service"
	"fmt"
	log "log/slog"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

const (
	ScorerHeuristic = "heuristic"
	ScorerLLM       = "llm"

	StorageMinio   = "minio"
	StoragePinning = "pinning"
	StorageMemory  = "memory"

	memoryGatewayURL = "http://localhost:8080/objects"
)

// Infrastructure 已建立的外部连接，nil 表示未启用
type Infrastructure struct {
	DB    *gorm.DB
	Mongo *mongodrv.Database
	Redis *goredis.Client
	ES    *elasticsearch.TypedClient
}

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	CronMgr      *cron.Manager
	KafkaManager *kafka.ConsumerManager
	Producer     *kafka.Producer
}

func BuildApplication(infra *Infrastructure, cfg *config.Config) (*ApplicationContainer, error) {
	// 存储层
	var contentRepo repository.ContentRepo
	var coinRepo repository.CoinRepo
	if infra.DB != nil {
		contentRepo = repository.NewContentRepo(infra.DB)
		coinRepo = repository.NewCoinRepo(infra.DB)
	} else {
		log.Warn("database disabled, using in-memory repositories")
		contentRepo = repository.NewMemoryContentRepo()
		coinRepo = repository.NewMemoryCoinRepo()
	}

	store, err := buildObjectStore(cfg)
	if err != nil {
		return nil, err
	}

	protocol, err := buildCoinProtocol(cfg)
	if err != nil {
		return nil, err
	}

	forecaster, err := buildForecaster(cfg)
	if err != nil {
		return nil, err
	}

	// 可选组件，未启用时保持 nil 接口
	var (
		cache    service.Cache
		locker   service.Locker
		denyList middleware.TokenDenyList
		search   es.ContentRepo
		audit    mongo.ForecastAuditRepo
		events   service.EventPublisher
		producer *kafka.Producer
	)
	if infra.Redis != nil {
		redisStore := redis.NewStore(infra.Redis)
		cache, locker, denyList = redisStore, redisStore, redisStore
	}
	if infra.ES != nil {
		search = es.NewContentRepo(infra.ES)
	}
	if infra.Mongo != nil {
		audit = mongo.NewForecastAuditRepo(infra.Mongo)
	}
	if len(cfg.Kafka.Brokers) > 0 && cfg.KafkaContentProducer.Topic != "" {
		producer, err = kafka.NewProducer(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka producer: %w", err)
		}
		events = producer
	}

	seed, err := decimal.NewFromString(cfg.Coin.SeedPurchaseWei)
	if err != nil {
		return nil, fmt.Errorf("invalid coin.seed_purchase_wei: %w", err)
	}

	coinService := service.NewCoinService(coinRepo, protocol, locker, service.CoinSettings{
		ChainID:          cfg.Coin.ChainID,
		SeedPurchaseWei:  seed,
		PlatformReferrer: cfg.Coin.PlatformReferer,
	})
	contentService := service.NewContentService(contentRepo, forecaster, cache, search, audit)
	publishService := service.NewPublishService(store, coinService, contentRepo, forecaster, events, audit, service.WorkflowTimeouts{
		Storage: cfg.Workflow.StorageTimeout,
		Coin:    cfg.Workflow.CoinTimeout,
		Persist: cfg.Workflow.PersistTimeout,
		Predict: cfg.Workflow.PredictTimeout,
	})

	handlers := &api.HandlersGroup{
		ContentHandler: handler.NewContentHandler(publishService, contentService, store),
		CoinHandler:    handler.NewCoinHandler(coinService),
	}
	router := api.SetupRouter(handlers, denyList, cfg.Server.CORSOrigins)

	cronMgr := cron.NewCronManager(
		job.NewTrendingJob(contentService),
		job.NewForecastBackfillJob(contentService, locker),
	)

	var kafkaMgr *kafka.ConsumerManager
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaMgr, err = kafka.NewConsumerManager(cfg, contentService, contentService)
		if err != nil {
			return nil, err
		}
	}

	return &ApplicationContainer{
		Router:       router,
		CronMgr:      cronMgr,
		KafkaManager: kafkaMgr,
		Producer:     producer,
	}, nil
}

func buildObjectStore(cfg *config.Config) (storage.ObjectStore, error) {
	switch cfg.Storage.Backend {
	case StorageMinio, "":
		return storage.NewMinioStore(), nil
	case StoragePinning:
		return storage.NewPinningStore(cfg.Pinning.URL, cfg.Pinning.JWT, cfg.Pinning.GatewayURL), nil
	case StorageMemory:
		log.Warn("storage backend is memory, uploaded objects are not durable")
		return storage.NewMemoryStore(memoryGatewayURL), nil
	}
	return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
}

func buildCoinProtocol(cfg *config.Config) (coin.Protocol, error) {
	switch cfg.Coin.Protocol {
	case coin.ProtocolHTTP, "":
		return coin.NewHTTPProtocol(cfg.Coin.Endpoint, cfg.Coin.ApiKey), nil
	case coin.ProtocolLocal:
		log.Warn("coin protocol is local, coins are simulated")
		return coin.NewLocalProtocol(cfg.Coin.ChainID), nil
	}
	return nil, fmt.Errorf("unsupported coin protocol: %s", cfg.Coin.Protocol)
}

func buildForecaster(cfg *config.Config) (*predictor.Predictor, error) {
	switch cfg.Predictor.Scorer {
	case ScorerHeuristic, "":
		return predictor.New(predictor.NewHeuristicScorer()), nil
	case ScorerLLM:
		return predictor.New(llm.NewForecastScorer()), nil
	}
	return nil, fmt.Errorf("unsupported predictor scorer: %s", cfg.Predictor.Scorer)
}
