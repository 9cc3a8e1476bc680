package config

// Config 配置主体
type Config struct {
	Server                  ServerConfig         `mapstructure:"server"`
	DB                      DBConfig             `mapstructure:"database"`
	Redis                   RedisConfig          `mapstructure:"redis"`
	Mongo                   MongoConfig          `mapstructure:"mongo"`
	Storage                 StorageConfig        `mapstructure:"storage"`
	MinIO                   MinIOConfig          `mapstructure:"minio"`
	Pinning                 PinningConfig        `mapstructure:"pinning"`
	Coin                    CoinConfig           `mapstructure:"coin"`
	LLM                     LLMConfig            `mapstructure:"llm"`
	Predictor               PredictorConfig      `mapstructure:"predictor"`
	Workflow                WorkflowConfig       `mapstructure:"workflow"`
	Elastic                 ElasticConfig        `mapstructure:"elastic"`
	Kafka                   KafkaConfig          `mapstructure:"kafka"`
	KafkaMintConsumer       KafkaConsumerTopic   `mapstructure:"kafka_mint_consumer"`
	KafkaModerationConsumer KafkaConsumerTopic   `mapstructure:"kafka_moderation_consumer"`
	KafkaContentProducer    KafkaContentProducer `mapstructure:"kafka_content_producer"`
	JWT                     JWTConfig            `mapstructure:"jwt"`
	Logstash                LogstashConfig       `mapstructure:"logstash"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// DBConfig 数据库配置
type DBConfig struct {
	Driver      string `mapstructure:"driver"` // mysql | sqlite | memory
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// StorageConfig 对象存储后端选择
type StorageConfig struct {
	Backend string `mapstructure:"backend"` // minio | pinning | memory
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	InternalEndpoint string `mapstructure:"internal_endpoint"`
	ExternalEndpoint string `mapstructure:"external_endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	MainBucket       string `mapstructure:"main_bucket"`
	InternalUseSSL   bool   `mapstructure:"internal_use_ssl"`
}

// PinningConfig IPFS Pinning 服务配置
type PinningConfig struct {
	URL        string `mapstructure:"url"`
	JWT        string `mapstructure:"jwt"`
	GatewayURL string `mapstructure:"gateway_url"`
}

// CoinConfig 创作者代币协议配置
type CoinConfig struct {
	Protocol        string `mapstructure:"protocol"` // http | local
	Endpoint        string `mapstructure:"endpoint"`
	ApiKey          string `mapstructure:"api_key"`
	ChainID         int64  `mapstructure:"chain_id"`
	SeedPurchaseWei string `mapstructure:"seed_purchase_wei"`
	PlatformReferer string `mapstructure:"platform_referrer"`
}

type LLMConfig struct {
	URL         string           `mapstructure:"url"`
	TextModel   string           `mapstructure:"text_model"`
	ApiKey      string           `mapstructure:"api_key"`
	PromptsPath PromptPathConfig `mapstructure:"prompts_path"`
}

type PromptPathConfig struct {
	TrendForecast string `mapstructure:"trend_forecast"`
}

// PredictorConfig 趋势预测打分策略
type PredictorConfig struct {
	Scorer string `mapstructure:"scorer"` // heuristic | llm
}

// WorkflowConfig 发布流程各外部调用超时（秒）
type WorkflowConfig struct {
	StorageTimeout int `mapstructure:"storage_timeout"`
	CoinTimeout    int `mapstructure:"coin_timeout"`
	PersistTimeout int `mapstructure:"persist_timeout"`
	PredictTimeout int `mapstructure:"predict_timeout"`
}

// ElasticConfig Elastic配置
type ElasticConfig struct {
	Address  string         `mapstructure:"address"`
	Username string         `mapstructure:"username"`
	Password string         `mapstructure:"password"`
	Indices  ElasticIndices `mapstructure:"indices"`
}

// ElasticIndices Elastic索引
type ElasticIndices struct {
	ContentIndex string `mapstructure:"content_index"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type KafkaConsumerTopic struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

type KafkaContentProducer struct {
	Topic string `mapstructure:"topic"`
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	Issuer     string `mapstructure:"issuer"`
	ExpireHour int    `mapstructure:"expire_hour"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}
