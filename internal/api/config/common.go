package config

// Config 配置主体
type Config struct {
	Server                ServerConfig       `mapstructure:"server"`
	DB                    DBConfig           `mapstructure:"database"`
	Redis                 RedisConfig        `mapstructure:"redis"`
	Mongo                 MongoConfig        `mapstructure:"mongo"`
	Elastic               ElasticConfig      `mapstructure:"elastic"`
	Logstash              LogstashConfig     `mapstructure:"logstash"`
	JWT                   JWTConfig          `mapstructure:"jwt"`
	Fanout                FanoutConfig       `mapstructure:"fanout"`
	Trend                 TrendConfig        `mapstructure:"trend"`
	Kafka                 KafkaConfig        `mapstructure:"kafka"`
	KafkaLikeConsumer     KafkaConsumerTopic `mapstructure:"kafka_like_consumer"`
	KafkaStarConsumer     KafkaConsumerTopic `mapstructure:"kafka_star_consumer"`
	KafkaFollowerConsumer KafkaConsumerTopic `mapstructure:"kafka_follower_consumer"`
	KafkaActivityConsumer KafkaConsumerTopic `mapstructure:"kafka_activity_consumer"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
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
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
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
	ActivityIndex string `mapstructure:"activity_index"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	ExpireHour int    `mapstructure:"expire_hour"`
}

// FanoutConfig 扇出重试参数
type FanoutConfig struct {
	MaxRetries   int `mapstructure:"max_retries"`
	RetryBaseMs  int `mapstructure:"retry_base_ms"`
	DeleteBatch  int `mapstructure:"delete_batch"`
	VisFlipBatch int `mapstructure:"vis_flip_batch"`
}

// TrendConfig 趋势窗口参数
type TrendConfig struct {
	DefaultWindowHours int `mapstructure:"default_window_hours"`
	MaxWindowHours     int `mapstructure:"max_window_hours"`
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
