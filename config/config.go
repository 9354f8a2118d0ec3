// config/config.go
package config

import (
	"time"

	"github.com/spf13/viper"
)

// --- Sub-structs mirroring config.yaml ---

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
}

type MongoConfig struct {
	URI    string `mapstructure:"uri"`
	DBName string `mapstructure:"dbName"`
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	Expiration string `mapstructure:"expiration"`
}

// FabricConfig drives the optional on-chain asset trail.
type FabricConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	ChannelName       string `mapstructure:"channelName"`
	ChaincodeName     string `mapstructure:"chaincodeName"`
	OrgName           string `mapstructure:"orgName"`
	UserName          string `mapstructure:"userName"`
	ConnectionProfile string `mapstructure:"connectionProfile"`
	UserCertPath      string `mapstructure:"userCertPath"`
	UserKeyDir        string `mapstructure:"userKeyDir"`
	WalletPath        string `mapstructure:"walletPath"`
}

type S3Config struct {
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	AccessKeyID      string `mapstructure:"accessKeyID"`
	SecretAccessKey  string `mapstructure:"secretAccessKey"`
	CloudFrontDomain string `mapstructure:"cloudFrontDomain"`
}

// ShiprocketConfig holds the courier platform credentials.
type ShiprocketConfig struct {
	BaseURL  string        `mapstructure:"baseURL"`
	Email    string        `mapstructure:"email"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type RazorpayConfig struct {
	BaseURL   string `mapstructure:"baseURL"`
	KeyID     string `mapstructure:"keyID"`
	KeySecret string `mapstructure:"keySecret"`
}

// RateLimitConfig applies to the public auth routes.
type RateLimitConfig struct {
	Window time.Duration `mapstructure:"window"`
	Burst  int           `mapstructure:"burst"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allowOrigins"`
}

type AdminSeedConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

// --- Root config ---

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Mongo      MongoConfig      `mapstructure:"mongo"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Fabric     FabricConfig     `mapstructure:"fabric"`
	S3         S3Config         `mapstructure:"s3"`
	Shiprocket ShiprocketConfig `mapstructure:"shiprocket"`
	Razorpay   RazorpayConfig   `mapstructure:"razorpay"`
	RateLimit  RateLimitConfig  `mapstructure:"rateLimit"`
	Cache      CacheConfig      `mapstructure:"cache"`
	CORS       CORSConfig       `mapstructure:"cors"`
	AdminSeed  AdminSeedConfig  `mapstructure:"adminSeed"`
}

// LoadConfig reads config.yaml from path and overrides it with environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)

	v.AutomaticEnv()

	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("mongo.uri", "MONGO_URI")
	v.BindEnv("mongo.dbName", "MONGO_DBNAME")
	v.BindEnv("jwt.secret", "JWT_SECRET")
	v.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	v.BindEnv("s3.bucket", "S3_BUCKET")
	v.BindEnv("s3.region", "S3_REGION")
	v.BindEnv("s3.accessKeyID", "S3_ACCESS_KEY_ID")
	v.BindEnv("s3.secretAccessKey", "S3_SECRET_ACCESS_KEY")
	v.BindEnv("s3.cloudFrontDomain", "S3_CLOUDFRONT_DOMAIN")
	v.BindEnv("shiprocket.baseURL", "SHIPROCKET_BASE_URL")
	v.BindEnv("shiprocket.email", "SHIPROCKET_EMAIL")
	v.BindEnv("shiprocket.password", "SHIPROCKET_PASSWORD")
	v.BindEnv("razorpay.keyID", "RAZORPAY_KEY_ID")
	v.BindEnv("razorpay.keySecret", "RAZORPAY_SECRET")
	v.BindEnv("fabric.enabled", "FABRIC_ENABLED")
	v.BindEnv("adminSeed.email", "ADMIN_EMAIL")
	v.BindEnv("adminSeed.password", "ADMIN_PASSWORD")

	// A missing file is fine, env vars and defaults still apply.
	err = v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdownTimeout", 10*time.Second)
	v.SetDefault("mongo.dbName", "dkt")
	v.SetDefault("jwt.expiration", "24h")
	v.SetDefault("shiprocket.baseURL", "https://apiv2.shiprocket.in/v1/external/")
	v.SetDefault("shiprocket.timeout", 20*time.Second)
	v.SetDefault("razorpay.baseURL", "https://api.razorpay.com")
	v.SetDefault("rateLimit.window", 15*time.Minute)
	v.SetDefault("rateLimit.burst", 5)
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cors.allowOrigins", []string{"*"})
	v.SetDefault("fabric.walletPath", "wallet")
}
