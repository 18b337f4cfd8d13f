package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	PreferenceTTL time.Duration
}

type StorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	BucketLocales string
	UseSSL        bool
	Region        string
}

// UpstreamConfig describes the external user/billing API every proxy handler forwards to.
// A zero Timeout leaves outbound calls unbounded.
type UpstreamConfig struct {
	BaseURL       string
	ProjectName   string
	Timeout       time.Duration
	ProbeSchedule string
	ProbePath     string
}

type SessionConfig struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
	LoginPath  string
}

type EdgeConfig struct {
	ProtectedPrefixes []string
}

type BillingConfig struct {
	StripePublishableKey string
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Upstream         UpstreamConfig
	Session          SessionConfig
	Edge             EdgeConfig
	Billing          BillingConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// bindLegacyEnv keeps the unprefixed variable names the deployment already uses.
func bindLegacyEnv(v *viper.Viper) error {
	bindings := map[string]string{
		"upstream.baseurl":             "API_BASE_URL",
		"upstream.projectname":         "PROJECT_NAME",
		"billing.stripepublishablekey": "STRIPE_PUBLISHABLE_KEY",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, "PORTAL_"+env, env); err != nil {
			return fmt.Errorf("bind env %s: %w", env, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 3000)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "30s")
	v.SetDefault("http.idletimeout", "60s")

	// empty defaults register the keys so PORTAL_* variables reach Unmarshal
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.maxopen", 10)
	v.SetDefault("postgres.maxidle", 2)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.preferencettl", "10m")

	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.accesskey", "")
	v.SetDefault("storage.secretkey", "")
	v.SetDefault("storage.bucketlocales", "portal-locales")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("upstream.baseurl", "https://api.udooku.com")
	v.SetDefault("upstream.projectname", "incognitify")
	v.SetDefault("upstream.timeout", "0s")
	v.SetDefault("upstream.probeschedule", "@every 1m")
	v.SetDefault("upstream.probepath", "/")

	v.SetDefault("session.cookiename", "token")
	v.SetDefault("session.maxage", "168h") // 7 days
	v.SetDefault("session.secure", false)
	v.SetDefault("session.loginpath", "/login")

	v.SetDefault("edge.protectedprefixes", []string{"/dashboard"})
	v.SetDefault("allowcorsorigins", []string{})
}
