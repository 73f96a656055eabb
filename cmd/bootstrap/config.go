package bootstrap

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"stockverse/internal/infra/database/postgres"
	"stockverse/internal/infra/database/redis"
	"stockverse/internal/infra/jwt"
	"stockverse/internal/infra/paypal"
	"stockverse/internal/iam/session"
	"stockverse/internal/pkg/logger"
	"stockverse/internal/pkg/mailer"
)

// Config é a configuração tipada montada uma única vez no boot.
type Config struct {
	App       AppConfig
	Logger    logger.Config
	Database  postgres.Config
	Redis     redis.Config
	JWT       jwt.Config
	Session   session.Config
	Mail      mailer.Config
	PayPal    paypal.Config
	Webhooks  []string
	Logs      LogsConfig
	RateLimit RateLimitConfig
	Ngrok     NgrokConfig
}

type AppConfig struct {
	Name        string
	Env         string
	Port        int
	Currency    string
	CORSOrigins []string
}

type LogsConfig struct {
	Enabled bool
	Access  bool
	Audit   bool
}

type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

type NgrokConfig struct {
	Live  bool
	Token string
}

// Environment carrega .env (opcional) e configs.json. Variáveis de ambiente
// sobrescrevem as chaves: SMTP_HOST vira smtp.host.
func Environment() {
	_ = godotenv.Load()

	viper.SetConfigName("configs")
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/stockverse/")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(fmt.Errorf("fatal error in configuration file: %w", err))
		}
	}
}

func setDefaults() {
	viper.SetDefault("app.name", "stockverse")
	viper.SetDefault("app.env", "dev")
	viper.SetDefault("app.currency", "USD")
	viper.SetDefault("server.http.port", 8080)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.sslmode", postgres.SSLDisable)
	viper.SetDefault("database.max_open_conns", 20)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("security.jwt_access_expiry_min", 60*12)
	viper.SetDefault("paypal.base_url", paypal.SandboxURL)
	viper.SetDefault("logs.enabled", true)
	viper.SetDefault("logs.access", true)
	viper.SetDefault("logs.audit", true)
	viper.SetDefault("ratelimit.auth_per_minute", 10)
	viper.SetDefault("ratelimit.auth_burst", 5)
}

// LoadConfig lê as chaves do viper já carregado.
func LoadConfig() Config {
	env := viper.GetString("app.env")
	sameSite := http.SameSiteLaxMode
	if strings.EqualFold(viper.GetString("session.same_site"), "strict") {
		sameSite = http.SameSiteStrictMode
	}

	return Config{
		App: AppConfig{
			Name:        viper.GetString("app.name"),
			Env:         env,
			Port:        viper.GetInt("server.http.port"),
			Currency:    viper.GetString("app.currency"),
			CORSOrigins: viper.GetStringSlice("server.http.cors_origins"),
		},
		Logger: logger.Config{
			Level:       viper.GetString("log.level"),
			Environment: env,
			ServiceName: viper.GetString("app.name"),
		},
		Database: postgres.Config{
			Host:         viper.GetString("database.host"),
			Port:         viper.GetString("database.port"),
			User:         viper.GetString("database.user"),
			Password:     viper.GetString("database.password"),
			DBName:       viper.GetString("database.name"),
			SSLMode:      viper.GetString("database.sslmode"),
			MaxOpenConns: viper.GetInt("database.max_open_conns"),
			MaxIdleConns: viper.GetInt("database.max_idle_conns"),
			LogSQL:       viper.GetBool("database.log_sql"),
		},
		Redis: redis.Config{
			Enabled:  viper.GetBool("redis.enabled"),
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		JWT: jwt.Config{
			AccessSecret: viper.GetString("security.jwt_access_secret"),
			Issuer:       viper.GetString("app.name"),
			AccessExpiry: time.Duration(viper.GetInt64("security.jwt_access_expiry_min")) * time.Minute,
		},
		Session: session.Config{
			AuthKey:  viper.GetString("security.session_key"),
			Secure:   env == "prod",
			Domain:   viper.GetString("session.domain"),
			SameSite: sameSite,
		},
		Mail: mailer.Config{
			Provider: viper.GetString("mail.provider"),
			From:     viper.GetString("mail.from"),
			SMTP: mailer.SMTPConfig{
				Host:       viper.GetString("smtp.host"),
				Port:       viper.GetString("smtp.port"),
				Username:   viper.GetString("smtp.username"),
				Password:   viper.GetString("smtp.password"),
				Encryption: viper.GetString("smtp.encryption"),
				Address:    viper.GetString("smtp.address"),
			},
			SES: mailer.SESConfig{
				AccessKey: viper.GetString("ses.access_key"),
				SecretKey: viper.GetString("ses.secret_key"),
				Session:   viper.GetString("ses.session"),
				Region:    viper.GetString("ses.region"),
			},
		},
		PayPal: paypal.Config{
			BaseURL:  viper.GetString("paypal.base_url"),
			ClientID: viper.GetString("paypal.client_id"),
			Secret:   viper.GetString("paypal.secret"),
		},
		Webhooks: viper.GetStringSlice("webhooks.urls"),
		Logs: LogsConfig{
			Enabled: viper.GetBool("logs.enabled"),
			Access:  viper.GetBool("logs.access"),
			Audit:   viper.GetBool("logs.audit"),
		},
		RateLimit: RateLimitConfig{
			PerMinute: viper.GetInt("ratelimit.auth_per_minute"),
			Burst:     viper.GetInt("ratelimit.auth_burst"),
		},
		Ngrok: NgrokConfig{
			Live:  viper.GetBool("test.ngrok.live"),
			Token: viper.GetString("test.ngrok.token"),
		},
	}
}
