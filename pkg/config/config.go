package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	Storage   StorageConfig
	DB        DBConfig
	Auth      AuthConfig
	JWT       JWTConfig
	Firebase  FirebaseConfig
	Redis     RedisConfig
	HTTP      HTTPConfig
	Inventory InventoryConfig
	Worker    WorkerConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// StorageConfig selecciona el almacenamiento: "memory" o "postgres".
type StorageConfig struct {
	Driver string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// AuthConfig proveedor de identidad: "firebase" o "jwt".
type AuthConfig struct {
	Provider string
}

// JWTConfig tokens HS256 emitidos por un IdP que comparte el secreto.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// FirebaseConfig credenciales del Admin SDK.
type FirebaseConfig struct {
	CredentialsPath string
	ProjectID       string
}

// RedisConfig conexión opcional; Addr vacío desactiva carrito y eventos en Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CartTTL  time.Duration
}

// Enabled indica si hay un Redis configurado.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// InventoryConfig parámetros de negocio del tablero y la facturación.
type InventoryConfig struct {
	LowStockThreshold int64
	Currency          string
}

// WorkerConfig tareas programadas del worker.
type WorkerConfig struct {
	RetentionDays     int
	RetentionSchedule string
	RetentionTimezone string
	OutboxSchedule    string
	OutboxBatch       int
	OutboxMaxAttempts int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, REDIS_ADDR, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "bodega-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getString(v, "STORAGE_DRIVER", "postgres")),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "bodega"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", true),
		},
		Auth: AuthConfig{
			Provider: strings.ToLower(getString(v, "AUTH_PROVIDER", "jwt")),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "bodega-api"),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getString(v, "FIREBASE_CREDENTIALS_PATH", ""),
			ProjectID:       getString(v, "FIREBASE_PROJECT_ID", ""),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
			CartTTL:  time.Duration(getInt(v, "CART_TTL_HOURS", 24)) * time.Hour,
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Inventory: InventoryConfig{
			LowStockThreshold: int64(getInt(v, "LOW_STOCK_THRESHOLD", 5)),
			Currency:          getString(v, "CURRENCY", "PKR"),
		},
		Worker: WorkerConfig{
			RetentionDays:     getInt(v, "RETENTION_DAYS", 30),
			RetentionSchedule: getString(v, "RETENTION_SCHEDULE", "0 2 * * *"),
			RetentionTimezone: getString(v, "RETENTION_TIMEZONE", "UTC"),
			OutboxSchedule:    getString(v, "OUTBOX_SCHEDULE", "@every 1m"),
			OutboxBatch:       getInt(v, "OUTBOX_BATCH", 50),
			OutboxMaxAttempts: getInt(v, "OUTBOX_MAX_ATTEMPTS", 10),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "memory", "postgres":
	default:
		return fmt.Errorf("config: STORAGE_DRIVER %q no soportado", c.Storage.Driver)
	}
	switch c.Auth.Provider {
	case "jwt", "firebase":
	default:
		return fmt.Errorf("config: AUTH_PROVIDER %q no soportado", c.Auth.Provider)
	}
	if c.Worker.RetentionDays <= 0 {
		return fmt.Errorf("config: RETENTION_DAYS debe ser mayor que cero")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}
