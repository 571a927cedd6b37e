package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda vacío.
	App struct {
		// dev | staging | prod
		Env string `yaml:"app_env"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	// Box es la configuración del destino. Address es opcional: si falta
	// también en env ADDRESS, se usa el origin default de Box.
	Box struct {
		Address string `yaml:"address"`
		// Timeout del http.Client compartido (token exchange + terminate)
		Timeout string `yaml:"timeout"`
	} `yaml:"box"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load lee el YAML, aplica defaults sanos y pisa con env.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	c.applyEnvOverrides()
	return &c, nil
}

// FromEnv arma la config solo desde environment (modo -env).
func FromEnv() *Config {
	var c Config
	c.applyDefaults()
	c.applyEnvOverrides()
	return &c
}

func (c *Config) applyDefaults() {
	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Box.Timeout == "" {
		c.Box.Timeout = "10s"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
}

func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvStr("ADDRESS"); ok {
		c.Box.Address = strings.TrimSpace(v)
	}
	if v, ok := getEnvStr("BOX_TIMEOUT"); ok {
		c.Box.Timeout = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = strings.ToLower(strings.TrimSpace(v))
	}
}

// HTTPTimeout parsea Box.Timeout; inválido o vacío cae a 10s.
func (c *Config) HTTPTimeout() time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(c.Box.Timeout)); err == nil && d > 0 {
		return d
	}
	return 10 * time.Second
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
