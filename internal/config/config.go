package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-yaml/yaml"

	"github.com/totegamma/chitfund/internal/domain"
)

type Config struct {
	Server  Server  `yaml:"server"`
	Network Network `yaml:"network"`
	Report  Report  `yaml:"report"`
}

type Server struct {
	Listen        string `yaml:"listen" validate:"required"`
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB" validate:"gte=0"`
	MemcachedAddr string `yaml:"memcachedAddr"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint" validate:"required_if=EnableTrace true"`
}

type Network struct {
	Source           domain.MemberSource `yaml:"source" validate:"oneof=postgres neo4j"`
	Neo4jURI         string              `yaml:"neo4jURI" validate:"required_if=Source neo4j"`
	Neo4jUser        string              `yaml:"neo4jUser"`
	Neo4jPassword    string              `yaml:"neo4jPassword"`
	Neo4jDatabase    string              `yaml:"neo4jDatabase"`
	Cache            domain.CacheBackend `yaml:"cache" validate:"oneof=none memory redis memcached"`
	CacheTTLSeconds  int                 `yaml:"cacheTTLSeconds" validate:"gte=0"`
	QueriesPerSecond float64             `yaml:"queriesPerSecond" validate:"gte=0"`
	QueryBurst       int                 `yaml:"queryBurst" validate:"gte=0"`
}

type Report struct {
	Workers int    `yaml:"workers" validate:"gte=1,lte=256"`
	Channel string `yaml:"channel"`
}

func (n Network) CacheTTL() time.Duration {
	return time.Duration(n.CacheTTLSeconds) * time.Second
}

func Default() Config {
	return Config{
		Server: Server{
			Listen: ":8000",
		},
		Network: Network{
			Source:          domain.MemberSourcePostgres,
			Neo4jDatabase:   "neo4j",
			Cache:           domain.CacheMemory,
			CacheTTLSeconds: 300,
			QueryBurst:      1,
		},
		Report: Report{
			Workers: 4,
			Channel: "chitfund:reports",
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	config := Default()
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}
	config.applyEnv()

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// secrets are usually injected through the environment rather than the file
func (c *Config) applyEnv() {
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		c.Server.PostgresDsn = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Server.RedisPassword = v
	}
	if v := os.Getenv("NEO4J_PASSWORD"); v != "" {
		c.Network.Neo4jPassword = v
	}
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Network.Source == domain.MemberSourcePostgres && c.Server.PostgresDsn == "" {
		return fmt.Errorf("invalid config: server.postgresDsn is required for the postgres member source")
	}
	if c.Network.Cache == domain.CacheRedis && c.Server.RedisAddr == "" {
		return fmt.Errorf("invalid config: server.redisAddr is required for the redis cache")
	}
	if c.Network.Cache == domain.CacheMemcached && c.Server.MemcachedAddr == "" {
		return fmt.Errorf("invalid config: server.memcachedAddr is required for the memcached cache")
	}
	return nil
}
