package neo4jdb

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/surveykg-backend/internal/platform/envutil"
	"github.com/yungbote/surveykg-backend/internal/platform/logger"
)

type Client struct {
	Driver   neo4j.DriverWithContext
	Database string
	log      *logger.Logger
}

// Config are the connection parameters for one graph instance. Each survey
// instance gets its own endpoint; the provisioning layer hands these out.
type Config struct {
	URI        string
	Username   string
	Password   string
	Database   string
	TimeoutSec int
	MaxPool    int
}

// New connects and verifies connectivity. Auth and reachability failures are
// fatal here and propagate to the caller.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("neo4jdb: logger required")
	}
	if cfg.URI == "" {
		return nil, fmt.Errorf("neo4jdb: uri required")
	}
	if cfg.Username == "" {
		cfg.Username = "neo4j"
	}
	if cfg.TimeoutSec <= 0 {
		cfg.TimeoutSec = envutil.Int("NEO4J_TIMEOUT_SECONDS", 10)
	}
	if cfg.MaxPool <= 0 {
		cfg.MaxPool = envutil.Int("NEO4J_MAX_POOL_SIZE", 50)
	}

	auth := neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth, func(c *neo4j.Config) {
		c.MaxConnectionPoolSize = cfg.MaxPool
		c.SocketConnectTimeout = time.Duration(cfg.TimeoutSec) * time.Second
	})
	if err != nil {
		return nil, fmt.Errorf("neo4jdb: init driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.TimeoutSec)*time.Second)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4jdb: verify connectivity: %w", err)
	}

	return &Client{
		Driver:   driver,
		Database: cfg.Database,
		log:      log.With("client", "Neo4jDB"),
	}, nil
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.Driver == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := c.Driver.Close(ctx)
	c.Driver = nil
	return err
}
