package persistence

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"imospy/infrastructure/configuration"
)

// NewMongoDb connects to MongoDB and returns the configured database.
func NewMongoDb(ctx context.Context, cfg configuration.Db) (*mongo.Client, *mongo.Database, error) {
	if cfg.Host == "" {
		return nil, nil, fmt.Errorf("mongo host is not configured")
	}
	client, err := mongo.Connect(options.Client().
		ApplyURI(mongoURI(cfg)).
		SetConnectTimeout(10 * time.Second))
	if err != nil {
		return nil, nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client, client.Database(cfg.Name), nil
}

func mongoURI(cfg configuration.Db) string {
	u := &url.URL{Scheme: "mongodb", Host: fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	return u.String()
}
