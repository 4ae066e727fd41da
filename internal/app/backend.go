package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MrSnakeDoc/bookshelf/internal/config"
	"github.com/MrSnakeDoc/bookshelf/internal/connect"
	"github.com/MrSnakeDoc/bookshelf/internal/logger"
	"github.com/MrSnakeDoc/bookshelf/internal/store"
	"github.com/MrSnakeDoc/bookshelf/internal/store/memory"
	mongostore "github.com/MrSnakeDoc/bookshelf/internal/store/mongo"
	redisstore "github.com/MrSnakeDoc/bookshelf/internal/store/redis"
)

// Backend is an opened store together with the client behind it.
type Backend struct {
	Name  string
	Store store.Store

	redisClient *goredis.Client
	mongoClient *mongo.Client
}

// OpenBackend connects to the store selected by cfg.Store.
// Remote backends are retried until cfg.ConnectTimeout elapses.
func OpenBackend(ctx context.Context, cfg *config.Config, log logger.Logger) (*Backend, error) {
	retry := connect.Options{
		ConnectTimeout: cfg.ConnectTimeout,
		RetryInterval:  cfg.RetryInterval,
		MaxWait:        cfg.MaxWait,
		PingTimeout:    cfg.PingTimeout,
		WarnThreshold:  cfg.WarnThreshold,
	}

	switch cfg.Store {
	case config.StoreRedis:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := connect.Redis(ctx, connect.RedisOptions{
			Addr:         cfg.RedisAddr,
			User:         cfg.RedisUser,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  cfg.RedisDT,
			ReadTimeout:  cfg.RedisRT,
			WriteTimeout: cfg.RedisWT,
			PoolSize:     cfg.RedisPoolSize,
			Options:      retry,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		log.Info("Redis initialized successfully")
		return &Backend{Name: cfg.Store, Store: redisstore.NewStore(client), redisClient: client}, nil

	case config.StoreMongo:
		log.Infof("Connecting to MongoDB at %s", connect.RedactURI(cfg.MongoURI))
		client, err := connect.Mongo(ctx, connect.MongoOptions{
			URI:     cfg.MongoURI,
			AppName: cfg.MongoAppName,
			Options: retry,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		log.Info("MongoDB initialized successfully", logger.String("database", cfg.MongoDatabase))
		return &Backend{Name: cfg.Store, Store: mongostore.NewStore(client, cfg.MongoDatabase), mongoClient: client}, nil

	case config.StoreMemory:
		log.Warn("using in-memory store, data is lost on exit")
		return &Backend{Name: cfg.Store, Store: memory.New()}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}
}

// Close releases the client connection, if any.
func (b *Backend) Close(ctx context.Context) error {
	switch {
	case b.redisClient != nil:
		return b.redisClient.Close()
	case b.mongoClient != nil:
		return b.mongoClient.Disconnect(ctx)
	}
	return nil
}
