package connect

import (
	"context"
	"fmt"
	"net/url"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/MrSnakeDoc/bookshelf/internal/logger"
)

// MongoOptions configures the MongoDB client.
type MongoOptions struct {
	URI     string // full connection string, credentials included
	AppName string // reported to the server (ex: "Leseapp")

	Options
}

// Mongo creates a MongoDB client and waits, with backoff, until the
// primary answers a ping.
func Mongo(ctx context.Context, opts MongoOptions, log logger.Logger) (*mongo.Client, error) {
	connLogger := newConnectionLogger(log, "mongodb")
	if err := connLogger.validateOptions(opts.Options); err != nil {
		return nil, err
	}

	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetServerSelectionTimeout(opts.PingTimeout)
	if opts.AppName != "" {
		clientOpts.SetAppName(opts.AppName)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongodb client: %w", err)
	}

	ping := func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }
	if err := withRetry(ctx, RedactURI(opts.URI), ping, opts.retry(), connLogger); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}

// RedactURI hides the password of a connection string
func RedactURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "<unparseable uri>"
	}
	if u.User == nil {
		return u.String()
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
