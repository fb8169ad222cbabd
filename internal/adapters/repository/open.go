package repository

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/okian/tripboard/pkg/logger"
)

const defaultMongoDB = "tripboard"

// Open connects to the store named by rawURL and returns it instrumented.
// Supported schemes: postgres, postgresql, mongodb, mongodb+srv, memory.
// The initial ping is retried with exponential backoff for up to retryMax;
// calls made through the returned Store are never retried.
func Open(ctx context.Context, rawURL, table string, retryMax time.Duration, log logger.Logger) (Store, error) {
	if log == nil {
		log = logger.Nop()
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedURL, err)
	}
	if table == "" {
		table = DefaultTable
	}

	var s Store
	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		s, err = openPostgres(ctx, rawURL, table, retryMax, log)
	case "mongodb", "mongodb+srv":
		s, err = openMongo(ctx, rawURL, u, table, retryMax, log)
	case "memory":
		s = NewMemoryStore()
	default:
		return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedURL, u.Scheme)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s), nil
}

func openPostgres(ctx context.Context, dsn, table string, retryMax time.Duration, log logger.Logger) (Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := pingWithRetry(ctx, log, "postgres", retryMax, db.PingContext); err != nil {
		_ = db.Close()
		return nil, err
	}
	s, err := NewPostgresStore(ctx, db, table)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func openMongo(ctx context.Context, uri string, u *url.URL, collection string, retryMax time.Duration, log logger.Logger) (Store, error) {
	opts := options.Client().ApplyURI(uri).SetServerSelectionTimeout(10 * time.Second)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	ping := func(ctx context.Context) error { return client.Ping(ctx, nil) }
	if err := pingWithRetry(ctx, log, "mongo", retryMax, ping); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return NewMongoStore(client, mongoDatabase(u), collection), nil
}

// mongoDatabase takes the database from the url path, e.g.
// mongodb://host/trip?authSource=admin -> trip.
func mongoDatabase(u *url.URL) string {
	if db := strings.Trim(u.Path, "/"); db != "" {
		return db
	}
	return defaultMongoDB
}

func pingWithRetry(ctx context.Context, log logger.Logger, name string, retryMax time.Duration, ping func(context.Context) error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = retryMax
	var policy backoff.BackOff = bo
	if retryMax <= 0 {
		policy = &backoff.StopBackOff{}
	}

	attempt := 0
	op := func() error {
		attempt++
		err := ping(ctx)
		if err != nil {
			log.Warn(ctx, "store ping failed", logger.String("store", name), logger.Int("attempt", attempt), logger.Error(err))
		}
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(policy, ctx)); err != nil {
		return fmt.Errorf("ping %s: %w", name, err)
	}
	log.Info(ctx, "connected to store", logger.String("store", name))
	return nil
}
