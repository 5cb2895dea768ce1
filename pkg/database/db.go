// Package database opens the configured store: MongoDB for DB_DRIVER=mongo,
// gorm over sqlite, postgres, mysql or sqlserver otherwise.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shashiranjanraj/inkwell/config"
)

var (
	// DB is set when a SQL driver is configured.
	DB *gorm.DB
	// Mongo is set when DB_DRIVER=mongo.
	Mongo *mongo.Database

	mongoClient *mongo.Client
)

// Connect opens the store selected by DB_DRIVER. It returns an error instead
// of exiting so the caller can shut down cleanly.
func Connect(ctx context.Context) error {
	driver := config.DatabaseDriver()
	if driver == "mongo" {
		client, db, err := ConnectMongo(ctx, config.MongoURI(), config.MongoDatabase())
		if err != nil {
			return err
		}
		mongoClient, Mongo = client, db
		return nil
	}

	db, err := OpenSQL(driver, config.DatabaseDSN())
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// ConnectMongo dials uri and verifies the primary is reachable.
func ConnectMongo(ctx context.Context, uri, name string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetConnectTimeout(5*time.Second).
		SetServerSelectionTimeout(5*time.Second).
		SetMaxPoolSize(50))
	if err != nil {
		return nil, nil, fmt.Errorf("database: mongo connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("database: mongo ping: %w", err)
	}

	return client, client.Database(name), nil
}

// OpenSQL opens a gorm connection and configures the pool.
func OpenSQL(driver, dsn string) (*gorm.DB, error) {
	dialector, err := buildDialector(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("database: build dialector: %w", err)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent), // pkg/logger owns logging
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: get sql.DB: %w", err)
	}
	if driver == "sqlite" {
		// one writer keeps sqlite free of "database is locked"
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
		sqlDB.SetConnMaxIdleTime(2 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return db, nil
}

func buildDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlserver":
		return sqlserver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (supported: mongo, sqlite, postgres, mysql, sqlserver)", driver)
	}
}

// Ping checks whichever store is connected.
func Ping(ctx context.Context) error {
	switch {
	case mongoClient != nil:
		return mongoClient.Ping(ctx, readpref.Primary())
	case DB != nil:
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	default:
		return errors.New("database: not connected")
	}
}

// Close releases the open connection.
func Close(ctx context.Context) error {
	var err error
	if mongoClient != nil {
		err = mongoClient.Disconnect(ctx)
		mongoClient, Mongo = nil, nil
	}
	if DB != nil {
		if sqlDB, e := DB.DB(); e == nil {
			err = errors.Join(err, sqlDB.Close())
		}
		DB = nil
	}
	return err
}
