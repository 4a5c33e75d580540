package config

import (
	"context"
	"sync"
	"time"

	"travelagency/internal/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	mongoClient *mongo.Client
	mongoMu     sync.Mutex
)

// ConnectMongo opens the shared Mongo client and returns the named database.
func ConnectMongo(uri, database string) *mongo.Database {
	mongoMu.Lock()
	defer mongoMu.Unlock()

	if mongoClient == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			logger.ErrorLogger.Fatalf("failed to connect to MongoDB: %v", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			logger.ErrorLogger.Fatalf("failed to ping MongoDB: %v", err)
		}
		mongoClient = client
		logger.InfoLogger.Info("connected to MongoDB")
	}
	return mongoClient.Database(database)
}

func CloseMongo() {
	mongoMu.Lock()
	defer mongoMu.Unlock()

	if mongoClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mongoClient.Disconnect(ctx); err != nil {
		logger.WarnLogger.Warnf("mongo disconnect: %v", err)
	}
	mongoClient = nil
}
