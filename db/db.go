package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection          *mongo.Collection
	DestinationsCollection  *mongo.Collection
	AlertsCollection        *mongo.Collection
	AlertReadsCollection    *mongo.Collection
	NotificationsCollection *mongo.Collection
	SettingsCollection      *mongo.Collection
	SubscriptionsCollection *mongo.Collection
	UserStatsCollection     *mongo.Collection
	Client                  *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("tripdb")
	UserCollection = database.Collection("users")
	DestinationsCollection = database.Collection("destinations")
	AlertsCollection = database.Collection("alerts")
	AlertReadsCollection = database.Collection("alertreads")
	NotificationsCollection = database.Collection("notifications")
	SettingsCollection = database.Collection("settings")
	SubscriptionsCollection = database.Collection("subscriptions")
	UserStatsCollection = database.Collection("userstats")
}
