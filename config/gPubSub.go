package config

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/akshayWork-19/RightTutor-Backend/utils"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

var (
	pubsubClient   *pubsub.Client
	pubsubClientMu sync.Mutex
)

func init() {
	// Load env from .env
	godotenv.Load()
}

func getPubSubProjectID() string {
	if v := os.Getenv("PUBSUB_PROJECT_ID"); v != "" {
		return v
	}
	// Cloud Run/Cloud Functions often set this.
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		return v
	}
	return ""
}

// getPubSubClient initializes the client once. It uses Application Default
// Credentials unless PUBSUB_CREDENTIALS_JSON is provided. Unlike the DB and
// Redis connections this does not retry: the event bridge is best-effort and
// callers treat any error as "drop the event".
func getPubSubClient(ctx context.Context) (*pubsub.Client, error) {
	pubsubClientMu.Lock()
	defer pubsubClientMu.Unlock()
	if pubsubClient != nil {
		return pubsubClient, nil
	}

	projectID := getPubSubProjectID()
	if projectID == "" {
		return nil, errors.New("PUBSUB_PROJECT_ID/GOOGLE_CLOUD_PROJECT not set")
	}

	var (
		c   *pubsub.Client
		err error
	)
	if credJSON := os.Getenv("PUBSUB_CREDENTIALS_JSON"); credJSON != "" {
		c, err = pubsub.NewClient(ctx, projectID, option.WithCredentialsJSON([]byte(credJSON)))
	} else {
		c, err = pubsub.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, err
	}
	pubsubClient = c
	return pubsubClient, nil
}

// PublishDataUpdated mirrors a data_updated event onto the configured
// Pub/Sub topic so downstream consumers outside this process can react to
// store mutations. Best-effort: callers log and ignore the returned error.
func PublishDataUpdated(obj interface{}) error {
	topicName := os.Getenv("EVENTS_TOPIC")
	if topicName == "" {
		topicName = "data-updated"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := getPubSubClient(ctx)
	if err != nil {
		return err
	}

	data, err := utils.MarshalToJSON(obj)
	if err != nil {
		return err
	}

	result := client.Topic(topicName).Publish(ctx, &pubsub.Message{Data: []byte(data)})
	_, err = result.Get(ctx)
	return err
}
