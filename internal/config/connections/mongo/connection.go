package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type ConnectionInfo struct {
	Scheme     string
	User       string
	Password   string
	Host       string
	Port       string
	DB         string
	AuthSource string
}

func (i ConnectionInfo) uri() string {
	scheme := i.Scheme
	if scheme == "" {
		scheme = "mongodb"
	}

	auth := ""
	if i.User != "" {
		auth = i.User
		if i.Password != "" {
			auth += ":" + i.Password
		}
		auth += "@"
	}

	host := i.Host
	if i.Port != "" {
		host += ":" + i.Port
	}

	query := ""
	if i.AuthSource != "" {
		query = "?authSource=" + i.AuthSource
	}

	return fmt.Sprintf("%s://%s%s/%s%s", scheme, auth, host, i.DB, query)
}

// Mongo backs the negotiation audit trail.
type Mongo struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewConnection(ctx context.Context, info ConnectionInfo) (*Mongo, error) {
	opts := options.Client().
		ApplyURI(info.uri()).
		SetAppName("sindesk-negotiation").
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, err
	}

	return &Mongo{Client: client, Database: client.Database(info.DB)}, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	if m.Client != nil {
		return m.Client.Disconnect(ctx)
	}
	return nil
}
