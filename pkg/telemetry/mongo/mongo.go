// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin

// Package mongo implements telemetry on top of MongoDB.
package mongo

import (
	"context"
	"fmt"
	"github.com/hchauvin/smoke/pkg/telemetry"
	"go.mongodb.org/mongo-driver/mongo"
	mongo_options "go.mongodb.org/mongo-driver/mongo/options"
	"os"
	"reflect"
	"sync"
	"time"
)

func init() {
	telemetry.RegisterBackend(telemetry.Backend{
		Protocol:  "mongo",
		NewClient: newClient,
	})
}

const (
	appName        = "smoke"
	connectTimeout = 10 * time.Second
	sendTimeout    = 10 * time.Second
)

type client struct {
	options *options
	client  *mongo.Client
	pending sync.WaitGroup
}

func newClient(connectionString string) (telemetry.Client, error) {
	options, err := parseConnectionString(connectionString)
	if err != nil {
		return nil, err
	}

	mongoConnectCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	c, err := mongo.Connect(
		mongoConnectCtx,
		mongo_options.Client().ApplyURI(options.uri).SetAppName(appName))
	if err != nil {
		return nil, err
	}
	return &client{
		options: options,
		client:  c,
	}, nil
}

type telemetryDocument struct {
	App     string `bson:"app"`
	Type    string `bson:"type"`
	Payload interface{}
}

// Send implements telemetry.Client.
func (mongo *client) Send(payload interface{}) {
	mongo.pending.Add(1)
	go func() {
		defer mongo.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		doc := telemetryDocument{
			App:     appName,
			Type:    getType(payload),
			Payload: payload,
		}
		_, err := mongo.client.
			Database(mongo.options.database).
			Collection(mongo.options.collection).
			InsertOne(ctx, doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Cannot send telemetry event: %v\n", err)
		}
	}()
}

// Close implements telemetry.Client.
func (mongo *client) Close() {
	mongo.pending.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	mongo.client.Disconnect(ctx)
}

func getType(myvar interface{}) string {
	t := reflect.TypeOf(myvar)
	if t.Kind() == reflect.Ptr {
		return "*" + t.Elem().Name()
	}
	return t.Name()
}
