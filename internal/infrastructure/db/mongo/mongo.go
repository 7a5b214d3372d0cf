package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// Collection names.
const (
	collUsers      = "users"
	collRoles      = "roles"
	collStudents   = "students"
	collBreakfasts = "breakfasts"
	collRates      = "breakfasts_rates"
	collCenters    = "centers"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetTimeout(timeout)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// opTimeout bounds a single repository call.
type opTimeout time.Duration

func (t opTimeout) ctx(ctx context.Context) (context.Context, context.CancelFunc) {
	d := time.Duration(t)
	if d <= 0 {
		d = defaultTimeout
	}
	return context.WithTimeout(ctx, d)
}

// objectID parses a hex id. Malformed ids are reported as not found by callers.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

func objectIDs(ids []string) ([]primitive.ObjectID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, ok := objectID(id)
		if !ok {
			return nil, fmt.Errorf("invalid object id %q", id)
		}
		out = append(out, oid)
	}
	return out, nil
}

func hexIDs(ids []primitive.ObjectID) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}
