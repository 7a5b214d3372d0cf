package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/comedor/admin-api/internal/core/domain"
)

type rateDocument struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Rate  string             `bson:"rate"`
	Price float64            `bson:"price"`
}

func (d rateDocument) toDomain() *domain.Rate {
	return &domain.Rate{ID: d.ID.Hex(), Rate: d.Rate, Price: d.Price}
}

type centerDocument struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	Center string             `bson:"center"`
}

func (d centerDocument) toDomain() *domain.Center {
	return &domain.Center{ID: d.ID.Hex(), Center: d.Center}
}

// RateRepository stores breakfast rates.
type RateRepository struct {
	col     *mongo.Collection
	timeout opTimeout
}

func NewRateRepository(db *mongo.Database, timeout time.Duration) *RateRepository {
	return &RateRepository{col: db.Collection(collRates), timeout: opTimeout(timeout)}
}

func (r *RateRepository) Create(ctx context.Context, rate *domain.Rate) (*domain.Rate, error) {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	res, err := r.col.InsertOne(ctx, rateDocument{Rate: rate.Rate, Price: rate.Price})
	if err != nil {
		return nil, fmt.Errorf("insert rate: %w", err)
	}
	created := *rate
	created.ID = insertedHex(res)
	return &created, nil
}

func (r *RateRepository) List(ctx context.Context) ([]*domain.Rate, error) {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	var docs []rateDocument
	if err := findAll(ctx, r.col, &docs); err != nil {
		return nil, fmt.Errorf("list rates: %w", err)
	}
	out := make([]*domain.Rate, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *RateRepository) FindByID(ctx context.Context, id string) (*domain.Rate, error) {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	var doc rateDocument
	if err := findByHex(ctx, r.col, id, &doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRateNotFound
		}
		return nil, fmt.Errorf("find rate: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *RateRepository) Update(ctx context.Context, rate *domain.Rate) (*domain.Rate, error) {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	var doc rateDocument
	err := updateByHex(ctx, r.col, rate.ID, bson.M{"rate": rate.Rate, "price": rate.Price}, &doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRateNotFound
		}
		return nil, fmt.Errorf("update rate: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *RateRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	if err := deleteByHex(ctx, r.col, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrRateNotFound
		}
		return fmt.Errorf("delete rate: %w", err)
	}
	return nil
}

// CenterRepository stores school centers.
type CenterRepository struct {
	col     *mongo.Collection
	timeout opTimeout
}

func NewCenterRepository(db *mongo.Database, timeout time.Duration) *CenterRepository {
	return &CenterRepository{col: db.Collection(collCenters), timeout: opTimeout(timeout)}
}

func (r *CenterRepository) Create(ctx context.Context, c *domain.Center) (*domain.Center, error) {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	res, err := r.col.InsertOne(ctx, centerDocument{Center: c.Center})
	if err != nil {
		return nil, fmt.Errorf("insert center: %w", err)
	}
	created := *c
	created.ID = insertedHex(res)
	return &created, nil
}

func (r *CenterRepository) List(ctx context.Context) ([]*domain.Center, error) {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	var docs []centerDocument
	if err := findAll(ctx, r.col, &docs); err != nil {
		return nil, fmt.Errorf("list centers: %w", err)
	}
	out := make([]*domain.Center, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *CenterRepository) FindByID(ctx context.Context, id string) (*domain.Center, error) {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	var doc centerDocument
	if err := findByHex(ctx, r.col, id, &doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCenterNotFound
		}
		return nil, fmt.Errorf("find center: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CenterRepository) Update(ctx context.Context, c *domain.Center) (*domain.Center, error) {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	var doc centerDocument
	if err := updateByHex(ctx, r.col, c.ID, bson.M{"center": c.Center}, &doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCenterNotFound
		}
		return nil, fmt.Errorf("update center: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CenterRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	if err := deleteByHex(ctx, r.col, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrCenterNotFound
		}
		return fmt.Errorf("delete center: %w", err)
	}
	return nil
}

// The helpers below report a missing or malformed id as mongo.ErrNoDocuments.

func insertedHex(res *mongo.InsertOneResult) string {
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return ""
}

func findAll(ctx context.Context, col *mongo.Collection, out any) error {
	cur, err := col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	return cur.All(ctx, out)
}

func findByHex(ctx context.Context, col *mongo.Collection, id string, out any) error {
	oid, ok := objectID(id)
	if !ok {
		return mongo.ErrNoDocuments
	}
	return col.FindOne(ctx, bson.M{"_id": oid}).Decode(out)
}

func updateByHex(ctx context.Context, col *mongo.Collection, id string, set bson.M, out any) error {
	oid, ok := objectID(id)
	if !ok {
		return mongo.ErrNoDocuments
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(out)
}

func deleteByHex(ctx context.Context, col *mongo.Collection, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return mongo.ErrNoDocuments
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
