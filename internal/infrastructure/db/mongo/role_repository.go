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

type RoleRepository struct {
	col     *mongo.Collection
	timeout opTimeout
}

func NewRoleRepository(db *mongo.Database, timeout time.Duration) *RoleRepository {
	return &RoleRepository{col: db.Collection(collRoles), timeout: opTimeout(timeout)}
}

type roleDocument struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
}

func (d roleDocument) toDomain() *domain.Role {
	return &domain.Role{ID: d.ID.Hex(), Name: d.Name}
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	var doc roleDocument
	if err := r.col.FindOne(ctx, bson.M{"name": name}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *RoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find roles: %w", err)
	}
	defer cur.Close(ctx)

	var docs []roleDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}

	roles := make([]*domain.Role, len(docs))
	for i, d := range docs {
		roles[i] = d.toDomain()
	}
	return roles, nil
}

func (r *RoleRepository) Delete(ctx context.Context, name string) error {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"name": name})
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}

// EnsureRoles upserts each name so that startup seeding is idempotent.
func (r *RoleRepository) EnsureRoles(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(names))
	for _, name := range names {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"name": name}).
			SetUpdate(bson.M{"$setOnInsert": bson.M{"name": name}}).
			SetUpsert(true))
	}

	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	if _, err := r.col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	return nil
}

func (r *RoleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
