package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/comedor/admin-api/internal/core/domain"
	"github.com/comedor/admin-api/internal/core/ports"
)

type BreakfastRepository struct {
	col     *mongo.Collection
	timeout opTimeout
}

func NewBreakfastRepository(db *mongo.Database, timeout time.Duration) *BreakfastRepository {
	return &BreakfastRepository{col: db.Collection(collBreakfasts), timeout: opTimeout(timeout)}
}

type breakfastDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Date          time.Time          `bson:"date"`
	StudentID     primitive.ObjectID `bson:"student_id"`
	Attendance    string             `bson:"attendance"`
	Fare          string             `bson:"fare,omitempty"`
	Payment       float64            `bson:"payment"`
	PaymentMethod string             `bson:"payment_method,omitempty"`
	Observations  string             `bson:"observations,omitempty"`
}

type breakfastView struct {
	breakfastDocument `bson:",inline"`
	Student           *studentDocument `bson:"student,omitempty"`
}

func (v breakfastView) toDomain() *domain.Breakfast {
	b := &domain.Breakfast{
		ID:            v.ID.Hex(),
		Date:          v.Date.UTC(),
		StudentID:     v.StudentID.Hex(),
		Attendance:    v.Attendance,
		Fare:          v.Fare,
		Payment:       v.Payment,
		PaymentMethod: v.PaymentMethod,
		Observations:  v.Observations,
	}
	if v.Student != nil {
		s := v.Student.toDomain()
		b.Student = &s
	}
	return b
}

// breakfastPipeline matches records, newest first, and joins the student name.
func breakfastPipeline(match bson.D) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collStudents},
			{Key: "localField", Value: "student_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "student"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$student"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

func breakfastUpdateDoc(upd ports.BreakfastUpdate) (bson.D, error) {
	set := bson.D{}
	if upd.Date != nil {
		set = append(set, bson.E{Key: "date", Value: upd.Date.UTC()})
	}
	if upd.StudentID != nil {
		oid, ok := objectID(*upd.StudentID)
		if !ok {
			return nil, fmt.Errorf("invalid student id %q", *upd.StudentID)
		}
		set = append(set, bson.E{Key: "student_id", Value: oid})
	}
	if upd.Attendance != nil {
		set = append(set, bson.E{Key: "attendance", Value: *upd.Attendance})
	}
	if upd.Fare != nil {
		set = append(set, bson.E{Key: "fare", Value: *upd.Fare})
	}
	if upd.Payment != nil {
		set = append(set, bson.E{Key: "payment", Value: *upd.Payment})
	}
	if upd.PaymentMethod != nil {
		set = append(set, bson.E{Key: "payment_method", Value: *upd.PaymentMethod})
	}
	if upd.Observations != nil {
		set = append(set, bson.E{Key: "observations", Value: *upd.Observations})
	}
	return bson.D{{Key: "$set", Value: set}}, nil
}

func (r *BreakfastRepository) Create(ctx context.Context, b *domain.Breakfast) (*domain.Breakfast, error) {
	studentID, ok := objectID(b.StudentID)
	if !ok {
		return nil, fmt.Errorf("invalid student id %q", b.StudentID)
	}

	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	res, err := r.col.InsertOne(ctx, breakfastDocument{
		Date:          b.Date,
		StudentID:     studentID,
		Attendance:    b.Attendance,
		Fare:          b.Fare,
		Payment:       b.Payment,
		PaymentMethod: b.PaymentMethod,
		Observations:  b.Observations,
	})
	if err != nil {
		return nil, fmt.Errorf("insert breakfast: %w", err)
	}

	created := *b
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *BreakfastRepository) List(ctx context.Context) ([]*domain.Breakfast, error) {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()
	return r.aggregate(ctx, breakfastPipeline(bson.D{}))
}

func (r *BreakfastRepository) ListByStudent(ctx context.Context, studentID string, from, to time.Time) ([]*domain.Breakfast, error) {
	oid, ok := objectID(studentID)
	if !ok {
		return []*domain.Breakfast{}, nil
	}

	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	return r.aggregate(ctx, breakfastPipeline(bson.D{
		{Key: "student_id", Value: oid},
		{Key: "date", Value: bson.D{{Key: "$gte", Value: from}, {Key: "$lte", Value: to}}},
	}))
}

func (r *BreakfastRepository) FindByID(ctx context.Context, id string) (*domain.Breakfast, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrBreakfastNotFound
	}

	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	items, err := r.aggregate(ctx, breakfastPipeline(bson.D{{Key: "_id", Value: oid}}))
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrBreakfastNotFound
	}
	return items[0], nil
}

func (r *BreakfastRepository) Update(ctx context.Context, id string, upd ports.BreakfastUpdate) (*domain.Breakfast, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrBreakfastNotFound
	}
	doc, err := breakfastUpdateDoc(upd)
	if err != nil {
		return nil, err
	}

	opCtx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	res, err := r.col.UpdateOne(opCtx, bson.M{"_id": oid}, doc)
	if err != nil {
		return nil, fmt.Errorf("update breakfast: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrBreakfastNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *BreakfastRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrBreakfastNotFound
	}

	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete breakfast: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBreakfastNotFound
	}
	return nil
}

func (r *BreakfastRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]*domain.Breakfast, error) {
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate breakfasts: %w", err)
	}
	defer cur.Close(ctx)

	var views []breakfastView
	if err := cur.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("decode breakfasts: %w", err)
	}

	items := make([]*domain.Breakfast, len(views))
	for i, v := range views {
		items[i] = v.toDomain()
	}
	return items, nil
}
