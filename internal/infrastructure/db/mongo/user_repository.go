package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/comedor/admin-api/internal/core/domain"
	"github.com/comedor/admin-api/internal/core/ports"
)

// UserRepository implements ports.UserRepository on the users collection.
// Reads join the roles collection so every returned user carries its Role.
type UserRepository struct {
	col     *mongo.Collection
	timeout opTimeout
}

func NewUserRepository(db *mongo.Database, timeout time.Duration) *UserRepository {
	return &UserRepository{col: db.Collection(collUsers), timeout: opTimeout(timeout)}
}

// userDocument is the stored shape. Partner fields are omitted for every
// other role, so they are absent from the document rather than empty.
type userDocument struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Username      string               `bson:"username"`
	Password      string               `bson:"password"`
	Email         string               `bson:"email"`
	Name          string               `bson:"name,omitempty"`
	Lastname      string               `bson:"lastname,omitempty"`
	Role          primitive.ObjectID   `bson:"role"`
	PhoneNumber   string               `bson:"phone_number,omitempty"`
	PartnerNumber string               `bson:"partner_number,omitempty"`
	StudentIDs    []primitive.ObjectID `bson:"student_id,omitempty"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
}

// userView is the result of the joined aggregation.
type userView struct {
	userDocument `bson:",inline"`
	RoleDoc      *roleDocument     `bson:"role_doc,omitempty"`
	Students     []studentDocument `bson:"students,omitempty"`
}

type studentDocument struct {
	ID       primitive.ObjectID `bson:"_id"`
	Name     string             `bson:"name"`
	Lastname string             `bson:"lastname"`
}

func (s studentDocument) toDomain() domain.Student {
	return domain.Student{ID: s.ID.Hex(), Name: s.Name, Lastname: s.Lastname}
}

func toUserDocument(u *domain.User) (userDocument, error) {
	roleID, ok := objectID(u.RoleID)
	if !ok {
		return userDocument{}, fmt.Errorf("invalid role id %q", u.RoleID)
	}
	doc := userDocument{
		Username:  u.Username,
		Password:  u.PasswordHash,
		Email:     u.Email,
		Name:      u.Name,
		Lastname:  u.Lastname,
		Role:      roleID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if p, ok := u.Profile.(domain.PartnerProfile); ok {
		students, err := objectIDs(p.StudentIDs)
		if err != nil {
			return userDocument{}, err
		}
		doc.PhoneNumber = p.PhoneNumber
		doc.PartnerNumber = p.PartnerNumber
		doc.StudentIDs = students
	}
	return doc, nil
}

func (v userView) toDomain() *domain.User {
	u := &domain.User{
		ID:           v.ID.Hex(),
		Username:     v.Username,
		Email:        v.Email,
		PasswordHash: v.Password,
		Name:         v.Name,
		Lastname:     v.Lastname,
		RoleID:       v.userDocument.Role.Hex(),
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
	if v.RoleDoc != nil {
		u.Role = v.RoleDoc.toDomain()
	}

	if u.Role != nil && u.Role.IsPartner() {
		u.Profile = domain.PartnerProfile{
			PhoneNumber:   v.PhoneNumber,
			PartnerNumber: v.PartnerNumber,
			StudentIDs:    hexIDs(v.StudentIDs),
		}
	} else {
		u.Profile = domain.StandardProfile{}
	}

	if v.Students != nil {
		u.Students = make([]domain.Student, len(v.Students))
		for i, s := range v.Students {
			u.Students[i] = s.toDomain()
		}
	}
	return u
}

// userPipeline builds the joined read: match, optional paging, role lookup and
// optionally the student lookup. Paging happens before the joins.
func userPipeline(match bson.D, skip, limit int64, withStudents bool) mongo.Pipeline {
	p := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	if skip > 0 {
		p = append(p, bson.D{{Key: "$skip", Value: skip}})
	}
	if limit > 0 {
		p = append(p, bson.D{{Key: "$limit", Value: limit}})
	}
	p = append(p,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collRoles},
			{Key: "localField", Value: "role"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "role_doc"},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$role_doc"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	)
	if withStudents {
		p = append(p, bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collStudents},
			{Key: "localField", Value: "student_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "students"},
			{Key: "pipeline", Value: mongo.Pipeline{
				{{Key: "$project", Value: bson.D{{Key: "name", Value: 1}, {Key: "lastname", Value: 1}}}},
			}},
		}}})
	}
	return p
}

// userUpdateDoc turns a partial update into a MongoDB update document.
func userUpdateDoc(upd ports.UserUpdate, now time.Time) (bson.D, error) {
	set := bson.D{{Key: "updated_at", Value: now}}
	var unset bson.D

	if upd.Username != nil {
		set = append(set, bson.E{Key: "username", Value: *upd.Username})
	}
	if upd.Email != nil {
		set = append(set, bson.E{Key: "email", Value: *upd.Email})
	}
	if upd.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *upd.Name})
	}
	if upd.Lastname != nil {
		set = append(set, bson.E{Key: "lastname", Value: *upd.Lastname})
	}
	if upd.RoleID != nil {
		roleID, ok := objectID(*upd.RoleID)
		if !ok {
			return nil, fmt.Errorf("invalid role id %q", *upd.RoleID)
		}
		set = append(set, bson.E{Key: "role", Value: roleID})
	}

	partnerFields := []string{"phone_number", "partner_number", "student_id"}
	switch p := upd.Profile.(type) {
	case domain.PartnerProfile:
		students, err := objectIDs(p.StudentIDs)
		if err != nil {
			return nil, err
		}
		values := []any{p.PhoneNumber, p.PartnerNumber, students}
		empty := []bool{p.PhoneNumber == "", p.PartnerNumber == "", len(students) == 0}
		for i, field := range partnerFields {
			if empty[i] {
				unset = append(unset, bson.E{Key: field, Value: ""})
			} else {
				set = append(set, bson.E{Key: field, Value: values[i]})
			}
		}
	case domain.StandardProfile:
		for _, field := range partnerFields {
			unset = append(unset, bson.E{Key: field, Value: ""})
		}
	}

	doc := bson.D{{Key: "$set", Value: set}}
	if len(unset) > 0 {
		doc = append(doc, bson.E{Key: "$unset", Value: unset})
	}
	return doc, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"username": username}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

// Create inserts a new user document.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc, err := toUserDocument(user)
	if err != nil {
		return nil, err
	}

	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "username", Value: username}})
}

func (r *UserRepository) FindByRole(ctx context.Context, roleID string) ([]*domain.User, error) {
	return r.findByRole(ctx, roleID, false)
}

func (r *UserRepository) FindByRoleWithStudents(ctx context.Context, roleID string) ([]*domain.User, error) {
	return r.findByRole(ctx, roleID, true)
}

// List returns a page of users and the total number of matching users.
func (r *UserRepository) List(ctx context.Context, f ports.ListUsersFilter) ([]*domain.User, int64, error) {
	match := bson.D{}
	if f.RoleID != "" {
		oid, ok := objectID(f.RoleID)
		if !ok {
			return []*domain.User{}, 0, nil
		}
		match = bson.D{{Key: "role", Value: oid}}
	}

	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	skip, ok := pageSkip(f.Page, f.Limit, total)
	if !ok {
		return []*domain.User{}, total, nil
	}
	users, err := r.aggregate(ctx, userPipeline(match, skip, int64(f.Limit), false))
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// pageSkip returns the number of documents before page, or false when page
// starts past the last of total documents.
func pageSkip(page, limit int, total int64) (int64, bool) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		return 0, false
	}
	// Compared in pages so a huge page cannot overflow the multiplication.
	pages := (total + int64(limit) - 1) / int64(limit)
	if int64(page-1) >= pages {
		return 0, false
	}
	return int64(page-1) * int64(limit), true
}

// Update applies a partial update and returns the joined result.
func (r *UserRepository) Update(ctx context.Context, id string, upd ports.UserUpdate) (*domain.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	doc, err := userUpdateDoc(upd, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	opCtx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	res, err := r.col.UpdateOne(opCtx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrUserNotFound
	}

	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) CountByRole(ctx context.Context, roleID string) (int64, error) {
	oid, ok := objectID(roleID)
	if !ok {
		return 0, nil
	}

	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"role": oid})
	if err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return n, nil
}

// EnsureIndexes creates the unique username index the provisioning workflow
// relies on, plus a lookup index on role.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *UserRepository) findByRole(ctx context.Context, roleID string, withStudents bool) ([]*domain.User, error) {
	oid, ok := objectID(roleID)
	if !ok {
		return []*domain.User{}, nil
	}

	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	return r.aggregate(ctx, userPipeline(bson.D{{Key: "role", Value: oid}}, 0, 0, withStudents))
}

func (r *UserRepository) findOne(ctx context.Context, match bson.D) (*domain.User, error) {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	users, err := r.aggregate(ctx, userPipeline(match, 0, 1, false))
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return users[0], nil
}

func (r *UserRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]*domain.User, error) {
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate users: %w", err)
	}
	defer cur.Close(ctx)

	var views []userView
	if err := cur.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*domain.User, len(views))
	for i, v := range views {
		users[i] = v.toDomain()
	}
	return users, nil
}
