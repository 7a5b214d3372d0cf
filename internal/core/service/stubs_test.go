package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/comedor/admin-api/internal/core/domain"
	"github.com/comedor/admin-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory role directory
// ---------------------------------------------------------------------------

type stubRoleRepo struct {
	byName  map[string]*domain.Role
	findErr error
}

func newStubRoleRepo(names ...string) *stubRoleRepo {
	r := &stubRoleRepo{byName: make(map[string]*domain.Role)}
	for _, n := range names {
		r.byName[n] = &domain.Role{ID: "role-" + n, Name: n}
	}
	return r
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	role, ok := r.byName[name]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	clone := *role
	return &clone, nil
}

func (r *stubRoleRepo) byID(id string) *domain.Role {
	for _, role := range r.byName {
		if role.ID == id {
			clone := *role
			return &clone
		}
	}
	return nil
}

func (r *stubRoleRepo) List(_ context.Context) ([]*domain.Role, error) {
	out := make([]*domain.Role, 0, len(r.byName))
	for _, role := range r.byName {
		clone := *role
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubRoleRepo) Delete(_ context.Context, name string) error {
	if _, ok := r.byName[name]; !ok {
		return domain.ErrRoleNotFound
	}
	delete(r.byName, name)
	return nil
}

func (r *stubRoleRepo) EnsureRoles(_ context.Context, names []string) error {
	for _, n := range names {
		if _, ok := r.byName[n]; !ok {
			r.byName[n] = &domain.Role{ID: "role-" + n, Name: n}
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// In-memory user repository. Mirrors the Mongo repository: unique usernames,
// role joined on reads, partner fields replaced wholesale by Update.
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User
	roles *stubRoleRepo
	seq   int

	createErr     error // returned by Create when set
	listErr       error
	raceDuplicate bool // ExistsByUsername misses, Create hits the unique index
	updateCalls   int
	students      map[string]domain.Student
}

func newStubUserRepo(roles *stubRoleRepo) *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User), roles: roles, students: map[string]domain.Student{}}
}

func (r *stubUserRepo) clone(u *domain.User) *domain.User {
	c := *u
	if p, ok := u.Profile.(domain.PartnerProfile); ok {
		p.StudentIDs = append([]string(nil), p.StudentIDs...)
		c.Profile = p
	}
	c.Role = r.roles.byID(u.RoleID)
	return &c
}

func (r *stubUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	if r.raceDuplicate {
		return false, nil
	}
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrDuplicateUsername
		}
	}
	r.seq++
	stored := *user
	stored.ID = fmt.Sprintf("u%03d", r.seq)
	r.users[stored.ID] = &stored
	created := *user
	created.ID = stored.ID
	return &created, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.clone(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return r.clone(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) sorted(match func(*domain.User) bool) []*domain.User {
	ids := make([]string, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := []*domain.User{}
	for _, id := range ids {
		if match(r.users[id]) {
			out = append(out, r.clone(r.users[id]))
		}
	}
	return out
}

func (r *stubUserRepo) FindByRole(_ context.Context, roleID string) ([]*domain.User, error) {
	return r.sorted(func(u *domain.User) bool { return u.RoleID == roleID }), nil
}

func (r *stubUserRepo) FindByRoleWithStudents(ctx context.Context, roleID string) ([]*domain.User, error) {
	users, _ := r.FindByRole(ctx, roleID)
	for _, u := range users {
		if p, ok := u.Partner(); ok {
			for _, id := range p.StudentIDs {
				if s, ok := r.students[id]; ok {
					u.Students = append(u.Students, s)
				}
			}
		}
	}
	return users, nil
}

func (r *stubUserRepo) List(_ context.Context, f ports.ListUsersFilter) ([]*domain.User, int64, error) {
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	all := r.sorted(func(u *domain.User) bool { return f.RoleID == "" || u.RoleID == f.RoleID })
	total := int64(len(all))
	if f.Page-1 >= (len(all)+f.Limit-1)/f.Limit {
		return []*domain.User{}, total, nil
	}
	start := (f.Page - 1) * f.Limit
	end := start + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, upd ports.UserUpdate) (*domain.User, error) {
	r.updateCalls++
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if upd.Username != nil {
		for otherID, other := range r.users {
			if otherID != id && other.Username == *upd.Username {
				return nil, domain.ErrDuplicateUsername
			}
		}
		u.Username = *upd.Username
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Lastname != nil {
		u.Lastname = *upd.Lastname
	}
	if upd.RoleID != nil {
		u.RoleID = *upd.RoleID
	}
	if upd.Profile != nil {
		u.Profile = upd.Profile
	}
	return r.clone(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) CountByRole(_ context.Context, roleID string) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.RoleID == roleID {
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Credentials and notifier
// ---------------------------------------------------------------------------

type stubGenerator struct {
	n int
}

func (g *stubGenerator) Generate() (string, error) {
	g.n++
	return fmt.Sprintf("Plain-%d-pw!", g.n), nil
}

// stubHasher is reversible so tests can inspect what was hashed.
type stubHasher struct{}

func (stubHasher) Hash(p string) (string, error) {
	if p == "" {
		return "", errors.New("empty password")
	}
	return "hashed:" + p, nil
}

func (stubHasher) Verify(p, h string) bool { return h == "hashed:"+p }

type recordingNotifier struct {
	sent []ports.CredentialEmail
	err  error
}

func (n *recordingNotifier) SendCredentialEmail(_ context.Context, msg ports.CredentialEmail) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

func strPtr(s string) *string { return &s }

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
