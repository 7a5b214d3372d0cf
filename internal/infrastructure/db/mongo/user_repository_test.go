package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/comedor/admin-api/internal/core/domain"
	"github.com/comedor/admin-api/internal/core/ports"
)

const (
	roleHex    = "65a1f0c2e4b0a1b2c3d4e5f0"
	studentHex = "65a1f0c2e4b0a1b2c3d4e5f6"
)

func stageNames(p []bson.D) []string {
	out := make([]string, len(p))
	for i, stage := range p {
		out[i] = stage[0].Key
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func lookup(doc bson.D, key string) (any, bool) {
	for _, e := range doc {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

func TestUserPipeline_StageOrder(t *testing.T) {
	tests := []struct {
		name         string
		skip, limit  int64
		withStudents bool
		want         []string
	}{
		{"paged", 10, 10, false, []string{"$match", "$sort", "$skip", "$limit", "$lookup", "$unwind"}},
		{"first page", 0, 10, false, []string{"$match", "$sort", "$limit", "$lookup", "$unwind"}},
		{"unpaged partners", 0, 0, true, []string{"$match", "$sort", "$lookup", "$unwind", "$lookup"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stageNames(userPipeline(bson.D{}, tt.skip, tt.limit, tt.withStudents))
			if !equalStrings(got, tt.want) {
				t.Fatalf("stages = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToUserDocument_PartnerFieldsOnlyForPartners(t *testing.T) {
	base := domain.User{Username: "ana", Email: "ana@example.com", RoleID: roleHex}

	standard := base
	standard.Profile = domain.StandardProfile{}
	doc, err := toUserDocument(&standard)
	if err != nil {
		t.Fatalf("toUserDocument: %v", err)
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, field := range []string{"phone_number", "partner_number", "student_id"} {
		if _, err := bson.Raw(raw).LookupErr(field); err == nil {
			t.Fatalf("standard user document must not contain %s", field)
		}
	}

	partner := base
	partner.Profile = domain.PartnerProfile{PhoneNumber: "+34612345678", PartnerNumber: "P-1", StudentIDs: []string{studentHex}}
	doc, err = toUserDocument(&partner)
	if err != nil {
		t.Fatalf("toUserDocument: %v", err)
	}
	if doc.PhoneNumber != "+34612345678" || len(doc.StudentIDs) != 1 || doc.StudentIDs[0].Hex() != studentHex {
		t.Fatalf("unexpected partner document: %+v", doc)
	}

	bad := base
	bad.RoleID = "nope"
	if _, err := toUserDocument(&bad); err == nil {
		t.Fatal("expected error for malformed role id")
	}
}

func TestUserView_ProfileFollowsRole(t *testing.T) {
	roleID, _ := primitive.ObjectIDFromHex(roleHex)
	studentID, _ := primitive.ObjectIDFromHex(studentHex)
	v := userView{
		userDocument: userDocument{Role: roleID, PhoneNumber: "+34612345678", StudentIDs: []primitive.ObjectID{studentID}},
		RoleDoc:      &roleDocument{ID: roleID, Name: domain.RolePartner},
		Students:     []studentDocument{{ID: studentID, Name: "Leo"}},
	}

	u := v.toDomain()
	p, ok := u.Partner()
	if !ok || p.PhoneNumber != "+34612345678" || p.StudentIDs[0] != studentHex {
		t.Fatalf("unexpected partner profile: %+v", u.Profile)
	}
	if len(u.Students) != 1 || u.Students[0].Name != "Leo" {
		t.Fatalf("students not mapped: %+v", u.Students)
	}

	v.RoleDoc = &roleDocument{ID: roleID, Name: domain.RoleAdmin}
	if _, ok := v.toDomain().Partner(); ok {
		t.Fatal("stale partner fields must not surface for non-partner roles")
	}
}

func TestUserUpdateDoc(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	name := "Ana"

	t.Run("standard profile unsets partner fields", func(t *testing.T) {
		doc, err := userUpdateDoc(ports.UserUpdate{Name: &name, Profile: domain.StandardProfile{}}, now)
		if err != nil {
			t.Fatalf("userUpdateDoc: %v", err)
		}
		set, _ := lookup(doc, "$set")
		if v, ok := lookup(set.(bson.D), "name"); !ok || v != "Ana" {
			t.Fatalf("name not set: %v", set)
		}
		unset, ok := lookup(doc, "$unset")
		if !ok || len(unset.(bson.D)) != 3 {
			t.Fatalf("expected 3 unset fields, got %v", unset)
		}
	})

	t.Run("partner profile sets present fields", func(t *testing.T) {
		doc, err := userUpdateDoc(ports.UserUpdate{Profile: domain.PartnerProfile{PhoneNumber: "+34612345678", StudentIDs: []string{studentHex}}}, now)
		if err != nil {
			t.Fatalf("userUpdateDoc: %v", err)
		}
		set, _ := lookup(doc, "$set")
		for _, field := range []string{"updated_at", "phone_number", "student_id"} {
			if _, ok := lookup(set.(bson.D), field); !ok {
				t.Fatalf("%s not set: %v", field, set)
			}
		}
		unset, _ := lookup(doc, "$unset")
		if _, ok := lookup(unset.(bson.D), "partner_number"); !ok {
			t.Fatalf("empty partner_number should be unset: %v", unset)
		}
	})

	t.Run("no profile leaves partner fields alone", func(t *testing.T) {
		doc, err := userUpdateDoc(ports.UserUpdate{Name: &name}, now)
		if err != nil {
			t.Fatalf("userUpdateDoc: %v", err)
		}
		if _, ok := lookup(doc, "$unset"); ok {
			t.Fatalf("unexpected $unset: %v", doc)
		}
	})

	t.Run("invalid ids", func(t *testing.T) {
		bad := "zz"
		if _, err := userUpdateDoc(ports.UserUpdate{RoleID: &bad}, now); err == nil {
			t.Fatal("expected error for malformed role id")
		}
		if _, err := userUpdateDoc(ports.UserUpdate{Profile: domain.PartnerProfile{StudentIDs: []string{bad}}}, now); err == nil {
			t.Fatal("expected error for malformed student id")
		}
	})
}

func TestObjectIDHelpers(t *testing.T) {
	if _, ok := objectID("not-hex"); ok {
		t.Fatal("malformed id accepted")
	}
	ids, err := objectIDs([]string{studentHex, roleHex})
	if err != nil || len(ids) != 2 {
		t.Fatalf("objectIDs: %v %v", ids, err)
	}
	if got := hexIDs(ids); !equalStrings(got, []string{studentHex, roleHex}) {
		t.Fatalf("round trip lost ids: %v", got)
	}
	if ids, err := objectIDs(nil); err != nil || ids != nil {
		t.Fatalf("empty input should give nil, got %v %v", ids, err)
	}
}

func TestPageSkip(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		limit    int
		total    int64
		wantSkip int64
		wantOK   bool
	}{
		{"first page", 1, 10, 25, 0, true},
		{"middle page", 2, 10, 25, 10, true},
		{"last partial page", 3, 10, 25, 20, true},
		{"past the end", 4, 10, 25, 0, false},
		{"empty collection", 1, 10, 0, 0, false},
		{"zero page is first", 0, 10, 25, 0, true},
		{"huge page", 92233720368547758, 100, 25, 0, false},
		{"zero limit", 1, 0, 25, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skip, ok := pageSkip(tt.page, tt.limit, tt.total)
			if skip != tt.wantSkip || ok != tt.wantOK {
				t.Fatalf("pageSkip(%d, %d, %d) = %d, %v; want %d, %v", tt.page, tt.limit, tt.total, skip, ok, tt.wantSkip, tt.wantOK)
			}
		})
	}
}
