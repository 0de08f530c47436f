package service

import (
	"sort"
	"strings"

	"tenantnotes/internal/domain/entity"
	"tenantnotes/internal/domain/policy"
	"tenantnotes/internal/utils/uid"
	"tenantnotes/internal/utils/validators"

	"github.com/go-playground/validator/v10"
)

func init() {
	uid.Init(1)
}

func newTestValidator() *validator.Validate {
	validate := validator.New()
	_ = validate.RegisterValidation("hasupper", validators.HasUpper)
	_ = validate.RegisterValidation("haslower", validators.HasLower)
	_ = validate.RegisterValidation("hasdigit", validators.HasDigit)
	_ = validate.RegisterValidation("hasspecial", validators.HasSpecial)
	_ = validate.RegisterValidation("nodupes", validators.NoDupes)
	_ = validate.RegisterValidation("nospaces", validators.NoWhiteSpaces)
	return validate
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (f *fakeUserRepo) FindByID(id string) (*entity.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) ExistsByEmail(email string) (bool, error) {
	user, _ := f.FindByEmail(email)
	return user != nil, nil
}

func (f *fakeUserRepo) CountByTenant(tenantID string) (int64, error) {
	var count int64
	for _, user := range f.users {
		if user.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

func (f *fakeUserRepo) Save(user *entity.User) error {
	f.users[user.ID] = user
	return nil
}

type fakeTenantRepo struct {
	tenants map[string]*entity.Tenant
	users   *fakeUserRepo
}

func newFakeTenantRepo(users *fakeUserRepo) *fakeTenantRepo {
	return &fakeTenantRepo{tenants: map[string]*entity.Tenant{}, users: users}
}

func (f *fakeTenantRepo) FindByID(id string) (*entity.Tenant, error) {
	return f.tenants[id], nil
}

func (f *fakeTenantRepo) Save(tenant *entity.Tenant) error {
	f.tenants[tenant.ID] = tenant
	return nil
}

func (f *fakeTenantRepo) UpdateTier(tenantID string, tier entity.Tier, now int64) error {
	if tenant, ok := f.tenants[tenantID]; ok {
		tenant.Subscription = tier
		tenant.UpdatedAt = now
	}
	for _, user := range f.users.users {
		if user.TenantID == tenantID {
			user.Subscription = tier
			user.UpdatedAt = now
		}
	}
	return nil
}

type fakeNoteRepo struct {
	notes map[int64]*entity.Note
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{notes: map[int64]*entity.Note{}}
}

func (f *fakeNoteRepo) FindByID(tenantID string, id int64) (*entity.Note, error) {
	note, ok := f.notes[id]
	if !ok || note.TenantID != tenantID {
		return nil, nil
	}
	return note, nil
}

func (f *fakeNoteRepo) FindByOwner(tenantID, userID, search string) ([]*entity.Note, error) {
	var notes []*entity.Note
	needle := strings.ToLower(search)
	for _, note := range f.notes {
		if note.TenantID != tenantID || note.UserID != userID {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(note.Title), needle) &&
			!strings.Contains(strings.ToLower(note.Content), needle) {
			continue
		}
		notes = append(notes, note)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].UpdatedAt > notes[j].UpdatedAt })
	return notes, nil
}

func (f *fakeNoteRepo) FindAllByTenant(tenantID string) ([]*entity.Note, error) {
	var notes []*entity.Note
	for _, note := range f.notes {
		if note.TenantID == tenantID {
			notes = append(notes, note)
		}
	}
	return notes, nil
}

func (f *fakeNoteRepo) CountByTenant(tenantID string) (int64, error) {
	return f.countWhere(func(n *entity.Note) bool { return n.TenantID == tenantID }), nil
}

func (f *fakeNoteRepo) CountPrivateByTenant(tenantID string) (int64, error) {
	return f.countWhere(func(n *entity.Note) bool { return n.TenantID == tenantID && n.IsPrivate }), nil
}

func (f *fakeNoteRepo) CountByOwner(tenantID, userID string) (int64, error) {
	return f.countWhere(func(n *entity.Note) bool { return n.TenantID == tenantID && n.UserID == userID }), nil
}

func (f *fakeNoteRepo) CountPrivateByOwner(tenantID, userID string) (int64, error) {
	return f.countWhere(func(n *entity.Note) bool {
		return n.TenantID == tenantID && n.UserID == userID && n.IsPrivate
	}), nil
}

func (f *fakeNoteRepo) Save(note *entity.Note) error {
	f.notes[note.ID] = note
	return nil
}

func (f *fakeNoteRepo) Delete(note *entity.Note) error {
	delete(f.notes, note.ID)
	return nil
}

func (f *fakeNoteRepo) DeleteOwned(tenantID, userID string, ids []int64) (int64, error) {
	var deleted int64
	for _, id := range ids {
		note, ok := f.notes[id]
		if ok && note.TenantID == tenantID && note.UserID == userID {
			delete(f.notes, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeNoteRepo) countWhere(match func(*entity.Note) bool) int64 {
	var count int64
	for _, note := range f.notes {
		if match(note) {
			count++
		}
	}
	return count
}

// seedTenant creates a tenant with one admin and one member.
func seedTenant(users *fakeUserRepo, tenants *fakeTenantRepo, id string, tier entity.Tier) (admin, member *entity.User) {
	tenant := &entity.Tenant{ID: id, Name: "Tenant " + id, Subscription: tier}
	tenants.tenants[id] = tenant

	admin = &entity.User{
		ID:           id + "-admin",
		Email:        id + "-admin@example.test",
		Role:         entity.RoleAdmin,
		TenantID:     id,
		Subscription: tier,
	}
	member = &entity.User{
		ID:           id + "-member",
		Email:        id + "-member@example.test",
		Role:         entity.RoleMember,
		TenantID:     id,
		Subscription: tier,
	}
	users.users[admin.ID] = admin
	users.users[member.ID] = member
	return admin, member
}

func newPolicies() (*policy.NotePolicy, *policy.UserPolicy, *policy.PlanPolicy) {
	return policy.NewNotePolicy(), policy.NewUserPolicy(), policy.NewPlanPolicy()
}
