package service

import (
	"testing"

	"tenantnotes/internal/contract"
	"tenantnotes/internal/domain/entity"
	"tenantnotes/internal/utils"
)

const testPassword = "Str0ng!pass"

func newAuthFixture() (*AuthService, *fakeUserRepo, *fakeTenantRepo) {
	users := newFakeUserRepo()
	tenants := newFakeTenantRepo(users)
	_, userPolicy, planPolicy := newPolicies()
	svc := NewAuthService(users, tenants, newTestValidator(), userPolicy, planPolicy)
	return svc, users, tenants
}

func TestRegisterCreatesFreeTenantWithAdmin(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	svc, users, tenants := newAuthFixture()

	resp, apierr := svc.Register(&contract.RegisterRequest{
		Email:      "founder@acme.test",
		Password:   testPassword,
		TenantName: "Acme",
	})
	if apierr != nil {
		t.Fatalf("register failed: %v", apierr)
	}

	if resp.User.Role != "admin" || resp.User.Subscription != "free" {
		t.Fatalf("registering user must become a free-tier admin: %+v", resp.User)
	}

	tenant := tenants.tenants[resp.User.TenantID]
	if tenant == nil || tenant.Subscription != entity.TierFree || tenant.Name != "Acme" {
		t.Fatalf("tenant not created correctly: %+v", tenant)
	}

	claims, err := utils.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("issued token must verify: %v", err)
	}
	if claims.UserID != resp.User.ID || claims.TenantID != resp.User.TenantID {
		t.Fatalf("token claims mismatch: %+v", claims)
	}

	stored := users.users[resp.User.ID]
	if stored.PasswordHash == testPassword || stored.PasswordHash == "" {
		t.Fatalf("password must be stored as a digest")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	svc, _, _ := newAuthFixture()

	req := &contract.RegisterRequest{Email: "dup@acme.test", Password: testPassword, TenantName: "Acme"}
	if _, apierr := svc.Register(req); apierr != nil {
		t.Fatalf("first register failed: %v", apierr)
	}

	req2 := &contract.RegisterRequest{Email: "dup@acme.test", Password: testPassword, TenantName: "Other"}
	if _, apierr := svc.Register(req2); apierr == nil || apierr.Code() != 409 {
		t.Fatalf("duplicate email must yield 409, got %v", apierr)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	svc, _, _ := newAuthFixture()

	if _, apierr := svc.Register(&contract.RegisterRequest{Email: "x@y.test"}); apierr == nil || apierr.Code() != 400 {
		t.Fatalf("missing fields must yield 400, got %v", apierr)
	}
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	svc, _, _ := newAuthFixture()

	reg, apierr := svc.Register(&contract.RegisterRequest{
		Email:      "login@acme.test",
		Password:   testPassword,
		TenantName: "Acme",
	})
	if apierr != nil {
		t.Fatalf("register failed: %v", apierr)
	}

	resp, apierr := svc.Login(&contract.LoginRequest{Email: "login@acme.test", Password: testPassword})
	if apierr != nil {
		t.Fatalf("login failed: %v", apierr)
	}
	if resp.User.ID != reg.User.ID {
		t.Fatalf("login returned a different user")
	}

	if _, apierr := svc.Login(&contract.LoginRequest{Email: "login@acme.test", Password: "Wr0ng!pass1"}); apierr == nil || apierr.Code() != 401 {
		t.Fatalf("bad password must yield 401, got %v", apierr)
	}
	if _, apierr := svc.Login(&contract.LoginRequest{Email: "ghost@acme.test", Password: testPassword}); apierr == nil || apierr.Code() != 401 {
		t.Fatalf("unknown email must yield 401, got %v", apierr)
	}
}

func TestInviteRequiresAdmin(t *testing.T) {
	svc, users, tenants := newAuthFixture()
	_, member := seedTenant(users, tenants, "tenant-a", entity.TierPro)

	req := &contract.InviteRequest{Email: "new@acme.test", Password: testPassword}
	if _, apierr := svc.Invite(member, req); apierr == nil || apierr.Code() != 403 {
		t.Fatalf("member invite must yield 403, got %v", apierr)
	}
}

func TestInviteBlockedOnFreePlan(t *testing.T) {
	svc, users, tenants := newAuthFixture()
	admin, _ := seedTenant(users, tenants, "tenant-a", entity.TierFree)

	req := &contract.InviteRequest{Email: "new@acme.test", Password: testPassword}
	if _, apierr := svc.Invite(admin, req); apierr == nil || apierr.Code() != 403 {
		t.Fatalf("free plan invite must yield 403, got %v", apierr)
	}
}

func TestInviteInheritsTenantTier(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	svc, users, tenants := newAuthFixture()
	admin, _ := seedTenant(users, tenants, "tenant-a", entity.TierPro)

	resp, apierr := svc.Invite(admin, &contract.InviteRequest{Email: "new@acme.test", Password: testPassword})
	if apierr != nil {
		t.Fatalf("invite failed: %v", apierr)
	}

	if resp.User.Role != "member" {
		t.Fatalf("invite must default to the member role, got %s", resp.User.Role)
	}
	if resp.User.TenantID != admin.TenantID || resp.User.Subscription != "pro" {
		t.Fatalf("invited user must join the admin's tenant on its tier: %+v", resp.User)
	}

	invited := users.users[resp.User.ID]
	if invited == nil || invited.Subscription != entity.TierPro {
		t.Fatalf("invited user row not persisted with the tenant tier")
	}
}

func TestInviteDuplicateEmail(t *testing.T) {
	svc, users, tenants := newAuthFixture()
	admin, member := seedTenant(users, tenants, "tenant-a", entity.TierPro)

	req := &contract.InviteRequest{Email: member.Email, Password: testPassword}
	if _, apierr := svc.Invite(admin, req); apierr == nil || apierr.Code() != 409 {
		t.Fatalf("duplicate email must yield 409, got %v", apierr)
	}
}

func TestMe(t *testing.T) {
	svc, users, tenants := newAuthFixture()
	admin, _ := seedTenant(users, tenants, "tenant-a", entity.TierFree)

	resp, apierr := svc.Me(admin)
	if apierr != nil {
		t.Fatalf("me failed: %v", apierr)
	}
	if resp.User.ID != admin.ID || resp.Tenant.ID != admin.TenantID {
		t.Fatalf("me must return the caller and their tenant: %+v", resp)
	}

	orphan := &entity.User{ID: "orphan", TenantID: "gone"}
	if _, apierr := svc.Me(orphan); apierr == nil || apierr.Code() != 404 {
		t.Fatalf("vanished tenant must yield 404, got %v", apierr)
	}
}
