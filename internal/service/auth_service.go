package service

import (
	"tenantnotes/internal/contract"
	"tenantnotes/internal/domain/entity"
	"tenantnotes/internal/domain/policy"
	"tenantnotes/internal/utils"
	"tenantnotes/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type UserRepository interface {
	FindByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	ExistsByEmail(email string) (bool, error)
	CountByTenant(tenantID string) (int64, error)
	Save(user *entity.User) error
}

type TenantRepository interface {
	FindByID(id string) (*entity.Tenant, error)
	Save(tenant *entity.Tenant) error
	UpdateTier(tenantID string, tier entity.Tier, now int64) error
}

type AuthService struct {
	UserRepo   UserRepository
	TenantRepo TenantRepository
	Validate   *validator.Validate
	UserPolicy *policy.UserPolicy
	PlanPolicy *policy.PlanPolicy
}

func NewAuthService(
	userRepo UserRepository,
	tenantRepo TenantRepository,
	validate *validator.Validate,
	userPolicy *policy.UserPolicy,
	planPolicy *policy.PlanPolicy,
) *AuthService {
	return &AuthService{
		UserRepo:   userRepo,
		TenantRepo: tenantRepo,
		Validate:   validate,
		UserPolicy: userPolicy,
		PlanPolicy: planPolicy,
	}
}

// Register creates a fresh tenant on the free plan with the caller as
// its admin, and issues a token right away.
func (a *AuthService) Register(req *contract.RegisterRequest) (*contract.AuthResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	exists, err := a.UserRepo.ExistsByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to check email availability: %v", err)
		return nil, apierror.InternalServerError
	}
	if exists {
		return nil, apierror.EmailTakenError
	}

	now := utils.NowUTC()
	tenant := &entity.Tenant{
		ID:           uuid.NewString(),
		Name:         req.TenantName,
		Subscription: entity.TierFree,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Errorf("failed to hash password: %v", err)
		return nil, apierror.InternalServerError
	}

	user := &entity.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
		TenantID:     tenant.ID,
		Subscription: tenant.Subscription,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := a.TenantRepo.Save(tenant); err != nil {
		log.Errorf("failed to save tenant: %v", err)
		return nil, apierror.InternalServerError
	}
	if err := a.UserRepo.Save(user); err != nil {
		log.Errorf("failed to save user: %v", err)
		return nil, apierror.InternalServerError
	}

	return a.toAuthResponse(user)
}

func (a *AuthService) Login(req *contract.LoginRequest) (*contract.AuthResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	user, err := a.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch user by email: %v", err)
		return nil, apierror.InternalServerError
	}

	if user == nil || !utils.CheckPassword(req.Password, user.PasswordHash) {
		return nil, apierror.CredentialsMismatchError
	}

	return a.toAuthResponse(user)
}

// Invite creates a user inside the admin's tenant. The new user
// inherits the tenant's current tier.
func (a *AuthService) Invite(actor *entity.User, req *contract.InviteRequest) (*contract.AuthResponse, apierror.ErrorResponse) {
	if perr := a.UserPolicy.RequireAdmin(actor); perr != nil {
		return nil, perr
	}
	if perr := a.PlanPolicy.CanInvite(actor); perr != nil {
		return nil, perr
	}

	utils.Sanitize(req)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	exists, err := a.UserRepo.ExistsByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to check email availability: %v", err)
		return nil, apierror.InternalServerError
	}
	if exists {
		return nil, apierror.EmailTakenError
	}

	tenant, err := a.TenantRepo.FindByID(actor.TenantID)
	if err != nil {
		log.Errorf("failed to fetch tenant %s: %v", actor.TenantID, err)
		return nil, apierror.InternalServerError
	}
	if tenant == nil {
		return nil, apierror.TenantNotFoundError
	}

	role := entity.Role(req.Role)
	if req.Role == "" {
		role = entity.RoleMember
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Errorf("failed to hash password: %v", err)
		return nil, apierror.InternalServerError
	}

	now := utils.NowUTC()
	user := &entity.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		TenantID:     tenant.ID,
		Subscription: tenant.Subscription,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := a.UserRepo.Save(user); err != nil {
		log.Errorf("failed to save invited user: %v", err)
		return nil, apierror.InternalServerError
	}

	return a.toAuthResponse(user)
}

func (a *AuthService) Me(actor *entity.User) (*contract.MeResponse, apierror.ErrorResponse) {
	tenant, err := a.TenantRepo.FindByID(actor.TenantID)
	if err != nil {
		log.Errorf("failed to fetch tenant %s: %v", actor.TenantID, err)
		return nil, apierror.InternalServerError
	}
	if tenant == nil {
		return nil, apierror.TenantNotFoundError
	}

	return &contract.MeResponse{
		User:   toUserResponse(actor),
		Tenant: toTenantResponse(tenant),
	}, nil
}

func (a *AuthService) toAuthResponse(user *entity.User) (*contract.AuthResponse, apierror.ErrorResponse) {
	token, err := utils.IssueToken(user)
	if err != nil {
		log.Errorf("failed to issue token: %v", err)
		return nil, apierror.InternalServerError
	}

	return &contract.AuthResponse{
		Token: token,
		User:  toUserResponse(user),
	}, nil
}

func toUserResponse(user *entity.User) *contract.UserResponse {
	return &contract.UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Role:         string(user.Role),
		TenantID:     user.TenantID,
		Subscription: string(user.Subscription),
		CreatedAt:    utils.FormatEpoch(user.CreatedAt),
	}
}

func toTenantResponse(tenant *entity.Tenant) *contract.TenantResponse {
	return &contract.TenantResponse{
		ID:           tenant.ID,
		Name:         tenant.Name,
		Subscription: string(tenant.Subscription),
		CreatedAt:    utils.FormatEpoch(tenant.CreatedAt),
	}
}
