package service

import (
	"fmt"
	"sort"

	"tenantnotes/internal/contract"
	"tenantnotes/internal/domain/entity"
	"tenantnotes/internal/domain/policy"
	"tenantnotes/internal/utils"
	"tenantnotes/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

// nearLimitRatio triggers usage warnings once a counting limit is 80% full.
const nearLimitRatio = 0.8

type SubscriptionService struct {
	TenantRepo TenantRepository
	UserRepo   UserRepository
	NoteRepo   NoteRepository
	Validate   *validator.Validate
	UserPolicy *policy.UserPolicy
}

func NewSubscriptionService(
	tenantRepo TenantRepository,
	userRepo UserRepository,
	noteRepo NoteRepository,
	validate *validator.Validate,
	userPolicy *policy.UserPolicy,
) *SubscriptionService {
	return &SubscriptionService{
		TenantRepo: tenantRepo,
		UserRepo:   userRepo,
		NoteRepo:   noteRepo,
		Validate:   validate,
		UserPolicy: userPolicy,
	}
}

func (s *SubscriptionService) GetSubscription(actor *entity.User) (*contract.SubscriptionResponse, apierror.ErrorResponse) {
	if perr := s.UserPolicy.RequireAdmin(actor); perr != nil {
		return nil, perr
	}

	tenant, aerr := s.fetchTenant(actor.TenantID)
	if aerr != nil {
		return nil, aerr
	}

	usage, aerr := s.tenantUsage(tenant.ID)
	if aerr != nil {
		return nil, aerr
	}

	return &contract.SubscriptionResponse{
		Subscription: string(tenant.Subscription),
		Features:     planFeatures(tenant.Subscription),
		Limits:       toPlanLimits(tenant.Subscription.Limits()),
		Usage:        usage,
		Tenant:       toTenantResponse(tenant),
	}, nil
}

// UpdatePlan switches the tenant's tier. The repository keeps every
// user row of the tenant in sync in the same transaction.
func (s *SubscriptionService) UpdatePlan(actor *entity.User, req *contract.UpdatePlanRequest) (*contract.SubscriptionResponse, apierror.ErrorResponse) {
	if perr := s.UserPolicy.RequireAdmin(actor); perr != nil {
		return nil, perr
	}

	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	tier := entity.Tier(req.Plan)
	if !tier.Valid() {
		return nil, apierror.InvalidPlanError
	}

	tenant, aerr := s.fetchTenant(actor.TenantID)
	if aerr != nil {
		return nil, aerr
	}

	if err := s.TenantRepo.UpdateTier(tenant.ID, tier, utils.NowUTC()); err != nil {
		log.Errorf("failed to update tenant %s to plan %s: %v", tenant.ID, tier, err)
		return nil, apierror.InternalServerError
	}

	direction := "downgraded"
	if tier == entity.TierPro {
		direction = "upgraded"
	}

	return &contract.SubscriptionResponse{
		Subscription: string(tier),
		Features:     planFeatures(tier),
		Limits:       toPlanLimits(tier.Limits()),
		Message:      fmt.Sprintf("Successfully %s to %s plan", direction, tier),
	}, nil
}

func (s *SubscriptionService) GetUsage(actor *entity.User) (*contract.UsageResponse, apierror.ErrorResponse) {
	tenant, aerr := s.fetchTenant(actor.TenantID)
	if aerr != nil {
		return nil, aerr
	}

	limits := tenant.Subscription.Limits()

	tenantUsage, aerr := s.tenantUsage(tenant.ID)
	if aerr != nil {
		return nil, aerr
	}

	userNotes, err := s.NoteRepo.CountByOwner(tenant.ID, actor.ID)
	if err != nil {
		log.Errorf("failed to count user notes: %v", err)
		return nil, apierror.InternalServerError
	}
	userPrivate, err := s.NoteRepo.CountPrivateByOwner(tenant.ID, actor.ID)
	if err != nil {
		log.Errorf("failed to count user private notes: %v", err)
		return nil, apierror.InternalServerError
	}

	tags, aerr := s.tagUsage(tenant.ID)
	if aerr != nil {
		return nil, aerr
	}

	userLimit := 1
	if limits.CanInviteUsers {
		userLimit = entity.Unlimited
	}

	return &contract.UsageResponse{
		Subscription: string(tenant.Subscription),
		Limits:       toPlanLimits(limits),
		Usage: contract.UsageBreakdown{
			Tenant: contract.ScopeUsage{
				Users:        &contract.UsageMetric{Current: tenantUsage.Users, Limit: userLimit},
				Notes:        contract.UsageMetric{Current: tenantUsage.Notes, Limit: limits.MaxNotes},
				PrivateNotes: contract.UsageMetric{Current: tenantUsage.PrivateNotes, Limit: limits.MaxPrivateNotes},
			},
			User: contract.ScopeUsage{
				Notes:        contract.UsageMetric{Current: userNotes, Limit: limits.MaxNotes},
				PrivateNotes: contract.UsageMetric{Current: userPrivate, Limit: limits.MaxPrivateNotes},
			},
			Tags: *tags,
		},
		Warnings: contract.UsageWarnings{
			NearNoteLimit:        nearLimit(limits.MaxNotes, tenantUsage.Notes),
			NearPrivateNoteLimit: nearLimit(limits.MaxPrivateNotes, tenantUsage.PrivateNotes),
		},
	}, nil
}

func (s *SubscriptionService) fetchTenant(tenantID string) (*entity.Tenant, apierror.ErrorResponse) {
	tenant, err := s.TenantRepo.FindByID(tenantID)
	if err != nil {
		log.Errorf("failed to fetch tenant %s: %v", tenantID, err)
		return nil, apierror.InternalServerError
	}
	if tenant == nil {
		return nil, apierror.TenantNotFoundError
	}
	return tenant, nil
}

func (s *SubscriptionService) tenantUsage(tenantID string) (*contract.UsageSummary, apierror.ErrorResponse) {
	users, err := s.UserRepo.CountByTenant(tenantID)
	if err != nil {
		log.Errorf("failed to count tenant users: %v", err)
		return nil, apierror.InternalServerError
	}

	notes, err := s.NoteRepo.CountByTenant(tenantID)
	if err != nil {
		log.Errorf("failed to count tenant notes: %v", err)
		return nil, apierror.InternalServerError
	}

	private, err := s.NoteRepo.CountPrivateByTenant(tenantID)
	if err != nil {
		log.Errorf("failed to count tenant private notes: %v", err)
		return nil, apierror.InternalServerError
	}

	return &contract.UsageSummary{
		Users:        users,
		Notes:        notes,
		PrivateNotes: private,
	}, nil
}

func (s *SubscriptionService) tagUsage(tenantID string) (*contract.TagUsage, apierror.ErrorResponse) {
	notes, err := s.NoteRepo.FindAllByTenant(tenantID)
	if err != nil {
		log.Errorf("failed to fetch tenant notes for tag usage: %v", err)
		return nil, apierror.InternalServerError
	}

	total := 0
	counts := map[string]int{}
	for _, note := range notes {
		for _, tag := range splitTags(note.Tags) {
			counts[tag]++
			total++
		}
	}

	popular := make([]*contract.TagCount, 0, len(counts))
	for tag, count := range counts {
		popular = append(popular, &contract.TagCount{Tag: tag, Count: count})
	}
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].Count != popular[j].Count {
			return popular[i].Count > popular[j].Count
		}
		return popular[i].Tag < popular[j].Tag
	})

	if len(popular) > 10 {
		popular = popular[:10]
	}

	return &contract.TagUsage{
		Unique:  len(counts),
		Total:   total,
		Popular: popular,
	}, nil
}

func nearLimit(limit int, current int64) bool {
	return limit > 0 && float64(current) >= float64(limit)*nearLimitRatio
}

func planFeatures(tier entity.Tier) *contract.PlanFeatures {
	limits := tier.Limits()

	return &contract.PlanFeatures{
		Notes:        formatCountLimit(limits.MaxNotes),
		PrivateNotes: formatCountLimit(limits.MaxPrivateNotes),
		TagsPerNote:  fmt.Sprintf("Up to %d", limits.MaxTagsPerNote),
		TeamInvites:  formatBool(limits.CanInviteUsers),
		APIAccess:    fmt.Sprintf("%d requests/min", limits.APIRateLimit),
	}
}

func toPlanLimits(limits entity.PlanLimits) *contract.PlanLimits {
	return &contract.PlanLimits{
		MaxNotes:        limits.MaxNotes,
		MaxPrivateNotes: limits.MaxPrivateNotes,
		MaxTagsPerNote:  limits.MaxTagsPerNote,
		CanInviteUsers:  limits.CanInviteUsers,
		APIRateLimit:    limits.APIRateLimit,
	}
}

func formatCountLimit(limit int) string {
	switch limit {
	case entity.Unlimited:
		return "Unlimited"
	case 0:
		return "None"
	default:
		return fmt.Sprintf("Up to %d", limit)
	}
}

func formatBool(allowed bool) string {
	if allowed {
		return "Yes"
	}
	return "No"
}
