package policy

import (
	"tenantnotes/internal/domain/entity"
	"tenantnotes/internal/utils/apierror"
)

// PlanPolicy encapsulates subscription-tier preconditions. Checks run
// against the user row loaded for the current request, not the token
// snapshot, so a downgrade takes effect on the next request.
type PlanPolicy struct{}

func NewPlanPolicy() *PlanPolicy {
	return &PlanPolicy{}
}

func (p *PlanPolicy) RequirePro(actor *entity.User) apierror.ErrorResponse {
	if actor.Subscription != entity.TierPro {
		return apierror.ProRequiredError
	}
	return nil
}

func (p *PlanPolicy) CanInvite(actor *entity.User) apierror.ErrorResponse {
	if !actor.Subscription.Limits().CanInviteUsers {
		return apierror.InviteNotAllowedError
	}
	return nil
}
