package policy

import (
	"tenantnotes/internal/domain/entity"
	"tenantnotes/internal/utils/apierror"
)

// UserPolicy encapsulates role preconditions.
// It returns apierror.ErrorResponse directly for seamless integration with handlers.
type UserPolicy struct{}

func NewUserPolicy() *UserPolicy {
	return &UserPolicy{}
}

func (p *UserPolicy) RequireAdmin(actor *entity.User) apierror.ErrorResponse {
	if !actor.IsAdmin() {
		return apierror.AdminRequiredError
	}
	return nil
}
