package policy

import (
	"tenantnotes/internal/domain/entity"
	"tenantnotes/internal/utils/apierror"
)

// NotePolicy encapsulates all business rules for note access.
// It returns apierror.ErrorResponse directly for seamless integration with handlers.
//
// Tenant isolation is not checked here: repositories only ever return
// notes from the caller's tenant, so a cross-tenant id surfaces as a
// nil note and maps to NotFound.
type NotePolicy struct{}

func NewNotePolicy() *NotePolicy {
	return &NotePolicy{}
}

func (p *NotePolicy) CanSee(note *entity.Note, actor *entity.User) apierror.ErrorResponse {
	if note == nil {
		return apierror.NotFoundError
	}

	if note.IsPrivate && !note.OwnedBy(actor) {
		return apierror.AccessDeniedError
	}
	return nil
}

// CanMutate layers the ownership check on top of visibility: members
// may read tenant notes but mutate only their own.
func (p *NotePolicy) CanMutate(note *entity.Note, actor *entity.User) apierror.ErrorResponse {
	if err := p.CanSee(note, actor); err != nil {
		return err
	}

	if !note.OwnedBy(actor) {
		return apierror.AccessDeniedError
	}
	return nil
}
