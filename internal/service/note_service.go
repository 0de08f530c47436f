package service

import (
	"slices"
	"strings"

	"tenantnotes/internal/contract"
	"tenantnotes/internal/domain/entity"
	"tenantnotes/internal/domain/policy"
	"tenantnotes/internal/utils"
	"tenantnotes/internal/utils/apierror"
	"tenantnotes/internal/utils/uid"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type NoteRepository interface {
	FindByID(tenantID string, id int64) (*entity.Note, error)
	FindByOwner(tenantID, userID, search string) ([]*entity.Note, error)
	FindAllByTenant(tenantID string) ([]*entity.Note, error)
	CountByTenant(tenantID string) (int64, error)
	CountPrivateByTenant(tenantID string) (int64, error)
	CountByOwner(tenantID, userID string) (int64, error)
	CountPrivateByOwner(tenantID, userID string) (int64, error)
	Save(note *entity.Note) error
	Delete(note *entity.Note) error
	DeleteOwned(tenantID, userID string, ids []int64) (int64, error)
}

type DefaultNoteService struct {
	NoteRepo   NoteRepository
	Validate   *validator.Validate
	NotePolicy *policy.NotePolicy
	PlanPolicy *policy.PlanPolicy
}

func NewNoteService(
	noteRepo NoteRepository,
	validate *validator.Validate,
	notePolicy *policy.NotePolicy,
	planPolicy *policy.PlanPolicy,
) *DefaultNoteService {
	return &DefaultNoteService{
		NoteRepo:   noteRepo,
		Validate:   validate,
		NotePolicy: notePolicy,
		PlanPolicy: planPolicy,
	}
}

// GetNotes lists the actor's own notes with search, tag filtering and
// pagination.
func (n *DefaultNoteService) GetNotes(actor *entity.User, query *contract.NoteListQuery) (*contract.NoteListResponse, apierror.ErrorResponse) {
	notes, err := n.NoteRepo.FindByOwner(actor.TenantID, actor.ID, query.Search)
	if err != nil {
		log.Errorf("failed to fetch notes: %v", err)
		return nil, apierror.InternalServerError
	}

	if len(query.Tags) > 0 {
		notes = filterByTags(notes, query.Tags)
	}

	total := len(notes)
	totalPages := (total + query.Limit - 1) / query.Limit

	start := (query.Page - 1) * query.Limit
	if start > total {
		start = total
	}
	end := min(start+query.Limit, total)

	resp := make([]*contract.NoteResponse, 0, end-start)
	for _, note := range notes[start:end] {
		resp = append(resp, toNoteResponse(note))
	}

	return &contract.NoteListResponse{
		Notes: resp,
		Pagination: &contract.Pagination{
			Page:       query.Page,
			Limit:      query.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

func (n *DefaultNoteService) GetNote(actor *entity.User, noteID int64) (*contract.NoteResponse, apierror.ErrorResponse) {
	note, err := n.NoteRepo.FindByID(actor.TenantID, noteID)
	if err != nil {
		log.Errorf("failed to fetch note: %v", err)
		return nil, apierror.InternalServerError
	}

	if perr := n.NotePolicy.CanSee(note, actor); perr != nil {
		return nil, perr
	}
	return toNoteResponse(note), nil
}

func (n *DefaultNoteService) CreateNote(actor *entity.User, req *contract.CreateNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	limits := actor.Subscription.Limits()

	count, err := n.NoteRepo.CountByTenant(actor.TenantID)
	if err != nil {
		log.Errorf("failed to count tenant notes: %v", err)
		return nil, apierror.InternalServerError
	}
	if !entity.CheckLimit(limits.MaxNotes, int(count)) {
		return nil, apierror.NewLimitReachedError("notes", limits.MaxNotes)
	}

	if len(req.Tags) > limits.MaxTagsPerNote {
		return nil, apierror.NewLimitReachedError("tags per note", limits.MaxTagsPerNote)
	}

	if req.IsPrivate {
		if perr := n.checkPrivateHeadroom(actor); perr != nil {
			return nil, perr
		}
	}

	now := utils.NowUTC()
	note := &entity.Note{
		ID:        uid.Generate(),
		Title:     req.Title,
		Content:   req.Content,
		UserID:    actor.ID,
		TenantID:  actor.TenantID,
		Tags:      joinTags(req.Tags),
		IsPrivate: req.IsPrivate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := n.NoteRepo.Save(note); err != nil {
		log.Errorf("failed to save note: %v", err)
		return nil, apierror.InternalServerError
	}
	return toNoteResponse(note), nil
}

func (n *DefaultNoteService) UpdateNote(actor *entity.User, noteID int64, req *contract.UpdateNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	note, err := n.NoteRepo.FindByID(actor.TenantID, noteID)
	if err != nil {
		log.Errorf("failed to fetch note: %v", err)
		return nil, apierror.InternalServerError
	}

	if perr := n.NotePolicy.CanMutate(note, actor); perr != nil {
		return nil, perr
	}

	limits := actor.Subscription.Limits()
	if req.Tags != nil && len(req.Tags) > limits.MaxTagsPerNote {
		return nil, apierror.NewLimitReachedError("tags per note", limits.MaxTagsPerNote)
	}

	// Flipping the private flag ON is the gated transition; leaving an
	// already-private note private survives a downgrade.
	if req.IsPrivate != nil && *req.IsPrivate && !note.IsPrivate {
		if perr := n.checkPrivateHeadroom(actor); perr != nil {
			return nil, perr
		}
	}

	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Content != nil {
		note.Content = *req.Content
	}
	if req.Tags != nil {
		note.Tags = joinTags(req.Tags)
	}
	if req.IsPrivate != nil {
		note.IsPrivate = *req.IsPrivate
	}

	note.UpdatedAt = utils.NowUTC()
	if err := n.NoteRepo.Save(note); err != nil {
		log.Errorf("failed to update note: %v", err)
		return nil, apierror.InternalServerError
	}
	return toNoteResponse(note), nil
}

func (n *DefaultNoteService) DeleteNote(actor *entity.User, noteID int64) apierror.ErrorResponse {
	note, err := n.NoteRepo.FindByID(actor.TenantID, noteID)
	if err != nil {
		log.Errorf("failed to fetch note: %v", err)
		return apierror.InternalServerError
	}

	if perr := n.NotePolicy.CanMutate(note, actor); perr != nil {
		return perr
	}

	if err := n.NoteRepo.Delete(note); err != nil {
		log.Errorf("failed to delete note: %v", err)
		return apierror.InternalServerError
	}
	return nil
}

// BulkDelete removes the owned, tenant-matching subset of the given
// ids and reports that count. Ids outside the subset are ignored, not
// errors.
func (n *DefaultNoteService) BulkDelete(actor *entity.User, req *contract.BulkDeleteRequest) (*contract.BulkDeleteResponse, apierror.ErrorResponse) {
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	deleted, err := n.NoteRepo.DeleteOwned(actor.TenantID, actor.ID, req.NoteIDs)
	if err != nil {
		log.Errorf("failed to bulk delete notes: %v", err)
		return nil, apierror.InternalServerError
	}

	if deleted == 0 {
		return nil, apierror.NotFoundError
	}
	return &contract.BulkDeleteResponse{DeletedCount: deleted}, nil
}

func (n *DefaultNoteService) checkPrivateHeadroom(actor *entity.User) apierror.ErrorResponse {
	if perr := n.PlanPolicy.RequirePro(actor); perr != nil {
		return perr
	}

	limits := actor.Subscription.Limits()
	count, err := n.NoteRepo.CountPrivateByTenant(actor.TenantID)
	if err != nil {
		log.Errorf("failed to count private notes: %v", err)
		return apierror.InternalServerError
	}

	if !entity.CheckLimit(limits.MaxPrivateNotes, int(count)) {
		return apierror.NewLimitReachedError("private notes", limits.MaxPrivateNotes)
	}
	return nil
}

func filterByTags(notes []*entity.Note, wanted []string) []*entity.Note {
	filtered := make([]*entity.Note, 0, len(notes))
	for _, note := range notes {
		noteTags := splitTags(note.Tags)
		for _, tag := range wanted {
			if slices.Contains(noteTags, strings.ToLower(tag)) {
				filtered = append(filtered, note)
				break
			}
		}
	}
	return filtered
}

func joinTags(tags []string) string {
	return strings.ToLower(strings.Join(tags, " "))
}

func splitTags(tags string) []string {
	if len(tags) == 0 {
		return []string{}
	}
	return strings.Split(tags, " ")
}

func toNoteResponse(note *entity.Note) *contract.NoteResponse {
	return &contract.NoteResponse{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		UserID:    note.UserID,
		TenantID:  note.TenantID,
		Tags:      splitTags(note.Tags),
		IsPrivate: note.IsPrivate,
		CreatedAt: utils.FormatEpoch(note.CreatedAt),
		UpdatedAt: utils.FormatEpoch(note.UpdatedAt),
	}
}
