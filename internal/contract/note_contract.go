package contract

type NoteResponse struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	UserID    string   `json:"userId"`
	TenantID  string   `json:"tenantId"`
	Tags      []string `json:"tags"`
	IsPrivate bool     `json:"isPrivate"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

// Per-note tag count is a plan limit, not a validation rule, so the
// tag tags here only bound the universe, not the tier ceiling.
type CreateNoteRequest struct {
	Title     string   `json:"title" validate:"required,min=1,max=200"`
	Content   string   `json:"content" validate:"required,max=100000"`
	Tags      []string `json:"tags" validate:"omitempty,max=50,nodupes,dive,required,min=1,max=30,nospaces"`
	IsPrivate bool     `json:"isPrivate"`
}

type UpdateNoteRequest struct {
	Title     *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Content   *string  `json:"content" validate:"omitempty,max=100000"`
	Tags      []string `json:"tags" validate:"omitempty,max=50,nodupes,dive,required,min=1,max=30,nospaces"`
	IsPrivate *bool    `json:"isPrivate"`
}

type BulkDeleteRequest struct {
	NoteIDs []int64 `json:"noteIds" validate:"required,min=1,max=100"`
}

type BulkDeleteResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type NoteListResponse struct {
	Notes      []*NoteResponse `json:"notes"`
	Pagination *Pagination     `json:"pagination"`
}

// NoteListQuery carries the (already parsed) list parameters.
type NoteListQuery struct {
	Page   int
	Limit  int
	Search string
	Tags   []string
}
