package contract

type UpdatePlanRequest struct {
	Plan string `json:"plan" validate:"required,oneof=free pro"`
}

// PlanLimits mirrors the tier's limit table on the wire. -1 means
// unlimited.
type PlanLimits struct {
	MaxNotes        int  `json:"maxNotes"`
	MaxPrivateNotes int  `json:"maxPrivateNotes"`
	MaxTagsPerNote  int  `json:"maxTagsPerNote"`
	CanInviteUsers  bool `json:"canInviteUsers"`
	APIRateLimit    int  `json:"apiRateLimit"`
}

// PlanFeatures is the purely presentational rendering of the limits.
type PlanFeatures struct {
	Notes        string `json:"notes"`
	PrivateNotes string `json:"privateNotes"`
	TagsPerNote  string `json:"tagsPerNote"`
	TeamInvites  string `json:"teamInvites"`
	APIAccess    string `json:"apiAccess"`
}

type UsageSummary struct {
	Users        int64 `json:"users"`
	Notes        int64 `json:"notes"`
	PrivateNotes int64 `json:"privateNotes"`
}

type SubscriptionResponse struct {
	Subscription string          `json:"subscription"`
	Features     *PlanFeatures   `json:"features"`
	Limits       *PlanLimits     `json:"limits"`
	Usage        *UsageSummary   `json:"usage,omitempty"`
	Tenant       *TenantResponse `json:"tenant,omitempty"`
	Message      string          `json:"message,omitempty"`
}

type UsageMetric struct {
	Current int64 `json:"current"`
	Limit   int   `json:"limit"`
}

type ScopeUsage struct {
	Users        *UsageMetric `json:"users,omitempty"`
	Notes        UsageMetric  `json:"notes"`
	PrivateNotes UsageMetric  `json:"privateNotes"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type TagUsage struct {
	Unique  int         `json:"unique"`
	Total   int         `json:"total"`
	Popular []*TagCount `json:"popular"`
}

type UsageBreakdown struct {
	Tenant ScopeUsage `json:"tenant"`
	User   ScopeUsage `json:"user"`
	Tags   TagUsage   `json:"tags"`
}

type UsageWarnings struct {
	NearNoteLimit        bool `json:"nearNoteLimit"`
	NearPrivateNoteLimit bool `json:"nearPrivateNoteLimit"`
}

type UsageResponse struct {
	Subscription string         `json:"subscription"`
	Limits       *PlanLimits    `json:"limits"`
	Usage        UsageBreakdown `json:"usage"`
	Warnings     UsageWarnings  `json:"warnings"`
}
