package contract

type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=64,hasupper,haslower,hasdigit,hasspecial"`
	TenantName string `json:"tenantName" validate:"required,min=2,max=80"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

// InviteRequest creates a user inside the admin's own tenant. The
// tenant is never taken from the body.
type InviteRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64,hasupper,haslower,hasdigit,hasspecial"`
	Role     string `json:"role" validate:"omitempty,oneof=admin member"`
}

type UserResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TenantID     string `json:"tenantId"`
	Subscription string `json:"subscription"`
	CreatedAt    string `json:"createdAt,omitempty"`
}

type TenantResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Subscription string `json:"subscription,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
}

type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

type MeResponse struct {
	User   *UserResponse   `json:"user"`
	Tenant *TenantResponse `json:"tenant"`
}
