package models

import "time"

const (
	RoleAgent      = "Agent"
	RoleAdmin      = "Admin"
	RoleSuperAdmin = "Super Admin"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

func (a ApprovalStatus) IsValid() bool {
	return a == ApprovalPending || a == ApprovalApproved || a == ApprovalRejected
}

// Agent is a registered travel agent. PasswordHash never leaves the server.
type Agent struct {
	ID           string         `json:"id" bson:"_id"`
	FullName     string         `json:"fullName" bson:"fullName"`
	Email        string         `json:"email" bson:"email"`
	MobileNumber string         `json:"mobileNumber" bson:"mobileNumber"`
	CompanyName  string         `json:"companyName,omitempty" bson:"companyName,omitempty"`
	State        string         `json:"state,omitempty" bson:"state,omitempty"`
	PasswordHash string         `json:"-" bson:"password"`
	Approval     ApprovalStatus `json:"isApproved" bson:"isApproved"`
	CreatedAt    time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// Admin is a dashboard user (Admin or Super Admin).
type Admin struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password"`
	Role         string    `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// Principal is the authenticated caller attached to a request.
type Principal struct {
	ID      string  `json:"id"`
	Role    string  `json:"role"`
	Name    string  `json:"fullName"`
	Email   string  `json:"email"`
	Contact Contact `json:"-"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin || p.Role == RoleSuperAdmin
}

func (p Principal) IsAgent() bool {
	return p.Role == RoleAgent
}

func AgentPrincipal(a Agent) Principal {
	return Principal{
		ID:    a.ID,
		Role:  RoleAgent,
		Name:  a.FullName,
		Email: a.Email,
		Contact: Contact{
			Name:         a.FullName,
			Email:        a.Email,
			MobileNumber: a.MobileNumber,
			State:        a.State,
		},
	}
}

func AdminPrincipal(a Admin) Principal {
	return Principal{
		ID:      a.ID,
		Role:    a.Role,
		Name:    a.Name,
		Email:   a.Email,
		Contact: Contact{Name: a.Name, Email: a.Email},
	}
}

type AgentQuery struct {
	Approval ApprovalStatus
	Page     int
	Limit    int
}

type AgentCounts struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}
