package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"travelagency/internal/domain"
	"travelagency/internal/domain/models"
	"travelagency/internal/utils"
)

const (
	TokenTTL          = 7 * 24 * time.Hour
	minPasswordLength = 6
)

// Claims is the JWT payload carried in the token cookie.
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	Accounts  AccountStore
	Secret    []byte
	RequestID string
}

// RegisterInput is the agent self-registration form.
type RegisterInput struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobileNumber"`
	CompanyName  string `json:"companyName"`
	State        string `json:"state"`
	Password     string `json:"password"`
}

func (in RegisterInput) validate() error {
	var errs domain.ValidationErrors
	if strings.TrimSpace(in.FullName) == "" {
		errs = append(errs, domain.ValidationError{Field: "fullName", Msg: "is required"})
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(in.Email)); err != nil {
		errs = append(errs, domain.ValidationError{Field: "email", Msg: "must be a valid email"})
	}
	if strings.TrimSpace(in.MobileNumber) == "" {
		errs = append(errs, domain.ValidationError{Field: "mobileNumber", Msg: "is required"})
	}
	if len(in.Password) < minPasswordLength {
		errs = append(errs, domain.ValidationError{Field: "password", Msg: "must be at least 6 characters"})
	}
	return errs.OrNil()
}

// Register creates a pending agent account.
func (s AuthService) Register(ctx context.Context, in RegisterInput) (models.Agent, error) {
	if err := in.validate(); err != nil {
		return models.Agent{}, err
	}
	email := utils.NormalizeEmail(in.Email)

	_, exists, err := s.Accounts.FindAgentByEmail(ctx, email)
	if err != nil {
		utils.LogError(s.RequestID, "auth", "register", err)
		return models.Agent{}, domain.InternalError{Err: err}
	}
	if exists {
		return models.Agent{}, domain.ConflictError{Resource: "agent", Msg: "email already registered"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Agent{}, domain.InternalError{Err: err}
	}
	now := utils.NowUTC()
	agent := models.Agent{
		ID:           uuid.NewString(),
		FullName:     utils.NormalizeSpace(in.FullName),
		Email:        email,
		MobileNumber: strings.TrimSpace(in.MobileNumber),
		CompanyName:  utils.NormalizeSpace(in.CompanyName),
		State:        utils.NormalizeSpace(in.State),
		PasswordHash: string(hash),
		Approval:     models.ApprovalPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Accounts.InsertAgent(ctx, agent); err != nil {
		utils.LogError(s.RequestID, "auth", "register", err)
		return models.Agent{}, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "register", "agent "+agent.ID+" registered")
	return agent, nil
}

var errBadCredentials = domain.UnauthorizedError{Msg: "invalid email or password"}

// Login checks admins first, then agents, and returns a signed token.
func (s AuthService) Login(ctx context.Context, email, password string) (string, models.Principal, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", models.Principal{}, errBadCredentials
	}

	admin, found, err := s.Accounts.FindAdminByEmail(ctx, email)
	if err != nil {
		utils.LogError(s.RequestID, "auth", "login", err)
		return "", models.Principal{}, domain.InternalError{Err: err}
	}
	if found {
		if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
			return "", models.Principal{}, errBadCredentials
		}
		return s.issue(models.AdminPrincipal(admin))
	}

	agent, found, err := s.Accounts.FindAgentByEmail(ctx, email)
	if err != nil {
		utils.LogError(s.RequestID, "auth", "login", err)
		return "", models.Principal{}, domain.InternalError{Err: err}
	}
	if !found || bcrypt.CompareHashAndPassword([]byte(agent.PasswordHash), []byte(password)) != nil {
		return "", models.Principal{}, errBadCredentials
	}
	if agent.Approval != models.ApprovalApproved {
		return "", models.Principal{}, domain.ForbiddenError{Msg: "account is " + string(agent.Approval) + " approval"}
	}
	return s.issue(models.AgentPrincipal(agent))
}

func (s AuthService) issue(p models.Principal) (string, models.Principal, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: p.ID,
		Role:   p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", models.Principal{}, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "login", p.Role+" "+p.ID+" signed in")
	return signed, p, nil
}

// Authenticate validates a token and reloads the account it names.
func (s AuthService) Authenticate(ctx context.Context, raw string) (models.Principal, error) {
	if strings.TrimSpace(raw) == "" {
		return models.Principal{}, domain.UnauthorizedError{Msg: "authentication required"}
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Principal{}, domain.UnauthorizedError{Msg: "session expired", Err: err}
		}
		return models.Principal{}, domain.UnauthorizedError{Msg: "invalid token", Err: err}
	}

	if claims.Role == models.RoleAdmin || claims.Role == models.RoleSuperAdmin {
		admin, found, err := s.Accounts.FindAdminByID(ctx, claims.UserID)
		if err != nil {
			return models.Principal{}, domain.InternalError{Err: err}
		}
		if !found {
			return models.Principal{}, domain.UnauthorizedError{Msg: "account not found"}
		}
		return models.AdminPrincipal(admin), nil
	}

	agent, found, err := s.Accounts.FindAgentByID(ctx, claims.UserID)
	if err != nil {
		return models.Principal{}, domain.InternalError{Err: err}
	}
	if !found {
		return models.Principal{}, domain.UnauthorizedError{Msg: "account not found"}
	}
	if agent.Approval != models.ApprovalApproved {
		return models.Principal{}, domain.ForbiddenError{Msg: "account is not approved"}
	}
	return models.AgentPrincipal(agent), nil
}

// AgentList is the admin agent table with approval counts.
type AgentList struct {
	Agents     []models.Agent     `json:"agents"`
	Counts     models.AgentCounts `json:"counts"`
	Pagination domain.Pagination  `json:"pagination"`
}

func (s AuthService) ListAgents(ctx context.Context, q models.AgentQuery) (AgentList, error) {
	if q.Approval != "" && !q.Approval.IsValid() {
		return AgentList{}, domain.ValidationError{Field: "status", Msg: "must be pending, approved or rejected"}
	}
	page := domain.PageRequest{Page: q.Page, Limit: q.Limit}.Normalize(domain.DefaultPageSize)
	q.Page, q.Limit = page.Page, page.Limit

	agents, total, err := s.Accounts.ListAgents(ctx, q)
	if err != nil {
		utils.LogError(s.RequestID, "auth", "list_agents", err)
		return AgentList{}, domain.InternalError{Err: err}
	}
	counts, err := s.Accounts.CountAgents(ctx)
	if err != nil {
		utils.LogError(s.RequestID, "auth", "count_agents", err)
		return AgentList{}, domain.InternalError{Err: err}
	}
	return AgentList{Agents: agents, Counts: counts, Pagination: domain.NewPagination(total, page)}, nil
}

// SetApproval approves or rejects an agent.
func (s AuthService) SetApproval(ctx context.Context, id string, status models.ApprovalStatus) (models.Agent, error) {
	if status != models.ApprovalApproved && status != models.ApprovalRejected {
		return models.Agent{}, domain.ValidationError{Field: "status", Msg: "must be approved or rejected"}
	}
	ok, err := s.Accounts.SetAgentApproval(ctx, id, status, utils.NowUTC())
	if err != nil {
		utils.LogError(s.RequestID, "auth", "approval", err)
		return models.Agent{}, domain.InternalError{Err: err}
	}
	if !ok {
		return models.Agent{}, domain.NotFoundError{Resource: "agent"}
	}
	agent, _, err := s.Accounts.FindAgentByID(ctx, id)
	if err != nil {
		return models.Agent{}, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "approval", "agent "+id+" "+string(status))
	return agent, nil
}

// EnsureAdmin seeds a Super Admin account when none exists for email.
func (s AuthService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}
	_, found, err := s.Accounts.FindAdminByEmail(ctx, email)
	if err != nil {
		return err
	}
	if found {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}
	admin := models.Admin{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleSuperAdmin,
		CreatedAt:    utils.NowUTC(),
	}
	if err := s.Accounts.InsertAdmin(ctx, admin); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "auth", "seed_admin", "admin "+email+" created")
	return nil
}
