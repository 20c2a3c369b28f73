package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ro-recruiting/back-office-api/internal/models"
	appErrors "github.com/ro-recruiting/back-office-api/pkg/errors"
	"github.com/ro-recruiting/back-office-api/pkg/fieldcrypt"
	"github.com/ro-recruiting/back-office-api/pkg/sanitize"
)

type candidateRepository interface {
	List(ctx context.Context, filter models.CandidateFilter) ([]models.Candidate, int, error)
	FindByID(ctx context.Context, id string) (*models.Candidate, error)
	Create(ctx context.Context, candidate *models.Candidate) error
	Update(ctx context.Context, candidate *models.Candidate) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

type candidateLinkGuard interface {
	FindActiveByCandidate(ctx context.Context, candidateID string) (*models.CandidateOpeningLink, error)
}

// CreateCandidateRequest holds payload for registering a candidate.
type CreateCandidateRequest struct {
	FullName     string          `json:"full_name" validate:"required,max=100"`
	BirthDate    *time.Time      `json:"birth_date,omitempty"`
	NationalID   *string         `json:"national_id,omitempty"`
	IDDocument   *string         `json:"id_document,omitempty"`
	Email        *string         `json:"email,omitempty"`
	Phone        *string         `json:"phone,omitempty"`
	Whatsapp     *string         `json:"whatsapp,omitempty"`
	Address      *string         `json:"address,omitempty"`
	StreetNumber *string         `json:"street_number,omitempty"`
	AddressExtra *string         `json:"address_extra,omitempty"`
	District     *string         `json:"district,omitempty"`
	City         *string         `json:"city,omitempty"`
	RoleType     string          `json:"role_type" validate:"required"`
	Profile      *json.RawMessage `json:"profile,omitempty"`
}

// UpdateCandidateRequest mirrors the create payload plus the status field.
type UpdateCandidateRequest struct {
	CreateCandidateRequest
	Status string `json:"status" validate:"required"`
}

// CandidateService handles candidate use-cases. PII fields are encrypted on
// the way in and decrypted on the way out.
type CandidateService struct {
	repo      candidateRepository
	links     candidateLinkGuard
	cipher    *fieldcrypt.Cipher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCandidateService constructs the candidate service.
func NewCandidateService(repo candidateRepository, links candidateLinkGuard, cipher *fieldcrypt.Cipher, validate *validator.Validate, logger *zap.Logger) *CandidateService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CandidateService{repo: repo, links: links, cipher: cipher, validator: validate, logger: logger}
}

// List returns decrypted candidates and pagination metadata. The search term
// goes through the sanitizer before it reaches the query.
func (s *CandidateService) List(ctx context.Context, filter models.CandidateFilter) ([]models.Candidate, *models.Pagination, error) {
	filter.Search = sanitize.SearchTerm(filter.Search)
	candidates, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list candidates")
	}
	for i := range candidates {
		s.decrypt(&candidates[i])
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return candidates, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one decrypted candidate.
func (s *CandidateService) Get(ctx context.Context, id string) (*models.Candidate, error) {
	if ok, msg := sanitize.ValidateUUID(id, "candidate id"); !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, msg)
	}
	candidate, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "candidate not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load candidate")
	}
	s.decrypt(candidate)
	return candidate, nil
}

// Create registers a new candidate as available.
func (s *CandidateService) Create(ctx context.Context, req CreateCandidateRequest) (*models.Candidate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid candidate payload")
	}
	name := sanitize.PersonName(req.FullName)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "full_name contains no valid characters")
	}
	if req.Email != nil {
		ok, cleaned := sanitize.Email(*req.Email)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "email is not a valid address")
		}
		req.Email = &cleaned
	}

	candidate := &models.Candidate{
		FullName:     name,
		BirthDate:    req.BirthDate,
		NationalID:   req.NationalID,
		IDDocument:   req.IDDocument,
		Email:        req.Email,
		Phone:        req.Phone,
		Whatsapp:     req.Whatsapp,
		Address:      req.Address,
		StreetNumber: req.StreetNumber,
		AddressExtra: req.AddressExtra,
		District:     req.District,
		City:         req.City,
		RoleType:     req.RoleType,
		Status:       models.CandidateStatusAvailable,
		Profile:      req.Profile,
	}
	if err := s.encrypt(candidate); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to protect candidate data")
	}
	if err := s.repo.Create(ctx, candidate); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create candidate")
	}
	s.decrypt(candidate)
	return candidate, nil
}

// Update modifies an existing candidate.
func (s *CandidateService) Update(ctx context.Context, id string, req UpdateCandidateRequest) (*models.Candidate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid candidate payload")
	}
	if ok, msg := sanitize.ValidateEnum(req.Status, models.CandidateStatuses, "status"); !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, msg)
	}
	candidate, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name := sanitize.PersonName(req.FullName)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "full_name contains no valid characters")
	}

	candidate.FullName = name
	candidate.BirthDate = req.BirthDate
	candidate.NationalID = req.NationalID
	candidate.IDDocument = req.IDDocument
	candidate.Email = req.Email
	candidate.Phone = req.Phone
	candidate.Whatsapp = req.Whatsapp
	candidate.Address = req.Address
	candidate.StreetNumber = req.StreetNumber
	candidate.AddressExtra = req.AddressExtra
	candidate.District = req.District
	candidate.City = req.City
	candidate.RoleType = req.RoleType
	candidate.Status = req.Status
	candidate.Profile = req.Profile

	if err := s.encrypt(candidate); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to protect candidate data")
	}
	if err := s.repo.Update(ctx, candidate); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update candidate")
	}
	s.decrypt(candidate)
	return candidate, nil
}

// Delete removes a candidate. A candidate in an active process cannot be
// deleted; the process has to be closed first.
func (s *CandidateService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	active, err := s.links.FindActiveByCandidate(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check candidate processes")
	}
	if active != nil {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "candidate is in an active process")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete candidate")
	}
	return nil
}

// WhatsAppLink formats a stored number into a wa.me link, or "" when no
// usable number exists.
func WhatsAppLink(candidate *models.Candidate) string {
	number := ""
	if candidate.Whatsapp != nil {
		number = sanitize.Phone(*candidate.Whatsapp)
	}
	if number == "" && candidate.Phone != nil {
		number = sanitize.Phone(*candidate.Phone)
	}
	if number == "" {
		return ""
	}
	if !strings.HasPrefix(number, "55") {
		number = "55" + number
	}
	return "https://wa.me/" + number
}

func (s *CandidateService) encrypt(candidate *models.Candidate) error {
	fields := []**string{
		&candidate.NationalID, &candidate.IDDocument, &candidate.Email, &candidate.Phone,
		&candidate.Whatsapp, &candidate.Address, &candidate.StreetNumber, &candidate.AddressExtra,
		&candidate.District,
	}
	for _, field := range fields {
		sealed, err := s.cipher.EncryptPtr(*field)
		if err != nil {
			return err
		}
		*field = sealed
	}
	return nil
}

func (s *CandidateService) decrypt(candidate *models.Candidate) {
	candidate.NationalID = s.cipher.DecryptPtr(candidate.NationalID)
	candidate.IDDocument = s.cipher.DecryptPtr(candidate.IDDocument)
	candidate.Email = s.cipher.DecryptPtr(candidate.Email)
	candidate.Phone = s.cipher.DecryptPtr(candidate.Phone)
	candidate.Whatsapp = s.cipher.DecryptPtr(candidate.Whatsapp)
	candidate.Address = s.cipher.DecryptPtr(candidate.Address)
	candidate.StreetNumber = s.cipher.DecryptPtr(candidate.StreetNumber)
	candidate.AddressExtra = s.cipher.DecryptPtr(candidate.AddressExtra)
	candidate.District = s.cipher.DecryptPtr(candidate.District)
}
