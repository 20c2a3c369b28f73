package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ro-recruiting/back-office-api/internal/models"
	appErrors "github.com/ro-recruiting/back-office-api/pkg/errors"
	"github.com/ro-recruiting/back-office-api/pkg/fieldcrypt"
	"github.com/ro-recruiting/back-office-api/pkg/sanitize"
)

type openingRepository interface {
	List(ctx context.Context, filter models.OpeningFilter) ([]models.JobOpening, int, error)
	FindByID(ctx context.Context, id string) (*models.JobOpening, error)
	Create(ctx context.Context, opening *models.JobOpening) error
	Update(ctx context.Context, opening *models.JobOpening) error
	UpdateStatus(ctx context.Context, id, detailed string, filledAt *time.Time) error
	Delete(ctx context.Context, id string) error
	AddNote(ctx context.Context, note *models.OpeningNote) error
	ListNotes(ctx context.Context, openingID string) ([]models.OpeningNote, error)
	DeleteNotes(ctx context.Context, openingID string) error
}

type openingLinkGuard interface {
	CountActiveByOpening(ctx context.Context, openingID string) (int, error)
}

// CreateOpeningRequest holds payload for registering an opening.
type CreateOpeningRequest struct {
	Title       string  `json:"title" validate:"required,max=150"`
	RoleType    string  `json:"role_type" validate:"required"`
	Description *string `json:"description,omitempty"`
	City        *string `json:"city,omitempty"`
	District    *string `json:"district,omitempty"`
	Salary      *string `json:"salary,omitempty"`
	Workload    *string `json:"workload,omitempty"`
	ClientName  *string `json:"client_name,omitempty"`
	ClientEmail *string `json:"client_email,omitempty"`
	ClientPhone *string `json:"client_phone,omitempty"`
	Urgent      bool    `json:"urgent"`
}

// UpdateOpeningRequest mirrors the create payload.
type UpdateOpeningRequest = CreateOpeningRequest

// AddNoteRequest holds payload for annotating an opening.
type AddNoteRequest struct {
	Category string `json:"category"`
	Body     string `json:"body" validate:"required"`
	Author   string `json:"author" validate:"required"`
}

// OpeningService handles job opening use-cases, including the detailed to
// coarse status mirror and append-only notes.
type OpeningService struct {
	repo      openingRepository
	links     openingLinkGuard
	cipher    *fieldcrypt.Cipher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewOpeningService constructs the opening service.
func NewOpeningService(repo openingRepository, links openingLinkGuard, cipher *fieldcrypt.Cipher, validate *validator.Validate, logger *zap.Logger) *OpeningService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpeningService{repo: repo, links: links, cipher: cipher, validator: validate, logger: logger}
}

// List returns decrypted openings and pagination metadata.
func (s *OpeningService) List(ctx context.Context, filter models.OpeningFilter) ([]models.JobOpening, *models.Pagination, error) {
	filter.Search = sanitize.SearchTerm(filter.Search)
	openings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list openings")
	}
	for i := range openings {
		s.decrypt(&openings[i])
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return openings, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one decrypted opening.
func (s *OpeningService) Get(ctx context.Context, id string) (*models.JobOpening, error) {
	if ok, msg := sanitize.ValidateUUID(id, "opening id"); !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, msg)
	}
	opening, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "opening not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load opening")
	}
	s.decrypt(opening)
	return opening, nil
}

// Create registers a new active opening.
func (s *OpeningService) Create(ctx context.Context, req CreateOpeningRequest) (*models.JobOpening, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid opening payload")
	}
	if req.ClientEmail != nil {
		ok, cleaned := sanitize.Email(*req.ClientEmail)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "client_email is not a valid address")
		}
		req.ClientEmail = &cleaned
	}

	opening := &models.JobOpening{
		Title:          req.Title,
		RoleType:       req.RoleType,
		Description:    req.Description,
		City:           req.City,
		District:       req.District,
		Salary:         req.Salary,
		Workload:       req.Workload,
		ClientName:     req.ClientName,
		ClientEmail:    req.ClientEmail,
		ClientPhone:    req.ClientPhone,
		Urgent:         req.Urgent,
		StatusDetailed: models.OpeningStatusActive,
	}
	if err := s.encrypt(opening); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to protect opening data")
	}
	if err := s.repo.Create(ctx, opening); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create opening")
	}
	s.decrypt(opening)
	return opening, nil
}

// Update modifies an existing opening's descriptive fields. Status moves go
// through UpdateStatus so the mirror is never skipped.
func (s *OpeningService) Update(ctx context.Context, id string, req UpdateOpeningRequest) (*models.JobOpening, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid opening payload")
	}
	opening, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	opening.Title = req.Title
	opening.RoleType = req.RoleType
	opening.Description = req.Description
	opening.City = req.City
	opening.District = req.District
	opening.Salary = req.Salary
	opening.Workload = req.Workload
	opening.ClientName = req.ClientName
	opening.ClientEmail = req.ClientEmail
	opening.ClientPhone = req.ClientPhone
	opening.Urgent = req.Urgent

	if err := s.encrypt(opening); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to protect opening data")
	}
	if err := s.repo.Update(ctx, opening); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update opening")
	}
	s.decrypt(opening)
	return opening, nil
}

// UpdateStatus moves the detailed status and mirrors it onto the coarse
// column. A status_change note records who moved it.
func (s *OpeningService) UpdateStatus(ctx context.Context, id, detailed, author string) (*models.JobOpening, error) {
	if ok, msg := sanitize.ValidateEnum(detailed, models.OpeningDetailedStatuses, "status"); !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, msg)
	}
	opening, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := opening.StatusDetailed

	var filledAt *time.Time
	if detailed == models.OpeningStatusFilled {
		now := time.Now().UTC()
		filledAt = &now
	}
	if err := s.repo.UpdateStatus(ctx, id, detailed, filledAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update opening status")
	}

	note := &models.OpeningNote{
		OpeningID: id,
		Category:  models.NoteCategoryStatusChange,
		Body:      "Status changed from " + previous + " to " + detailed,
		Author:    author,
	}
	if err := s.repo.AddNote(ctx, note); err != nil {
		s.logger.Sugar().Errorw("status note failed", "opening_id", id, "error", err)
	}

	opening.StatusDetailed = detailed
	opening.Status = models.CoarseStatus(detailed)
	opening.FilledAt = filledAt
	return opening, nil
}

// Delete removes an opening and its notes. Openings with candidates still in
// process cannot be deleted.
func (s *OpeningService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	active, err := s.links.CountActiveByOpening(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check opening processes")
	}
	if active > 0 {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "opening still has candidates in process")
	}
	if err := s.repo.DeleteNotes(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete opening notes")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete opening")
	}
	return nil
}

// AddNote appends a manual note to an opening.
func (s *OpeningService) AddNote(ctx context.Context, openingID string, req AddNoteRequest) (*models.OpeningNote, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid note payload")
	}
	category := req.Category
	if category == "" {
		category = models.NoteCategoryGeneral
	}
	if ok, msg := sanitize.ValidateEnum(category, models.NoteCategories, "category"); !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, msg)
	}
	body := sanitize.FreeText(req.Body)
	if body == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "note body contains no valid characters")
	}
	if _, err := s.Get(ctx, openingID); err != nil {
		return nil, err
	}

	note := &models.OpeningNote{
		OpeningID: openingID,
		Category:  category,
		Body:      body,
		Author:    req.Author,
	}
	if err := s.repo.AddNote(ctx, note); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add note")
	}
	return note, nil
}

// ListNotes returns an opening's notes, newest first.
func (s *OpeningService) ListNotes(ctx context.Context, openingID string) ([]models.OpeningNote, error) {
	if _, err := s.Get(ctx, openingID); err != nil {
		return nil, err
	}
	notes, err := s.repo.ListNotes(ctx, openingID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notes")
	}
	return notes, nil
}

func (s *OpeningService) encrypt(opening *models.JobOpening) error {
	fields := []**string{&opening.ClientName, &opening.ClientEmail, &opening.ClientPhone}
	for _, field := range fields {
		sealed, err := s.cipher.EncryptPtr(*field)
		if err != nil {
			return err
		}
		*field = sealed
	}
	return nil
}

func (s *OpeningService) decrypt(opening *models.JobOpening) {
	opening.ClientName = s.cipher.DecryptPtr(opening.ClientName)
	opening.ClientEmail = s.cipher.DecryptPtr(opening.ClientEmail)
	opening.ClientPhone = s.cipher.DecryptPtr(opening.ClientPhone)
}
