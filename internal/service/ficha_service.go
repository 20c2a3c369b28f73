package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"go.uber.org/zap"

	"github.com/ro-recruiting/back-office-api/internal/models"
	appErrors "github.com/ro-recruiting/back-office-api/pkg/errors"
	"github.com/ro-recruiting/back-office-api/pkg/pdf"
)

type fichaCandidateSource interface {
	Get(ctx context.Context, id string) (*models.Candidate, error)
}

type fichaOpeningSource interface {
	Get(ctx context.Context, id string) (*models.JobOpening, error)
}

type fichaFlagRepository interface {
	SetFichaGenerated(ctx context.Context, id string) error
}

// FichaService renders printable candidate and opening fichas. The HTML
// layout is preferred; when no HTML renderer is available the plain gofpdf
// layout takes over so a ficha always comes out.
type FichaService struct {
	candidates fichaCandidateSource
	openings   fichaOpeningSource
	flags      fichaFlagRepository
	renderer   pdf.Renderer
	logger     *zap.Logger
}

// NewFichaService constructs the ficha service. renderer may be nil.
func NewFichaService(candidates fichaCandidateSource, openings fichaOpeningSource, flags fichaFlagRepository, renderer pdf.Renderer, logger *zap.Logger) *FichaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FichaService{candidates: candidates, openings: openings, flags: flags, renderer: renderer, logger: logger}
}

var fichaTemplate = template.Must(template.New("ficha").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 24px; color: #222; }
h1 { text-transform: uppercase; font-size: 20px; border-bottom: 2px solid #222; padding-bottom: 6px; }
h2 { font-size: 14px; background: #ebebeb; padding: 6px; margin-top: 18px; }
table { width: 100%; border-collapse: collapse; }
td { border: 1px solid #ccc; padding: 6px; font-size: 12px; }
td.label { width: 30%; font-weight: bold; }
.footer { margin-top: 30px; font-size: 10px; color: #777; text-align: center; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Subtitle}}<p>{{.Subtitle}}</p>{{end}}
{{range .Sections}}
<h2>{{.Title}}</h2>
<table>
{{range .Fields}}<tr><td class="label">{{.Label}}</td><td>{{if .Value}}{{.Value}}{{else}}not informed{{end}}</td></tr>
{{end}}</table>
{{end}}
<div class="footer">Generated at {{.GeneratedAt}}</div>
</body>
</html>`))

type fichaData struct {
	Title       string
	Subtitle    string
	Sections    []pdf.Section
	GeneratedAt string
}

// RenderCandidateFicha produces the candidate's ficha PDF and its filename,
// and marks the candidate on success.
func (s *FichaService) RenderCandidateFicha(ctx context.Context, candidateID string) ([]byte, string, error) {
	candidate, err := s.candidates.Get(ctx, candidateID)
	if err != nil {
		return nil, "", err
	}

	sections := candidateSections(candidate)
	data, err := s.render(ctx, fichaData{
		Title:    "Candidate Ficha",
		Subtitle: models.RoleTypeLabel(candidate.RoleType),
		Sections: sections,
	})
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render ficha")
	}

	if err := s.flags.SetFichaGenerated(ctx, candidate.ID); err != nil {
		s.logger.Sugar().Errorw("ficha flag update failed", "candidate_id", candidate.ID, "error", err)
	}
	return data, pdf.Filename("ficha", candidate.FullName, time.Now()), nil
}

// RenderOpeningFicha produces the opening's ficha PDF and its filename.
func (s *FichaService) RenderOpeningFicha(ctx context.Context, openingID string) ([]byte, string, error) {
	opening, err := s.openings.Get(ctx, openingID)
	if err != nil {
		return nil, "", err
	}

	data, err := s.render(ctx, fichaData{
		Title:    "Opening Ficha",
		Subtitle: models.RoleTypeLabel(opening.RoleType),
		Sections: openingSections(opening),
	})
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render ficha")
	}
	return data, pdf.Filename("vaga", opening.Title, time.Now()), nil
}

// render tries the HTML renderer first and falls back to the plain layout.
func (s *FichaService) render(ctx context.Context, data fichaData) ([]byte, error) {
	data.GeneratedAt = time.Now().Format("02/01/2006 15:04")

	if s.renderer != nil && s.renderer.Available() {
		var buf bytes.Buffer
		if err := fichaTemplate.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("execute ficha template: %w", err)
		}
		out, err := s.renderer.Render(ctx, buf.String())
		if err == nil {
			return out, nil
		}
		s.logger.Sugar().Warnw("html render failed, using plain layout", "error", err)
	}

	doc := pdf.Document{Title: data.Title, Subtitle: data.Subtitle, Sections: data.Sections}
	return doc.Render()
}

func candidateSections(c *models.Candidate) []pdf.Section {
	birth := ""
	if c.BirthDate != nil {
		birth = c.BirthDate.Format("02/01/2006")
	}
	personal := pdf.Section{Title: "Personal data", Fields: []pdf.Field{
		{Label: "Full name", Value: c.FullName},
		{Label: "Birth date", Value: birth},
		{Label: "National ID", Value: deref(c.NationalID)},
		{Label: "ID document", Value: deref(c.IDDocument)},
	}}
	contact := pdf.Section{Title: "Contact", Fields: []pdf.Field{
		{Label: "Email", Value: deref(c.Email)},
		{Label: "Phone", Value: deref(c.Phone)},
		{Label: "WhatsApp", Value: deref(c.Whatsapp)},
	}}
	address := pdf.Section{Title: "Address", Fields: []pdf.Field{
		{Label: "Street", Value: deref(c.Address)},
		{Label: "Number", Value: deref(c.StreetNumber)},
		{Label: "Complement", Value: deref(c.AddressExtra)},
		{Label: "District", Value: deref(c.District)},
		{Label: "City", Value: deref(c.City)},
	}}
	process := pdf.Section{Title: "Process", Fields: []pdf.Field{
		{Label: "Role", Value: models.RoleTypeLabel(c.RoleType)},
		{Label: "Status", Value: c.Status},
		{Label: "Qualified", Value: yesNo(c.Qualified)},
	}}
	return []pdf.Section{personal, contact, address, process}
}

func openingSections(o *models.JobOpening) []pdf.Section {
	position := pdf.Section{Title: "Position", Fields: []pdf.Field{
		{Label: "Title", Value: o.Title},
		{Label: "Role", Value: models.RoleTypeLabel(o.RoleType)},
		{Label: "Description", Value: deref(o.Description)},
		{Label: "Salary", Value: deref(o.Salary)},
		{Label: "Workload", Value: deref(o.Workload)},
		{Label: "Status", Value: o.StatusDetailed},
	}}
	location := pdf.Section{Title: "Location", Fields: []pdf.Field{
		{Label: "City", Value: deref(o.City)},
		{Label: "District", Value: deref(o.District)},
	}}
	client := pdf.Section{Title: "Client", Fields: []pdf.Field{
		{Label: "Name", Value: deref(o.ClientName)},
		{Label: "Email", Value: deref(o.ClientEmail)},
		{Label: "Phone", Value: deref(o.ClientPhone)},
	}}
	return []pdf.Section{position, location, client}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
