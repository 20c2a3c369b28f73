package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ro-recruiting/back-office-api/internal/models"
	appErrors "github.com/ro-recruiting/back-office-api/pkg/errors"
)

// CacheTagDashboard groups every cached dashboard entry.
const CacheTagDashboard = "dashboard"

type dashboardCandidateRepository interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type dashboardOpeningRepository interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
	CountUrgentActive(ctx context.Context) (int, error)
}

type dashboardLinkRepository interface {
	CountActive(ctx context.Context) (int, error)
	CountHiredSince(ctx context.Context, since time.Time) (int, error)
	List(ctx context.Context, filter models.LinkFilter) ([]models.LinkDetail, int, error)
}

type dashboardQualificationRepository interface {
	CountCertificates(ctx context.Context) (int, error)
}

// DashboardMetrics is the aggregated back-office overview.
type DashboardMetrics struct {
	CandidatesByStatus map[string]int `json:"candidates_by_status"`
	OpeningsByStatus   map[string]int `json:"openings_by_status"`
	UrgentOpenings     int            `json:"urgent_openings"`
	ActiveProcesses    int            `json:"active_processes"`
	HiredLast30Days    int            `json:"hired_last_30_days"`
	TotalHired         int            `json:"total_hired"`
	CertificatesIssued int            `json:"certificates_issued"`
	ConversionRate     float64        `json:"conversion_rate"`
	GeneratedAt        time.Time      `json:"generated_at"`
}

// DashboardService aggregates counters for the overview screen, cached with
// a short TTL since every mutation shifts the numbers.
type DashboardService struct {
	candidates     dashboardCandidateRepository
	openings       dashboardOpeningRepository
	links          dashboardLinkRepository
	qualifications dashboardQualificationRepository
	cache          *CacheService
	logger         *zap.Logger
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(candidates dashboardCandidateRepository, openings dashboardOpeningRepository, links dashboardLinkRepository, qualifications dashboardQualificationRepository, cache *CacheService, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{candidates: candidates, openings: openings, links: links, qualifications: qualifications, cache: cache, logger: logger}
}

// Metrics returns the dashboard overview, served from cache when fresh.
func (s *DashboardService) Metrics(ctx context.Context) (*DashboardMetrics, error) {
	var metrics DashboardMetrics
	err := s.cache.GetOrLoad(ctx, CacheTagDashboard, "metrics", &metrics, func() (interface{}, error) {
		return s.compute(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &metrics, nil
}

func (s *DashboardService) compute(ctx context.Context) (*DashboardMetrics, error) {
	candidateCounts, err := s.candidates.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count candidates")
	}
	openingCounts, err := s.openings.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count openings")
	}
	urgentOpenings, err := s.openings.CountUrgentActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count urgent openings")
	}
	activeLinks, err := s.links.CountActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count processes")
	}
	hired30, err := s.links.CountHiredSince(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count recent hires")
	}
	totalHired, err := s.links.CountHiredSince(ctx, time.Time{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count hires")
	}
	certificates, err := s.qualifications.CountCertificates(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count certificates")
	}

	totalProcesses := activeLinks + totalHired
	conversion := 0.0
	if totalProcesses > 0 {
		conversion = float64(totalHired) / float64(totalProcesses)
	}

	return &DashboardMetrics{
		CandidatesByStatus: candidateCounts,
		OpeningsByStatus:   openingCounts,
		UrgentOpenings:     urgentOpenings,
		ActiveProcesses:    activeLinks,
		HiredLast30Days:    hired30,
		TotalHired:         totalHired,
		CertificatesIssued: certificates,
		ConversionRate:     conversion,
		GeneratedAt:        time.Now().UTC(),
	}, nil
}
