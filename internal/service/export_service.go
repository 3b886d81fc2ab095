package service

import (
	"context"
	"errors"
	"log"
	"path"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/team-schedule/internal/domain"
	"alcyxob/team-schedule/internal/export"
	"alcyxob/team-schedule/internal/repository"
	"alcyxob/team-schedule/internal/storage"
)

var ErrExportNotFound = errors.New("export not found")

// ExportRequest selects the days to export.
type ExportRequest struct {
	StartDate    time.Time
	EndDate      time.Time
	WeeksPerPage int // 0 uses the configured default
}

type ExportService interface {
	// CreateExport renders the requester's schedule, uploads it and returns
	// the stored metadata with a presigned download URL.
	CreateExport(ctx context.Context, userID primitive.ObjectID, req ExportRequest) (*domain.Export, string, error)
	ListExports(ctx context.Context, userID primitive.ObjectID) ([]domain.Export, error)
	GetDownloadURL(ctx context.Context, userID, exportID primitive.ObjectID) (*domain.Export, string, error)
	DeleteExport(ctx context.Context, coachID, exportID primitive.ObjectID) error
}

// exportService implements the ExportService interface.
type exportService struct {
	schedule    ScheduleService
	exportRepo  repository.ExportRepository
	fileStorage storage.FileStorage
	driver      export.Config
	urlExpiry   time.Duration
}

// NewExportService creates a new instance of exportService. driver holds
// everything but the emitter, which is bound per coach.
func NewExportService(
	schedule ScheduleService,
	exportRepo repository.ExportRepository,
	fileStorage storage.FileStorage,
	driver export.Config,
	urlExpiry time.Duration,
) ExportService {
	if urlExpiry <= 0 {
		urlExpiry = storage.DefaultPresignedURLExpiry
	}
	return &exportService{
		schedule:    schedule,
		exportRepo:  exportRepo,
		fileStorage: fileStorage,
		driver:      driver,
		urlExpiry:   urlExpiry,
	}
}

func (s *exportService) CreateExport(ctx context.Context, userID primitive.ObjectID, req ExportRequest) (*domain.Export, string, error) {
	coachID, err := s.schedule.Owner(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	sessions, err := s.schedule.ListSessions(ctx, coachID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, "", err
	}

	cfg := s.driver
	cfg.Emitter = export.ObjectEmitter{Store: s.fileStorage, Prefix: path.Join("exports", coachID.Hex())}
	driver, err := export.NewDriver(cfg)
	if err != nil {
		return nil, "", err
	}

	artifact, err := driver.Export(ctx, export.Request{
		Sessions:     sessions,
		Start:        req.StartDate,
		End:          req.EndDate,
		WeeksPerPage: req.WeeksPerPage,
	})
	if err != nil {
		log.Printf("ERROR: Export for coach %s failed: %v", coachID.Hex(), err)
		return nil, "", err
	}

	record := &domain.Export{
		CoachID:     coachID,
		RequestedBy: userID,
		StartDate:   req.StartDate.Format(domain.DateLayout),
		EndDate:     req.EndDate.Format(domain.DateLayout),
		S3ObjectKey: artifact.Location,
		FileName:    artifact.FileName,
		ContentType: artifact.ContentType,
		Size:        artifact.Size,
		Pages:       artifact.Pages,
		Sessions:    len(sessions),
	}
	if _, err := s.exportRepo.Create(ctx, record); err != nil {
		log.Printf("ERROR: Failed to record export %s: %v", artifact.Location, err)
		if delErr := s.fileStorage.DeleteObject(ctx, artifact.Location); delErr != nil {
			log.Printf("WARN: Orphaned export object %s: %v", artifact.Location, delErr)
		}
		return nil, "", err
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, record.S3ObjectKey, s.urlExpiry)
	if err != nil {
		return nil, "", err
	}
	log.Printf("INFO: Exported %d sessions (%d pages) for coach %s as %s", record.Sessions, record.Pages, coachID.Hex(), record.FileName)
	return record, url, nil
}

func (s *exportService) ListExports(ctx context.Context, userID primitive.ObjectID) ([]domain.Export, error) {
	coachID, err := s.schedule.Owner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.exportRepo.GetByCoachID(ctx, coachID)
}

func (s *exportService) GetDownloadURL(ctx context.Context, userID, exportID primitive.ObjectID) (*domain.Export, string, error) {
	coachID, err := s.schedule.Owner(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	record, err := s.get(ctx, coachID, exportID)
	if err != nil {
		return nil, "", err
	}
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, record.S3ObjectKey, s.urlExpiry)
	if err != nil {
		return nil, "", err
	}
	return record, url, nil
}

// DeleteExport removes the metadata first so a failed object delete only
// leaves an unreachable object behind.
func (s *exportService) DeleteExport(ctx context.Context, coachID, exportID primitive.ObjectID) error {
	record, err := s.get(ctx, coachID, exportID)
	if err != nil {
		return err
	}
	if err := s.exportRepo.Delete(ctx, exportID, coachID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExportNotFound
		}
		return err
	}
	if err := s.fileStorage.DeleteObject(ctx, record.S3ObjectKey); err != nil {
		log.Printf("WARN: Export %s deleted but object %s remains: %v", exportID.Hex(), record.S3ObjectKey, err)
	}
	return nil
}

func (s *exportService) get(ctx context.Context, coachID, exportID primitive.ObjectID) (*domain.Export, error) {
	record, err := s.exportRepo.GetByID(ctx, exportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExportNotFound
		}
		return nil, err
	}
	if record.CoachID != coachID {
		return nil, ErrExportNotFound
	}
	return record, nil
}
