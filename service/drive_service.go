package service

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"pedidos-mostrador/logger"
	"pedidos-mostrador/models"
)

// ReportArchiver keeps a copy of every shift report outside the service
type ReportArchiver interface {
	Archive(ctx context.Context, report *Report) (string, error)
	ListReports(ctx context.Context) ([]models.ArchivedReport, error)
}

// DriveService archives shift reports in a Google Drive folder
type DriveService struct {
	client   *drive.Service
	folderID string
}

// Ensure DriveService implements ReportArchiver
var _ ReportArchiver = (*DriveService)(nil)

// NewDriveService creates a new DriveService instance.
// credentialsPath should be the path to the Service Account JSON file; extra
// options are appended after it.
func NewDriveService(ctx context.Context, credentialsPath, folderID string, opts ...option.ClientOption) (*DriveService, error) {
	if credentialsPath != "" {
		opts = append([]option.ClientOption{option.WithCredentialsFile(credentialsPath)}, opts...)
	}

	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveService{
		client:   driveService,
		folderID: folderID,
	}, nil
}

// Archive uploads report into the reports folder and returns the Drive file id
func (ds *DriveService) Archive(ctx context.Context, report *Report) (string, error) {
	file := &drive.File{
		Name:     report.Filename,
		MimeType: report.ContentType,
		Parents:  []string{ds.folderID},
	}

	created, err := ds.client.Files.Create(file).
		Media(bytes.NewReader(report.Data), googleapi.ContentType(report.ContentType)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", report.Filename, err)
	}

	logger.FromContext(ctx).Info("☁️ Archive: Report uploaded to Drive",
		zap.String("file", report.Filename), zap.String("drive_file_id", created.Id))
	return created.Id, nil
}

// ListReports lists the reports stored in the reports folder
func (ds *DriveService) ListReports(ctx context.Context) ([]models.ArchivedReport, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false", ds.folderID)

	reports := []models.ArchivedReport{}
	pageToken := ""
	for {
		call := ds.client.Files.List().
			Q(query).
			OrderBy("createdTime desc").
			Fields("nextPageToken, files(id, name, createdTime, webViewLink)").
			Context(ctx)

		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		r, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}

		for _, f := range r.Files {
			reports = append(reports, models.ArchivedReport{
				ID:          f.Id,
				Name:        f.Name,
				CreatedTime: f.CreatedTime,
				Link:        f.WebViewLink,
			})
		}

		pageToken = r.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return reports, nil
}
