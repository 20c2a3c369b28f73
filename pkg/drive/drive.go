package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// File describes one stored object inside the backup folder.
type File struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
}

// Client wraps the Google Drive v3 API scoped to a single folder.
type Client struct {
	service  *gdrive.Service
	folderID string
}

// Config locates the OAuth material and the target folder.
type Config struct {
	FolderID        string
	CredentialsFile string
	TokenFile       string
}

// New authorizes against Drive using a stored OAuth token. The interactive
// consent flow is expected to have run out-of-band; a missing token is an
// error, not a prompt.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.FolderID == "" {
		return nil, fmt.Errorf("drive folder id is not configured")
	}

	raw, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read drive credentials: %w", err)
	}

	oauthCfg, err := google.ConfigFromJSON(raw, gdrive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("parse drive credentials: %w", err)
	}

	token, err := tokenFromFile(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("load drive token: %w", err)
	}

	service, err := gdrive.NewService(ctx, option.WithHTTPClient(oauthCfg.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return &Client{service: service, folderID: cfg.FolderID}, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, err
	}
	return token, nil
}

// Upload stores data under the configured folder and returns the file ID.
func (c *Client) Upload(ctx context.Context, name, mimeType string, data []byte) (string, error) {
	meta := &gdrive.File{
		Name:     name,
		Parents:  []string{c.folderID},
		MimeType: mimeType,
	}

	created, err := c.service.Files.Create(meta).
		Media(bytes.NewReader(data)).
		Context(ctx).
		Fields("id").
		Do()
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	return created.Id, nil
}

// List returns the folder contents ordered newest first.
func (c *Client) List(ctx context.Context) ([]File, error) {
	query := fmt.Sprintf("'%s' in parents and trashed = false", c.folderID)

	var files []File
	pageToken := ""
	for {
		call := c.service.Files.List().
			Q(query).
			OrderBy("createdTime desc").
			Fields("nextPageToken, files(id, name, createdTime, size)").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		page, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list backup folder: %w", err)
		}

		for _, f := range page.Files {
			createdAt, _ := time.Parse(time.RFC3339, f.CreatedTime)
			files = append(files, File{
				ID:        f.Id,
				Name:      f.Name,
				CreatedAt: createdAt,
				Size:      f.Size,
			})
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	return files, nil
}

// Download fetches the raw contents of a stored file.
func (c *Client) Download(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := c.service.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", fileID, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fileID, err)
	}
	return data, nil
}

// Delete removes a stored file permanently.
func (c *Client) Delete(ctx context.Context, fileID string) error {
	if err := c.service.Files.Delete(fileID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete %s: %w", fileID, err)
	}
	return nil
}
