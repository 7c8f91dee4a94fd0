package clients

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

// StorageClient uploads objects to the storage gateway and returns
// their public URLs.
type StorageClient interface {
	UploadObject(ctx context.Context, bucket, objectName, contentType string, body io.Reader) (string, error)
}

type storageClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewStorageClient creates a new storage gateway client.
func NewStorageClient(baseURL, serviceKey string) StorageClient {
	return &storageClient{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// UploadObject streams body into bucket/objectName and returns the
// object's public URL. Uploads overwrite an existing object under the
// same name.
func (c *storageClient) UploadObject(ctx context.Context, bucket, objectName, contentType string, body io.Reader) (string, error) {
	endpoint := fmt.Sprintf("%s/object/%s/%s", c.baseURL, url.PathEscape(bucket), url.PathEscape(objectName))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("storage gateway returned status %d", resp.StatusCode)
	}

	publicURL := fmt.Sprintf("%s/object/public/%s/%s", c.baseURL, url.PathEscape(bucket), url.PathEscape(objectName))
	return publicURL, nil
}

// DetectContentType resolves the content type of an uploaded file part,
// defaulting to octet-stream when the part carries none.
func DetectContentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
