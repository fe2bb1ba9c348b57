// Supabase Storage API implementation of [ObjectStore]
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jlwilt7/lockedin-music/internal/shared"
)

// StorageService uploads and removes objects in a single storage bucket.
type StorageService struct {
	baseURL    string
	anonKey    string
	bucket     string
	session    SessionProvider
	httpClient *http.Client
}

// NewStorageService creates a StorageService for the given project and bucket.
// A nil client defaults to [http.DefaultClient].
func NewStorageService(baseURL, anonKey, bucket string, session SessionProvider, client *http.Client) *StorageService {
	if client == nil {
		client = http.DefaultClient
	}
	return &StorageService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		bucket:     bucket,
		session:    session,
		httpClient: client,
	}
}

// Upload stores the payload at the bucket-relative path and returns its
// public URL. Existing objects are not overwritten.
func (s *StorageService) Upload(ctx context.Context, path string, body io.Reader, contentType string) (string, error) {
	token := s.session.AccessToken()
	if token == "" {
		return "", shared.ErrNotAuthenticated
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, encodePath(path))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", s.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "3600")
	req.Header.Set("x-upsert", "false")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: %s", shared.ErrUploadFailed, readErrorBody(resp))
	}

	return s.PublicURL(path), nil
}

// Remove deletes the objects at the given bucket-relative paths.
func (s *StorageService) Remove(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	token := s.session.AccessToken()
	if token == "" {
		return shared.ErrNotAuthenticated
	}

	payload, err := json.Marshal(map[string][]string{"prefixes": paths})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s", s.baseURL, s.bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", s.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRemoteRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s", shared.ErrRemoteRequest, readErrorBody(resp))
	}
	return nil
}

// PublicURL derives the public locator for a stored object.
func (s *StorageService) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, encodePath(path))
}

// ObjectPathFromURL extracts the bucket-relative object path from a public
// URL previously minted by this bucket, or "" when the URL points elsewhere.
// Used by delete flows to clean up stored files from their record locators.
func (s *StorageService) ObjectPathFromURL(publicURL string) string {
	prefix := fmt.Sprintf("%s/storage/v1/object/public/%s/", s.baseURL, s.bucket)
	if !strings.HasPrefix(publicURL, prefix) {
		return ""
	}
	path, err := url.PathUnescape(strings.TrimPrefix(publicURL, prefix))
	if err != nil {
		return ""
	}
	return path
}

// encodePath escapes each path segment while preserving separators.
func encodePath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

// readErrorBody summarizes an error response for wrapping.
func readErrorBody(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
}
