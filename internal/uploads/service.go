package uploads

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// StorageClient defines what we need from the object store.
type StorageClient interface {
	Put(ctx context.Context, bucket, path, contentType string, data []byte) (string, error)
}

// HTTPClient is a StorageClient backed by a Supabase-style storage HTTP API.
type HTTPClient struct {
	BaseURL   string
	SecretKey string
	Client    *http.Client
}

// Put stores data under bucket/path and returns the public URL.
func (c *HTTPClient) Put(ctx context.Context, bucket, path, contentType string, data []byte) (string, error) {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 30 * time.Second}
	}
	if c.BaseURL == "" {
		return "", fmt.Errorf("storage: STORAGE_URL is not set")
	}
	if c.SecretKey == "" {
		return "", fmt.Errorf("storage: STORAGE_SECRET_KEY is not set")
	}
	base := strings.TrimRight(c.BaseURL, "/")
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", base, bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("apikey", c.SecretKey)
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Content-Type", contentType)
	// Content-addressed paths never change, so overwrites are harmless.
	req.Header.Set("x-upsert", "true")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("storage error: status %d body: %s", resp.StatusCode, string(respBody))
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", base, bucket, path), nil
}

// Service stores evidence files content-addressed: the sha256 of the
// bytes is the content id, so re-uploads of the same file are idempotent
// and the cid recorded on a measurement can be checked against the bytes.
type Service struct {
	Client StorageClient
	Bucket string
}

// UploadResult is returned to the caller for attachment to an MRV upload.
type UploadResult struct {
	CID  string `json:"cid"`
	URL  string `json:"url"`
	Size int    `json:"size"`
}

const defaultBucket = "evidence"

// StoreEvidence hashes and stores one evidence file.
func (s *Service) StoreEvidence(ctx context.Context, contentType string, data []byte) (*UploadResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("evidence file is empty")
	}
	bucket := s.Bucket
	if bucket == "" {
		bucket = defaultBucket
	}
	sum := sha256.Sum256(data)
	cid := hex.EncodeToString(sum[:])
	url, err := s.Client.Put(ctx, bucket, cid, contentType, data)
	if err != nil {
		return nil, err
	}
	return &UploadResult{CID: cid, URL: url, Size: len(data)}, nil
}
