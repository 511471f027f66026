package upload

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Uploader is the external media-storage collaborator: it takes image bytes
// and hands back an opaque URL. The messaging core never stores binaries.
type Uploader interface {
	UploadImage(ctx context.Context, r io.Reader, publicID string) (string, error)
}

// CloudinaryUploader performs signed uploads against the Cloudinary HTTP API.
// Configured via CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY,
// CLOUDINARY_API_SECRET and optional CLOUDINARY_FOLDER.
type CloudinaryUploader struct {
	cloudName string
	apiKey    string
	apiSecret string
	folder    string
	client    *http.Client
}

// NewCloudinaryFromEnv reads the Cloudinary credentials from the environment.
func NewCloudinaryFromEnv() (*CloudinaryUploader, error) {
	u := &CloudinaryUploader{
		cloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		apiKey:    os.Getenv("CLOUDINARY_API_KEY"),
		apiSecret: os.Getenv("CLOUDINARY_API_SECRET"),
		folder:    os.Getenv("CLOUDINARY_FOLDER"),
		client:    &http.Client{Timeout: 30 * time.Second},
	}
	if u.cloudName == "" || u.apiKey == "" || u.apiSecret == "" {
		return nil, errors.New("cloudinary: CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required")
	}
	return u, nil
}

var _ Uploader = (*CloudinaryUploader)(nil)

func (u *CloudinaryUploader) UploadImage(ctx context.Context, r io.Reader, publicID string) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("cloudinary: read image: %w", err)
	}
	if len(raw) == 0 {
		return "", errors.New("cloudinary: empty image")
	}

	finalID := publicID
	if u.folder != "" {
		finalID = u.folder + "/" + publicID
	}
	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	// Signature: sha1 over the sorted non-credential params + api secret.
	toSign := fmt.Sprintf("public_id=%s&timestamp=%s%s", finalID, timestamp, u.apiSecret)
	signature := fmt.Sprintf("%x", sha1.Sum([]byte(toSign)))

	form := url.Values{}
	form.Add("file", "data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString(raw))
	form.Add("api_key", u.apiKey)
	form.Add("public_id", finalID)
	form.Add("timestamp", timestamp)
	form.Add("signature", signature)

	endpoint := "https://api.cloudinary.com/v1_1/" + u.cloudName + "/image/upload"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloudinary: upload: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("cloudinary: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cloudinary: upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("cloudinary: decode response: %w", err)
	}
	if out.SecureURL == "" {
		return "", errors.New("cloudinary: response missing secure_url")
	}
	return out.SecureURL, nil
}
