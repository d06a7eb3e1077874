package services

import (
	"fmt"
	"mime/multipart"
	"path/filepath"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

// Uploader stores an uploaded file and returns its durable public URL.
type Uploader interface {
	Upload(file *multipart.FileHeader, folder string) (string, error)
}

// SupabaseUploader stores property images in a Supabase storage bucket.
type SupabaseUploader struct {
	client *storage.Client
	bucket string
}

// NewSupabaseUploader creates an Uploader backed by Supabase storage.
func NewSupabaseUploader(supabaseURL, supabaseKey, bucket string) *SupabaseUploader {
	return &SupabaseUploader{
		client: storage.NewClient(supabaseURL+"/storage/v1", supabaseKey, nil),
		bucket: bucket,
	}
}

// Upload streams the file into the bucket under a generated object name.
func (u *SupabaseUploader) Upload(file *multipart.FileHeader, folder string) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	objectPath := uuid.NewString() + filepath.Ext(file.Filename)
	if folder != "" {
		objectPath = folder + "/" + objectPath
	}

	contentType := file.Header.Get("Content-Type")
	upsert := true
	options := storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}

	if _, err := u.client.UploadFile(u.bucket, objectPath, f, options); err != nil {
		return "", fmt.Errorf("failed to upload to storage: %w", err)
	}

	publicURL := u.client.GetPublicUrl(u.bucket, objectPath)
	return publicURL.SignedURL, nil
}
