package uploads

import (
	"context"
	"fmt"
	"log"
	"path"
	"strings"

	"github.com/taqh/notra-sub001/clients"
	"github.com/taqh/notra-sub001/core"
	"github.com/taqh/notra-sub001/models"
)

const (
	maxAvatarSize  = 2 * 1024 * 1024
	maxLogoSize    = 2 * 1024 * 1024
	maxContentSize = 10 * 1024 * 1024
)

// rasterMIMETypes are allowed for every upload type. SVG is scriptable, so it
// is allowed only for content uploads, never for avatars or logos.
var rasterMIMETypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

const svgMIMEType = "image/svg+xml"

type UploadsService struct {
	storageClient clients.StorageClient
}

func NewUploadsService(storageClient clients.StorageClient) *UploadsService {
	return &UploadsService{storageClient: storageClient}
}

// ValidateUpload checks the MIME type and size against the rules of the given
// upload type. A size exactly at the cap passes.
func ValidateUpload(uploadType models.UploadType, fileType string, fileSize int64) error {
	var maxSize int64
	allowSVG := false

	switch uploadType {
	case models.UploadTypeAvatar:
		maxSize = maxAvatarSize
	case models.UploadTypeLogo:
		maxSize = maxLogoSize
	case models.UploadTypeContent:
		maxSize = maxContentSize
		allowSVG = true
	default:
		return fmt.Errorf("unknown upload type: %s", uploadType)
	}

	if _, ok := rasterMIMETypes[fileType]; !ok {
		if !(allowSVG && fileType == svgMIMEType) {
			return fmt.Errorf("file type %s not allowed for %s", fileType, uploadType)
		}
	}

	if fileSize <= 0 {
		return fmt.Errorf("file size must be positive")
	}
	if fileSize > maxSize {
		return fmt.Errorf("file size %d exceeds the %d byte limit for %s", fileSize, maxSize, uploadType)
	}

	return nil
}

// CreatePresignedUpload validates the request and returns a presigned PUT URL
// for a freshly generated object key.
func (s *UploadsService) CreatePresignedUpload(
	ctx context.Context,
	organizationID models.OrgID,
	uploadType, fileName, fileType string,
	fileSize int64,
) (*models.PresignedUploadResult, error) {
	log.Printf("📋 Starting presigned upload for org: %s type: %s", organizationID, uploadType)

	if organizationID == "" {
		return nil, fmt.Errorf("organization ID cannot be empty")
	}

	typed := models.UploadType(uploadType)
	if err := ValidateUpload(typed, fileType, fileSize); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s/%s%s", typed, organizationID, core.NewID("up"), fileExtension(fileName, fileType))
	presigned, err := s.storageClient.PresignUpload(ctx, key, fileType)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	log.Printf("📋 Completed successfully - presigned upload key: %s", key)
	return &models.PresignedUploadResult{
		UploadURL: presigned.UploadURL,
		PublicURL: presigned.PublicURL,
		Key:       presigned.Key,
		ExpiresAt: presigned.ExpiresAt,
	}, nil
}

// fileExtension prefers the original file name's extension, falling back to
// one derived from the MIME type.
func fileExtension(fileName, fileType string) string {
	if ext := strings.ToLower(path.Ext(fileName)); ext != "" {
		return ext
	}
	if fileType == svgMIMEType {
		return ".svg"
	}
	if ext, ok := rasterMIMETypes[fileType]; ok {
		return ext
	}
	return ""
}
