package storage

import (
	"os"
	"strings"
	"tavern/db"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type StorageType uint8

const (
	StorageTypeFile StorageType = 0
	StorageTypeS3   StorageType = 1
)

const StorageLocationCampaigns = "/campaigns"

type Bucket struct {
	ID            uint64      `gorm:"primaryKey" json:"id"`
	CreatedAt     int         `json:"created_at"`
	UpdatedAt     int         `json:"updated_at"`
	Name          string      `gorm:"type:varchar(200)" json:"name"`
	StorageType   StorageType `json:"storage_type"`
	Path          string      `json:"path"` // Path on a drive or a prefix in a S3 bucket
	Endpoint      string      `gorm:"type:varchar(300)" json:"endpoint"`
	Region        string      `gorm:"type:varchar(100)" json:"region"`
	S3Key         string      `gorm:"type:varchar(300)" json:"s3key"`
	S3Secret      string      `gorm:"type:varchar(300)" json:"s3secret,omitempty"`
	SSEEncryption string      `gorm:"type:varchar(50)" json:"sse_encryption"`
}

func (b *Bucket) Create() error {
	err := db.Instance.Create(b).Error
	if err != nil {
		return err
	}
	if b.StorageType == StorageTypeFile {
		// Pre-create locations on disk
		return os.MkdirAll(b.Path+StorageLocationCampaigns, 0777)
	}
	return nil
}

// GetRemotePath prefixes path with the bucket path (if any)
func (b *Bucket) GetRemotePath(path string) string {
	prefix := strings.Trim(b.Path, "/")
	path = strings.TrimLeft(path, "/")
	if prefix == "" {
		return path
	}
	return prefix + "/" + path
}

func (b *Bucket) CreateSVC() *s3.S3 {
	cfg := aws.NewConfig().
		WithRegion(b.Region).
		WithCredentials(credentials.NewStaticCredentials(b.S3Key, b.S3Secret, ""))
	if b.Endpoint != "" {
		cfg = cfg.WithEndpoint(b.Endpoint).WithS3ForcePathStyle(true)
	}
	sess := session.Must(session.NewSession(cfg))
	return s3.New(sess)
}
