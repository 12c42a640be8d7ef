package handlers

import (
	"log"
	"net/http"
	"strings"
	"tavern/db"
	"tavern/models"
	"tavern/storage"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func hasWriteAccess(bucket *storage.Bucket) error {
	s, err := storage.NewStorage(bucket)
	if err != nil {
		return err
	}
	testPath := "tmp/write-check"
	if _, err = s.Save(testPath, "text/plain", strings.NewReader("some-content")); err != nil {
		log.Printf("Cannot save to bucket: %s", bucket.Name)
		return err
	}
	if err = s.Delete(testPath); err != nil {
		log.Printf("Cannot delete from bucket: %s", bucket.Name)
		return err
	}
	return nil
}

func cleanupPath(in *storage.Bucket) {
	for strings.Contains(in.Path, "..") {
		in.Path = strings.ReplaceAll(in.Path, "..", "")
	}
	for strings.Contains(in.Path, "//") {
		in.Path = strings.ReplaceAll(in.Path, "//", "/")
	}
}

func BucketSave(c *gin.Context, user *models.User) {
	bucket := storage.Bucket{}
	err := c.ShouldBindWith(&bucket, binding.JSON)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	cleanupPath(&bucket)

	if bucket.Name == "" {
		c.JSON(http.StatusBadRequest, Response{"Empty bucket name"})
		return
	}
	switch bucket.StorageType {
	case storage.StorageTypeFile:
		if bucket.Path == "" || bucket.Path[0] != '/' {
			c.JSON(http.StatusBadRequest, Response{"Path must be absolute and start with / (slash)"})
			return
		}
	case storage.StorageTypeS3:
		if bucket.S3Key == "" || bucket.S3Secret == "" {
			c.JSON(http.StatusBadRequest, Response{"'S3 Key' and 'S3 Secret' must be provided"})
			return
		}
		if bucket.Region == "" {
			bucket.Region = "us-east-1"
		}
	default:
		c.JSON(http.StatusBadRequest, Response{"'storage_type' must be 0 (file) or 1 (s3)"})
		return
	}
	if err = hasWriteAccess(&bucket); err != nil {
		c.JSON(http.StatusForbidden, Response{"No write access to bucket: " + err.Error()})
		return
	}
	if bucket.ID == 0 {
		err = bucket.Create()
	} else {
		err = db.Instance.Save(&bucket).Error
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	// Re-initialize storage
	if err = storage.Reload(); err != nil {
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "id": bucket.ID})
}

func BucketList(c *gin.Context, user *models.User) {
	buckets := []storage.Bucket{}
	if err := db.Instance.Find(&buckets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	for i := range buckets {
		buckets[i].S3Secret = ""
	}
	c.JSON(http.StatusOK, buckets)
}
