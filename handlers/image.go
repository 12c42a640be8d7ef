package handlers

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"tavern/auth"
	"tavern/config"
	"tavern/db"
	"tavern/models"
	"tavern/storage"
	"tavern/utils"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/juju/errors"
	"gorm.io/gorm"
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// ImageUpload stores a picture and its thumbnail on the default bucket
func ImageUpload(c *gin.Context, user *models.User, scope *auth.CampaignScope) {
	maxBytes := int64(config.MAX_UPLOAD_MB) << 20
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+1<<20)
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	defer file.Close()
	if header.Size > maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, Response{"file too large"})
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil || int64(len(data)) > maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, Response{"file too large"})
		return
	}
	mimeType := mimetype.Detect(data).String()
	ext, ok := imageExtensions[mimeType]
	if !ok {
		c.JSON(http.StatusUnsupportedMediaType, Response{"unsupported image type " + mimeType})
		return
	}
	s := storage.GetDefaultStorage()
	if s == nil {
		c.JSON(http.StatusInternalServerError, Response{"no storage bucket configured"})
		return
	}
	if s.GetFreeSpace() < uint64(len(data))*2 {
		c.JSON(http.StatusInsufficientStorage, Response{"storage is full"})
		return
	}

	thumb := bytes.Buffer{}
	converted, err := utils.CreateThumb(uint(config.THUMB_SIZE), bytes.NewReader(data), &thumb)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{"cannot decode image: " + err.Error()})
		return
	}
	name := uuid.NewString()
	dir := storage.StorageLocationCampaigns + "/" + scope.Campaign.ID + "/"
	image := models.Image{
		Base:         models.Base{ID: name},
		CampaignID:   scope.Campaign.ID,
		UploadedByID: user.ID,
		BucketID:     s.GetBucket().ID,
		Path:         dir + name + ext,
		ThumbPath:    dir + name + "_thumb.jpg",
		MimeType:     mimeType,
		Size:         int64(len(data)),
		Width:        converted.OldX,
		Height:       converted.OldY,
	}
	if _, err = s.Save(image.Path, mimeType, bytes.NewReader(data)); err != nil {
		log.Printf("Image save error: %v", err)
		c.JSON(http.StatusInternalServerError, Response{"cannot store image"})
		return
	}
	if _, err = s.Save(image.ThumbPath, "image/jpeg", &thumb); err != nil {
		log.Printf("Thumb save error: %v", err)
		deleteImageFiles(&image)
		c.JSON(http.StatusInternalServerError, Response{"cannot store image"})
		return
	}
	if err = db.Instance.Create(&image).Error; err != nil {
		deleteImageFiles(&image)
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, image)
}

// ImageGet serves the picture, or its thumbnail with ?thumb=1
func ImageGet(c *gin.Context, user *models.User, scope *auth.CampaignScope) {
	image := models.Image{}
	err := db.Instance.Take(&image, "id = ? AND campaign_id = ?", c.Param("id"), scope.Campaign.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, Response{"image not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	s := storage.StorageFrom(image.BucketID)
	if s == nil {
		c.JSON(http.StatusInternalServerError, Response{"storage bucket not found"})
		return
	}
	path := image.Path
	if c.Query("thumb") == "1" {
		path = image.ThumbPath
	}
	c.Header("cache-control", "private, max-age=604800")
	s.Serve(path, c.Request, c.Writer)
}
