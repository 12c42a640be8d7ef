package storage

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"tavern/config"
	"tavern/db"
)

type StorageAPI interface {
	Save(path, mimeType string, reader io.Reader) (int64, error)
	Serve(path string, request *http.Request, writer http.ResponseWriter)
	Delete(path string) error
	GetFreeSpace() uint64
	GetBucket() *Bucket
}

// Storage holds what all storage types share
type Storage struct {
	Bucket Bucket
}

func (s *Storage) GetBucket() *Bucket {
	return &s.Bucket
}

var (
	cachedStorage []StorageAPI
	cacheMutex    sync.RWMutex
)

// Init loads all buckets, creating the default disk bucket on an empty setup
func Init() {
	if err := db.Instance.AutoMigrate(&Bucket{}); err != nil {
		panic(err)
	}
	var count int64
	db.Instance.Model(&Bucket{}).Count(&count)
	if count == 0 && config.DEFAULT_BUCKET_DIR != "" {
		bucket := Bucket{
			Name:        "default",
			StorageType: StorageTypeFile,
			Path:        config.DEFAULT_BUCKET_DIR,
		}
		if err := bucket.Create(); err != nil {
			panic(err)
		}
	}
	if err := Reload(); err != nil {
		panic(err)
	}
}

// Reload re-creates the storage objects after buckets change
func Reload() error {
	var buckets []Bucket
	if err := db.Instance.Order("id").Find(&buckets).Error; err != nil {
		return err
	}
	log.Printf("Storage Buckets found: %d\n", len(buckets))
	loaded := []StorageAPI{}
	for i := range buckets {
		storage, err := NewStorage(&buckets[i])
		if err != nil {
			return err
		}
		loaded = append(loaded, storage)
	}
	cacheMutex.Lock()
	cachedStorage = loaded
	cacheMutex.Unlock()
	return nil
}

func NewStorage(bucket *Bucket) (StorageAPI, error) {
	switch bucket.StorageType {
	case StorageTypeFile:
		return NewDiskStorage(bucket), nil
	case StorageTypeS3:
		return NewS3Storage(bucket), nil
	}
	return nil, fmt.Errorf("storage type unavailable for Bucket %d", bucket.ID)
}

func StorageFrom(bucketID uint64) StorageAPI {
	cacheMutex.RLock()
	defer cacheMutex.RUnlock()
	for _, s := range cachedStorage {
		if s.GetBucket().ID == bucketID {
			return s
		}
	}
	return nil
}

// GetDefaultStorage prefers disk buckets, nil means nothing is configured
func GetDefaultStorage() StorageAPI {
	cacheMutex.RLock()
	defer cacheMutex.RUnlock()
	for _, s := range cachedStorage {
		if s.GetBucket().StorageType == StorageTypeFile {
			return s
		}
	}
	if len(cachedStorage) > 0 {
		return cachedStorage[0]
	}
	return nil
}
