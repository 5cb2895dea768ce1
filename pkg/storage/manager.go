package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/inkwell/config"
	"github.com/shashiranjanraj/inkwell/pkg/logger"
)

var (
	managerMu   sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk string
)

// Connect boots the disks from config. The local disk is always available;
// the s3 disk only when S3_BUCKET is set and the client can be built.
func Connect(ctx context.Context) {
	local := NewLocalDisk(config.StorageLocalRoot(), config.StorageURL())

	managerMu.Lock()
	defaultDisk = config.StorageDefault()
	disks["local"] = local
	managerMu.Unlock()

	if config.StorageS3Bucket() == "" {
		return
	}

	d, err := NewS3Disk(ctx, S3Options{
		Bucket:   config.StorageS3Bucket(),
		Region:   config.StorageS3Region(),
		Key:      config.StorageS3Key(),
		Secret:   config.StorageS3Secret(),
		Endpoint: config.StorageS3Endpoint(),
		BaseURL:  config.StorageS3URL(),
	})
	if err != nil {
		logger.Warn("storage: s3 disk disabled", "error", err)
		return
	}
	RegisterDisk("s3", d)
}

// RegisterDisk plugs in a Disk under name.
func RegisterDisk(name string, d Disk) {
	managerMu.Lock()
	disks[name] = d
	managerMu.Unlock()
}

// SetDefault selects the disk returned by Default.
func SetDefault(name string) {
	managerMu.Lock()
	defaultDisk = name
	managerMu.Unlock()
}

// Use returns the named disk.
func Use(name string) (Disk, error) {
	managerMu.RLock()
	d, ok := disks[name]
	managerMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Default returns the disk named by STORAGE_DISK.
func Default() (Disk, error) {
	managerMu.RLock()
	name := defaultDisk
	managerMu.RUnlock()
	return Use(name)
}

// Local returns the local disk when one is registered.
func Local() (*LocalDisk, bool) {
	d, err := Use("local")
	if err != nil {
		return nil, false
	}
	ld, ok := d.(*LocalDisk)
	return ld, ok
}

// Reset drops every registered disk (tests).
func Reset() {
	managerMu.Lock()
	disks = map[string]Disk{}
	defaultDisk = ""
	managerMu.Unlock()
}
