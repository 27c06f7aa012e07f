package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/nuvionclient/presence/internal/models"
)

// LoadDaemonInfo reads daemon.yaml. A missing file means no daemon and
// yields (nil, nil).
func LoadDaemonInfo() (*models.DaemonInfo, error) {
	path, err := GlobalDaemonFile()
	if err != nil {
		return nil, err
	}
	if !FileExists(path) {
		return nil, nil
	}

	info := &models.DaemonInfo{}
	if err := LoadYAML(path, info); err != nil {
		return nil, err
	}
	return info, nil
}

// SaveDaemonInfo publishes info for clients. The write is atomic, so the
// launcher never reads a half-written port.
func SaveDaemonInfo(info *models.DaemonInfo) error {
	path, err := GlobalDaemonFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, info)
}

// RemoveDaemonInfo deletes daemon.yaml; a missing file is not an error.
func RemoveDaemonInfo() error {
	path, err := GlobalDaemonFile()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// IsDaemonRunning reports whether daemon.yaml names a live process. A file
// left behind by a crashed daemon is removed and its info still returned.
func IsDaemonRunning() (bool, *models.DaemonInfo, error) {
	info, err := LoadDaemonInfo()
	if err != nil || info == nil {
		return false, nil, err
	}

	if processAlive(info.PID) {
		return true, info, nil
	}
	_ = RemoveDaemonInfo()
	return false, info, nil
}
