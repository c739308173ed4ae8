package service

import (
	"bytes"
	"path/filepath"

	"github.com/ds124wfegd/WB_L3/realtyedit/internal/pkg/storage"
	"github.com/sirupsen/logrus"
)

type archiveService struct {
	storage storage.FileStorage
}

func NewArchiveService(storage storage.FileStorage) ArchiveService {
	return &archiveService{storage: storage}
}

func (a *archiveService) Archive(sessionID, name string, data []byte) error {
	path := filepath.Join(sessionID, filepath.Base(name))
	if err := a.storage.Save(path, bytes.NewReader(data)); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"session_id": sessionID, "path": path}).Info("Download archived")
	return nil
}

func (a *archiveService) Purge(sessionID string) error {
	if !a.storage.Exists(sessionID) {
		return nil
	}
	return a.storage.Delete(sessionID)
}
