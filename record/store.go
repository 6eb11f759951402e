package record

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-bench/common"
	"github.com/oqtopus-team/oqtopus-bench/core"
	"go.uber.org/zap"
)

// FileStore reads and writes the dataset file. Files ending in .json hold a
// JSON array; anything else is read as newline-delimited JSON.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Setup(conf *core.Conf) error {
	if conf.DatasetPath == "" {
		return fmt.Errorf("dataset path is empty")
	}
	s.path = conf.DatasetPath
	zap.L().Debug(fmt.Sprintf("dataset path is %s", s.path))
	return nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load() ([]FeatureRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to open dataset %s/reason:%s", s.path, err))
		return nil, errors.Wrap(err, "open dataset")
	}
	defer f.Close()

	var records []FeatureRecord
	if s.isJSON() {
		records, err = ReadJSON(f)
	} else {
		records, err = ReadNDJSON(f)
	}
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to read dataset %s/reason:%s", s.path, err))
		return nil, errors.Wrapf(err, "read dataset %s", s.path)
	}
	zap.L().Info(fmt.Sprintf("read %d records from %s", len(records), s.path))
	return records, nil
}

// Save writes the records sorted by filename, replacing the file.
func (s *FileStore) Save(records []FeatureRecord) error {
	sorted := append([]FeatureRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Filename < sorted[j].Filename })

	if dir := filepath.Dir(s.path); dir != "" {
		if err := common.EnsureDir(dir); err != nil {
			return errors.Wrapf(err, "dataset dir %s", dir)
		}
	}
	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrap(err, "create dataset")
	}
	write := WriteNDJSON
	if s.isJSON() {
		write = WriteJSON
	}
	if err := write(f, sorted); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "replace dataset")
	}
	zap.L().Info(fmt.Sprintf("wrote %d records to %s", len(sorted), s.path))
	return nil
}

func (s *FileStore) isJSON() bool {
	return strings.EqualFold(filepath.Ext(s.path), ".json")
}
