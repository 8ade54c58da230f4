package fs

import (
	"io"
	"os"
	"path"

	"github.com/sirupsen/logrus"

	"github.com/KeithOmondi/principle-registry/pkg/models"
	"github.com/KeithOmondi/principle-registry/pkg/storage/model"
)

var log = logrus.StandardLogger().WithField("package", "storage/fs")

type Fs struct {
	dir string
}

var _ model.Storer = (*Fs)(nil)
var _ model.Retriever = (*Fs)(nil)

func (fs *Fs) Retrieve(scanId string) (*models.GazetteFile, error) {
	f, err := os.Open(path.Join(fs.dir, scanId+".pdf"))
	if err != nil {
		return nil, err
	}
	return &models.GazetteFile{
		ScanId: scanId,
		Reader: f,
	}, nil
}

func (fs *Fs) Store(file models.GazetteFile) error {
	f, err := os.Create(path.Join(fs.dir, file.ScanId+".pdf"))
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.Copy(f, file.Reader); err != nil {
		return err
	}
	if _, err := file.Reader.Seek(0, io.SeekStart); err != nil {
		return err
	}
	log.Debugf("archived %s as %s", file.FileName, f.Name())
	return nil
}

func New(dir string) (*Fs, error) {
	_, err := os.Stat(dir)
	if os.IsNotExist(err) {
		err = os.MkdirAll(dir, 0755)
		if err != nil {
			return nil, err
		}
	}
	return &Fs{dir: dir}, nil
}
