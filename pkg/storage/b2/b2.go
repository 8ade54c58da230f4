package b2

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	rcloneb2 "github.com/rclone/rclone/backend/b2"
	"github.com/rclone/rclone/fs"
	"github.com/rclone/rclone/fs/config/configmap"
	"github.com/sirupsen/logrus"

	"github.com/KeithOmondi/principle-registry/pkg/crypt"
	"github.com/KeithOmondi/principle-registry/pkg/models"
	"github.com/KeithOmondi/principle-registry/pkg/storage/model"
	"github.com/KeithOmondi/principle-registry/pkg/storage/rclone"
)

var log = logrus.StandardLogger().WithField("package", "storage/b2")
var _ model.Storer = (*B2)(nil)
var _ model.Retriever = (*B2)(nil)

// B2 archives uploaded gazette PDFs in a Backblaze bucket, optionally
// encrypted at rest.
type B2 struct {
	b2fs       fs.Fs
	bucketName string
	crypt      *crypt.FileCrypt
}

func fileName(scanId string) string {
	return fmt.Sprintf("gazettes/%s.pdf", scanId)
}

func (b *B2) Store(file models.GazetteFile) (err error) {
	ctx := context.Background()

	if b.crypt != nil {
		file.Reader, err = b.crypt.Encrypt(file.Reader)
		if err != nil {
			return err
		}
	}

	fileSize, err := file.Reader.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	_, err = file.Reader.Seek(0, io.SeekStart)
	if err != nil {
		return err
	}

	src := rclone.NewSourceFile(b.bucketName, fileName(file.ScanId), file.Uploaded, fileSize)
	obj, err := b.b2fs.Put(ctx, file.Reader, src, &fs.RangeOption{Start: 0, End: fileSize})
	if err != nil {
		return err
	}
	log.Debugf("obj=%+v", obj)
	return nil
}

func (b *B2) Retrieve(scanId string) (*models.GazetteFile, error) {
	ctx := context.Background()
	obj, err := b.b2fs.NewObject(ctx, fileName(scanId))
	if err != nil {
		if errors.Is(err, fs.ErrorObjectNotFound) {
			return nil, os.ErrNotExist
		}
		return nil, err
	}

	objReader, err := obj.Open(ctx)
	if err != nil {
		return nil, err
	}

	var reader io.ReadSeeker
	if b.crypt != nil {
		reader, err = b.crypt.Decrypt(objReader)
		if err != nil {
			return nil, err
		}
	} else {
		buffer := bytes.NewBuffer(nil)
		_, err = io.Copy(buffer, objReader)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(buffer.Bytes())
	}

	return &models.GazetteFile{
		Reader:   reader,
		ScanId:   scanId,
		Uploaded: obj.ModTime(ctx),
	}, nil
}

type Config struct {
	Account    string
	Key        string
	BucketName string

	// Encryption specific
	Passphrase string
}

func New(config Config) (*B2, error) {
	if config.Account == "" {
		return nil, fmt.Errorf("account is required")
	}
	if config.Key == "" {
		return nil, fmt.Errorf("key is required")
	}
	if config.BucketName == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	if len(config.Passphrase) == 0 {
		log.Warnf("no passphrase provided, encryption will be disabled")
	}

	b2fs, err := rcloneb2.NewFs(context.Background(),
		"b2",
		config.BucketName+"/",
		configmap.Simple{
			"account":    config.Account,
			"key":        config.Key,
			"chunk_size": "5M",
		},
	)
	if err != nil {
		return nil, err
	}

	b := &B2{
		bucketName: config.BucketName,
		b2fs:       b2fs,
	}

	if len(config.Passphrase) != 0 {
		b.crypt, err = crypt.New(config.Passphrase)
		if err != nil {
			return nil, err
		}
	}

	return b, nil
}
