package uploader

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/woodb/rural/config"
	"github.com/woodb/rural/storage"
	"github.com/woodb/rural/tools"
)

// SignedURLTTL is how long a generated link stays valid.
const SignedURLTTL = 24 * time.Hour

type Options struct {
	// RandomKey stores the file under a random name instead of its base name.
	RandomKey bool
}

type Uploader struct {
	Connect storage.Connector
	Log     logrus.FieldLogger
}

func New(connect storage.Connector) *Uploader {
	return &Uploader{Connect: connect, Log: logrus.StandardLogger()}
}

// Upload stores localPath in the configured bucket, makes it public and
// returns a signed URL for it. The first failing step aborts the run.
func (u *Uploader) Upload(ctx context.Context, cfg config.Config, localPath string, opts Options) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", storage.ErrUpload, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: %w", storage.ErrUpload, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s is not a regular file", storage.ErrUpload, localPath)
	}

	store, err := u.Connect(ctx, storage.Credentials{
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Region:    cfg.Region,
		Endpoint:  cfg.Endpoint,
	})
	if err != nil {
		return "", fmt.Errorf("connect: %w", err)
	}

	if err = store.Bucket(ctx, cfg.Bucket); err != nil {
		return "", err
	}

	key := tools.ObjectKey(localPath, opts.RandomKey)
	log := u.Log.WithFields(logrus.Fields{"bucket": cfg.Bucket, "key": key})

	log.Info("uploading ", localPath)
	if err = store.Put(ctx, cfg.Bucket, key, f, tools.ContentType(key)); err != nil {
		return "", err
	}

	if err = store.SetPublicRead(ctx, cfg.Bucket, key); err != nil {
		return "", err
	}

	url, err := store.SignURL(ctx, cfg.Bucket, key, SignedURLTTL)
	if err != nil {
		return "", err
	}
	log.WithField("expires", time.Now().Add(SignedURLTTL).Format(time.RFC3339)).Info("upload complete")
	return url, nil
}
