// Package storagetest provides an in-memory storage.ObjectStore for tests.
package storagetest

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/woodb/rural/storage"
)

type Object struct {
	Body        []byte
	ContentType string
	PublicRead  bool
}

// Store records every call and keeps objects in memory.
// Buckets must be registered in Buckets before use.
type Store struct {
	mu sync.Mutex

	Buckets map[string]map[string]*Object
	Creds   []storage.Credentials
	Calls   []string

	// Fail makes the named call ("Bucket", "Put", "SetPublicRead",
	// "SignURL") return the given error.
	Fail map[string]error
}

func New(buckets ...string) *Store {
	s := &Store{
		Buckets: map[string]map[string]*Object{},
		Fail:    map[string]error{},
	}
	for _, b := range buckets {
		s.Buckets[b] = map[string]*Object{}
	}
	return s
}

// Connect is a storage.Connector returning s.
func (s *Store) Connect(_ context.Context, creds storage.Credentials) (storage.ObjectStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Creds = append(s.Creds, creds)
	return s, nil
}

// Connections reports how many sessions were opened.
func (s *Store) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Creds)
}

func (s *Store) record(call string) error {
	s.Calls = append(s.Calls, call)
	return s.Fail[call]
}

func (s *Store) Bucket(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Bucket"); err != nil {
		return err
	}
	if _, ok := s.Buckets[name]; !ok {
		return fmt.Errorf("%w: %s", storage.ErrBucketNotFound, name)
	}
	return nil
}

func (s *Store) Put(_ context.Context, bucket, key string, body io.Reader, contentType string) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrUpload, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err = s.record("Put"); err != nil {
		return err
	}
	if _, ok := s.Buckets[bucket]; !ok {
		return fmt.Errorf("%w: %s", storage.ErrBucketNotFound, bucket)
	}
	s.Buckets[bucket][key] = &Object{Body: b, ContentType: contentType}
	return nil
}

func (s *Store) SetPublicRead(_ context.Context, bucket, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("SetPublicRead"); err != nil {
		return err
	}
	obj, ok := s.Buckets[bucket][key]
	if !ok {
		return fmt.Errorf("%w: no object %s/%s", storage.ErrUpload, bucket, key)
	}
	obj.PublicRead = true
	return nil
}

// SignURL returns a fake link carrying the expiry in X-Amz-Expires.
func (s *Store) SignURL(_ context.Context, bucket, key string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("SignURL"); err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("X-Amz-Expires", strconv.Itoa(int(ttl.Seconds())))
	u := url.URL{
		Scheme:   "https",
		Host:     bucket + ".s3.amazonaws.com",
		Path:     "/" + key,
		RawQuery: q.Encode(),
	}
	return u.String(), nil
}

// Object returns the stored object or nil.
func (s *Store) Object(bucket, key string) *Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Buckets[bucket][key]
}
