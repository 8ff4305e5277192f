package storage

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

type FSStore struct{ base string }

func NewFSStore(base string) (*FSStore, error) {
	if base == "" {
		base = "."
	}
	st, err := os.Stat(base)
	if err != nil {
		return nil, errors.Wrapf(err, "rubric base path %s", base)
	}
	if !st.IsDir() {
		return nil, errors.Errorf("rubric base path %s is not a directory", base)
	}
	return &FSStore{base: base}, nil
}

func (s *FSStore) path(key string) (string, error) {
	if key == "" {
		return "", errors.New("empty key")
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("key %q escapes base path", key)
	}
	return filepath.Join(s.base, clean), nil
}

func (s *FSStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		// *PathError keeps errors.Is(err, ErrNotFound) working.
		return nil, err
	}
	return f, nil
}

func (s *FSStore) Location(key string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(s.base, key))}
	return u.String()
}
