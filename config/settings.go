/*
DESCRIPTION
  settings.go provides Settings, a JSON key/value store persisted to a file
  and used to hold operator adjustable configuration such as the camera type.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Defaults is the content written when no settings file exists.
var Defaults = map[string]interface{}{
	KeyCameraType:     "webcam",
	KeyCameraIndex:    0,
	KeyCameraFallback: true,
	KeyScreenSize:     "1280x800",
}

// Settings is a key/value store backed by a JSON document. It is safe for
// concurrent use.
type Settings struct {
	path string
	mu   sync.Mutex
	vals map[string]interface{}
}

// NewSettings returns a Settings backed by the file at path. The file is not
// read until Load is called.
func NewSettings(path string) *Settings {
	return &Settings{path: path, vals: make(map[string]interface{})}
}

// Path returns the path of the backing file.
func (s *Settings) Path() string { return s.path }

// Load reads the backing file, replacing any values held. If the file does
// not exist it is created with Defaults.
func (s *Settings) Load() error {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.mu.Lock()
		s.vals = make(map[string]interface{}, len(Defaults))
		for k, v := range Defaults {
			s.vals[k] = v
		}
		s.mu.Unlock()
		return s.Save()
	}
	if err != nil {
		return fmt.Errorf("could not read settings: %w", err)
	}

	vals := make(map[string]interface{})
	err = json.Unmarshal(b, &vals)
	if err != nil {
		return fmt.Errorf("could not unmarshal settings: %w", err)
	}
	s.mu.Lock()
	s.vals = vals
	s.mu.Unlock()
	return nil
}

// Get returns the value for key formatted as a string, or def if the key is
// not held.
func (s *Settings) Get(key, def string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vals[key]
	if !ok || v == nil {
		return def
	}
	return fmt.Sprint(v)
}

// Set sets key to value. The change is not persisted until Save is called.
func (s *Settings) Set(key string, value interface{}) {
	s.mu.Lock()
	s.vals[key] = value
	s.mu.Unlock()
}

// Save writes the held values to the backing file. The file is replaced
// atomically so a watcher never observes a partial document.
func (s *Settings) Save() error {
	s.mu.Lock()
	b, err := json.MarshalIndent(s.vals, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("could not marshal settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return fmt.Errorf("could not create settings dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".settings-*")
	if err != nil {
		return fmt.Errorf("could not create temp settings: %w", err)
	}
	_, err = tmp.Write(append(b, '\n'))
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("could not write settings: %w", err)
	}
	err = tmp.Close()
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("could not close settings: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}

// Vars returns all held values formatted as strings, suitable for
// Config.Update.
func (s *Settings) Vars() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := make(map[string]string, len(s.vals))
	for k, v := range s.vals {
		if v == nil {
			continue
		}
		m[k] = fmt.Sprint(v)
	}
	return m
}

// Keys returns the held keys in sorted order.
func (s *Settings) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.vals))
	for k := range s.vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
