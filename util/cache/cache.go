package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"sync"
)

// DefaultPath returns ~/.ensgraph/<name>.
func DefaultPath(name string) string {
	return filepath.Join(HomeDir(), ".ensgraph", name)
}

func HomeDir() string {
	usr, err := user.Current()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			return home
		}
		return "."
	}
	return usr.HomeDir
}

type simpleCache struct {
	Data map[string]string `json:"Data"`
}

// FileCache is a string key/value store persisted as one JSON file. The file
// is read lazily on first access and rewritten on every change.
type FileCache struct {
	path  string
	mu    sync.Mutex
	cache *simpleCache
}

func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

func (self *FileCache) Path() string {
	return self.path
}

func (self *FileCache) load() (*simpleCache, error) {
	if self.cache != nil {
		return self.cache, nil
	}
	c := &simpleCache{Data: map[string]string{}}
	content, err := os.ReadFile(self.path)
	if errors.Is(err, fs.ErrNotExist) {
		self.cache = c
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(content, c); err != nil {
		return nil, err
	}
	if c.Data == nil {
		c.Data = map[string]string{}
	}
	self.cache = c
	return c, nil
}

func (self *FileCache) persist() error {
	jsonData, err := json.MarshalIndent(self.cache, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(self.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(self.path, jsonData, 0644)
}

func (self *FileCache) Get(key string) (string, bool, error) {
	self.mu.Lock()
	defer self.mu.Unlock()

	c, err := self.load()
	if err != nil {
		return "", false, err
	}
	value, found := c.Data[key]
	return value, found, nil
}

func (self *FileCache) Set(key, value string) error {
	self.mu.Lock()
	defer self.mu.Unlock()

	c, err := self.load()
	if err != nil {
		return err
	}
	c.Data[key] = value
	return self.persist()
}

func (self *FileCache) Delete(key string) error {
	self.mu.Lock()
	defer self.mu.Unlock()

	c, err := self.load()
	if err != nil {
		return err
	}
	delete(c.Data, key)
	return self.persist()
}
