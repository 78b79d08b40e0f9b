package server

import (
	"fmt"
	"strconv"
	"time"
)

const (
	DefaultPort                    = 3001
	DefaultNamespace               = "default"
	DefaultJobTimeout              = 300 * time.Second
	DefaultMaxLogLines             = 1000
	DefaultTTLSecondsAfterFinished = 3600

	DefaultRepositoryURL       = "https://github.com/kevintatou/sparktest-demo-definitions.git"
	DefaultRepositoryBranch    = "main"
	DefaultRepositoryDirectory = "tests"

	EnvDatabaseURL = "DATABASE_URL"
	EnvPort        = "PORT"
)

type Marshalled[S any] interface {
	trySeal(string) S
}

// seal marshalled object.
//
// this function CAN CAUSE PANIC if misconfiguration is found.
//
// All types named `pkg/configs/server.XxxMarshall` are `Marshalled[*Xxx]` .
func TrySeal[S any](conf Marshalled[S]) S {
	return conf.trySeal("(root)")
}

// Configuration of the server.
//
// This type is marshalling value and mutable.
// Consider to use immutable version, `ServerConfig`.
type ServerConfigMarshall struct {
	Port     int32                  `yaml:"port,omitempty"`
	Database string                 `yaml:"database,omitempty"`
	Auth     *AuthConfigMarshall    `yaml:"auth,omitempty"`
	Cluster  *ClusterConfigMarshall `yaml:"cluster,omitempty"`
	Sync     *SyncConfigMarshall    `yaml:"sync,omitempty"`
}

var _ Marshalled[*ServerConfig] = &ServerConfigMarshall{}

// Override fields with environmental variables.
//
// `DATABASE_URL` overrides database, and `PORT` overrides port.
func (s *ServerConfigMarshall) Override(lookupEnv func(string) (string, bool)) error {
	if db, ok := lookupEnv(EnvDatabaseURL); ok && db != "" {
		s.Database = db
	}
	if port, ok := lookupEnv(EnvPort); ok && port != "" {
		p, err := strconv.ParseInt(port, 10, 32)
		if err != nil {
			return fmt.Errorf("$%s is not a port number: %w", EnvPort, err)
		}
		s.Port = int32(p)
	}
	return nil
}

func (s *ServerConfigMarshall) trySeal(path string) *ServerConfig {
	port := s.Port
	if port == 0 {
		port = DefaultPort
	}

	cluster := s.Cluster
	if cluster == nil {
		cluster = &ClusterConfigMarshall{}
	}
	sync := s.Sync
	if sync == nil {
		sync = &SyncConfigMarshall{}
	}

	var auth *AuthConfig
	if s.Auth != nil {
		auth = s.Auth.trySeal(path + ".auth")
	}

	return &ServerConfig{
		port:     port,
		database: required(s.Database, path+".database"),
		auth:     auth,
		cluster:  cluster.trySeal(path + ".cluster"),
		sync:     sync.trySeal(path + ".sync"),
	}
}

type AuthConfigMarshall struct {
	SignKeyFile string `yaml:"signKeyFile"`
}

func (a *AuthConfigMarshall) trySeal(path string) *AuthConfig {
	return &AuthConfig{
		signKeyFile: required(a.SignKeyFile, path+".signKeyFile"),
	}
}

type ClusterConfigMarshall struct {
	Namespace               string        `yaml:"namespace,omitempty"`
	JobTimeout              time.Duration `yaml:"jobTimeout,omitempty"`
	MaxLogLines             int64         `yaml:"maxLogLines,omitempty"`
	TTLSecondsAfterFinished int32         `yaml:"ttlSecondsAfterFinished,omitempty"`
}

func (c *ClusterConfigMarshall) trySeal(path string) *ClusterConfig {
	namespace := c.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}
	jobTimeout := c.JobTimeout
	if jobTimeout == 0 {
		jobTimeout = DefaultJobTimeout
	}
	maxLogLines := c.MaxLogLines
	if maxLogLines == 0 {
		maxLogLines = DefaultMaxLogLines
	}
	ttl := c.TTLSecondsAfterFinished
	if ttl == 0 {
		ttl = DefaultTTLSecondsAfterFinished
	}

	return &ClusterConfig{
		namespace:               namespace,
		jobTimeout:              positive(jobTimeout, path+".jobTimeout"),
		maxLogLines:             positive(maxLogLines, path+".maxLogLines"),
		ttlSecondsAfterFinished: positive(ttl, path+".ttlSecondsAfterFinished"),
	}
}

type SyncConfigMarshall struct {
	Repositories []*RepositoryConfigMarshall `yaml:"repositories,omitempty"`
}

func (s *SyncConfigMarshall) trySeal(path string) *SyncConfig {
	repos := s.Repositories
	if len(repos) == 0 {
		repos = []*RepositoryConfigMarshall{{URL: DefaultRepositoryURL}}
	}

	sealed := make([]*RepositoryConfig, 0, len(repos))
	for i, r := range repos {
		p := fmt.Sprintf("%s.repositories[%d]", path, i)
		sealed = append(sealed, nonnil(r, p).trySeal(p))
	}
	return &SyncConfig{repositories: sealed}
}

type RepositoryConfigMarshall struct {
	URL       string `yaml:"url"`
	Branch    string `yaml:"branch,omitempty"`
	Directory string `yaml:"directory,omitempty"`
}

func (r *RepositoryConfigMarshall) trySeal(path string) *RepositoryConfig {
	branch := r.Branch
	if branch == "" {
		branch = DefaultRepositoryBranch
	}
	dir := r.Directory
	if dir == "" {
		dir = DefaultRepositoryDirectory
	}
	return &RepositoryConfig{
		url:       required(r.URL, path+".url"),
		branch:    branch,
		directory: dir,
	}
}

func nonnil[T any](v *T, path string) *T {
	if v == nil {
		panic(path + " is required")
	}
	return v
}

func required[T comparable](v T, path string) T {
	if v == *new(T) {
		panic(path + " is required")
	}
	return v
}

func positive[T ~int32 | ~int64](v T, path string) T {
	if v <= 0 {
		panic(path + " should be positive")
	}
	return v
}
