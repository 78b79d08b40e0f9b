package server

import "time"

type ServerConfig struct {
	port     int32
	database string
	auth     *AuthConfig
	cluster  *ClusterConfig
	sync     *SyncConfig
}

// Port where the API server listens.
func (c *ServerConfig) Port() int32 {
	return c.port
}

// Connection string for database.
func (c *ServerConfig) Database() string {
	return c.database
}

// Configuration for bearer token authentication.
//
// nil means authentication is disabled.
func (c *ServerConfig) Auth() *AuthConfig {
	return c.auth
}

// Configuration for k8s cluster where test runs are executed.
func (c *ServerConfig) Cluster() *ClusterConfig {
	return c.cluster
}

// Configuration for definition repositories.
func (c *ServerConfig) Sync() *SyncConfig {
	return c.sync
}

type AuthConfig struct {
	signKeyFile string
}

// File which contains the HS256 key to sign/verify tokens.
func (a *AuthConfig) SignKeyFile() string {
	return a.signKeyFile
}

// Configuration for k8s cluster.
//
// to get `ClusterConfig` instance, use `TrySeal(*ClusterConfigMarshall)` .
type ClusterConfig struct {
	namespace               string
	jobTimeout              time.Duration
	maxLogLines             int64
	ttlSecondsAfterFinished int32
}

// k8s namespace where Jobs are created. default = "default"
func (c *ClusterConfig) Namespace() string {
	return c.namespace
}

// How long a Job can run before it is killed. default = 300s
func (c *ClusterConfig) JobTimeout() time.Duration {
	return c.jobTimeout
}

// Lines of log tail to be read. default = 1000
func (c *ClusterConfig) MaxLogLines() int64 {
	return c.maxLogLines
}

// default = 3600
func (c *ClusterConfig) TTLSecondsAfterFinished() int32 {
	return c.ttlSecondsAfterFinished
}

type SyncConfig struct {
	repositories []*RepositoryConfig
}

func (s *SyncConfig) Repositories() []*RepositoryConfig {
	return s.repositories
}

// git repository which has test definitions as json files.
type RepositoryConfig struct {
	url       string
	branch    string
	directory string
}

func (r *RepositoryConfig) URL() string {
	return r.url
}

func (r *RepositoryConfig) Branch() string {
	return r.branch
}

// Directory in the repository where *.json are placed.
func (r *RepositoryConfig) Directory() string {
	return r.directory
}
