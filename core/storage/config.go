package storage

// Config holds configuration for the object storage provider used for orphan archives.
type Config struct {
	// Enabled turns archiving on. When false no client is created.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Endpoint is the URL of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the name of the bucket holding archives.
	Bucket string `mapstructure:"bucket" default:"tour-admin"`
	// ArchivePrefix is the object prefix for orphan archives.
	ArchivePrefix string `mapstructure:"archive_prefix" default:"archive/orphans"`
	// Region is the location of the bucket (e.g., ap-northeast-2).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
