package utils

const (
	RootDir  = "/etc/raikou"
	StoreDir = "/etc/raikou/store"

	LeaseStorePath    = "/etc/raikou/store/lease.json"
	DefaultConfigPath = "/etc/raikou/config.yaml"

	DockerSocketPath = "/var/run/docker.sock"
)
