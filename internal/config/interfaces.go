package config

// ManagerInterface defines configuration loading
type ManagerInterface interface {
	Load() (*Config, error)
	Path() string
}

// Ensure Manager implements ManagerInterface
var _ ManagerInterface = (*Manager)(nil)
