package storage

func NewTestMemoryLevelDBBackend() (*LevelDBBackend, error) {
	return NewStorage(&Config{Scheme: "memory"})
}
