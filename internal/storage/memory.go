package storage

// Memory is an in-memory KV for tests. Error fields inject failures into
// the corresponding operations.
type Memory struct {
	values map[string][]byte

	GetErr    error
	SetErr    error
	DeleteErr error
}

// NewMemory creates an empty in-memory KV.
func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

// Get implements KV.
func (m *Memory) Get(key string) ([]byte, bool, error) {
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements KV.
func (m *Memory) Set(key string, value []byte) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	m.values[key] = cp
	return nil
}

// Delete implements KV.
func (m *Memory) Delete(key string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.values, key)
	return nil
}
