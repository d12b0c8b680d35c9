package blob

import memorystore "pfmlportal/internal/infra/blob/memory"

// NewMemory returns an in-memory Store suitable for tests.
func NewMemory() Store { return memorystore.New() }
