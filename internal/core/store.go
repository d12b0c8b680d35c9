package core

import (
	"pfmlportal/internal/infra/persistence/memory"
	"pfmlportal/internal/infra/persistence/postgres"
	"pfmlportal/internal/infra/persistence/sqlite"
)

type (
	// MemoryStore is the in-memory transactional store.
	MemoryStore = memory.Store
	// SQLiteStore snapshots the memory store into an embedded database.
	SQLiteStore = sqlite.Store
	// PostgresStore snapshots the memory store into PostgreSQL.
	PostgresStore = postgres.Store
)

// NewMemoryStore constructs an in-memory store evaluating engine on commit.
func NewMemoryStore(engine *RulesEngine) *MemoryStore {
	return memory.NewStore(engine)
}

// NewMemoryStoreFrom returns a memory store preloaded with claims and
// documents. Rules are not evaluated for the preloaded records.
func NewMemoryStoreFrom(engine *RulesEngine, claims []Claim, docs []Document) *MemoryStore {
	snapshot := memory.Snapshot{
		Claims:    make(map[string]Claim, len(claims)),
		Documents: make(map[string]Document, len(docs)),
	}
	for _, c := range claims {
		snapshot.Claims[c.ApplicationID] = c.Clone()
	}
	for _, d := range docs {
		snapshot.Documents[d.FineosDocumentID] = d
	}
	store := memory.NewStore(engine)
	store.ImportState(snapshot)
	return store
}
