package db

import (
	"sync"

	"github.com/fsdevblog/barky/internal/db/memory"
)

// MemoryStorage хранилище в памяти процесса вместе с последовательностью идентификаторов.
// Последовательность ведет себя как AUTOINCREMENT: удаленные ID повторно не выдаются.
type MemoryStorage struct {
	*memory.MStorage

	seqMu  sync.Mutex
	lastID uint
}

func NewMemStorage() *MemoryStorage {
	return &MemoryStorage{
		MStorage: memory.NewMemStorage(),
	}
}

// NextID выдает следующий идентификатор.
func (m *MemoryStorage) NextID() uint {
	m.seqMu.Lock()
	defer m.seqMu.Unlock()
	m.lastID++
	return m.lastID
}

// ObserveID сдвигает последовательность, если id, записанный явно, больше выданных.
func (m *MemoryStorage) ObserveID(id uint) {
	m.seqMu.Lock()
	defer m.seqMu.Unlock()
	m.lastID = max(m.lastID, id)
}
