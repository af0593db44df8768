package reservations

import "sync"

// roomLocks serializa "chequear disponibilidad + insertar" por
// habitación. Sin esto, dos solicitudes concurrentes con rangos
// solapados pueden pasar el chequeo antes de que cualquiera persista
// (check-then-act). El lock vive en el proceso; despliegues multi-nodo
// dependen además del constraint transaccional del storage.
type roomLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *roomLocks) lock(roomID string) func() {
	l.mu.Lock()
	m, ok := l.locks[roomID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[roomID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
