package store

// Batch collects multi-path updates that are committed with a single
// Cache.WriteBatch call. A nil value deletes the path.
type Batch struct {
	updates map[string]*string
}

func NewBatch() *Batch {
	return &Batch{updates: make(map[string]*string)}
}

func (b *Batch) Set(key, value string) {
	b.updates[key] = &value
}

func (b *Batch) Delete(key string) {
	b.updates[key] = nil
}

func (b *Batch) Len() int {
	return len(b.updates)
}

// Updates returns the staged paths. Callers must not modify the map.
func (b *Batch) Updates() map[string]*string {
	return b.updates
}
