package generic

// Slot is the pool bookkeeping embedded in every pooled entity.
// It is owned by the pool; entities expose it through Pooled.
type Slot struct {
	id     uint32
	gen    uint32
	active bool
	owner  any
}

// ID is the stable index of the entity inside its pool.
func (s *Slot) ID() uint32 { return s.id }

// Generation increments every time the entity is acquired. Deferred work can
// capture it to detect that the entity was recycled in the meantime.
func (s *Slot) Generation() uint32 { return s.gen }

// Active reports whether the entity is currently owned by the simulation.
func (s *Slot) Active() bool { return s.active }

// OwnedBy reports whether pool p is the entity's owner.
func (s *Slot) OwnedBy(p any) bool { return s.owner == p }

type Pooled interface {
	PoolSlot() *Slot
}

type PoolStats struct {
	Acquired uint64
	Released uint64
	Grown    uint64
}

// Pool is a single-owner, growable store of reusable entities.
// It is not safe for concurrent use.
type Pool[T Pooled] struct {
	all   []T
	free  []T
	gen   func() T
	reset func(T)
	stats PoolStats
}

// NewPool creates a pool and warms it up with initial entities. reset runs on
// every Put before the entity becomes visible to a later Get.
func NewPool[T Pooled](generate func() T, reset func(T), initial int) *Pool[T] {
	if initial < 0 {
		initial = 0
	}
	p := &Pool[T]{
		all:   make([]T, 0, initial),
		free:  make([]T, 0, initial),
		gen:   generate,
		reset: reset,
	}
	for i := 0; i < initial; i++ {
		p.free = append(p.free, p.create())
	}
	return p
}

func (p *Pool[T]) create() T {
	v := p.gen()
	s := v.PoolSlot()
	s.id = uint32(len(p.all))
	s.owner = p
	s.active = false
	p.all = append(p.all, v)
	return v
}

// Get hands out a free entity, growing the backing store when none is left.
// It never blocks and never fails.
func (p *Pool[T]) Get() T {
	var v T
	if n := len(p.free); n > 0 {
		v = p.free[n-1]
		var zero T
		p.free[n-1] = zero
		p.free = p.free[:n-1]
	} else {
		v = p.create()
		p.stats.Grown++
	}
	s := v.PoolSlot()
	s.gen++
	s.active = true
	p.stats.Acquired++
	return v
}

// Put returns an entity to the pool. Entities that are not active or belong to
// another pool are ignored and Put reports false.
func (p *Pool[T]) Put(value T) bool {
	s := value.PoolSlot()
	if s == nil || !s.active || s.owner != p {
		return false
	}
	if p.reset != nil {
		p.reset(value)
	}
	s.active = false
	p.free = append(p.free, value)
	p.stats.Released++
	return true
}

// ForEachActive visits every entity currently owned by the simulation in
// creation order. fn may release the visited entity.
func (p *Pool[T]) ForEachActive(fn func(T)) {
	for i := 0; i < len(p.all); i++ {
		if v := p.all[i]; v.PoolSlot().active {
			fn(v)
		}
	}
}

// Len is the total number of entities the pool has created.
func (p *Pool[T]) Len() int { return len(p.all) }

// Free is the number of entities ready to be handed out.
func (p *Pool[T]) Free() int { return len(p.free) }

// Active is the number of entities owned by the simulation.
func (p *Pool[T]) Active() int { return len(p.all) - len(p.free) }

func (p *Pool[T]) Stats() PoolStats { return p.stats }
