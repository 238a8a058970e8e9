package actor

import "sync"

// State Actor 生命周期状态
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopping
	StateStopped
	StateTerminated
	StateRestarting
)

// String 返回状态名称
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateTerminated:
		return "terminated"
	case StateRestarting:
		return "restarting"
	default:
		return "unknown"
	}
}

// Final 是否为终态
func (s State) Final() bool {
	return s == StateStopped || s == StateTerminated
}

// tombstones 已退出 Actor 的最终状态，按写入顺序淘汰
type tombstones struct {
	mu    sync.Mutex
	limit int
	order []string
	last  map[string]State
}

func newTombstones(limit int) *tombstones {
	return &tombstones{
		limit: limit,
		last:  make(map[string]State),
	}
}

func (t *tombstones) record(id string, s State) {
	if t.limit <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.last[id]; !ok {
		t.order = append(t.order, id)
	}
	t.last[id] = s

	for len(t.order) > t.limit {
		delete(t.last, t.order[0])
		t.order = t.order[1:]
	}
}

func (t *tombstones) forget(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.last[id]; !ok {
		return
	}
	delete(t.last, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

func (t *tombstones) get(id string) (State, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.last[id]
	return s, ok
}
