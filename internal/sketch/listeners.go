package sketch

type listener struct {
	id int
	fn func()
}

// listeners calls registered callbacks in registration order.
type listeners struct {
	seq    int
	fns    []listener
	firing bool
}

// add registers fn and returns a function removing it again.
func (l *listeners) add(fn func()) func() {
	l.seq++
	id := l.seq
	l.fns = append(l.fns, listener{id: id, fn: fn})
	return func() {
		for i, e := range l.fns {
			if e.id == id {
				l.fns = append(l.fns[:i:i], l.fns[i+1:]...)
				return
			}
		}
	}
}

func (l *listeners) fire() {
	if l.firing {
		return
	}
	l.firing = true
	defer func() { l.firing = false }()
	snapshot := append([]listener(nil), l.fns...)
	for _, e := range snapshot {
		e.fn()
	}
}
