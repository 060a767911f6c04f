package tilemap

import "iter"

// compactAfter is the tombstone count below which keyOrder never compacts.
const compactAfter = 32

// keyOrder is an insertion-ordered set of non-empty keys. Removal leaves a
// tombstone so it costs O(1); the slice is compacted once tombstones make up
// half of it.
type keyOrder struct {
	keys  []string
	index map[string]int
	dead  int
}

func (o *keyOrder) add(key string) {
	if _, ok := o.index[key]; ok {
		return
	}
	if o.index == nil {
		o.index = make(map[string]int)
	}
	o.index[key] = len(o.keys)
	o.keys = append(o.keys, key)
}

func (o *keyOrder) remove(key string) {
	i, ok := o.index[key]
	if !ok {
		return
	}
	delete(o.index, key)
	o.keys[i] = ""
	o.dead++
	if o.dead >= compactAfter && o.dead*2 >= len(o.keys) {
		o.compact()
	}
}

func (o *keyOrder) compact() {
	live := o.keys[:0]
	for _, k := range o.keys {
		if k == "" {
			continue
		}
		o.index[k] = len(live)
		live = append(live, k)
	}
	clear(o.keys[len(live):])
	o.keys = live
	o.dead = 0
}

func (o *keyOrder) len() int {
	return len(o.index)
}

// all yields the live keys in insertion order.
func (o *keyOrder) all() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, k := range o.keys {
			if k != "" && !yield(k) {
				return
			}
		}
	}
}

func (o *keyOrder) clone() keyOrder {
	out := keyOrder{
		keys:  make([]string, 0, o.len()),
		index: make(map[string]int, o.len()),
	}
	for k := range o.all() {
		out.add(k)
	}
	return out
}
