package svgdoc

// Attr is a single key/value pair.
type Attr struct {
	Key string
	Val string
}

// Attrs is an insertion-ordered mapping of keys to values.
type Attrs struct {
	list  []Attr
	index map[string]int
}

// NewAttrs returns an empty Attrs.
func NewAttrs() *Attrs {
	return &Attrs{
		index: map[string]int{},
	}
}

// Len returns the number of pairs.
func (a *Attrs) Len() int {
	return len(a.list)
}

// Get returns the value for key and whether it was set.
func (a *Attrs) Get(key string) (string, bool) {
	if i, ok := a.index[key]; ok {
		return a.list[i].Val, true
	}
	return "", false
}

// Has returns true if key is set.
func (a *Attrs) Has(key string) bool {
	_, ok := a.index[key]
	return ok
}

// Set overwrites the value of an existing key in place, or appends a new pair.
func (a *Attrs) Set(key, val string) {
	if i, ok := a.index[key]; ok {
		a.list[i].Val = val
		return
	}
	a.index[key] = len(a.list)
	a.list = append(a.list, Attr{key, val})
}

// Del removes key, it is a no-op when key is not set.
func (a *Attrs) Del(key string) {
	i, ok := a.index[key]
	if !ok {
		return
	}
	delete(a.index, key)
	copy(a.list[i:], a.list[i+1:])
	a.list = a.list[:len(a.list)-1]
	for j := i; j < len(a.list); j++ {
		a.index[a.list[j].Key] = j
	}
}

// Retain removes all keys for which keep returns false.
func (a *Attrs) Retain(keep func(key string) bool) {
	j := 0
	for _, attr := range a.list {
		if keep(attr.Key) {
			a.list[j] = attr
			a.index[attr.Key] = j
			j++
		} else {
			delete(a.index, attr.Key)
		}
	}
	a.list = a.list[:j]
}

// List returns a copy of all pairs in order.
func (a *Attrs) List() []Attr {
	list := make([]Attr, len(a.list))
	copy(list, a.list)
	return list
}

// Keys returns all keys in order.
func (a *Attrs) Keys() []string {
	keys := make([]string, len(a.list))
	for i, attr := range a.list {
		keys[i] = attr.Key
	}
	return keys
}
