package token

// Attr is a single element attribute.
type Attr struct {
	Key   string
	Value string
}

// Attrs is an ordered attribute set. Keys are unique.
type Attrs []Attr

// Index returns the position of key, or -1.
func (a Attrs) Index(key string) int {
	for i, attr := range a {
		if attr.Key == key {
			return i
		}
	}
	return -1
}

// Get returns the value stored for key.
func (a Attrs) Get(key string) (string, bool) {
	if i := a.Index(key); i >= 0 {
		return a[i].Value, true
	}
	return "", false
}

// Has reports whether key is present.
func (a Attrs) Has(key string) bool {
	return a.Index(key) >= 0
}

// Set stores value under key. An existing key keeps its position.
func (a *Attrs) Set(key, value string) {
	if i := a.Index(key); i >= 0 {
		(*a)[i].Value = value
		return
	}
	*a = append(*a, Attr{Key: key, Value: value})
}

// Delete removes key if present.
func (a *Attrs) Delete(key string) {
	i := a.Index(key)
	if i < 0 {
		return
	}
	*a = append((*a)[:i], (*a)[i+1:]...)
}

// Clone returns an independent copy.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	cp := make(Attrs, len(a))
	copy(cp, a)
	return cp
}
