package protocol

import (
	"bytes"
	"fmt"
	"slices"
	"sync"

	"github.com/danmuck/gdl90/internal/protocol/message"
)

// Registry maps message ids to descriptors. The first id byte selects either
// a descriptor or, for extension families such as ForeFlight, a table keyed
// by the second byte. A Registry is read-only after construction.
type Registry struct {
	single map[byte]message.Descriptor
	sub    map[byte]map[byte]message.Descriptor
}

// NewRegistry fails if two descriptors claim the same ids or a one-byte id
// collides with an extension family.
func NewRegistry(descs ...message.Descriptor) (*Registry, error) {
	r := &Registry{
		single: make(map[byte]message.Descriptor),
		sub:    make(map[byte]map[byte]message.Descriptor),
	}
	for _, d := range descs {
		if err := r.add(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) add(d message.Descriptor) error {
	if d.Decode == nil || d.Name == "" {
		return fmt.Errorf("%w: %q has no name or decoder", ErrInvalidDescriptor, d.Name)
	}
	switch len(d.IDs) {
	case 1:
		id := d.IDs[0]
		if prev, ok := r.single[id]; ok {
			return fmt.Errorf("%w: %#02x claimed by %s and %s", ErrDuplicateMessageID, id, prev.Name, d.Name)
		}
		if _, ok := r.sub[id]; ok {
			return fmt.Errorf("%w: %#02x is an extension family", ErrDuplicateMessageID, id)
		}
		r.single[id] = d
	case 2:
		id, subID := d.IDs[0], d.IDs[1]
		if prev, ok := r.single[id]; ok {
			return fmt.Errorf("%w: %#02x claimed by %s", ErrDuplicateMessageID, id, prev.Name)
		}
		family := r.sub[id]
		if family == nil {
			family = make(map[byte]message.Descriptor)
			r.sub[id] = family
		}
		if prev, ok := family[subID]; ok {
			return fmt.Errorf("%w: % x claimed by %s and %s", ErrDuplicateMessageID, d.IDs, prev.Name, d.Name)
		}
		family[subID] = d
	default:
		return fmt.Errorf("%w: %s has %d id bytes", ErrInvalidDescriptor, d.Name, len(d.IDs))
	}
	return nil
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := NewRegistry(message.Descriptors()...)
	if err != nil {
		panic(err)
	}
	return r
})

// DefaultRegistry holds every built-in message type.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

// Lookup finds the descriptor for the ids at the front of content.
func (r *Registry) Lookup(content []byte) (message.Descriptor, bool) {
	if len(content) == 0 {
		return message.Descriptor{}, false
	}
	if d, ok := r.single[content[0]]; ok {
		return d, true
	}
	family, ok := r.sub[content[0]]
	if !ok || len(content) < 2 {
		return message.Descriptor{}, false
	}
	d, ok := family[content[1]]
	return d, ok
}

// idsOf returns the id bytes an unknown frame was looked up with.
func (r *Registry) idsOf(content []byte) []byte {
	if _, ok := r.sub[content[0]]; ok && len(content) >= 2 {
		return content[:2]
	}
	return content[:1]
}

// Descriptors returns the registered descriptors ordered by id.
func (r *Registry) Descriptors() []message.Descriptor {
	out := make([]message.Descriptor, 0, len(r.single))
	for _, d := range r.single {
		out = append(out, d)
	}
	for _, family := range r.sub {
		for _, d := range family {
			out = append(out, d)
		}
	}
	slices.SortFunc(out, func(a, b message.Descriptor) int {
		return bytes.Compare(a.IDs, b.IDs)
	})
	return out
}
