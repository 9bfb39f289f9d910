// Package rowfold turns flattened join rows (parent columns repeated once per child)
// into parents carrying a deduplicated child collection.
package rowfold

// Folder describes how to read one kind of join row. It holds no state between
// Fold calls, so a single value can be shared freely.
type Folder[R any, K comparable, P any, CK comparable, C any] struct {
	// ParentKey returns the parent identity of the row.
	ParentKey func(row R) K
	// NewParent builds a parent from the scalar columns of its first row.
	NewParent func(row R) P
	// ChildKey returns the child identity; ok=false means the row carries no child.
	ChildKey func(row R) (key CK, ok bool)
	// NewChild builds a child from the row.
	NewChild func(row R) C
	// Attach adds a child to its parent.
	Attach func(parent P, child C)
}

type pairKey[K comparable, CK comparable] struct {
	parent K
	child  CK
}

// Fold groups rows by parent, preserving first-seen parent order. A child key
// already attached to the same parent is skipped. The result is never nil.
func (f Folder[R, K, P, CK, C]) Fold(rows []R) []P {
	out := make([]P, 0)
	if len(rows) == 0 {
		return out
	}
	parents := make(map[K]P, len(rows))
	var seen map[pairKey[K, CK]]struct{}
	if f.ChildKey != nil {
		seen = make(map[pairKey[K, CK]]struct{}, len(rows))
	}
	for _, row := range rows {
		key := f.ParentKey(row)
		parent, ok := parents[key]
		if !ok {
			parent = f.NewParent(row)
			parents[key] = parent
			out = append(out, parent)
		}
		if f.ChildKey == nil {
			continue
		}
		childKey, hasChild := f.ChildKey(row)
		if !hasChild {
			continue
		}
		pk := pairKey[K, CK]{parent: key, child: childKey}
		if _, dup := seen[pk]; dup {
			continue
		}
		seen[pk] = struct{}{}
		f.Attach(parent, f.NewChild(row))
	}
	return out
}

// ValidID reports whether a nullable join id denotes a real row.
// NULL, zero and negative ids are the "no child" sentinel.
func ValidID(id *int64) bool {
	return id != nil && *id > 0
}
