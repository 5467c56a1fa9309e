// Package arena provides the single-owner string store the generator
// context borrows from.
//
// The arena allocator itself is an external collaborator out of scope
// for this repository — the real compiler's arena also owns
// AST node storage, lives across the whole compilation, and is driven by
// the front end. What the lowering engine needs from it is narrow: a
// place to durably intern the strings it synthesizes (mangled names,
// escaped literals, type spellings) so every returned spelling is
// reference-stable for the translation unit's lifetime.
// Arena fills exactly that need and nothing more; see DESIGN.md for why
// this is deliberately not a general bump allocator.
package arena

// Arena interns strings for the lifetime of one translation unit. A
// zero-value Arena is ready to use.
type Arena struct {
	interned map[string]string
}

// New creates an empty Arena.
func New() *Arena {
	return &Arena{interned: make(map[string]string)}
}

// Intern returns a stable, arena-owned copy of s. Repeated calls with
// equal strings return the identical backing string, satisfying the
// "reference-stable for the TU lifetime" guarantee that callers such as
// the type lowerer and mangler depend on.
func (a *Arena) Intern(s string) string {
	if a.interned == nil {
		a.interned = make(map[string]string)
	}
	if existing, ok := a.interned[s]; ok {
		return existing
	}
	a.interned[s] = s
	return s
}

// Len reports how many distinct strings have been interned so far.
func (a *Arena) Len() int { return len(a.interned) }
