package codec

import "golang.org/x/text/cases"

// Key is the case-folded form of a Pokemon name. Two names refer to the same
// record exactly when their keys are equal.
type Key string

// KeyOf folds a name into its key
func KeyOf(name string) Key {
	// cases.Caser is stateful and must not be shared between goroutines
	return Key(cases.Fold().String(name))
}

// Matches reports whether name folds to k
func (k Key) Matches(name string) bool {
	return k == KeyOf(name)
}
