package validate

import (
	"fmt"
	"sort"
)

// MismatchError reports the first field where live state diverged from
// the expected document.
type MismatchError struct {
	Field    string
	Expected any
	Actual   any
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("state mismatch at %s: expected %v, actual %v", e.Field, e.Expected, e.Actual)
}

func mismatch(field string, expected, actual any) error {
	return &MismatchError{Field: field, Expected: expected, Actual: actual}
}

// equalField compares one scalar field, failing with its path on
// divergence.
func equalField[T comparable](field string, expected, actual T) error {
	if expected != actual {
		return mismatch(field, expected, actual)
	}
	return nil
}

// equalList compares an ordered string list.
func equalList(field string, expected, actual []string) error {
	if len(expected) != len(actual) {
		return mismatch(field, expected, actual)
	}
	for i := range expected {
		if expected[i] != actual[i] {
			return mismatch(fmt.Sprintf("%s[%d]", field, i), expected[i], actual[i])
		}
	}
	return nil
}

// equalSet compares two string collections as unordered sets, even
// though their transport representation is an ordered sequence.
func equalSet(field string, expected, actual []string) error {
	e := append([]string(nil), expected...)
	a := append([]string(nil), actual...)
	sort.Strings(e)
	sort.Strings(a)
	if len(e) != len(a) {
		return mismatch(field, e, a)
	}
	for i := range e {
		if e[i] != a[i] {
			return mismatch(field, e, a)
		}
	}
	return nil
}
