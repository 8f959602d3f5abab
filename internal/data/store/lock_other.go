//go:build !unix

package store

// lockDir is a no-op where flock is unavailable; only writers inside one
// process are serialized.
func lockDir(string) (func(), error) {
	return func() {}, nil
}
