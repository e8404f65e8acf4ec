package types

// Tag is a key/value pair destined for a file's metadata container.
type Tag struct {
	Key   string
	Value string
}
