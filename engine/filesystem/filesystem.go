package filesystem

// ReadCallback receives the outcome of a single ReadFile call. When ok is
// false the file could not be found or read and data is nil. Every FileSystem
// implementation fires the callback exactly once per call, either
// synchronously within ReadFile or later from its own pump.
type ReadCallback func(data []byte, ok bool)

// FileSystem turns an absolute path into bytes. It is the only capability the
// resource registry needs from the outside world to perform a load.
type FileSystem interface {
	ReadFile(path string, onComplete ReadCallback)
}
