package discovery

import "fmt"

// RootResolutionError reports a configuration root that does not exist or
// cannot be canonicalized.
type RootResolutionError struct {
	Root string
	Err  error
}

func (e *RootResolutionError) Error() string {
	return fmt.Sprintf("unable to find config root '%s': %v", e.Root, e.Err)
}

func (e *RootResolutionError) Unwrap() error { return e.Err }

// DiscoveryError reports a failure to chroot into or list the search path.
type DiscoveryError struct {
	Op   string
	Path string
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("%s '%s': %v", e.Op, e.Path, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// FileOpenError reports a listed file that could not be opened.
type FileOpenError struct {
	Path string
	Err  error
}

func (e *FileOpenError) Error() string {
	return fmt.Sprintf("unable to open config file '%s': %v", e.Path, e.Err)
}

func (e *FileOpenError) Unwrap() error { return e.Err }
