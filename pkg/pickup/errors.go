package pickup

import (
	"errors"
	"fmt"
	"os"
)

// Sentinel errors used for simple equality-style checks.
var (
	ErrInvalid    = os.ErrInvalid    // invalid argument
	ErrExist      = os.ErrExist      // file already exists
	ErrNotExist   = os.ErrNotExist   // file does not exist
	ErrPermission = os.ErrPermission // permission denied

	// ErrAlreadyTracked is returned by Add when the package already has an
	// entry in the root index.
	ErrAlreadyTracked = errors.New("package already tracked")

	// ErrNotTracked is returned by Update and Remove when the package has no
	// entry in the root index.
	ErrNotTracked = errors.New("package not tracked")

	// ErrNotFoundRemote is returned when the remote index has no page for the
	// requested package.
	ErrNotFoundRemote = errors.New("package not found in remote")

	// ErrRepoNotInitialized indicates the repository root has no index file
	// yet and the operation requires one.
	ErrRepoNotInitialized = errors.New("repository not initialized")
)

// PackageError attaches the package name to an underlying failure so callers
// batching several packages can report which one broke.
type PackageError struct {
	Package string
	Err     error
}

func (e *PackageError) Error() string {
	return fmt.Sprintf("package %q: %v", e.Package, e.Err)
}

func (e *PackageError) Unwrap() error { return e.Err }

// NewPackageError wraps err with the package name. A nil err returns nil.
func NewPackageError(pkg string, err error) error {
	if err == nil {
		return nil
	}
	return &PackageError{Package: pkg, Err: err}
}
