package sync

import "github.com/Tangerg/resolve/pkg/safe"

// Go same to safe.Go.
func Go(fn func(), errfns ...func(error)) {
	safe.Go(fn, errfns...)
}
