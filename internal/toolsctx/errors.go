package toolsctx

import "errors"

// ErrClosed is returned after Shutdown.
var ErrClosed = errors.New("tools context is shut down")
