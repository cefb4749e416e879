package utils

import (
	"fmt"
	"runtime/debug"
)

// SafelyRun invokes function and converts a panic into an error carrying
// the stack trace.
func SafelyRun(function func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("%w\n%s", e, string(debug.Stack()))
			} else {
				err = fmt.Errorf("unknown panic\n%s", string(debug.Stack()))
			}
		}
	}()

	function()

	return nil
}

// SafelyGo runs function on a new goroutine, routing a recovered panic to
// handleError instead of crashing the process.
func SafelyGo(function func(), handleError func(error)) {
	go func() {
		err := SafelyRun(function)
		if err != nil {
			handleError(err)
		}
	}()
}
