// Package stack captures source locations from the call stack. The registry
// and the assertion helpers use it so that tests and failures point at the
// code that registered or asserted, not at the engine's own machinery.
package stack

import "runtime"

// Frame is one call-stack entry, innermost-first as returned by Capture.
type Frame struct {
	Path string
	Line int
}

// Capture returns up to max frames of the current call stack, innermost
// first, after skipping skip frames (0 means the caller of Capture).
func Capture(skip, max int) []Frame {
	pcs := make([]uintptr, max)
	// +2 accounts for runtime.Callers and Capture itself
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	out := make([]Frame, 0, n)
	for {
		fr, more := frames.Next()
		out = append(out, Frame{Path: fr.File, Line: fr.Line})
		if !more {
			break
		}
	}
	return out
}

const maxDepth = 32

// CallSite walks the stack outward from skip frames above the caller and
// returns the first frame whose file is not rejected by the internal
// predicate. When every frame is internal it falls back to the outermost
// frame, so a location is always produced.
func CallSite(skip int, internal func(path string) bool) Frame {
	frames := Capture(skip+1, maxDepth)
	if len(frames) == 0 {
		return Frame{}
	}
	for _, fr := range frames {
		if !internal(fr.Path) {
			return fr
		}
	}
	return frames[len(frames)-1]
}
