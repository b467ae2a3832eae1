package crawler

import "sync"

// SignalCoordinator manages the abort signal shared by the collectors
// and the engine wait loop.
type SignalCoordinator struct {
	abortChan chan struct{}
	abortOnce sync.Once
}

// NewSignalCoordinator creates a new signal coordinator.
func NewSignalCoordinator() *SignalCoordinator {
	return &SignalCoordinator{
		abortChan: make(chan struct{}),
	}
}

// Reset prepares the coordinator for a new run.
func (sc *SignalCoordinator) Reset() {
	sc.abortChan = make(chan struct{})
	sc.abortOnce = sync.Once{}
}

// AbortChannel returns the abort signal channel.
func (sc *SignalCoordinator) AbortChannel() <-chan struct{} {
	return sc.abortChan
}

// SignalAbort signals all goroutines to abort.
// Safe to call multiple times, only the first call has effect.
func (sc *SignalCoordinator) SignalAbort() {
	sc.abortOnce.Do(func() {
		close(sc.abortChan)
	})
}

// Aborted reports whether the abort signal has fired.
func (sc *SignalCoordinator) Aborted() bool {
	select {
	case <-sc.abortChan:
		return true
	default:
		return false
	}
}
