package errcode

// Error code convention for notify messages:
// - 0: no error
// - 4xxx: recoverable/warning class (flow continued with degraded output)
// - 5xxx: system errors (flow aborted)
const (
	OK              = 0
	ContentFallback = 4001
	NotPersisted    = 4002
	SystemError     = 5000
)
