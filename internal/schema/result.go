package schema

// Result is the outcome of an operation. Exactly one [Result] is delivered
// for every operation that was dispatched.
type Result struct {
	// Created is set by operations that create a new entity, such as
	// create-partition and linux-md-start.
	Created EntityRef

	// NumErrors is set by linux-md-check.
	NumErrors uint64

	// Err is set if the operation has failed.
	Err error
}

// Failed reports if the operation has failed.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Failure returns a [Result] holding only the given error.
func Failure(err error) Result {
	return Result{Err: err}
}
