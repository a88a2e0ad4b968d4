// Package testerr helps tests simulate dependencies that fail part way
// through a sequence of calls.
package testerr

import "fmt"

// FailingDep tracks calls to a dependency and fails them according to its
// settings. Use NewFailingDeps to create every failure case for a call sequence.
type FailingDep struct {
	CallIndex         int
	Err               error
	FailAllAfterIndex bool
	FailAtIndex       int
}

// NewFailingDeps will create failure cases for a number of calls to a dependency.
//
// Dependencies will fail in two ways:
// - A single failure, then all calls after succesful.
// - All calls will fail after a number of succesful calls.
func NewFailingDeps(err error, expectCalls int) []*FailingDep {
	deps := make([]*FailingDep, 0, expectCalls*2)
	for i := 0; i < expectCalls; i++ {
		deps = append(deps, &FailingDep{
			CallIndex:         -1,
			Err:               err,
			FailAllAfterIndex: true,
			FailAtIndex:       i,
		}, &FailingDep{
			CallIndex:         -1,
			Err:               err,
			FailAllAfterIndex: false,
			FailAtIndex:       i,
		})
	}

	return deps
}

// String describes the failure case, it's meant to be used as a subtest name.
func (d *FailingDep) String() string {
	if d.FailAllAfterIndex {
		return fmt.Sprintf("fail from call %d on", d.FailAtIndex)
	}
	return fmt.Sprintf("fail only call %d", d.FailAtIndex)
}

// MaybeFail fails the call if the dependency should fail at this point.
// A nil dependency never fails.
func MaybeFail[T any](dep *FailingDep, f func() (T, error)) (T, error) {
	if dep == nil {
		return f()
	}

	dep.CallIndex++

	var zero T

	if dep.FailAtIndex == dep.CallIndex {
		return zero, dep.Err
	}

	if dep.FailAllAfterIndex && dep.CallIndex > dep.FailAtIndex {
		return zero, dep.Err
	}

	return f()
}
