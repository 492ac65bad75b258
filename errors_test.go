package tilegemm

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		err  error
		kind ErrorKind
		pred func(error) bool
	}{
		{NewShapeMismatchError("Execute", "bad dims"), KindShapeMismatch, IsShapeMismatch},
		{NewUnsupportedAlgorithmError("Execute", "bad tag"), KindUnsupportedAlgorithm, IsUnsupportedAlgorithm},
		{NewDeviceUnavailableError("Execute", "no device"), KindDeviceUnavailable, IsDeviceUnavailable},
		{NewExecutionError("launch", "boom", nil), KindExecution, IsExecutionError},
	}
	for _, tc := range cases {
		assert.True(t, tc.pred(tc.err), tc.err.Error())
		assert.Contains(t, tc.err.Error(), tc.kind.String())
		assert.Contains(t, tc.err.Error(), "tilegemm")
	}
	assert.False(t, IsShapeMismatch(NewExecutionError("x", "y", nil)))
	assert.False(t, IsShapeMismatch(errors.New("plain")))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("device fault")
	err := NewExecutionError("launch", "kernel failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "device fault")
}

func TestKindPredicatesSeeThroughWrapping(t *testing.T) {
	err := errors.Wrap(NewShapeMismatchError("Execute", "bad dims"), "while dispatching")
	assert.True(t, IsShapeMismatch(err))
}
