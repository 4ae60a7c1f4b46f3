//go:build unit

package errs_test

import (
	"errors"
	"strings"
	"testing"

	"booking-orchestrator/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

var errConflict = errors.New("conflict")

type codeError struct{ code int }

func (e *codeError) Error() string { return "code" }

func TestMarkAndIs(t *testing.T) {
	t.Run("success: mark survives wrapping", func(t *testing.T) {
		base := errs.New("row already paid")
		err := errs.Wrap(errs.Mark(base, errConflict), "mark paid")

		assert.True(t, errs.Is(err, errConflict))
		assert.Contains(t, err.Error(), "mark paid")
	})

	t.Run("success: nil mark target returns the sentinel", func(t *testing.T) {
		assert.Same(t, errConflict, errs.Mark(nil, errConflict))
	})

	t.Run("success: wrapping nil stays nil", func(t *testing.T) {
		assert.NoError(t, errs.Wrap(nil, "x"))
		assert.NoError(t, errs.Wrapf(nil, "x %d", 1))
	})
}

func TestAs(t *testing.T) {
	err := errs.Wrapf(&codeError{code: 7}, "step %d", 2)

	var target *codeError
	if assert.True(t, errs.As(err, &target)) {
		assert.Equal(t, 7, target.code)
	}
}

func TestExtractStackLines(t *testing.T) {
	err := errs.Wrap(errs.New("boom"), "outer")

	lines := errs.ExtractStackLines(err, 3)
	assert.Len(t, lines, 3)
	assert.True(t, strings.Contains(strings.Join(errs.ExtractStackLines(err, 0), "\n"), "boom"))
	assert.Nil(t, errs.ExtractStackLines(nil, 3))
}
