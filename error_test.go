package docver_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/docver"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := docver.Errorf(docver.ENOTFOUND, "document %q not found", "guides/intro")

	assert.Equal(t, docver.ENOTFOUND, docver.ErrorCode(err))
	assert.Equal(t, "document \"guides/intro\" not found", docver.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, docver.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, docver.ErrorMessage(nil))
}

func TestErrorCode_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("list versions: %w", docver.Errorf(docver.EUNAVAILABLE, "repository offline"))

	assert.Equal(t, docver.EUNAVAILABLE, docver.ErrorCode(err))
	assert.Equal(t, "repository offline", docver.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("disk on fire")

	assert.Equal(t, docver.EINTERNAL, docver.ErrorCode(err))
	assert.Equal(t, "Internal error.", docver.ErrorMessage(err))
}
