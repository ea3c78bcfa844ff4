package apperr

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	require.Equal(t, KindValidation, KindOf(Validation("empty name")))
	require.Equal(t, KindNotFound, KindOf(NotFound("no folder %d", 7)))
	require.Equal(t, KindAuthorization, KindOf(Authorization("not yours")))
	require.Equal(t, KindTimeout, KindOf(Timeout("too slow")))
	require.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	require.Equal(t, KindUnknown, KindOf(nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := Wrap(KindNotFound, errors.New("row missing"), "load folder")
	err = errors.Wrap(err, "delete folder")

	require.True(t, IsNotFound(err))
	require.False(t, IsValidation(err))
}

func TestDeadlineExceededIsTimeout(t *testing.T) {
	err := errors.Wrap(context.DeadlineExceeded, "query canceled")
	require.True(t, IsTimeout(err))
}

func TestWrapNil(t *testing.T) {
	require.NoError(t, Wrap(KindValidation, nil, "nothing"))
}
