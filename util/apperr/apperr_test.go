package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCode(t *testing.T) {
	require.Equal(t, KindNotFound, Code(NotFound("loan %s not found", "P1")))
	require.Equal(t, KindDuplicate, Code(Duplicate("already there")))
	require.Equal(t, KindInvalid, Code(Invalid("bad %d", 5)))
	require.Equal(t, Kind(""), Code(errors.New("plain")))
	require.Equal(t, Kind(""), Code(nil))
}

func TestCodeSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("creating loan: %w", Invalid("state is bad"))
	require.Equal(t, KindInvalid, Code(err))
	require.Contains(t, err.Error(), "state is bad")
}
