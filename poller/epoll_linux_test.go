package poller

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEpollMsec(t *testing.T) {
	d := func(v time.Duration) *time.Duration { return &v }

	require.Equal(t, -1, epollMsec(nil))
	require.Equal(t, 0, epollMsec(d(0)))
	require.Equal(t, 1, epollMsec(d(time.Microsecond)))
	require.Equal(t, 250, epollMsec(d(250*time.Millisecond)))
	require.Equal(t, math.MaxInt32, epollMsec(d(30*24*time.Hour)))
	require.Equal(t, math.MaxInt32, epollMsec(d(time.Duration(math.MaxInt64))))
}
