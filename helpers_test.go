package portpick

import (
	"fmt"
	"io"
	"net"
	"testing"

	"github.com/jschaf/portpick/internal/errs"
	"github.com/stretchr/testify/require"
)

// requireIPv6 skips the test when the host has no IPv6 stack. The oracle
// probes the IPv6 wildcard first, so every positive result depends on it.
func requireIPv6(t *testing.T) {
	t.Helper()
	if _, ok := probeTCP("tcp6", 0); !ok {
		t.Skip("IPv6 stack unavailable on this host")
	}
}

// occupier holds real sockets so a test can make ports not-free.
type occupier struct {
	closers []io.Closer
}

func (o *occupier) Close() (mErr error) {
	for _, c := range o.closers {
		errs.Capture(&mErr, c.Close, "close occupier socket")
	}
	return mErr
}

// occupyTCP binds a TCP listener on the wildcard address at port and
// releases it when the test ends.
func occupyTCP(t *testing.T, port Port) {
	t.Helper()
	l, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	require.NoError(t, err, "bind tcp occupier on port %d", port)
	t.Cleanup(func() { errs.CaptureT(t, l.Close, "close tcp occupier") })
}

// occupyUDP binds a UDP socket on the wildcard address at port and releases
// it when the test ends.
func occupyUDP(t *testing.T, port Port) {
	t.Helper()
	c, err := net.ListenPacket("udp", fmt.Sprintf(":%d", port))
	require.NoError(t, err, "bind udp occupier on port %d", port)
	t.Cleanup(func() { errs.CaptureT(t, c.Close, "close udp occupier") })
}

// occupyBandTCP binds TCP listeners on every port in [lo, hi) and releases
// them when the test ends.
func occupyBandTCP(t *testing.T, lo, hi Port) {
	t.Helper()
	occ := &occupier{}
	t.Cleanup(func() { errs.CaptureT(t, occ.Close, "close band occupiers") })
	for port := lo; port < hi; port++ {
		l, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		require.NoError(t, err, "bind occupier on port %d", port)
		occ.closers = append(occ.closers, l)
	}
}

// findFreeRun returns the first base in [20000, 24000) where n consecutive
// ports are all free.
func findFreeRun(t *testing.T, n int) Port {
	t.Helper()
	for base := Port(20000); base < 24000; base++ {
		ok := true
		for i := 0; i < n; i++ {
			if !IsFree(base + Port(i)) {
				ok = false
				break
			}
		}
		if ok {
			return base
		}
	}
	t.Fatalf("no run of %d consecutive free ports in [20000, 24000)", n)
	return 0
}
