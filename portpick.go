// Package portpick finds unused local ports for test harnesses and
// ephemeral services that must know a concrete port number before starting a
// listener, instead of asking the OS for port 0 at bind time.
//
// A port reported free is not reserved. Another process can bind it between
// the probe and the caller's own bind; callers must handle that bind failing
// and retry. That race is inherent to any probe-then-use design over the
// OS port table.
package portpick

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
	"time"
)

// Port is a port number.
type Port = uint16

const (
	// Random candidates are drawn from [randomLo, randomHi), a band outside
	// the OS ephemeral range so random sampling doesn't compete with the
	// kernel's own port allocator.
	randomLo = 15000
	randomHi = 25000

	// Attempt budget for each phase of PickUnusedPort.
	pickAttempts = 10
)

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(rngSeed()))
)

func rngSeed() int64 {
	var seed int64
	if err := binary.Read(crand.Reader, binary.LittleEndian, &seed); err != nil {
		return time.Now().UnixNano()
	}
	return seed
}

func randomPort() Port {
	rngMu.Lock()
	defer rngMu.Unlock()
	return Port(randomLo + rng.Intn(randomHi-randomLo))
}

// askFreeTCPPort asks the OS for an unused TCP port by binding port 0,
// preferring the IPv6 wildcard and falling back to IPv4.
func askFreeTCPPort() (Port, bool) {
	if port, ok := probeTCP("tcp6", 0); ok {
		return port, true
	}
	return probeTCP("tcp4", 0)
}

// PickUnusedPort returns a port that is free on both TCP and UDP for both
// address families, or ok=false if no port was found within the attempt
// budget. Exhaustion is an expected outcome under port pressure, not a
// fault, so it is reported as absence rather than an error.
//
// It first draws up to 10 random candidates from [15000, 25000) and checks
// each with IsFree. If all are taken it asks the OS for a TCP port up to 10
// times, keeping the first one that is also free on UDP. OS-assigned ports
// are free on TCP by construction, so only UDP is re-verified.
func PickUnusedPort() (Port, bool) {
	for i := 0; i < pickAttempts; i++ {
		port := randomPort()
		if IsFree(port) {
			return port, true
		}
	}
	for i := 0; i < pickAttempts; i++ {
		port, ok := askFreeTCPPort()
		if !ok {
			continue
		}
		if IsFreeUDP(port) {
			return port, true
		}
	}
	return 0, false
}

// MustPickUnusedPort is PickUnusedPort that panics on absence. Intended for
// test setup where no free port means the environment is unusable anyway.
func MustPickUnusedPort() Port {
	port, ok := PickUnusedPort()
	if !ok {
		panic("portpick: no unused port found")
	}
	return port
}

// PickUnusedPortRange returns the lowest port in the half-open range
// [lo, hi) that is free on both TCP and UDP for both address families, or
// ok=false if the range has none. The scan is ascending and unrandomized:
// with unchanged port occupancy, repeated calls return the same port, which
// lets parallel test shards carve disjoint sub-ranges deterministically.
// An empty range (hi <= lo) always reports absence.
func PickUnusedPortRange(lo, hi Port) (Port, bool) {
	for port := lo; port < hi; port++ {
		if IsFree(port) {
			return port, true
		}
	}
	return 0, false
}

// PickUnusedPorts returns n distinct ports, each free at the time it was
// probed, or ok=false if the attempt budget ran out first. The ports are not
// reserved, so with heavy churn a port may be taken again before use;
// duplicates across the returned slice are suppressed.
func PickUnusedPorts(n int) ([]Port, bool) {
	ports := make([]Port, 0, n)
	seen := make(map[Port]struct{}, n)
	for tries := 0; len(ports) < n && tries < n*pickAttempts; tries++ {
		port, ok := PickUnusedPort()
		if !ok {
			return nil, false
		}
		if _, dup := seen[port]; dup {
			continue
		}
		seen[port] = struct{}{}
		ports = append(ports, port)
	}
	if len(ports) < n {
		return nil, false
	}
	return ports, true
}
