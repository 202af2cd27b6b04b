package portpick

import "net"

// probeTCP tries to bind a TCP listener on network ("tcp4" or "tcp6") at the
// wildcard address and port. On success it reports the port the OS actually
// bound, which differs from the requested port only when port is 0. The
// listener is closed before returning, so the port is free again; nothing
// stops another process from taking it afterwards.
func probeTCP(network string, port Port) (Port, bool) {
	l, err := net.ListenTCP(network, &net.TCPAddr{IP: wildcardIP(network), Port: int(port)})
	if err != nil {
		return 0, false
	}
	bound := l.Addr().(*net.TCPAddr).Port
	_ = l.Close()
	return Port(bound), true
}

// probeUDP is probeTCP for UDP sockets ("udp4" or "udp6").
func probeUDP(network string, port Port) (Port, bool) {
	c, err := net.ListenUDP(network, &net.UDPAddr{IP: wildcardIP(network), Port: int(port)})
	if err != nil {
		return 0, false
	}
	bound := c.LocalAddr().(*net.UDPAddr).Port
	_ = c.Close()
	return Port(bound), true
}

func wildcardIP(network string) net.IP {
	if network == "tcp4" || network == "udp4" {
		return net.IPv4zero
	}
	return net.IPv6unspecified
}

// IsFreeTCP reports whether port can be bound for TCP on both the IPv6 and
// IPv4 wildcard addresses.
func IsFreeTCP(port Port) bool {
	_, ok6 := probeTCP("tcp6", port)
	if !ok6 {
		return false
	}
	_, ok4 := probeTCP("tcp4", port)
	return ok4
}

// IsFreeUDP reports whether port can be bound for UDP on both the IPv6 and
// IPv4 wildcard addresses.
func IsFreeUDP(port Port) bool {
	_, ok6 := probeUDP("udp6", port)
	if !ok6 {
		return false
	}
	_, ok4 := probeUDP("udp4", port)
	return ok4
}

// IsFree reports whether port is free on both TCP and UDP for both address
// families. Any single failed bind, whatever the cause, makes the port
// not-free; the cause is not distinguishable by callers.
func IsFree(port Port) bool {
	return IsFreeTCP(port) && IsFreeUDP(port)
}
