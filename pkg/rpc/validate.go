package rpc

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strings"
)

// ErrNotImplemented is returned by operations reserved for later use.
var ErrNotImplemented = errors.New("not implemented")

// ValidationError reports a field value rejected by RenderCreate.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// interfaceAddr parses an IPv4 interface address that names a host on its
// subnet, either as 10.0.0.1/24 or as 10.0.0.1/255.255.255.0, and returns
// it in prefix-length form. The network form 10.0.0.0/24 is rejected, and
// so is every /32 since it is its own network. Netmasks must be contiguous.
func interfaceAddr(field, addr string) (netip.Prefix, error) {
	if addr == "" {
		return netip.Prefix{}, &ValidationError{Field: field, Value: addr, Reason: "address is required"}
	}
	prefix, err := parseInterfacePrefix(addr)
	if err != nil {
		return netip.Prefix{}, &ValidationError{Field: field, Value: addr, Reason: err.Error()}
	}
	if !prefix.Addr().Is4() {
		return netip.Prefix{}, &ValidationError{Field: field, Value: addr, Reason: "not an IPv4 address"}
	}
	if prefix.Masked().Addr() == prefix.Addr() {
		return netip.Prefix{}, &ValidationError{Field: field, Value: addr, Reason: "network address, not a host address"}
	}
	return prefix, nil
}

func parseInterfacePrefix(addr string) (netip.Prefix, error) {
	host, mask, ok := strings.Cut(addr, "/")
	if !ok || !strings.Contains(mask, ".") {
		prefix, err := netip.ParsePrefix(addr)
		if err != nil {
			return netip.Prefix{}, errors.New("not an address with prefix length")
		}
		return prefix, nil
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Prefix{}, errors.New("not an address with netmask")
	}
	m, err := netip.ParseAddr(mask)
	if err != nil || !m.Is4() {
		return netip.Prefix{}, errors.New("not an address with netmask")
	}
	ones, bits := net.IPMask(m.AsSlice()).Size()
	if bits == 0 {
		return netip.Prefix{}, errors.New("non-contiguous netmask")
	}
	return netip.PrefixFrom(ip, ones), nil
}

// checkMulticastAddr accepts a bare IPv4 address in 224.0.0.0/4.
func checkMulticastAddr(field, addr string) error {
	ip, err := netip.ParseAddr(addr)
	if err != nil || !ip.Is4() {
		return &ValidationError{Field: field, Value: addr, Reason: "not an IPv4 address"}
	}
	if !ip.IsMulticast() {
		return &ValidationError{Field: field, Value: addr, Reason: "not a multicast address"}
	}
	return nil
}
