package rpc

import (
	"errors"
	"net"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterfaceAddr(t *testing.T) {
	tests := []struct {
		addr  string
		valid bool
	}{
		{"10.0.0.1/24", true},
		{"10.0.0.1/31", true},
		{"10.1.1.1/255.255.255.0", true},
		{"10.1.1.1/255.255.0.0", true},
		{"192.168.255.254/16", true},
		{"10.0.0.0/24", false},
		{"10.1.1.0/255.255.255.0", false},
		{"10.1.1.1/255.0.255.0", false},
		{"10.1.1.1/255.255.255.256", false},
		{"10.1.1.1/255.255.255.255", false},
		{"10.0.0.1/32", false},
		{"10.0.0.1", false},
		{"10.0.0.1/33", false},
		{"2001:db8::1/64", false},
		{"not-an-address", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			_, err := interfaceAddr("ip address", tt.addr)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.Error(t, err)
			assert.True(t, errors.As(err, &verr))
			assert.Equal(t, "ip address", verr.Field)
			assert.Equal(t, tt.addr, verr.Value)
		})
	}
}

func TestInterfaceAddrHostVersusNetwork(t *testing.T) {
	addr := netip.MustParseAddr("10.1.2.3")
	for bits := 1; bits <= 31; bits++ {
		host := netip.PrefixFrom(addr, bits)
		_, err := interfaceAddr("ip", host.String())
		assert.NoError(t, err, "host %s", host)
		network := host.Masked()
		_, err = interfaceAddr("ip", network.String())
		assert.Error(t, err, "network %s", network)
	}
}

func TestInterfaceAddrNetmaskForm(t *testing.T) {
	addr := netip.MustParseAddr("10.1.2.3")
	for bits := 1; bits <= 31; bits++ {
		mask := net.CIDRMask(bits, 32)
		dotted := addr.String() + "/" + net.IP(mask).String()
		prefix, err := interfaceAddr("ip", dotted)
		require.NoError(t, err, dotted)
		assert.Equal(t, netip.PrefixFrom(addr, bits), prefix, dotted)
	}

	_, err := interfaceAddr("ip", "10.1.1.1/255.0.255.0")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "non-contiguous netmask", verr.Reason)
}

func TestCheckMulticastAddr(t *testing.T) {
	tests := []struct {
		addr  string
		valid bool
	}{
		{"239.1.1.1", true},
		{"224.0.0.0", true},
		{"239.255.255.255", true},
		{"240.0.0.1", false},
		{"10.0.0.5", false},
		{"ff02::1", false},
		{"239.1.1.1/32", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			err := checkMulticastAddr("multicast group", tt.addr)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "ip address", Value: "10.0.0.0/24", Reason: "network address, not a host address"}
	assert.Equal(t, `invalid ip address "10.0.0.0/24": network address, not a host address`, err.Error())
}
