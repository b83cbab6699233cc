package rpc

import (
	"fmt"

	"github.com/Juniper/go-netconf/netconf"
)

// Object is a device configuration object rendered to NETCONF RPCs.
type Object interface {
	fmt.Stringer
	Target() Datastore
	RenderCreate() (netconf.RawMethod, error)
	RenderGet() netconf.RawMethod
	RenderRemove() netconf.RawMethod
}

var (
	_ Object = (*SviConfig)(nil)
	_ Object = (*EvpnConfig)(nil)
)
