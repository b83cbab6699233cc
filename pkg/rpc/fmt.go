package rpc

import "fmt"

func (svi *SviConfig) String() string {
	return fmt.Sprintf(
		"svi(vlan=%d, name=%s, ip=%s, mtu=%d, vrf=%s)",
		svi.vlanID, svi.p.vlanName, svi.p.ipAddress, svi.p.mtu, svi.p.vrfName)
}

func (evpn *EvpnConfig) String() string {
	bum := "ingress-replication"
	if !evpn.IngressReplication() {
		bum = "mcast " + evpn.p.mgroup
	}
	return fmt.Sprintf(
		"evpn(vlan=%d, vni=%d, name=%s, ip=%s, mtu=%d, vrf=%s, bum=%s, suppress-arp=%s)",
		evpn.vlanID, evpn.vni, evpn.p.vlanName, evpn.p.ipAddress, evpn.p.mtu,
		evpn.p.vrfName, bum, evpn.arp)
}
