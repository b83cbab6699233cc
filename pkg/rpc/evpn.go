package rpc

import (
	"strconv"

	"github.com/Juniper/go-netconf/netconf"
	log "github.com/sirupsen/logrus"
)

const (
	EVPN_DEFAULT_DESCRIPTION = "anycast SVI"
	EVPN_DEFAULT_VRF         = "Tenant-1"
)

const (
	ARP_SUPPRESSION_ENABLED = "enabled"
	ARP_SUPPRESSION_OFF     = "off"
)

// EvpnConfig is a layer-2 VNI stitched to a VLAN with an anycast gateway
// SVI, an NVE membership and a BGP EVPN instance. BUM traffic is carried by
// the multicast group when one is set and by ingress replication otherwise.
type EvpnConfig struct {
	vlanID int
	vni    int
	p      params
	arp    string
}

// NewEvpnConfig builds an EVPN segment. A blank VLAN name becomes
// "l2VNI-<vni>".
func NewEvpnConfig(vlanID int, vni int, options ...Option) (*EvpnConfig, error) {
	evpn := &EvpnConfig{
		vlanID: vlanID,
		vni:    vni,
		p: params{
			kind:        kindEvpn,
			mtu:         DEFAULT_MTU,
			description: EVPN_DEFAULT_DESCRIPTION,
			vrfName:     EVPN_DEFAULT_VRF,
			target:      Running,
			templates:   DefaultTemplates(),
		},
	}
	if err := evpn.p.apply(options); err != nil {
		return nil, err
	}
	if evpn.p.vlanName == "" {
		evpn.p.vlanName = "l2VNI-" + strconv.Itoa(vni)
	}
	evpn.arp = ARP_SUPPRESSION_OFF
	if evpn.p.supARP {
		evpn.arp = ARP_SUPPRESSION_ENABLED
	}
	return evpn, nil
}

func (evpn *EvpnConfig) VlanID() int            { return evpn.vlanID }
func (evpn *EvpnConfig) VNI() int               { return evpn.vni }
func (evpn *EvpnConfig) VlanName() string       { return evpn.p.vlanName }
func (evpn *EvpnConfig) IPAddress() string      { return evpn.p.ipAddress }
func (evpn *EvpnConfig) MTU() int               { return evpn.p.mtu }
func (evpn *EvpnConfig) Description() string    { return evpn.p.description }
func (evpn *EvpnConfig) Vrf() string            { return evpn.p.vrfName }
func (evpn *EvpnConfig) MulticastGroup() string { return evpn.p.mgroup }
func (evpn *EvpnConfig) SuppressARP() bool      { return evpn.p.supARP }
func (evpn *EvpnConfig) Target() Datastore      { return evpn.p.target }

// ArpSuppression is the wire value of the suppress-ARP flag.
func (evpn *EvpnConfig) ArpSuppression() string { return evpn.arp }

func (evpn *EvpnConfig) IngressReplication() bool { return evpn.p.mgroup == "" }

func (evpn *EvpnConfig) fields() Fields {
	return Fields{
		"target":      string(evpn.p.target),
		"vlan_id":     evpn.vlanID,
		"vni":         evpn.vni,
		"vlan_name":   evpn.p.vlanName,
		"mtu":         evpn.p.mtu,
		"description": evpn.p.description,
		"vrf_name":    evpn.p.vrfName,
		"ip_address":  evpn.p.ipAddress,
		"mgroup":      evpn.p.mgroup,
		"supARP":      evpn.arp,
	}
}

func (evpn *EvpnConfig) RenderCreate() (netconf.RawMethod, error) {
	prefix, err := interfaceAddr("ip address", evpn.p.ipAddress)
	if err != nil {
		return "", err
	}
	fields := evpn.fields()
	fields["ip_address"] = prefix.String()
	nve := TplNveIngressConf
	if !evpn.IngressReplication() {
		if err := checkMulticastAddr("multicast group", evpn.p.mgroup); err != nil {
			return "", err
		}
		nve = TplNveMcastConf
	}
	body, err := evpn.p.templates.Render(fields,
		TplConfigHead,
		TplBdVxlanConf,
		TplSviAnycastConf,
		nve,
		TplBgpEvpnConf,
		TplConfigTail,
	)
	if err != nil {
		return "", err
	}
	log.Debugf("evpn vlan %d vni %d: create rpc rendered (%s)", evpn.vlanID, evpn.vni, nve)
	return netconf.RawMethod(body), nil
}

func (evpn *EvpnConfig) RenderGet() netconf.RawMethod {
	return mustRender(evpn.p.templates, evpn.fields(),
		TplFilterHead,
		TplBdGet,
		TplSviGet,
		TplNveGet,
		TplBgpEvpnGet,
		TplFilterTail,
	)
}

func (evpn *EvpnConfig) RenderRemove() netconf.RawMethod {
	return mustRender(evpn.p.templates, evpn.fields(),
		TplConfigHead,
		TplBdRemove,
		TplSviRemove,
		TplNveRemove,
		TplBgpEvpnRemove,
		TplConfigTail,
	)
}

// RenderYPath is reserved for a YANG path lookup of the segment.
func (evpn *EvpnConfig) RenderYPath() (string, error) {
	return "", ErrNotImplemented
}
