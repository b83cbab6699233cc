package rpc

import (
	"strconv"

	"github.com/Juniper/go-netconf/netconf"
	log "github.com/sirupsen/logrus"
)

const (
	SVI_DEFAULT_DESCRIPTION = "SVI created by netconf"
	SVI_DEFAULT_VRF         = "default"
)

// SviConfig is a switched VLAN interface: a bridge domain plus a layer-3
// interface on top of it. It is immutable once built.
type SviConfig struct {
	vlanID int
	p      params
}

// NewSviConfig builds an SVI for vlanID. A blank VLAN name becomes
// "VLAN<vlanID>".
func NewSviConfig(vlanID int, options ...Option) (*SviConfig, error) {
	svi := &SviConfig{
		vlanID: vlanID,
		p: params{
			kind:        kindSvi,
			mtu:         DEFAULT_MTU,
			description: SVI_DEFAULT_DESCRIPTION,
			vrfName:     SVI_DEFAULT_VRF,
			target:      Running,
			templates:   DefaultTemplates(),
		},
	}
	if err := svi.p.apply(options); err != nil {
		return nil, err
	}
	if svi.p.vlanName == "" {
		svi.p.vlanName = "VLAN" + strconv.Itoa(vlanID)
	}
	return svi, nil
}

func (svi *SviConfig) VlanID() int         { return svi.vlanID }
func (svi *SviConfig) VlanName() string    { return svi.p.vlanName }
func (svi *SviConfig) IPAddress() string   { return svi.p.ipAddress }
func (svi *SviConfig) MTU() int            { return svi.p.mtu }
func (svi *SviConfig) Description() string { return svi.p.description }
func (svi *SviConfig) Vrf() string         { return svi.p.vrfName }
func (svi *SviConfig) Target() Datastore   { return svi.p.target }

func (svi *SviConfig) fields() Fields {
	return Fields{
		"target":      string(svi.p.target),
		"vlan_id":     svi.vlanID,
		"vlan_name":   svi.p.vlanName,
		"mtu":         svi.p.mtu,
		"description": svi.p.description,
		"vrf_name":    svi.p.vrfName,
		"ip_address":  svi.p.ipAddress,
	}
}

func (svi *SviConfig) RenderCreate() (netconf.RawMethod, error) {
	prefix, err := interfaceAddr("ip address", svi.p.ipAddress)
	if err != nil {
		return "", err
	}
	fields := svi.fields()
	fields["ip_address"] = prefix.String()
	body, err := svi.p.templates.Render(fields,
		TplConfigHead,
		TplBdConf,
		TplSviConf,
		TplConfigTail,
	)
	if err != nil {
		return "", err
	}
	log.Debugf("svi %d: create rpc rendered", svi.vlanID)
	return netconf.RawMethod(body), nil
}

func (svi *SviConfig) RenderGet() netconf.RawMethod {
	return mustRender(svi.p.templates, svi.fields(),
		TplFilterHead,
		TplBdGet,
		TplSviGet,
		TplFilterTail,
	)
}

func (svi *SviConfig) RenderRemove() netconf.RawMethod {
	return mustRender(svi.p.templates, svi.fields(),
		TplConfigHead,
		TplBdRemove,
		TplSviRemove,
		TplConfigTail,
	)
}

// mustRender is used by get and remove, which carry no user validation.
// Failure here means a broken template set.
func mustRender(ts *TemplateSet, fields Fields, names ...string) netconf.RawMethod {
	body, err := ts.Render(fields, names...)
	if err != nil {
		log.Panicf("failed to render %v: %v", names, err)
	}
	return netconf.RawMethod(body)
}
