package rpc

import "fmt"

type Datastore string

const (
	Running   Datastore = "running"
	Candidate Datastore = "candidate"
)

const DEFAULT_MTU = 1500

type kind int

const (
	kindSvi kind = iota
	kindEvpn
)

// params collects the settable fields shared by SviConfig and EvpnConfig.
type params struct {
	kind        kind
	ipAddress   string
	vlanName    string
	mtu         int
	description string
	vrfName     string
	mgroup      string
	supARP      bool
	target      Datastore
	templates   *TemplateSet
}

type Option func(*params) error

func OptionIPAddress(addr string) Option {
	return func(p *params) error {
		p.ipAddress = addr
		return nil
	}
}

func OptionVlanName(name string) Option {
	return func(p *params) error {
		p.vlanName = name
		return nil
	}
}

func OptionMTU(mtu int) Option {
	return func(p *params) error {
		if mtu <= 0 {
			return fmt.Errorf("invalid mtu %d", mtu)
		}
		p.mtu = mtu
		return nil
	}
}

func OptionDescription(descr string) Option {
	return func(p *params) error {
		p.description = descr
		return nil
	}
}

func OptionVrf(name string) Option {
	return func(p *params) error {
		p.vrfName = name
		return nil
	}
}

// OptionMulticastGroup selects multicast BUM replication. EVPN only.
func OptionMulticastGroup(group string) Option {
	return func(p *params) error {
		if p.kind != kindEvpn {
			return fmt.Errorf("multicast group is not supported for SVI")
		}
		p.mgroup = group
		return nil
	}
}

// OptionSuppressARP enables ARP suppression on the VNI. EVPN only.
func OptionSuppressARP(enable bool) Option {
	return func(p *params) error {
		if p.kind != kindEvpn {
			return fmt.Errorf("ARP suppression is not supported for SVI")
		}
		p.supARP = enable
		return nil
	}
}

// OptionTarget sets the datastore edit-config writes to.
func OptionTarget(ds Datastore) Option {
	return func(p *params) error {
		switch ds {
		case Running, Candidate:
			p.target = ds
			return nil
		}
		return fmt.Errorf("unsupported target datastore %q", ds)
	}
}

func OptionTemplates(ts *TemplateSet) Option {
	return func(p *params) error {
		if ts == nil {
			return fmt.Errorf("nil template set")
		}
		p.templates = ts
		return nil
	}
}

func (p *params) apply(options []Option) error {
	for _, op := range options {
		if err := op(p); err != nil {
			return err
		}
	}
	return nil
}
