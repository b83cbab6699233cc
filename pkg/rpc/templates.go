package rpc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/template"
)

const NXOS_DEVICE_NS = "http://cisco.com/ns/yang/cisco-nx-os-device"

// Template names, as accepted by ParseTemplates.
const (
	TplConfigHead     = "config-head"
	TplConfigTail     = "config-tail"
	TplFilterHead     = "filter-head"
	TplFilterTail     = "filter-tail"
	TplBdConf         = "bd-conf"
	TplBdGet          = "bd-get"
	TplBdRemove       = "bd-remove"
	TplSviConf        = "svi-conf"
	TplSviGet         = "svi-get"
	TplSviRemove      = "svi-remove"
	TplBdVxlanConf    = "bd-vxlan-conf"
	TplSviAnycastConf = "svi-anycast-conf"
	TplNveMcastConf   = "nve-mcast-conf"
	TplNveIngressConf = "nve-ingress-conf"
	TplNveGet         = "nve-get"
	TplNveRemove      = "nve-remove"
	TplBgpEvpnConf    = "bgp-evpn-conf"
	TplBgpEvpnGet     = "bgp-evpn-get"
	TplBgpEvpnRemove  = "bgp-evpn-remove"
)

const (
	configHeadXml = `<edit-config>
<target><{{.target}}/></target>
<default-operation>merge</default-operation>
<error-option>rollback-on-error</error-option>
<config xmlns:nc="urn:ietf:params:xml:ns:netconf:base:1.0">
<System xmlns="` + NXOS_DEVICE_NS + `">
`
	configTailXml = `</System>
</config>
</edit-config>`

	filterHeadXml = `<get>
<filter type="subtree">
<System xmlns="` + NXOS_DEVICE_NS + `">
`
	filterTailXml = `</System>
</filter>
</get>`

	bdConfXml = `  <bd-items>
    <bd-items>
      <BD-list>
        <fabEncap>vlan-{{.vlan_id}}</fabEncap>
        <name>{{.vlan_name}}</name>
        <adminSt>active</adminSt>
      </BD-list>
    </bd-items>
  </bd-items>
`
	bdVxlanConfXml = `  <bd-items>
    <bd-items>
      <BD-list>
        <fabEncap>vlan-{{.vlan_id}}</fabEncap>
        <name>{{.vlan_name}}</name>
        <accEncap>vxlan-{{.vni}}</accEncap>
        <adminSt>active</adminSt>
      </BD-list>
    </bd-items>
  </bd-items>
`
	bdGetXml = `  <bd-items>
    <bd-items>
      <BD-list>
        <fabEncap>vlan-{{.vlan_id}}</fabEncap>
      </BD-list>
    </bd-items>
  </bd-items>
`
	bdRemoveXml = `  <bd-items>
    <bd-items>
      <BD-list nc:operation="delete">
        <fabEncap>vlan-{{.vlan_id}}</fabEncap>
      </BD-list>
    </bd-items>
  </bd-items>
`
	sviConfXml = `  <intf-items>
    <svi-items>
      <If-list>
        <id>vlan{{.vlan_id}}</id>
        <adminSt>up</adminSt>
        <mtu>{{.mtu}}</mtu>
        <descr>{{.description}}</descr>
        <rtvrfMbr-items>
          <tDn>/System/inst-items/Inst-list[name='{{.vrf_name}}']</tDn>
        </rtvrfMbr-items>
      </If-list>
    </svi-items>
  </intf-items>
  <ipv4-items>
    <inst-items>
      <dom-items>
        <Dom-list>
          <name>{{.vrf_name}}</name>
          <if-items>
            <If-list>
              <id>vlan{{.vlan_id}}</id>
              <addr-items>
                <Addr-list>
                  <addr>{{.ip_address}}</addr>
                </Addr-list>
              </addr-items>
            </If-list>
          </if-items>
        </Dom-list>
      </dom-items>
    </inst-items>
  </ipv4-items>
`
	sviAnycastConfXml = `  <intf-items>
    <svi-items>
      <If-list>
        <id>vlan{{.vlan_id}}</id>
        <adminSt>up</adminSt>
        <mtu>{{.mtu}}</mtu>
        <descr>{{.description}}</descr>
        <rtvrfMbr-items>
          <tDn>/System/inst-items/Inst-list[name='{{.vrf_name}}']</tDn>
        </rtvrfMbr-items>
      </If-list>
    </svi-items>
  </intf-items>
  <ipv4-items>
    <inst-items>
      <dom-items>
        <Dom-list>
          <name>{{.vrf_name}}</name>
          <if-items>
            <If-list>
              <id>vlan{{.vlan_id}}</id>
              <addr-items>
                <Addr-list>
                  <addr>{{.ip_address}}</addr>
                </Addr-list>
              </addr-items>
            </If-list>
          </if-items>
        </Dom-list>
      </dom-items>
    </inst-items>
  </ipv4-items>
  <hmm-items>
    <fwdinst-items>
      <if-items>
        <FwdIf-list>
          <id>vlan{{.vlan_id}}</id>
          <mode>anycastGW</mode>
        </FwdIf-list>
      </if-items>
    </fwdinst-items>
  </hmm-items>
`
	sviGetXml = `  <intf-items>
    <svi-items>
      <If-list>
        <id>vlan{{.vlan_id}}</id>
      </If-list>
    </svi-items>
  </intf-items>
  <ipv4-items>
    <inst-items>
      <dom-items>
        <Dom-list>
          <name>{{.vrf_name}}</name>
          <if-items>
            <If-list>
              <id>vlan{{.vlan_id}}</id>
            </If-list>
          </if-items>
        </Dom-list>
      </dom-items>
    </inst-items>
  </ipv4-items>
`
	sviRemoveXml = `  <intf-items>
    <svi-items>
      <If-list nc:operation="delete">
        <id>vlan{{.vlan_id}}</id>
      </If-list>
    </svi-items>
  </intf-items>
`
	nveMcastConfXml = `  <eps-items>
    <epId-items>
      <Ep-list>
        <epId>1</epId>
        <nws-items>
          <vni-items>
            <Nw-list>
              <vni>{{.vni}}</vni>
              <mcastGroup>{{.mgroup}}</mcastGroup>
              <suppressARP>{{.supARP}}</suppressARP>
            </Nw-list>
          </vni-items>
        </nws-items>
      </Ep-list>
    </epId-items>
  </eps-items>
`
	nveIngressConfXml = `  <eps-items>
    <epId-items>
      <Ep-list>
        <epId>1</epId>
        <nws-items>
          <vni-items>
            <Nw-list>
              <vni>{{.vni}}</vni>
              <IngRepl-items>
                <proto>bgp</proto>
              </IngRepl-items>
              <suppressARP>{{.supARP}}</suppressARP>
            </Nw-list>
          </vni-items>
        </nws-items>
      </Ep-list>
    </epId-items>
  </eps-items>
`
	nveGetXml = `  <eps-items>
    <epId-items>
      <Ep-list>
        <epId>1</epId>
        <nws-items>
          <vni-items>
            <Nw-list>
              <vni>{{.vni}}</vni>
            </Nw-list>
          </vni-items>
        </nws-items>
      </Ep-list>
    </epId-items>
  </eps-items>
`
	nveRemoveXml = `  <eps-items>
    <epId-items>
      <Ep-list>
        <epId>1</epId>
        <nws-items>
          <vni-items>
            <Nw-list nc:operation="delete">
              <vni>{{.vni}}</vni>
            </Nw-list>
          </vni-items>
        </nws-items>
      </Ep-list>
    </epId-items>
  </eps-items>
`
	bgpEvpnConfXml = `  <evpn-items>
    <bdevi-items>
      <BDEvi-list>
        <encap>vxlan-{{.vni}}</encap>
        <rd>rd:unknown:0:0</rd>
        <rttp-items>
          <RttP-list>
            <type>import</type>
            <ent-items>
              <RttEntry-list>
                <rtt>route-target:unknown:0:0</rtt>
              </RttEntry-list>
            </ent-items>
          </RttP-list>
          <RttP-list>
            <type>export</type>
            <ent-items>
              <RttEntry-list>
                <rtt>route-target:unknown:0:0</rtt>
              </RttEntry-list>
            </ent-items>
          </RttP-list>
        </rttp-items>
      </BDEvi-list>
    </bdevi-items>
  </evpn-items>
`
	bgpEvpnGetXml = `  <evpn-items>
    <bdevi-items>
      <BDEvi-list>
        <encap>vxlan-{{.vni}}</encap>
      </BDEvi-list>
    </bdevi-items>
  </evpn-items>
`
	bgpEvpnRemoveXml = `  <evpn-items>
    <bdevi-items>
      <BDEvi-list nc:operation="delete">
        <encap>vxlan-{{.vni}}</encap>
      </BDEvi-list>
    </bdevi-items>
  </evpn-items>
`
)

var defaultSources = map[string]string{
	TplConfigHead:     configHeadXml,
	TplConfigTail:     configTailXml,
	TplFilterHead:     filterHeadXml,
	TplFilterTail:     filterTailXml,
	TplBdConf:         bdConfXml,
	TplBdGet:          bdGetXml,
	TplBdRemove:       bdRemoveXml,
	TplSviConf:        sviConfXml,
	TplSviGet:         sviGetXml,
	TplSviRemove:      sviRemoveXml,
	TplBdVxlanConf:    bdVxlanConfXml,
	TplSviAnycastConf: sviAnycastConfXml,
	TplNveMcastConf:   nveMcastConfXml,
	TplNveIngressConf: nveIngressConfXml,
	TplNveGet:         nveGetXml,
	TplNveRemove:      nveRemoveXml,
	TplBgpEvpnConf:    bgpEvpnConfXml,
	TplBgpEvpnGet:     bgpEvpnGetXml,
	TplBgpEvpnRemove:  bgpEvpnRemoveXml,
}

// Fields maps a template placeholder name to its value.
type Fields map[string]interface{}

// TemplateSet is the dictionary of XML fragments the config objects are
// assembled from. It is safe for concurrent use once built.
type TemplateSet struct {
	tpl map[string]*template.Template
}

var defaultTemplates = mustParseTemplates(nil)

// DefaultTemplates returns the built-in NX-OS device model templates.
func DefaultTemplates() *TemplateSet {
	return defaultTemplates
}

// TemplateNames lists every name a TemplateSet carries, sorted.
func TemplateNames() []string {
	names := make([]string, 0, len(defaultSources))
	for name := range defaultSources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTemplates builds a TemplateSet from the built-in templates with
// the given sources replacing them by name.
func ParseTemplates(overrides map[string]string) (*TemplateSet, error) {
	ts := &TemplateSet{tpl: make(map[string]*template.Template, len(defaultSources))}
	for name := range overrides {
		if _, ok := defaultSources[name]; !ok {
			return nil, fmt.Errorf("unknown template %q", name)
		}
	}
	for name, src := range defaultSources {
		if override, ok := overrides[name]; ok {
			src = override
		}
		t, err := template.New(name).Option("missingkey=error").Parse(src)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		ts.tpl[name] = t
	}
	for _, user := range templateUsers {
		fields := user.fields()
		for _, name := range user.names {
			if err := ts.tpl[name].Execute(io.Discard, fields); err != nil {
				return nil, fmt.Errorf("template %s (%s): %w", name, user.kind, err)
			}
		}
	}
	return ts, nil
}

// Templates each object renders. A template shared by both objects must
// only use the fields both supply.
var (
	sviTemplateNames = []string{
		TplConfigHead, TplConfigTail, TplFilterHead, TplFilterTail,
		TplBdConf, TplBdGet, TplBdRemove,
		TplSviConf, TplSviGet, TplSviRemove,
	}
	evpnTemplateNames = []string{
		TplConfigHead, TplConfigTail, TplFilterHead, TplFilterTail,
		TplBdVxlanConf, TplBdGet, TplBdRemove,
		TplSviAnycastConf, TplSviGet, TplSviRemove,
		TplNveMcastConf, TplNveIngressConf, TplNveGet, TplNveRemove,
		TplBgpEvpnConf, TplBgpEvpnGet, TplBgpEvpnRemove,
	}
)

var sampleSvi = &SviConfig{
	vlanID: 1,
	p: params{
		kind:      kindSvi,
		ipAddress: "192.0.2.1/24",
		vlanName:  "VLAN1",
		mtu:       DEFAULT_MTU,
		vrfName:   SVI_DEFAULT_VRF,
		target:    Running,
	},
}

var sampleEvpn = &EvpnConfig{
	vlanID: 1,
	vni:    10001,
	p: params{
		kind:      kindEvpn,
		ipAddress: "192.0.2.1/24",
		vlanName:  "l2VNI-10001",
		mtu:       DEFAULT_MTU,
		vrfName:   EVPN_DEFAULT_VRF,
		mgroup:    "239.0.0.1",
		target:    Running,
	},
	arp: ARP_SUPPRESSION_OFF,
}

var templateUsers = []struct {
	kind   string
	fields func() Fields
	names  []string
}{
	{"svi", sampleSvi.fields, sviTemplateNames},
	{"evpn", sampleEvpn.fields, evpnTemplateNames},
}

func mustParseTemplates(overrides map[string]string) *TemplateSet {
	ts, err := ParseTemplates(overrides)
	if err != nil {
		panic(err)
	}
	return ts
}

// Render executes the named templates in order against the same fields
// and concatenates the result.
func (ts *TemplateSet) Render(fields Fields, names ...string) (string, error) {
	escaped, err := escapeFields(fields)
	if err != nil {
		return "", err
	}
	body := &bytes.Buffer{}
	for _, name := range names {
		t, ok := ts.tpl[name]
		if !ok {
			return "", fmt.Errorf("unknown template %q", name)
		}
		if err := t.Execute(body, escaped); err != nil {
			return "", fmt.Errorf("failed to render %s: %w", name, err)
		}
	}
	return body.String(), nil
}

func escapeFields(fields Fields) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		s, ok := value.(string)
		if !ok {
			out[key] = value
			continue
		}
		var sb strings.Builder
		if err := xml.EscapeText(&sb, []byte(s)); err != nil {
			return nil, fmt.Errorf("failed to escape field %s: %w", key, err)
		}
		out[key] = sb.String()
	}
	return out, nil
}
