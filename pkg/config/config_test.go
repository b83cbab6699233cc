package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/drivenets/evpn-rpc/pkg/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// chdir is a go1.21-compatible equivalent of testing.T.Chdir.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Netconf.Host)
	assert.Equal(t, DEFAULT_NETCONF_PORT, cfg.Netconf.Port)
	assert.Equal(t, "localhost:830", cfg.Netconf.Addr())
	assert.Equal(t, rpc.Running, cfg.Netconf.Datastore())
	assert.Empty(t, cfg.Templates)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "client.yaml", `
netconf:
  host: leaf1
  port: 2830
  user: netops
  password: secret
  target: candidate
debug: true
templates:
  bd-conf: /tmp/bd.xml
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "leaf1:2830", cfg.Netconf.Addr())
	assert.Equal(t, "netops", cfg.Netconf.User)
	assert.Equal(t, "secret", cfg.Netconf.Password)
	assert.Equal(t, rpc.Candidate, cfg.Netconf.Datastore())
	assert.True(t, cfg.Debug)
	assert.Equal(t, map[string]string{"bd-conf": "/tmp/bd.xml"}, cfg.Templates)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeFile(t, t.TempDir(), "client.yaml", "netconf:\n  host: leaf1\n")
	t.Setenv("NETCONF_HOST", "leaf2")
	t.Setenv("NETCONF_USER", "ops")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "leaf2", cfg.Netconf.Host)
	assert.Equal(t, "ops", cfg.Netconf.User)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadBadTarget(t *testing.T) {
	path := writeFile(t, t.TempDir(), "client.yaml", "netconf:\n  target: startup\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "unsupported netconf target")
}

func TestTemplateSet(t *testing.T) {
	dir := t.TempDir()
	bd := writeFile(t, dir, "bd.xml", `<vlan id="{{.vlan_id}}">{{.vlan_name}}</vlan>`)

	cfg := &Cfg{}
	ts, err := cfg.TemplateSet()
	require.NoError(t, err)
	assert.Same(t, rpc.DefaultTemplates(), ts)

	cfg.Templates = map[string]string{rpc.TplBdConf: bd}
	ts, err = cfg.TemplateSet()
	require.NoError(t, err)
	body, err := ts.Render(rpc.Fields{"vlan_id": 3, "vlan_name": "VLAN3"}, rpc.TplBdConf)
	require.NoError(t, err)
	assert.Equal(t, `<vlan id="3">VLAN3</vlan>`, body)

	cfg.Templates = map[string]string{rpc.TplBdConf: filepath.Join(dir, "missing.xml")}
	_, err = cfg.TemplateSet()
	assert.Error(t, err)
}
