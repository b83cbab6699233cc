package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/drivenets/evpn-rpc/pkg/rpc"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Cfg struct {
	Netconf NetconfCfg
	Debug   bool
	// Templates replaces built-in XML templates, name -> file path.
	Templates map[string]string
}

type NetconfCfg struct {
	Host     string
	Port     int
	User     string
	Password string
	Target   string
}

const (
	CONFIG_NAME          = "evpn-client.cfg"
	DEFAULT_NETCONF_PORT = 830
)

func (nc NetconfCfg) Addr() string {
	return net.JoinHostPort(nc.Host, strconv.Itoa(nc.Port))
}

func (nc NetconfCfg) Datastore() rpc.Datastore {
	return rpc.Datastore(nc.Target)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("Debug", false)
	v.SetDefault("Netconf.Host", "localhost")
	v.SetDefault("Netconf.Port", DEFAULT_NETCONF_PORT)
	v.SetDefault("Netconf.User", "admin")
	v.SetDefault("Netconf.Password", "admin")
	v.SetDefault("Netconf.Target", string(rpc.Running))
	v.SetDefault("Templates", map[string]string{})
}

// Load reads the yaml config at path. With an empty path the config is
// looked up as /etc/evpn-client.cfg then ./evpn-client.cfg and a missing
// file only means defaults. NETCONF_HOST, NETCONF_USER and NETCONF_PASSWORD
// override the file.
func Load(path string) (*Cfg, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(CONFIG_NAME)
		v.AddConfigPath("/etc/")
		v.AddConfigPath(".")
	}
	setDefaults(v)
	for key, env := range map[string]string{
		"Netconf.Host":     "NETCONF_HOST",
		"Netconf.User":     "NETCONF_USER",
		"Netconf.Password": "NETCONF_PASSWORD",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
		log.Debug("No config file found, using defaults")
	}

	cfg := &Cfg{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if _, ok := os.LookupEnv("DEBUG"); ok {
		cfg.Debug = true
	}
	switch cfg.Netconf.Datastore() {
	case rpc.Running, rpc.Candidate:
	default:
		return nil, fmt.Errorf("unsupported netconf target %q", cfg.Netconf.Target)
	}
	return cfg, nil
}

// TemplateSet returns the built-in templates with the configured
// overrides read from disk.
func (cfg *Cfg) TemplateSet() (*rpc.TemplateSet, error) {
	if len(cfg.Templates) == 0 {
		return rpc.DefaultTemplates(), nil
	}
	sources := make(map[string]string, len(cfg.Templates))
	for name, file := range cfg.Templates {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", name, err)
		}
		sources[name] = string(data)
	}
	return rpc.ParseTemplates(sources)
}

func (cfg *Cfg) LogConfig() {
	log.Info("evpn-client configuration")
	log.Info("======================")
	log.Info("netconf host: ", cfg.Netconf.Addr())
	log.Info("netconf user: ", cfg.Netconf.User)
	log.Info("netconf password: ", "********")
	log.Info("netconf target: ", cfg.Netconf.Target)
	log.Info("debug: ", cfg.Debug)
	if len(cfg.Templates) > 0 {
		log.Info("templates:")
		for name, file := range cfg.Templates {
			log.Info("  ", name, ": ", file)
		}
	}
}
