package main

import (
	"fmt"
	"io"
	"os"

	"github.com/drivenets/evpn-rpc/pkg/config"
	"github.com/drivenets/evpn-rpc/pkg/device"
	"github.com/drivenets/evpn-rpc/pkg/rpc"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configOpt string
var pushOpt bool
var debugOpt bool
var vlanOpt int
var vniOpt int
var ipOpt string
var nameOpt string
var mtuOpt int
var descrOpt string
var vrfOpt string
var mgroupOpt string
var supArpOpt bool

type builder func(cmd *cobra.Command, cfg *config.Cfg) (rpc.Object, error)

func commonOptions(cmd *cobra.Command, cfg *config.Cfg) ([]rpc.Option, error) {
	ts, err := cfg.TemplateSet()
	if err != nil {
		return nil, err
	}
	opts := []rpc.Option{
		rpc.OptionTemplates(ts),
		rpc.OptionTarget(cfg.Netconf.Datastore()),
		rpc.OptionIPAddress(ipOpt),
		rpc.OptionVlanName(nameOpt),
	}
	flags := cmd.Flags()
	if flags.Changed("mtu") {
		opts = append(opts, rpc.OptionMTU(mtuOpt))
	}
	// An empty --description or --vrf keeps the object default.
	if flags.Changed("description") && descrOpt != "" {
		opts = append(opts, rpc.OptionDescription(descrOpt))
	}
	if flags.Changed("vrf") && vrfOpt != "" {
		opts = append(opts, rpc.OptionVrf(vrfOpt))
	}
	return opts, nil
}

func buildSvi(cmd *cobra.Command, cfg *config.Cfg) (rpc.Object, error) {
	opts, err := commonOptions(cmd, cfg)
	if err != nil {
		return nil, err
	}
	return rpc.NewSviConfig(vlanOpt, opts...)
}

func buildEvpn(cmd *cobra.Command, cfg *config.Cfg) (rpc.Object, error) {
	opts, err := commonOptions(cmd, cfg)
	if err != nil {
		return nil, err
	}
	opts = append(opts,
		rpc.OptionMulticastGroup(mgroupOpt),
		rpc.OptionSuppressARP(supArpOpt),
	)
	return rpc.NewEvpnConfig(vlanOpt, vniOpt, opts...)
}

func loadConfig() (*config.Cfg, error) {
	cfg, err := config.Load(configOpt)
	if err != nil {
		return nil, err
	}
	if debugOpt {
		cfg.Debug = true
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
		cfg.LogConfig()
	}
	return cfg, nil
}

func run(op string, build builder) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		obj, err := build(cmd, cfg)
		if err != nil {
			return err
		}
		if !pushOpt {
			return render(cmd.OutOrStdout(), op, obj)
		}

		client, err := device.Dial(cfg.Netconf, cfg.Debug)
		if err != nil {
			return err
		}
		defer client.Close()
		switch op {
		case "create":
			return client.Create(obj)
		case "remove":
			return client.Remove(obj)
		default:
			data, err := client.Get(obj)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), data)
			return nil
		}
	}
}

func render(w io.Writer, op string, obj rpc.Object) error {
	switch op {
	case "create":
		method, err := obj.RenderCreate()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, method)
	case "remove":
		fmt.Fprintln(w, obj.RenderRemove())
	default:
		fmt.Fprintln(w, obj.RenderGet())
	}
	return nil
}

func objectCommand(use string, short string, build builder) *cobra.Command {
	cmdObject := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
	}
	for _, op := range []struct {
		use   string
		short string
	}{
		{"create", "Render (or push) the create RPC"},
		{"get", "Render (or push) the get RPC"},
		{"remove", "Render (or push) the remove RPC"},
	} {
		cmdObject.AddCommand(&cobra.Command{
			Use:   op.use,
			Short: op.short,
			Args:  cobra.NoArgs,
			RunE:  run(op.use, build),
		})
	}

	flags := cmdObject.PersistentFlags()
	flags.IntVar(&vlanOpt, "vlan", 0, "VLAN id")
	flags.StringVar(&ipOpt, "ip", "", "interface address with prefix length, e.g. 10.1.1.1/24")
	flags.StringVar(&nameOpt, "name", "", "VLAN name")
	flags.IntVar(&mtuOpt, "mtu", rpc.DEFAULT_MTU, "interface MTU")
	flags.StringVar(&descrOpt, "description", "", "interface description")
	flags.StringVar(&vrfOpt, "vrf", "", "VRF name")
	cmdObject.MarkPersistentFlagRequired("vlan")
	return cmdObject
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "evpn-client",
		Short:        "Render and push NETCONF RPCs for SVI and EVPN segments",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configOpt, "config", "c", "", "config file (default /etc/"+config.CONFIG_NAME+")")
	rootCmd.PersistentFlags().BoolVar(&pushOpt, "push", false, "send the RPC to the device instead of printing it")
	rootCmd.PersistentFlags().BoolVar(&debugOpt, "debug", false, "debug logging")

	cmdSvi := objectCommand("svi", "Switched VLAN interface", buildSvi)

	cmdEvpn := objectCommand("evpn", "EVPN VXLAN segment with anycast SVI", buildEvpn)
	cmdEvpn.PersistentFlags().IntVar(&vniOpt, "vni", 0, "VXLAN network identifier")
	cmdEvpn.PersistentFlags().StringVar(&mgroupOpt, "mgroup", "", "multicast group, ingress replication when empty")
	cmdEvpn.PersistentFlags().BoolVar(&supArpOpt, "suppress-arp", false, "enable ARP suppression")
	cmdEvpn.MarkPersistentFlagRequired("vni")

	rootCmd.AddCommand(cmdSvi, cmdEvpn)
	return rootCmd
}

func main() {
	if _, ok := os.LookupEnv("DEBUG"); ok {
		log.SetLevel(log.DebugLevel)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
