package device

import (
	"fmt"
	stdLog "log"
	"os"
	"strings"

	"github.com/Juniper/go-netconf/netconf"
	"github.com/drivenets/evpn-rpc/pkg/config"
	"github.com/drivenets/evpn-rpc/pkg/rpc"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
)

var Commit = netconf.RawMethod("<commit/>")

// Session is the part of a NETCONF session the client uses.
// *netconf.Session satisfies it.
type Session interface {
	Exec(methods ...netconf.RPCMethod) (*netconf.RPCReply, error)
	Close() error
}

var _ Session = (*netconf.Session)(nil)

// Client pushes rendered objects over a single NETCONF session.
// It is not safe for concurrent use.
type Client struct {
	session Session
	target  rpc.Datastore
}

func NewClient(session Session, target rpc.Datastore) *Client {
	return &Client{session: session, target: target}
}

// Dial opens a NETCONF over SSH session with password authentication.
func Dial(cfg config.NetconfCfg, debug bool) (*Client, error) {
	if debug {
		defaultLog := stdLog.New(os.Stderr, "netconf ", stdLog.LstdFlags)
		netconf.SetLog(netconf.NewStdLog(defaultLog, netconf.LogDebug))
	}
	sshConfig := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}
	log.Infof("Connecting to %s as %s", cfg.Addr(), cfg.User)
	session, err := netconf.DialSSH(cfg.Addr(), sshConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Addr(), err)
	}
	return NewClient(session, cfg.Datastore()), nil
}

func (c *Client) Close() error {
	return c.session.Close()
}

func (c *Client) exec(method netconf.RawMethod) (*netconf.RPCReply, error) {
	log.Debugf("rpc:\n%s", method)
	reply, err := c.session.Exec(method)
	if err != nil {
		return reply, err
	}
	if reply == nil {
		return nil, nil
	}
	msgs := make([]string, 0, len(reply.Errors))
	for _, e := range reply.Errors {
		if e.Severity == "warning" {
			log.Warn(e.Error())
			continue
		}
		msgs = append(msgs, e.Error())
	}
	if len(msgs) > 0 {
		return reply, fmt.Errorf("rpc error: %s", strings.Join(msgs, "; "))
	}
	return reply, nil
}

func (c *Client) commitChanges() error {
	if c.target != rpc.Candidate {
		return nil
	}
	log.Info("Committing changes")
	if _, err := c.exec(Commit); err != nil {
		if strings.Contains(err.Error(), "empty commit") {
			log.Info(err.Error())
		} else {
			return err
		}
	}
	return nil
}

// Create validates and applies obj on the device.
func (c *Client) Create(obj rpc.Object) error {
	if obj.Target() != c.target {
		return fmt.Errorf("%s targets %s, session targets %s", obj, obj.Target(), c.target)
	}
	method, err := obj.RenderCreate()
	if err != nil {
		return err
	}
	if _, err := c.exec(method); err != nil {
		return fmt.Errorf("failed to create %s: %w", obj, err)
	}
	log.Infof("created %s", obj)
	return c.commitChanges()
}

// Get returns the device data matching obj.
func (c *Client) Get(obj rpc.Object) (string, error) {
	reply, err := c.exec(obj.RenderGet())
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", obj, err)
	}
	if reply == nil {
		return "", nil
	}
	return reply.Data, nil
}

// Remove deletes obj from the device.
func (c *Client) Remove(obj rpc.Object) error {
	if obj.Target() != c.target {
		return fmt.Errorf("%s targets %s, session targets %s", obj, obj.Target(), c.target)
	}
	if _, err := c.exec(obj.RenderRemove()); err != nil {
		return fmt.Errorf("failed to remove %s: %w", obj, err)
	}
	log.Infof("removed %s", obj)
	return c.commitChanges()
}
