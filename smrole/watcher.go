// Package smrole decides which of several redundant manager processes
// is master and which are standby (spec's ambient master/standby
// framing): it runs hashicorp/raft purely for leader election, over
// Jille/raft-grpc-transport on a caller-supplied gRPC server (which other
// services may share), persisting its log with raft-boltdb/v2. It
// carries no replicated LID Manager state of its own — replicating
// guid2lid through raft would duplicate the persistent database
// collaborator the rest of this module treats as external.
package smrole

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/raft"
	raftboltdb "github.com/hashicorp/raft-boltdb/v2"
	"github.com/pkg/errors"
	"google.golang.org/grpc"

	raftgrpc "github.com/Jille/raft-grpc-transport"

	"github.com/ib-subnet/lidmgr/logging"
)

// Role is this process's current standing in the master/standby set.
type Role int

const (
	RoleStandby Role = iota
	RoleMaster
)

func (r Role) String() string {
	if r == RoleMaster {
		return "master"
	}
	return "standby"
}

// Config configures one Watcher's raft peer.
type Config struct {
	// NodeID must be unique and stable across restarts of this process.
	NodeID string
	// BindAddr is this node's advertised raft address (host:port), the
	// same one the shared gRPC server listens on.
	BindAddr string
	// DataDir holds the raft log and snapshot store.
	DataDir string
	// Bootstrap is true only for the node standing up a brand-new
	// cluster; every other peer joins via AddVoter from an existing
	// leader.
	Bootstrap bool
	// Peers lists every voter for a Bootstrap node. Ignored otherwise.
	Peers []raft.Server
}

// Watcher owns a raft peer and reports role transitions through
// OnRoleChange. It never touches LID Manager domain state.
type Watcher struct {
	Log          logging.Logger
	OnRoleChange func(Role)

	raft      *raft.Raft
	transport *raftgrpc.Manager
	stopCh    chan struct{}
}

// New constructs a Watcher and registers its raft transport against
// grpcServer; the caller still owns starting grpcServer.Serve.
func New(cfg Config, log logging.Logger, grpcServer *grpc.Server) (*Watcher, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create raft data dir")
	}

	raftCfg := raft.DefaultConfig()
	raftCfg.LocalID = raft.ServerID(cfg.NodeID)
	raftCfg.Logger = hclog.New(&hclog.LoggerOptions{
		Name:   "smrole/" + cfg.NodeID,
		Level:  hclog.Warn,
		Output: os.Stderr,
	})

	logStore, err := raftboltdb.NewBoltStore(filepath.Join(cfg.DataDir, "raft-log.bolt"))
	if err != nil {
		return nil, errors.Wrap(err, "open raft log store")
	}
	snapStore, err := raft.NewFileSnapshotStore(cfg.DataDir, 2, io.Discard)
	if err != nil {
		return nil, errors.Wrap(err, "open raft snapshot store")
	}

	tm := raftgrpc.New(raft.ServerAddress(cfg.BindAddr), []grpc.DialOption{grpc.WithInsecure()})
	tm.Register(grpcServer)

	r, err := raft.NewRaft(raftCfg, &fsm{}, logStore, logStore, snapStore, tm.Transport())
	if err != nil {
		return nil, errors.Wrap(err, "start raft peer")
	}

	if cfg.Bootstrap {
		servers := cfg.Peers
		if len(servers) == 0 {
			servers = []raft.Server{{ID: raftCfg.LocalID, Address: raft.ServerAddress(cfg.BindAddr)}}
		}
		if f := r.BootstrapCluster(raft.Configuration{Servers: servers}); f.Error() != nil {
			return nil, errors.Wrap(f.Error(), "bootstrap raft cluster")
		}
	}

	w := &Watcher{Log: log, raft: r, transport: tm, stopCh: make(chan struct{})}
	go w.watchLeadership()
	return w, nil
}

func (w *Watcher) watchLeadership() {
	for {
		select {
		case <-w.stopCh:
			return
		case isLeader, ok := <-w.raft.LeaderCh():
			if !ok {
				return
			}
			role := RoleStandby
			if isLeader {
				role = RoleMaster
			}
			if w.Log != nil {
				w.Log.Infof("smrole: role changed to %s", role)
			}
			if w.OnRoleChange != nil {
				w.OnRoleChange(role)
			}
		}
	}
}

// Role reports this node's current role.
func (w *Watcher) Role() Role {
	if w.raft.State() == raft.Leader {
		return RoleMaster
	}
	return RoleStandby
}

// Shutdown stops the raft peer and the leadership watch goroutine.
func (w *Watcher) Shutdown(timeout time.Duration) error {
	close(w.stopCh)
	f := w.raft.Shutdown()
	select {
	case <-time.After(timeout):
		return errors.New("smrole: timed out waiting for raft shutdown")
	case <-waitFuture(f):
		return f.Error()
	}
}

func waitFuture(f raft.Future) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		f.Error()
		close(done)
	}()
	return done
}

// fsm is a no-op raft FSM: this watcher commits nothing but the
// keep-alive entries raft itself needs to maintain a leader.
type fsm struct{}

func (f *fsm) Apply(*raft.Log) interface{} { return nil }

func (f *fsm) Snapshot() (raft.FSMSnapshot, error) { return &fsmSnapshot{}, nil }

func (f *fsm) Restore(rc io.ReadCloser) error {
	return rc.Close()
}

type fsmSnapshot struct{}

func (s *fsmSnapshot) Persist(sink raft.SnapshotSink) error {
	return sink.Close()
}

func (s *fsmSnapshot) Release() {}
