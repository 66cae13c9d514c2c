// Command lidmgrd wires the LID Manager's components into a runnable
// daemon: persistent guid2lid storage, a logging localtransport stand-in
// for PortInfo delivery, the raft-based master/standby watcher on its own
// gRPC server, and the sweep orchestrator. Subnet discovery itself is an external
// collaborator (spec §1) this binary does not implement; it sweeps
// whatever topology.Arena its embedder populates.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"

	"github.com/ib-subnet/lidmgr/build"
	"github.com/ib-subnet/lidmgr/config"
	"github.com/ib-subnet/lidmgr/events"
	"github.com/ib-subnet/lidmgr/guid2lid/boltstore"
	"github.com/ib-subnet/lidmgr/logging"
	"github.com/ib-subnet/lidmgr/metrics"
	"github.com/ib-subnet/lidmgr/orchestrator"
	"github.com/ib-subnet/lidmgr/smrole"
	"github.com/ib-subnet/lidmgr/sweep"
	"github.com/ib-subnet/lidmgr/topology"
	"github.com/ib-subnet/lidmgr/transport"
	"github.com/ib-subnet/lidmgr/transport/localtransport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  = flag.String("config", "/etc/lidmgr/lidmgr.yaml", "path to the lidmgr configuration file")
		dataDir     = flag.String("data-dir", "/var/lib/lidmgr", "directory for the guid2lid database and raft log")
		nodeID      = flag.String("node-id", "", "unique raft node id for this process")
		bindAddr    = flag.String("bind", "127.0.0.1:9712", "address for the shared gRPC/raft listener")
		metricsAddr = flag.String("metrics-addr", "127.0.0.1:9713", "address for the Prometheus metrics endpoint")
		bootstrap   = flag.Bool("bootstrap", false, "bootstrap a brand-new raft cluster on this node")
		smPortGUID  = flag.Uint64("sm-port-guid", 0, "GUID of this process's own SM port")
		sweepEvery  = flag.Duration("sweep-interval", 10*time.Second, "interval between sweeps while master")
	)
	flag.Parse()

	log := logging.NewCombinedLogger(build.ProductName, os.Stderr)
	log.Infof("%s starting", build.String())

	opts := config.DefaultOptions()
	opts.Path = *configPath
	if err := opts.Load(); err != nil {
		log.Errorf("config: %s, falling back to defaults", err)
	}

	store, err := boltstore.Open(*dataDir + "/guid2lid.db")
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Load(context.Background()); err != nil {
		return err
	}

	collector := metrics.NewCollector()
	reg := prometheus.NewRegistry()
	if err := reg.Register(collector); err != nil {
		return err
	}
	go serveMetrics(*metricsAddr, reg, log)

	lis, err := net.Listen("tcp", *bindAddr)
	if err != nil {
		return err
	}
	grpcServer := grpc.NewServer()

	arena := topology.NewArena()
	table := sweep.NewPortLIDTable()
	evBus := events.NewPubSub(context.Background(), log)

	// Delivering a Set to the fabric is SMP over the wire, an external
	// collaborator (spec §1) this demo binary does not implement; wire a
	// logging stand-in so the rest of the orchestrator is fully runnable.
	fabric := localtransport.New(func(req transport.SetRequest) ([]byte, error) {
		log.Infof("portinfo set: node 0x%016x port %d (%d bytes, schedule_down=%v)",
			req.NodeGUID, req.PortNum, len(req.Payload), req.ScheduleLinkDown)
		return req.Payload, nil
	})

	mgr := &orchestrator.Manager{
		Log: log, Ports: arena, Store: store, Table: table,
		Transport: fabric, Metrics: collector, Events: evBus, Options: opts,
		MaxUnicastLID: 0xBFFF, SMPortGUID: *smPortGUID,
	}

	sweeping := make(chan bool, 1)
	watcher, err := smrole.New(smrole.Config{
		NodeID: *nodeID, BindAddr: *bindAddr, DataDir: *dataDir + "/raft", Bootstrap: *bootstrap,
	}, log, grpcServer)
	if err != nil {
		return err
	}
	watcher.OnRoleChange = func(role smrole.Role) {
		log.Infof("role change: now %s", role)
		sweeping <- role == smrole.RoleMaster
	}

	go grpcServer.Serve(lis)
	defer grpcServer.GracefulStop()

	log.Infof("listening on %s", *bindAddr)
	runSweepLoop(context.Background(), mgr, sweeping, *sweepEvery, log)
	return nil
}

// runSweepLoop drives ProcessSM/ProcessSubnet on a fixed interval for as
// long as this node holds the master role, mirroring the original
// implementation's periodic sweep under SM control; it idles entirely
// while standby.
func runSweepLoop(ctx context.Context, mgr *orchestrator.Manager, roleCh <-chan bool, interval time.Duration, log logging.Logger) {
	isMaster := false
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	first := true
	for {
		select {
		case isMaster = <-roleCh:
			if isMaster {
				first = true
			}
		case <-ticker.C:
			if !isMaster {
				continue
			}
			params := orchestrator.SweepParams{FirstTimeMasterSweep: first}
			first = false
			if _, err := mgr.ProcessSM(ctx, params); err != nil {
				log.Errorf("process_sm: %s", err)
				continue
			}
			if _, err := mgr.ProcessSubnet(ctx, params); err != nil {
				log.Errorf("process_subnet: %s", err)
			}
		}
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, log logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Errorf("metrics server: %s", err)
	}
}
