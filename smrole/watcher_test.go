package smrole

import (
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"

	"github.com/ib-subnet/lidmgr/logging"
)

func TestWatcher_SingleNodeBootstrapBecomesMaster(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer lis.Close()

	log, _ := logging.NewTestLogger(t.Name())
	grpcServer := grpc.NewServer()

	roles := make(chan Role, 4)
	w, err := New(Config{
		NodeID:    "node-1",
		BindAddr:  lis.Addr().String(),
		DataDir:   t.TempDir(),
		Bootstrap: true,
	}, log, grpcServer)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.OnRoleChange = func(r Role) { roles <- r }
	defer w.Shutdown(5 * time.Second)

	go grpcServer.Serve(lis)
	defer grpcServer.Stop()

	select {
	case r := <-roles:
		if r != RoleMaster {
			t.Fatalf("expected the sole bootstrap node to become master, got %v", r)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for leadership election")
	}
}
