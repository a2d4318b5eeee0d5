package lease

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"raikou/internal/utils"
)

func newTestStore(t *testing.T) *LeaseStore {
	t.Helper()
	return &LeaseStore{
		path:              filepath.Join(t.TempDir(), "lease.json"),
		filesystemHandler: utils.NewFilesystemExecutor(),
	}
}

func TestLoadMissingFileReturnsEmptyState(t *testing.T) {
	store := newTestStore(t)

	st, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.Bridges) != 0 || st.Failed != 0 {
		t.Fatalf("expected empty state, got %+v", st)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	st := &LeaseState{Failed: 1, LastPassId: "01jxyz"}
	entry := st.Bridge("br0")
	entry.SetRange(false, "10.0.0.0/24")
	entry.Hosts(false)["br0"] = "10.0.0.1/24"
	entry.Hosts(false)["c1"] = "10.0.0.6/24"
	entry.Parent("eth1").Trunk = "100,200"

	if err := store.Save(st); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Failed != 1 || loaded.LastPassId != "01jxyz" {
		t.Fatalf("counters lost: %+v", loaded)
	}
	got := loaded.Bridge("br0")
	if got.Range(false) != "10.0.0.0/24" {
		t.Fatalf("range lost: %q", got.Range(false))
	}
	if got.Hosts(false)["c1"] != "10.0.0.6/24" {
		t.Fatalf("reservation lost: %v", got.Hosts(false))
	}
	if got.Parent("eth1").Trunk != "100,200" {
		t.Fatalf("parent vlan settings lost: %+v", got.Parent("eth1"))
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save(&LeaseState{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(store.path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
	b, err := os.ReadFile(store.path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasSuffix(string(b), "\n") {
		t.Fatalf("document not newline terminated")
	}
}

func TestLoadBrokenJson(t *testing.T) {
	store := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(store.path, []byte("{nope"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := store.Load(); err == nil {
		t.Fatalf("expected error for broken document")
	}
}
