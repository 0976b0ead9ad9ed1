package storage

import (
	"encoding/binary"
	"errors"
	"sort"
	"testing"
)

// accountKey mirrors the keystore address book layout: a/<name>/<index BE u32>.
func accountKey(name string, index uint32) []byte {
	k := []byte("a/" + name + "/")
	return binary.BigEndian.AppendUint32(k, index)
}

func TestPrefixDB_KeystoreNamespace(t *testing.T) {
	inner := NewMemory()
	ks := NewPrefixDB(inner, []byte("ks/"))

	if err := ks.Put([]byte("w/alice"), []byte(`{"version":1}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := inner.Get([]byte("ks/w/alice"))
	if err != nil {
		t.Fatalf("inner.Get: %v", err)
	}
	if string(got) != `{"version":1}` {
		t.Fatalf("inner.Get = %q", got)
	}

	// Keys written outside the namespace are invisible through it.
	inner.Put([]byte("w/bob"), []byte("{}"))
	if ok, _ := ks.Has([]byte("w/bob")); ok {
		t.Fatal("keystore view sees a key outside ks/")
	}

	if err := ks.Delete([]byte("w/alice")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := ks.Get([]byte("w/alice")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after Delete = %v, want ErrNotFound", err)
	}
}

func TestPrefixDB_AccountsIsolatedByWalletName(t *testing.T) {
	ks := NewPrefixDB(NewMemory(), []byte("ks/"))

	// "alice2" shares a string prefix with "alice"; the trailing slash in
	// the account prefix must keep their address books apart.
	for i := uint32(0); i < 3; i++ {
		ks.Put(accountKey("alice", i), []byte("alice"))
	}
	ks.Put(accountKey("alice2", 0), []byte("alice2"))
	ks.Put(accountKey("bob", 0), []byte("bob"))

	tests := []struct {
		name string
		want int
	}{
		{"alice", 3},
		{"alice2", 1},
		{"bob", 1},
		{"carol", 0},
	}
	for _, tt := range tests {
		var n int
		err := ks.ForEach([]byte("a/"+tt.name+"/"), func(_, value []byte) error {
			if string(value) != tt.name {
				t.Errorf("%s: saw entry of %q", tt.name, value)
			}
			n++
			return nil
		})
		if err != nil {
			t.Fatalf("ForEach(%s): %v", tt.name, err)
		}
		if n != tt.want {
			t.Errorf("ForEach(%s) = %d entries, want %d", tt.name, n, tt.want)
		}
	}
}

func TestPrefixDB_ForEachStripsPrefix(t *testing.T) {
	ks := NewPrefixDB(NewMemory(), []byte("ks/"))
	ks.Put([]byte("w/bob"), []byte("{}"))
	ks.Put([]byte("w/alice"), []byte("{}"))
	ks.Put(accountKey("alice", 0), []byte("{}"))

	var names []string
	err := ks.ForEach([]byte("w/"), func(key, _ []byte) error {
		names = append(names, string(key))
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	sort.Strings(names)
	if len(names) != 2 || names[0] != "w/alice" || names[1] != "w/bob" {
		t.Fatalf("ForEach keys = %v, want [w/alice w/bob]", names)
	}
}

func TestPrefixDB_AccountOrder(t *testing.T) {
	ks := NewPrefixDB(NewMemory(), []byte("ks/"))
	for _, i := range []uint32{256, 2, 1, 0} {
		ks.Put(accountKey("alice", i), []byte{byte(i)})
	}

	var got []uint32
	ks.ForEach([]byte("a/alice/"), func(key, _ []byte) error {
		got = append(got, binary.BigEndian.Uint32(key[len("a/alice/"):]))
		return nil
	})
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	want := []uint32{0, 1, 2, 256}
	if len(got) != len(want) {
		t.Fatalf("indices = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("indices = %v, want %v", got, want)
		}
	}
}

func TestPrefixDB_ForEachStopEarly(t *testing.T) {
	ks := NewPrefixDB(NewMemory(), []byte("ks/"))
	for i := uint32(0); i < 10; i++ {
		ks.Put(accountKey("alice", i), []byte("{}"))
	}

	stop := errors.New("stop")
	count := 0
	err := ks.ForEach(nil, func(_, _ []byte) error {
		count++
		if count == 3 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Fatalf("ForEach err = %v, want stop", err)
	}
	if count != 3 {
		t.Fatalf("ForEach called %d times, want 3", count)
	}
}

// Deleting a wallet removes its record and address book in one batch.
func TestPrefixDB_BatchDeleteWallet(t *testing.T) {
	inner := NewMemory()
	ks := NewPrefixDB(inner, []byte("ks/"))
	ks.Put([]byte("w/alice"), []byte("{}"))
	ks.Put(accountKey("alice", 0), []byte("{}"))
	ks.Put([]byte("w/bob"), []byte("{}"))
	inner.Put([]byte("other/w/alice"), []byte("untouched"))

	batch := ks.NewBatch()
	batch.Delete([]byte("w/alice"))
	batch.Delete(accountKey("alice", 0))
	if ok, _ := ks.Has([]byte("w/alice")); !ok {
		t.Fatal("batch delete visible before Commit")
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	for _, k := range [][]byte{[]byte("w/alice"), accountKey("alice", 0)} {
		if ok, _ := ks.Has(k); ok {
			t.Errorf("%q still present after Commit", k)
		}
	}
	if ok, _ := ks.Has([]byte("w/bob")); !ok {
		t.Error("w/bob removed by alice's batch")
	}
	if got, _ := inner.Get([]byte("other/w/alice")); string(got) != "untouched" {
		t.Errorf("key outside ks/ = %q", got)
	}
}

// plainDB hides the Batcher implementation of the wrapped store.
type plainDB struct{ DB }

func TestPrefixDB_BatchFallback(t *testing.T) {
	inner := plainDB{NewMemory()}
	ks := NewPrefixDB(inner, []byte("ks/"))

	batch := ks.NewBatch()
	if _, ok := batch.(*prefixFallbackBatch); !ok {
		t.Fatalf("NewBatch() = %T, want *prefixFallbackBatch", batch)
	}
	batch.Put([]byte("w/alice"), []byte("{}"))
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if ok, _ := inner.Has([]byte("ks/w/alice")); !ok {
		t.Fatal("fallback batch did not write through the prefix")
	}
}

func TestPrefixDB_CloseLeavesInnerOpen(t *testing.T) {
	inner := NewMemory()
	ks := NewPrefixDB(inner, []byte("ks/"))
	ks.Put([]byte("w/alice"), []byte("{}"))

	if err := ks.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if ok, _ := inner.Has([]byte("ks/w/alice")); !ok {
		t.Fatal("inner lost data after PrefixDB.Close")
	}
}
