package store

import (
	"bytes"
	"testing"

	"novacoin/core/types"
)

func TestScriptStoreSetGetErase(t *testing.T) {
	db := openTestDB(t)
	ss := NewScriptStore(db)

	reg := types.RegID{Height: 10, Index: 0}
	blob := []byte("NVMS\x01\x00\x00\x00\x00")

	if err := ss.SetScript(reg, blob); err != nil {
		t.Fatalf("SetScript: %v", err)
	}
	got, ok, err := ss.GetScript(reg)
	if err != nil || !ok {
		t.Fatalf("GetScript: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, blob) {
		t.Fatalf("GetScript = %x, want %x", got, blob)
	}

	if err := ss.EraseScript(reg); err != nil {
		t.Fatalf("EraseScript: %v", err)
	}
	if _, ok, _ := ss.GetScript(reg); ok {
		t.Fatal("script survived erase")
	}
}

func TestScriptStoreOpaqueKV(t *testing.T) {
	db := openTestDB(t)
	ss := NewScriptStore(db)

	key := []byte("Asomeaddress")
	val := []byte("txhash-bytes")

	old, existed, err := ss.Set(key, val)
	if err != nil || existed || old != nil {
		t.Fatalf("first Set: old=%v existed=%v err=%v", old, existed, err)
	}

	old, existed, err = ss.Set(key, []byte("txhash-bytes-2"))
	if err != nil || !existed || !bytes.Equal(old, val) {
		t.Fatalf("second Set: old=%q existed=%v err=%v", old, existed, err)
	}

	got, ok, err := ss.Get(key)
	if err != nil || !ok || !bytes.Equal(got, []byte("txhash-bytes-2")) {
		t.Fatalf("Get = %q, ok=%v, err=%v", got, ok, err)
	}

	old, existed, err = ss.Erase(key)
	if err != nil || !existed || !bytes.Equal(old, []byte("txhash-bytes-2")) {
		t.Fatalf("Erase: old=%q existed=%v err=%v", old, existed, err)
	}
	if _, ok, _ := ss.Get(key); ok {
		t.Fatal("key survived erase")
	}
}
