package security_test

import (
	"strings"
	"testing"

	"github.com/angelmondragon/pawprint/pkg/config"
	"github.com/angelmondragon/pawprint/pkg/security"
)

func testHasher(memoryKB, time int) *security.Hasher {
	return security.NewHasher(config.PasswordConfig{
		ArgonMemoryKB:    memoryKB,
		ArgonTime:        time,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
}

func TestHashAndVerify(t *testing.T) {
	h := testHasher(32768, 1)

	hash, err := h.Hash("very-secure-password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	ok, err := h.Verify("very-secure-password", hash)
	if err != nil {
		t.Fatalf("Verify returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("Verify failed for the correct password")
	}

	ok, err = h.Verify("bogus-password", hash)
	if err != nil {
		t.Fatalf("Verify returned error for wrong password: %v", err)
	}
	if ok {
		t.Fatal("Verify returned true for an incorrect password")
	}
}

func TestVerifyRejectsMalformedHashes(t *testing.T) {
	h := testHasher(8192, 1)
	for _, encoded := range []string{
		"not-a-hash",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=8192,t=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=8192,t=0,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=8192,t=1,p=1$!!$a2V5",
	} {
		if _, err := h.Verify("irrelevant", encoded); err == nil {
			t.Errorf("expected error for %q", encoded)
		}
	}
}

func TestHashEmbedsParamsAndSalts(t *testing.T) {
	h := testHasher(16384, 2)

	first, err := h.Hash("hunter22")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	second, err := h.Hash("hunter22")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct salts to produce distinct hashes")
	}
	if !strings.HasPrefix(first, "$argon2id$v=19$m=16384,t=2,p=1$") {
		t.Fatalf("hash does not embed params: %s", first)
	}
	if _, err := h.Hash(""); err == nil {
		t.Fatal("expected empty password to be rejected")
	}
}

func TestNeedsRehashTracksCostChanges(t *testing.T) {
	old := testHasher(8192, 1)
	current := testHasher(16384, 2)

	hash, err := old.Hash("hunter22")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if old.NeedsRehash(hash) {
		t.Fatal("hash produced with current costs should not need a rehash")
	}
	if !current.NeedsRehash(hash) {
		t.Fatal("hash produced with older costs should need a rehash")
	}

	ok, err := current.Verify("hunter22", hash)
	if err != nil || !ok {
		t.Fatalf("older hashes must keep verifying: ok=%v err=%v", ok, err)
	}
	if !current.NeedsRehash("garbage") {
		t.Fatal("unreadable hashes should be replaced")
	}
}

func TestNewHasherClampsCosts(t *testing.T) {
	p := security.NewHasher(config.PasswordConfig{}).Params()
	if p.Memory != 8 || p.Time != 1 || p.Parallelism != 1 || p.SaltLen != 8 || p.KeyLen != 16 {
		t.Fatalf("unexpected clamped params: %+v", p)
	}
}
