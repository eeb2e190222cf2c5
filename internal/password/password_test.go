package password

import (
	"errors"
	"testing"
)

type testCredential struct {
	algo   string
	hash   []byte
	salt   []byte
	params []byte
	ver    int
}

func (c testCredential) GetAlgo() string       { return c.algo }
func (c testCredential) GetHash() []byte       { return c.hash }
func (c testCredential) GetSalt() []byte       { return c.salt }
func (c testCredential) GetParamsJSON() []byte { return c.params }
func (c testCredential) GetPasswordVer() int   { return c.ver }

func TestHashAndVerify(t *testing.T) {
	svc := NewArgon2id()
	hash, salt, params, algo, ver, err := svc.Hash("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if algo != "argon2id" || ver != 1 || len(hash) == 0 || len(salt) == 0 {
		t.Fatalf("unexpected hash output: algo=%q ver=%d", algo, ver)
	}

	cred := testCredential{algo: algo, hash: hash, salt: salt, params: params, ver: ver}
	if rehash, ok := svc.Verify("hunter22", cred); !ok || rehash {
		t.Fatalf("expected clean verify, got rehash=%v ok=%v", rehash, ok)
	}
	if _, ok := svc.Verify("wrong", cred); ok {
		t.Fatalf("wrong password verified")
	}
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	if _, _, _, _, _, err := NewArgon2id().Hash(""); !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestVerifyUnknownAlgoNeedsRehash(t *testing.T) {
	svc := NewArgon2id()
	cred := testCredential{algo: "bcrypt"}
	if rehash, ok := svc.Verify("whatever", cred); ok || !rehash {
		t.Fatalf("unknown algo should fail and flag rehash, got rehash=%v ok=%v", rehash, ok)
	}
}

func TestHashesAreSalted(t *testing.T) {
	svc := NewArgon2id()
	h1, _, _, _, _, err := svc.Hash("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, _, _, _, _, err := svc.Hash("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if string(h1) == string(h2) {
		t.Fatalf("two hashes of the same password should differ by salt")
	}
}
