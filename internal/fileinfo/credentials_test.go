package fileinfo

import (
	"testing"
)

// stub secret store for tests
type stubSecret struct {
	d, u, p string
	found   bool
	sets    int
}

func (s *stubSecret) Get(host, share string) (string, string, string, bool, error) {
	return s.d, s.u, s.p, s.found, nil
}
func (s *stubSecret) Set(host, share, d, u, p string) error { s.sets++; return nil }
func (s *stubSecret) Delete(host, share string) error       { return nil }

func TestCredentialsPrecedence_MemoryFirst(t *testing.T) {
	c := NewCredentialCache(&stubSecret{d: "kd", u: "ku", p: "kp", found: true})
	c.Put("host", "share", Credentials{Domain: "md", Username: "mu", Password: "mp"})

	got, ok := c.Get("host", "share")
	if !ok || got.Username != "mu" || got.Password != "mp" || got.Domain != "md" {
		t.Fatalf("memory creds not preferred: %+v", got)
	}
}

func TestCredentialsPrecedence_KeyringSecond(t *testing.T) {
	store := &stubSecret{d: "kd", u: "ku", p: "kp", found: true}
	c := NewCredentialCache(store)

	got, ok := c.Get("h", "s")
	if !ok || got.Username != "ku" || got.Password != "kp" || got.Domain != "kd" {
		t.Fatalf("keyring creds not returned: %+v", got)
	}

	store.found = false
	if again, ok := c.Get("h", "s"); !ok || again.Username != "ku" {
		t.Fatalf("keyring result not seeded to memory cache")
	}
}

func TestCredentialsClearAndPersist(t *testing.T) {
	store := &stubSecret{}
	c := NewCredentialCache(store)
	c.Put("h", "s", Credentials{Username: "u"})
	c.Clear("h", "s")
	if _, ok := c.Get("h", "s"); ok {
		t.Fatal("credentials should be cleared")
	}

	c.Persist("h", "s", Credentials{Username: "u"})
	if store.sets != 0 {
		t.Fatal("non-persistent credentials must not be stored")
	}
	c.Persist("h", "s", Credentials{Username: "u", Persist: true})
	if store.sets != 1 {
		t.Fatalf("expected one store write, got %d", store.sets)
	}
}

func TestNilCredentialCache(t *testing.T) {
	var c *CredentialCache
	c.Put("h", "s", Credentials{Username: "u"})
	if _, ok := c.Get("h", "s"); ok {
		t.Fatal("nil cache should never return credentials")
	}
}
