package fileinfo

import (
	"sync"

	"github.com/koompi/file-manager/internal/logging"
	"github.com/koompi/file-manager/internal/secret"
)

// Credentials represents SMB authentication parameters.
type Credentials struct {
	Domain   string
	Username string
	Password string
	Persist  bool
}

func (c Credentials) empty() bool {
	return c.Username == "" && c.Password == "" && c.Domain == ""
}

// CredentialCache resolves SMB credentials per host/share: memory
// first, then the secret store.
type CredentialCache struct {
	mu    sync.RWMutex
	cache map[string]Credentials
	store secret.Store
}

// NewCredentialCache creates a cache backed by store, which may be nil.
func NewCredentialCache(store secret.Store) *CredentialCache {
	return &CredentialCache{cache: make(map[string]Credentials), store: store}
}

func credentialKey(host, share string) string { return host + "\x00" + share }

// Get returns credentials for host/share, seeding memory from the store.
func (c *CredentialCache) Get(host, share string) (Credentials, bool) {
	if c == nil {
		return Credentials{}, false
	}
	c.mu.RLock()
	cred, ok := c.cache[credentialKey(host, share)]
	c.mu.RUnlock()
	if ok && !cred.empty() {
		return cred, true
	}
	if c.store == nil {
		return Credentials{}, false
	}
	domain, user, pass, found, err := c.store.Get(host, share)
	if err != nil {
		logging.Debug("secret store lookup failed", logging.String("host", host), logging.Err(err))
		return Credentials{}, false
	}
	if !found {
		return Credentials{}, false
	}
	cred = Credentials{Domain: domain, Username: user, Password: pass}
	c.Put(host, share, cred)
	return cred, true
}

// Put seeds memory credentials, e.g. from a URL.
func (c *CredentialCache) Put(host, share string, cred Credentials) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.cache[credentialKey(host, share)] = cred
	c.mu.Unlock()
}

// Persist writes credentials marked Persist to the secret store.
func (c *CredentialCache) Persist(host, share string, cred Credentials) {
	if c == nil || c.store == nil || !cred.Persist {
		return
	}
	if err := c.store.Set(host, share, cred.Domain, cred.Username, cred.Password); err != nil {
		logging.Warn("failed to persist smb credentials", logging.String("host", host), logging.Err(err))
	}
}

// Clear drops memory credentials for host/share after an auth failure.
func (c *CredentialCache) Clear(host, share string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.cache, credentialKey(host, share))
	c.mu.Unlock()
}
