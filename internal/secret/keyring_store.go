package secret

import (
	"errors"
	"strings"

	"github.com/99designs/keyring"

	"github.com/koompi/file-manager/internal/constants"
)

const serviceName = constants.ApplicationVendor + "." + constants.ApplicationName + ".smb"

type keyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore opens the OS keyring.
func NewKeyringStore() (Store, error) {
	r, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		// backends that never prompt on the terminal
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.WinCredBackend,
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.KeyCtlBackend,
		},
		KeyCtlScope: "user",
	})
	if err != nil {
		return nil, err
	}
	return newKeyringStore(r), nil
}

func newKeyringStore(r keyring.Keyring) *keyringStore {
	return &keyringStore{ring: r}
}

func makeKey(host, share string) string { return host + "|" + share }

// Get decodes the "domain\user" description and password data.
func (s *keyringStore) Get(host, share string) (domain, user, pass string, found bool, err error) {
	item, err := s.ring.Get(makeKey(host, share))
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", "", "", false, nil
	}
	if err != nil {
		return "", "", "", false, err
	}
	user = item.Description
	if i := strings.IndexAny(user, `\;`); i >= 0 {
		domain, user = user[:i], user[i+1:]
	}
	return domain, user, string(item.Data), true, nil
}

func (s *keyringStore) Set(host, share, domain, user, pass string) error {
	desc := user
	if domain != "" {
		desc = domain + `\` + user
	}
	return s.ring.Set(keyring.Item{
		Key:         makeKey(host, share),
		Data:        []byte(pass),
		Description: desc,
		Label:       serviceName,
	})
}

func (s *keyringStore) Delete(host, share string) error {
	return s.ring.Remove(makeKey(host, share))
}
