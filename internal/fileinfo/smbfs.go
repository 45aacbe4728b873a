package fileinfo

import (
	"bytes"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/hirochachacha/go-smb2"
)

const smbDialTimeout = 5 * time.Second

// SMBFS implements VFS over a direct SMB2 connection. Paths are relative
// to the share root. Every call opens its own session.
type SMBFS struct {
	host  string
	share string
	cred  *Credentials
	creds *CredentialCache
}

// NewSMBFS creates a provider for host/share. cred overrides the cache.
func NewSMBFS(host, share string, cred *Credentials, creds *CredentialCache) SMBFS {
	return SMBFS{host: host, share: share, cred: cred, creds: creds}
}

func (SMBFS) Capabilities() Capabilities { return Capabilities{} }

func (s SMBFS) credentials() Credentials {
	if s.cred != nil {
		return *s.cred
	}
	c, _ := s.creds.Get(s.host, s.share)
	return c
}

// withShare mounts the share for the duration of fn.
func (s SMBFS) withShare(fn func(share *smb2.Share) error) error {
	creds := s.credentials()
	d := &smb2.Dialer{
		Initiator: &smb2.NTLMInitiator{
			User:     creds.Username,
			Password: creds.Password,
			Domain:   creds.Domain,
		},
	}

	conn, err := net.DialTimeout("tcp", net.JoinHostPort(s.host, "445"), smbDialTimeout)
	if err != nil {
		return err
	}
	defer conn.Close()

	sess, err := d.Dial(conn)
	if err != nil {
		s.forgetOnAuthError(err)
		return err
	}
	defer sess.Logoff()

	share, err := sess.Mount(s.share)
	if err != nil {
		s.forgetOnAuthError(err)
		return err
	}
	defer share.Umount()

	s.creds.Persist(s.host, s.share, creds)

	if err := fn(share); err != nil {
		s.forgetOnAuthError(err)
		return err
	}
	return nil
}

func (s SMBFS) forgetOnAuthError(err error) {
	if isAuthError(err) {
		s.creds.Clear(s.host, s.share)
	}
}

// sharePath strips leading separators; go-smb2 rejects them.
func sharePath(p string) string {
	return strings.TrimLeft(p, `/\`)
}

func (s SMBFS) ReadDir(relPath string) ([]os.DirEntry, error) {
	var out []os.DirEntry
	err := s.withShare(func(share *smb2.Share) error {
		fis, err := share.ReadDir(sharePath(relPath))
		if err != nil {
			return err
		}
		out = make([]os.DirEntry, 0, len(fis))
		for _, fi := range fis {
			if fi.Name() == "." || fi.Name() == ".." {
				continue
			}
			out = append(out, infoDirEntry{fi: fi})
		}
		return nil
	})
	return out, err
}

func (s SMBFS) Stat(relPath string) (os.FileInfo, error) {
	var fi os.FileInfo
	err := s.withShare(func(share *smb2.Share) error {
		p := sharePath(relPath)
		if p == "" {
			p = "."
		}
		var err error
		fi, err = share.Stat(p)
		return err
	})
	return fi, err
}

// Lstat is Stat; the provider does not expose reparse points as links.
func (s SMBFS) Lstat(relPath string) (os.FileInfo, error) { return s.Stat(relPath) }

func (SMBFS) Readlink(relPath string) (string, error) {
	return "", &os.PathError{Op: "readlink", Path: relPath, Err: os.ErrInvalid}
}

// Open reads the whole file while the share is mounted.
func (s SMBFS) Open(relPath string) (io.ReadCloser, error) {
	var buf bytes.Buffer
	err := s.withShare(func(share *smb2.Share) error {
		f, err := share.Open(sharePath(relPath))
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(&buf, f)
		return err
	})
	if err != nil {
		return nil, err
	}
	return io.NopCloser(&buf), nil
}

// Join joins relative path elements using forward slashes.
func (SMBFS) Join(elem ...string) string { return "/" + strings.TrimLeft(strings.Join(elem, "/"), "/") }

// Base returns the last slash-separated element.
func (SMBFS) Base(p string) string {
	p = strings.TrimSuffix(p, "/")
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return p
	}
	return p[idx+1:]
}

func isAuthError(err error) bool {
	if err == nil {
		return false
	}
	e := strings.ToLower(err.Error())
	for _, marker := range []string{"logon is invalid", "bad username", "authentication", "status_logon_failure", "access is denied"} {
		if strings.Contains(e, marker) {
			return true
		}
	}
	return false
}

// infoDirEntry adapts os.FileInfo to os.DirEntry.
type infoDirEntry struct{ fi os.FileInfo }

func (e infoDirEntry) Name() string               { return e.fi.Name() }
func (e infoDirEntry) IsDir() bool                { return e.fi.IsDir() }
func (e infoDirEntry) Type() os.FileMode          { return e.fi.Mode().Type() }
func (e infoDirEntry) Info() (os.FileInfo, error) { return e.fi, nil }
