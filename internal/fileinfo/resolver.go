package fileinfo

import (
	"errors"
	"path"
	"strings"
)

// Scheme identifies the provider family of a path.
type Scheme string

const (
	SchemeFile Scheme = "file"
	SchemeSMB  Scheme = "smb"
)

// Location is a resolved input path. Display is what the session stores
// (smb://host/share/seg... for SMB); Native is the provider-native path.
type Location struct {
	Scheme   Scheme
	Host     string
	Share    string
	Segments []string
	Display  string
	Native   string
}

// Resolver maps display paths to VFS providers.
type Resolver struct {
	local VFS
	creds *CredentialCache
}

// NewResolver creates a resolver. local defaults to LocalFS.
func NewResolver(local VFS, creds *CredentialCache) *Resolver {
	if local == nil {
		local = LocalFS{}
	}
	return &Resolver{local: local, creds: creds}
}

var errIncompleteSMB = errors.New("smb path needs a host and a share")

// Resolve returns the provider and native path for input.
func (r *Resolver) Resolve(input string) (VFS, Location, error) {
	raw := strings.TrimSpace(input)
	if !IsSMBDisplay(raw) && !strings.HasPrefix(raw, "//") {
		return r.local, Location{Scheme: SchemeFile, Display: input, Native: input}, nil
	}

	host, share, segs, user, pass, domain := parseSMBURL(raw)
	if host == "" || share == "" {
		return nil, Location{Scheme: SchemeSMB, Display: canonicalizeSMB(raw)}, errIncompleteSMB
	}

	native := "/"
	display := "smb://" + path.Join(host, share)
	if len(segs) > 0 {
		native = "/" + path.Join(segs...)
		display += native
	}

	var cred *Credentials
	if user != "" || pass != "" || domain != "" {
		cred = &Credentials{Domain: domain, Username: user, Password: pass}
		r.creds.Put(host, share, *cred)
	}
	return NewSMBFS(host, share, cred, r.creds), Location{
		Scheme:   SchemeSMB,
		Host:     host,
		Share:    share,
		Segments: segs,
		Display:  display,
		Native:   native,
	}, nil
}

func canonicalizeSMB(url string) string {
	s := strings.TrimSpace(url)
	s = strings.ReplaceAll(s, "\\", "/")
	if !strings.HasPrefix(strings.ToLower(s), "smb://") {
		s = "smb://" + strings.TrimPrefix(s, "//")
	}
	return s
}

// parseSMBURL extracts host, share, segments and inline credentials.
// Accepts smb://[domain;user[:pass]@]host/share/... and //host/share/...
func parseSMBURL(u string) (host, share string, segments []string, user, pass, domain string) {
	s := strings.TrimSpace(u)
	if strings.HasPrefix(s, "//") {
		s = "smb:" + s
	}
	if !IsSMBDisplay(s) {
		return "", "", nil, "", "", ""
	}
	t := s[len("smb://"):]
	if at := strings.LastIndex(t, "@"); at >= 0 {
		cred := t[:at]
		t = t[at+1:]
		if colon := strings.Index(cred, ":"); colon >= 0 {
			pass = cred[colon+1:]
			cred = cred[:colon]
		}
		if i := strings.IndexAny(cred, ";\\"); i >= 0 {
			domain = cred[:i]
			user = cred[i+1:]
		} else {
			user = cred
		}
	}
	var parts []string
	for _, p := range strings.Split(t, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return "", "", nil, "", "", ""
	}
	host = parts[0]
	share = parts[1]
	if len(parts) > 2 {
		segments = parts[2:]
	}
	return
}
