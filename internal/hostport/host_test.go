package hostport_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/gourl/internal/hostport"
)

func TestEncodeHost(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		host     string
		validate bool
		want     string
		wantErr  error
	}{
		{"empty", "", true, "", nil},
		{"ascii lowered", "EXAMPLE.com", true, "example.com", nil},
		{"already canonical", "example.com", true, "example.com", nil},
		{"idn", "яндекс.рф", true, "xn--d1acpjx3f.xn--p1ai", nil},
		{"idn mixed case", "ЯНДЕКС.РФ", true, "xn--d1acpjx3f.xn--p1ai", nil},
		{"ipv4", "127.0.0.1", true, "127.0.0.1", nil},
		{"ipv6 compressed", "2001:0db8:0000:0000:0000:0000:0000:0001", true, "2001:db8::1", nil},
		{"ipv6 with zone", "fe80::1%eth0", true, "fe80::1%eth0", nil},
		{"digit-ending reg-name", "host1", true, "host1", nil},
		{"percent triplet allowed", "ex%61mple.com", true, "ex%61mple.com", nil},
		{"space rejected", "exa mple.com", true, "", hostport.ErrInvalidHostChar},
		{"slash rejected", "example.com/x", true, "", hostport.ErrInvalidHostChar},
		{"space allowed unvalidated", "exa mple.com", false, "exa mple.com", nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := hostport.EncodeHost(c.host, c.validate)
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("hostport.EncodeHost(%q, %v) error = %v, want %v", c.host, c.validate, err, c.wantErr)
			}
			if got != c.want {
				t.Errorf("hostport.EncodeHost(%q, %v) = %q, want %q", c.host, c.validate, got, c.want)
			}
		})
	}
}

func TestEncodeHost_authorityHint(t *testing.T) {
	t.Parallel()

	// A ':' or '@' in the host usually means the caller passed a whole
	// authority; the error says so.
	for _, host := range []string{"user@example.com", "example.com:x80"} {
		_, err := hostport.EncodeHost(host, true)
		if err == nil {
			t.Fatalf("hostport.EncodeHost(%q, true) error = nil, want error", host)
		}
		if !strings.Contains(err.Error(), "pass the whole authority") {
			t.Errorf("hostport.EncodeHost(%q, true) error = %v, want authority hint", host, err)
		}
	}
}

func TestDecodeHost(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		host string
		want string
	}{
		{"plain", "example.com", "example.com"},
		{"idn", "xn--d1acpjx3f.xn--p1ai", "яндекс.рф"},
		{"ip literal", "2001:db8::1", "2001:db8::1"},
		{"broken punycode left as is", "xn--$$$", "xn--$$$"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := hostport.DecodeHost(c.host); got != c.want {
				t.Errorf("hostport.DecodeHost(%q) = %q, want %q", c.host, got, c.want)
			}
		})
	}
}

func TestCaches_Stats(t *testing.T) {
	caches := hostport.NewCaches(hostport.DefaultCacheBound, hostport.DefaultCacheBound, hostport.DefaultCacheBound)

	if _, err := caches.EncodeHost("example.com", true); err != nil {
		t.Fatalf("caches.EncodeHost error = %v", err)
	}
	if _, err := caches.EncodeHost("example.com", true); err != nil {
		t.Fatalf("caches.EncodeHost error = %v", err)
	}

	stats := caches.Stats()
	for _, name := range []string{
		hostport.IDNAEncodeCache,
		hostport.IDNADecodeCache,
		hostport.HostEncodeCache,
	} {
		if _, ok := stats[name]; !ok {
			t.Errorf("caches.Stats() missing %q", name)
		}
	}

	he := stats[hostport.HostEncodeCache]
	if he.Hits != 1 || he.Misses != 1 || he.Size != 1 {
		t.Errorf("host-encode stats = %+v, want 1 hit, 1 miss, 1 entry", he)
	}

	caches.Clear()
	he = caches.Stats()[hostport.HostEncodeCache]
	if he.Hits != 0 || he.Misses != 0 || he.Size != 0 {
		t.Errorf("stats after Clear = %+v, want zeroes", he)
	}
}

func TestCaches_validateKeyedSeparately(t *testing.T) {
	caches := hostport.NewCaches(hostport.DefaultCacheBound, hostport.DefaultCacheBound, hostport.DefaultCacheBound)

	// The same host encoded with and without validation occupies two slots.
	if _, err := caches.EncodeHost("example.com", true); err != nil {
		t.Fatalf("caches.EncodeHost error = %v", err)
	}
	if _, err := caches.EncodeHost("example.com", false); err != nil {
		t.Fatalf("caches.EncodeHost error = %v", err)
	}
	if size := caches.Stats()[hostport.HostEncodeCache].Size; size != 2 {
		t.Errorf("host-encode cache size = %d, want 2", size)
	}
}

func TestCaches_errorsNotCached(t *testing.T) {
	caches := hostport.NewCaches(hostport.DefaultCacheBound, hostport.DefaultCacheBound, hostport.DefaultCacheBound)

	for range 2 {
		if _, err := caches.EncodeHost("exa mple.com", true); err == nil {
			t.Fatal("caches.EncodeHost error = nil, want error")
		}
	}
	if size := caches.Stats()[hostport.HostEncodeCache].Size; size != 0 {
		t.Errorf("host-encode cache size = %d, want 0 after failed encodes", size)
	}
}
