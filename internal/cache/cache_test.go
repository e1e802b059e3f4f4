package cache

import (
	"testing"
	"time"

	"dnsresolver/pkg/dns"
)

func rr(owner string) dns.ResourceRecord {
	return dns.ResourceRecord{
		Name:  owner,
		Type:  dns.TypeA,
		Class: dns.ClassIN,
		TTL:   300,
		RData: &dns.AData{Address: []byte{1, 2, 3, 4}},
	}
}

func TestGetMiss(t *testing.T) {
	c := New(4)
	if _, ok := c.Get(Key{Owner: "example.com", Type: dns.TypeA, Class: dns.ClassIN}); ok {
		t.Fatal("Get should miss on an empty cache")
	}
}

func TestSetThenGet(t *testing.T) {
	c := New(4)
	key := Key{Owner: "example.com", Type: dns.TypeA, Class: dns.ClassIN}
	c.Set(key, rr("example.com"), time.Minute)

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("Get should hit after Set")
	}
	if got.Name != "example.com" {
		t.Errorf("Name = %q, want example.com", got.Name)
	}
}

func TestKeysDistinguishTypeAndClass(t *testing.T) {
	c := New(4)
	owner := "example.com"
	c.Set(Key{Owner: owner, Type: dns.TypeA, Class: dns.ClassIN}, rr(owner), time.Minute)

	if _, ok := c.Get(Key{Owner: owner, Type: dns.TypeAAAA, Class: dns.ClassIN}); ok {
		t.Fatal("Get should miss for a different type under the same owner")
	}
}

func TestLazyExpiration(t *testing.T) {
	c := New(4)
	fixed := time.Now()
	c.now = func() time.Time { return fixed }

	key := Key{Owner: "example.com", Type: dns.TypeA, Class: dns.ClassIN}
	c.Set(key, rr("example.com"), time.Second)

	c.now = func() time.Time { return fixed.Add(2 * time.Second) }
	if _, ok := c.Get(key); ok {
		t.Fatal("Get should miss once the entry's TTL has elapsed")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after the expired entry is evicted on lookup", c.Len())
	}
}

func TestCapacityEvictsExpiredFirst(t *testing.T) {
	c := New(2)
	fixed := time.Now()
	c.now = func() time.Time { return fixed }

	c.Set(Key{Owner: "a.com", Type: dns.TypeA, Class: dns.ClassIN}, rr("a.com"), time.Second)
	c.Set(Key{Owner: "b.com", Type: dns.TypeA, Class: dns.ClassIN}, rr("b.com"), time.Hour)

	c.now = func() time.Time { return fixed.Add(2 * time.Second) }
	c.Set(Key{Owner: "c.com", Type: dns.TypeA, Class: dns.ClassIN}, rr("c.com"), time.Hour)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get(Key{Owner: "b.com", Type: dns.TypeA, Class: dns.ClassIN}); !ok {
		t.Error("b.com should survive eviction since it had not expired")
	}
	if _, ok := c.Get(Key{Owner: "c.com", Type: dns.TypeA, Class: dns.ClassIN}); !ok {
		t.Error("c.com should have been inserted")
	}
}
