package redis

import "testing"

func TestNewClient_ParsesURL(t *testing.T) {
	c, err := NewClient("redis://:secret@localhost:6380/3")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer c.Close()

	opts := c.Options()
	if opts.Addr != "localhost:6380" || opts.DB != 3 || opts.Password != "secret" {
		t.Errorf("unexpected options: addr=%s db=%d", opts.Addr, opts.DB)
	}
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	if _, err := NewClient("http://localhost:6379"); err == nil {
		t.Fatal("expected error for non-redis scheme")
	}
}
