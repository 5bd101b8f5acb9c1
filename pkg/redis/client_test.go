package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestNewClient(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}
	defer mr.Close()

	client, err := NewClient(context.Background(), Options{Host: mr.Host(), Port: mr.Port()})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()

	if err := Ping(client)(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestNewClient_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}
	host, port := mr.Host(), mr.Port()
	mr.Close()

	if _, err := NewClient(context.Background(), Options{Host: host, Port: port}); err == nil {
		t.Error("NewClient() should fail when redis is unreachable")
	}
}
