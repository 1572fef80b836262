package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/cratescan/api/internal/model"
)

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	fast := &Client{BatchID: "batch-1", Send: make(chan []byte, 4)}
	slow := &Client{BatchID: "batch-1", Send: make(chan []byte)}
	hub.Register(fast)
	hub.Register(slow)

	hub.BroadcastProgress("batch-1", 7, 11, model.BatchStatusProcessing, "Generating poster render")

	select {
	case msg := <-fast.Send:
		if len(msg) == 0 {
			t.Fatal("empty broadcast payload")
		}
	case <-time.After(time.Second):
		t.Fatal("fast client never received the broadcast")
	}

	// The slow client could not take the message, so the hub must have
	// closed and removed it.
	select {
	case _, ok := <-slow.Send:
		if ok {
			t.Fatal("expected slow client channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("slow client was not dropped")
	}
}

func TestHubConcurrentBroadcasts(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Tiny buffers so clients get dropped mid-broadcast while other
	// goroutines are still registering.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client := &Client{BatchID: "batch-1", Send: make(chan []byte, 1)}
			hub.Register(client)
			for j := 0; j < 20; j++ {
				hub.BroadcastProgress("batch-1", j, 20, model.BatchStatusProcessing, "stage")
			}
		}()
	}
	wg.Wait()
}
