package queue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/synapsecare/health-risk-api/internal/core/domain"
)

type stubEventRepo struct {
	mu       sync.Mutex
	err      error
	inserted []domain.AuthEvent
	block    chan struct{}
}

func (r *stubEventRepo) InsertEvent(_ context.Context, e *domain.AuthEvent) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.inserted = append(r.inserted, *e)
	return nil
}

func (r *stubEventRepo) events() []domain.AuthEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuthEvent(nil), r.inserted...)
}

func TestDispatcher_PersistsInOrderPerEmail(t *testing.T) {
	repo := &stubEventRepo{}
	d := NewDispatcher(4, repo, zerolog.Nop())
	d.Start(context.Background())

	kinds := []domain.AuthEventKind{domain.EventRegister, domain.EventLogin, domain.EventLogout, domain.EventDeactivate}
	for _, k := range kinds {
		d.Record(domain.AuthEvent{Kind: k, Email: "a@b.com", Success: true})
	}
	d.Record(domain.AuthEvent{Kind: domain.EventLogin, Email: "other@b.com"})
	d.Close()

	var trail []domain.AuthEventKind
	for _, e := range repo.events() {
		if e.ID == "" {
			t.Fatalf("expected generated id")
		}
		if e.At.IsZero() {
			t.Fatalf("expected timestamp")
		}
		if e.Email == "a@b.com" {
			trail = append(trail, e.Kind)
		}
	}
	if len(trail) != len(kinds) {
		t.Fatalf("expected %d events for a@b.com, got %d", len(kinds), len(trail))
	}
	for i := range kinds {
		if trail[i] != kinds[i] {
			t.Fatalf("event %d: expected %s, got %s", i, kinds[i], trail[i])
		}
	}
	if len(repo.events()) != len(kinds)+1 {
		t.Fatalf("expected %d events total, got %d", len(kinds)+1, len(repo.events()))
	}
}

func TestDispatcher_InsertFailureIsNotFatal(t *testing.T) {
	repo := &stubEventRepo{err: errors.New("mongo down")}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start(context.Background())

	d.Record(domain.AuthEvent{Kind: domain.EventLogin, Email: "a@b.com"})
	d.Record(domain.AuthEvent{Kind: domain.EventLogin, Email: "a@b.com"})
	d.Close()

	if n := len(repo.events()); n != 0 {
		t.Fatalf("expected no persisted events, got %d", n)
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	repo := &stubEventRepo{block: make(chan struct{})}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start(context.Background())

	// One event is held by the blocked worker, channelBuffer more fill the queue.
	for i := 0; i < channelBuffer+10; i++ {
		d.Record(domain.AuthEvent{Kind: domain.EventLogin, Email: "a@b.com"})
	}
	close(repo.block)
	d.Close()

	n := len(repo.events())
	if n > channelBuffer+1 {
		t.Fatalf("expected at most %d events, got %d", channelBuffer+1, n)
	}
	if n == 0 {
		t.Fatalf("expected queued events to be persisted")
	}
}

func TestDispatcher_RecordAfterCloseIsIgnored(t *testing.T) {
	repo := &stubEventRepo{}
	d := NewDispatcher(2, repo, zerolog.Nop())
	d.Start(context.Background())
	d.Close()

	d.Record(domain.AuthEvent{Kind: domain.EventLogout, Email: "a@b.com"})
	d.Close()

	if n := len(repo.events()); n != 0 {
		t.Fatalf("expected no events, got %d", n)
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &stubEventRepo{}, zerolog.Nop())
	first := d.shardIndex("a@b.com")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("a@b.com"); got != first {
			t.Fatalf("shard index changed: %d vs %d", got, first)
		}
	}
	if d.shardIndex("") < 0 || d.shardIndex("") >= 8 {
		t.Fatalf("shard index out of range")
	}
}
