package workerpool

import (
	"context"
	"errors"
	"testing"
	"time"
)

func drain(t *testing.T, p *Pool, want int) []Result {
	t.Helper()
	var got []Result
	deadline := time.After(time.Second)
	for len(got) < want {
		select {
		case r, ok := <-p.Results():
			if !ok {
				return got
			}
			got = append(got, r)
		case <-deadline:
			t.Fatalf("timed out waiting for %d results, got %d", want, len(got))
		}
	}
	return got
}

func TestSubmitDeliversResult(t *testing.T) {
	p := New(context.Background(), 2)
	p.Submit(Job{ID: "a", Kind: KindArtwork, Run: func(ctx context.Context) (any, error) {
		return "cover.png", nil
	}})

	got := drain(t, p, 1)
	if got[0].ID != "a" || got[0].Kind != KindArtwork || got[0].Value != "cover.png" {
		t.Fatalf("unexpected result: %+v", got[0])
	}
	p.Cancel()
	p.Wait()
}

func TestSubmitPropagatesError(t *testing.T) {
	p := New(context.Background(), 1)
	wantErr := errors.New("decode failed")
	p.Submit(Job{ID: "b", Kind: KindEffect, Run: func(ctx context.Context) (any, error) {
		return nil, wantErr
	}})

	got := drain(t, p, 1)
	if got[0].Err != wantErr {
		t.Fatalf("expected propagated error, got %v", got[0].Err)
	}
	p.Cancel()
	p.Wait()
}

func TestSubmitPreviewSupersedesStaleLoad(t *testing.T) {
	p := New(context.Background(), 1)
	started := make(chan struct{})
	release := make(chan struct{})

	p.SubmitPreview("song-1", func(ctx context.Context) (any, error) {
		close(started)
		<-release
		return "stale-audio", nil
	})
	<-started

	// Supersede before the first load finishes.
	p.SubmitPreview("song-1", func(ctx context.Context) (any, error) {
		return "fresh-audio", nil
	})
	close(release)

	got := drain(t, p, 2)
	var sawFresh, sawStaleDropped bool
	for _, r := range got {
		switch r.Value {
		case "fresh-audio":
			sawFresh = true
		case "stale-audio":
			t.Fatalf("stale preview load should have been dropped, got value %v", r.Value)
		default:
			if r.Err == context.Canceled {
				sawStaleDropped = true
			}
		}
	}
	if !sawFresh {
		t.Errorf("expected the superseding preview load to deliver a value")
	}
	if !sawStaleDropped {
		t.Errorf("expected the superseded preview load to report context.Canceled")
	}
	p.Cancel()
	p.Wait()
}

func TestCancelUnblocksPendingJobs(t *testing.T) {
	p := New(context.Background(), 1)
	started := make(chan struct{})
	p.Submit(Job{ID: "c", Kind: KindPreview, Run: func(ctx context.Context) (any, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}})
	<-started
	p.Cancel()

	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Cancel")
	}
}
