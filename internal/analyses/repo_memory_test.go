package analyses

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMemoryRepoSaveUpserts(t *testing.T) {
	repo := NewMemoryRepo()
	clock := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return clock }
	ctx := context.Background()

	first, err := repo.Save(ctx, Outcome{ApplicationID: 4, Result: "first", Summary: "s1", Score: 10})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	clock = clock.Add(time.Minute)
	second, err := repo.Save(ctx, Outcome{ApplicationID: 4, Result: "second", Summary: "s2", Score: 20})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if repo.Len() != 1 {
		t.Fatalf("expected one row, got %d", repo.Len())
	}
	if second.ID != first.ID || !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("expected identity to be kept: first=%+v second=%+v", first, second)
	}
	if !second.UpdatedAt.Equal(clock) {
		t.Fatalf("expected updated_at to move, got %v", second.UpdatedAt)
	}
	got, err := repo.GetByApplicationID(ctx, 4)
	if err != nil {
		t.Fatalf("GetByApplicationID: %v", err)
	}
	if got.Result != "second" || got.Score != 20 || got.Summary != "s2" {
		t.Fatalf("unexpected stored outcome: %+v", got)
	}
}

func TestMemoryRepoConcurrentSavesLeaveOneRow(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			if _, err := repo.Save(ctx, Outcome{ApplicationID: 1, Score: score}); err != nil {
				t.Errorf("Save: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if repo.Len() != 1 {
		t.Fatalf("expected one row, got %d", repo.Len())
	}
}

func TestMemoryRepoGetMissing(t *testing.T) {
	repo := NewMemoryRepo()
	if _, err := repo.GetByApplicationID(context.Background(), 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	has, err := repo.HasOutcome(context.Background(), 1)
	if err != nil || has {
		t.Fatalf("expected no outcome, got %v %v", has, err)
	}
}

func TestMemoryRepoDeleteByApplicationID(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	if _, err := repo.Save(ctx, Outcome{ApplicationID: 1, Score: 70}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.DeleteByApplicationID(ctx, 1); err != nil {
		t.Fatalf("DeleteByApplicationID: %v", err)
	}
	if has, _ := repo.HasOutcome(ctx, 1); has {
		t.Fatalf("expected outcome to be deleted")
	}
	if err := repo.DeleteByApplicationID(ctx, 1); err != nil {
		t.Fatalf("expected deleting a missing outcome to be a no-op, got %v", err)
	}
}

func TestMemoryRepoListByApplicationIDs(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	for _, id := range []int64{1, 2, 3} {
		if _, err := repo.Save(ctx, Outcome{ApplicationID: id, Score: int(id) * 10}); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := repo.ListByApplicationIDs(ctx, []int64{2, 3, 9})
	if err != nil {
		t.Fatalf("ListByApplicationIDs: %v", err)
	}
	if len(got) != 2 || got[2].Score != 20 || got[3].Score != 30 {
		t.Fatalf("unexpected outcomes: %+v", got)
	}
}

func TestMemoryRepoHonoursCancelledContext(t *testing.T) {
	repo := NewMemoryRepo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := repo.Save(ctx, Outcome{ApplicationID: 1}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if repo.Len() != 0 {
		t.Fatalf("expected nothing stored")
	}
}
