package spotify

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeRefresher counts refresh calls and optionally fails them.
type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) Refresh(ctx context.Context) error {
	f.calls++
	return f.err
}

func newTestExecutor(refresher *fakeRefresher) *Executor {
	return NewExecutor(ExecutorOpts{
		Session:    refresher,
		RateLimit:  1000,
		RetryDelay: time.Millisecond,
	})
}

func TestExecutor(t *testing.T) {
	ctx := context.Background()

	t.Run("Do", func(t *testing.T) {
		t.Run("Success Makes Exactly One Call", func(t *testing.T) {
			refresher := &fakeRefresher{}
			exec := newTestExecutor(refresher)

			calls := 0
			op := func(ctx context.Context) (string, error) {
				calls++
				return "ok", nil
			}

			for i := 0; i < 2; i++ {
				result, ok, err := Do(ctx, exec, op)
				if err != nil || !ok {
					t.Fatalf("expected success, got ok=%v err=%v", ok, err)
				}
				if result != "ok" {
					t.Errorf("expected result ok, got %q", result)
				}
			}

			if calls != 2 {
				t.Errorf("expected one underlying call per invocation, got %d total", calls)
			}
			if refresher.calls != 0 {
				t.Errorf("expected no refresh calls, got %d", refresher.calls)
			}
		})

		t.Run("401 Refreshes Then Retries Once", func(t *testing.T) {
			refresher := &fakeRefresher{}
			exec := newTestExecutor(refresher)

			calls := 0
			op := func(ctx context.Context) (string, error) {
				calls++
				if calls == 1 {
					return "", &Error{Status: 401, Message: "The access token expired"}
				}
				return "recovered", nil
			}

			result, ok, err := Do(ctx, exec, op)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !ok || result != "recovered" {
				t.Errorf("expected recovered result, got ok=%v result=%q", ok, result)
			}
			if calls != 2 {
				t.Errorf("expected exactly 2 underlying calls, got %d", calls)
			}
			if refresher.calls != 1 {
				t.Errorf("expected exactly 1 refresh call, got %d", refresher.calls)
			}
		})

		t.Run("401 With Failed Refresh Degrades To Absent", func(t *testing.T) {
			refresher := &fakeRefresher{err: errors.New("refresh rejected")}
			exec := newTestExecutor(refresher)

			calls := 0
			op := func(ctx context.Context) (string, error) {
				calls++
				return "", &Error{Status: 401}
			}

			_, ok, err := Do(ctx, exec, op)
			if err != nil {
				t.Fatalf("expected no typed error, got %v", err)
			}
			if ok {
				t.Error("expected absent result")
			}
			if calls != 1 {
				t.Errorf("expected 1 underlying call, got %d", calls)
			}
		})

		t.Run("Persistent 404 Yields DeviceNotFoundError", func(t *testing.T) {
			refresher := &fakeRefresher{}
			exec := newTestExecutor(refresher)

			calls := 0
			op := func(ctx context.Context) (string, error) {
				calls++
				return "", &Error{Status: 404, Message: "Device not found"}
			}

			_, ok, err := Do(ctx, exec, op)
			if ok {
				t.Error("expected no result")
			}

			var notFound *DeviceNotFoundError
			if !errors.As(err, &notFound) {
				t.Fatalf("expected DeviceNotFoundError, got %v", err)
			}
			if calls != 2 {
				t.Errorf("expected exactly 2 underlying calls, got %d", calls)
			}
		})

		t.Run("Transient 404 Recovers On Retry", func(t *testing.T) {
			refresher := &fakeRefresher{}
			exec := newTestExecutor(refresher)

			calls := 0
			op := func(ctx context.Context) (int, error) {
				calls++
				if calls == 1 {
					return 0, &Error{Status: 404}
				}
				return 42, nil
			}

			result, ok, err := Do(ctx, exec, op)
			if err != nil || !ok {
				t.Fatalf("expected success on retry, got ok=%v err=%v", ok, err)
			}
			if result != 42 {
				t.Errorf("expected 42, got %d", result)
			}
			if refresher.calls != 0 {
				t.Errorf("expected no refresh calls for a 404, got %d", refresher.calls)
			}
		})

		t.Run("Other Status Codes Do Not Retry", func(t *testing.T) {
			refresher := &fakeRefresher{}
			exec := newTestExecutor(refresher)

			calls := 0
			op := func(ctx context.Context) (string, error) {
				calls++
				return "", &Error{Status: 502, Message: "Bad gateway"}
			}

			_, ok, err := Do(ctx, exec, op)
			if err != nil {
				t.Fatalf("expected no typed error, got %v", err)
			}
			if ok {
				t.Error("expected absent result")
			}
			if calls != 1 {
				t.Errorf("expected 1 underlying call, got %d", calls)
			}
		})

		t.Run("Non-API Errors Do Not Retry", func(t *testing.T) {
			refresher := &fakeRefresher{}
			exec := newTestExecutor(refresher)

			calls := 0
			op := func(ctx context.Context) (string, error) {
				calls++
				return "", errors.New("connection reset")
			}

			_, ok, err := Do(ctx, exec, op)
			if err != nil || ok {
				t.Errorf("expected absent with no typed error, got ok=%v err=%v", ok, err)
			}
			if calls != 1 {
				t.Errorf("expected 1 underlying call, got %d", calls)
			}
		})
	})

	t.Run("DoList", func(t *testing.T) {
		t.Run("Fails Once Then Succeeds", func(t *testing.T) {
			exec := newTestExecutor(&fakeRefresher{})

			calls := 0
			op := func(ctx context.Context) ([]Device, error) {
				calls++
				if calls == 1 {
					return nil, errors.New("timeout")
				}
				return []Device{{ID: "d1", Name: "Kitchen"}}, nil
			}

			devices := DoList(ctx, exec, op)
			if calls != 2 {
				t.Errorf("expected exactly 2 underlying calls, got %d", calls)
			}
			if len(devices) != 1 || devices[0].ID != "d1" {
				t.Errorf("expected the successful device list, got %+v", devices)
			}
		})

		t.Run("Persistent Failure Yields Empty List", func(t *testing.T) {
			exec := newTestExecutor(&fakeRefresher{})

			calls := 0
			op := func(ctx context.Context) ([]Device, error) {
				calls++
				return nil, &Error{Status: 500}
			}

			devices := DoList(ctx, exec, op)
			if calls != 2 {
				t.Errorf("expected exactly 2 underlying calls, got %d", calls)
			}
			if devices == nil {
				t.Error("expected an empty list, not nil")
			}
			if len(devices) != 0 {
				t.Errorf("expected empty list, got %+v", devices)
			}
		})
	})
}
