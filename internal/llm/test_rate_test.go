package llm

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// go.opencensus.io (linked in via google.golang.org/genai) starts a stats
	// worker in its package init that lives for the whole process.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// fast fake client that returns immediately
type fastClient struct{}

func (f *fastClient) Name() string { return "fast" }
func (f *fastClient) Close() error { return nil }
func (f *fastClient) GenerateJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	return json.RawMessage(`{}`), nil
}

// spy records timestamps when requests reach the inner client
type spy struct{ times []time.Time }
type spyingClient struct {
	next Client
	rec  *spy
}

func (s *spyingClient) Name() string { return s.next.Name() }
func (s *spyingClient) Close() error { return s.next.Close() }
func (s *spyingClient) GenerateJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	s.rec.times = append(s.rec.times, time.Now())
	return s.next.GenerateJSON(ctx, prompt)
}

func TestRate_RPS_2PerSecond_Burst1_Spacing(t *testing.T) {
	// Expect ~>=500ms spacing after the first call when rps=2 and burst=1.
	base := &fastClient{}
	rec := &spy{}
	cli := Wrap(&spyingClient{next: base, rec: rec}, RateLimit(2, 1))
	t.Cleanup(func() { _ = cli.Close() })

	ctx := context.Background()
	start := time.Now()
	// Two sequential calls; first should pass immediately, second should wait ~500ms.
	_, err := cli.GenerateJSON(ctx, "p")
	require.NoError(t, err)
	_, err = cli.GenerateJSON(ctx, "p")
	require.NoError(t, err)
	elapsed := time.Since(start)

	require.GreaterOrEqual(t, elapsed, 450*time.Millisecond, "expected throttling")
	require.Len(t, rec.times, 2, "two calls should reach inner client")
}

func TestRate_RPS_2PerSecond_Burst2_FirstTwoImmediate(t *testing.T) {
	// With burst=2, first two calls should be near-instant; third should be delayed.
	base := &fastClient{}
	cli := RateLimit(2, 2)(base)
	t.Cleanup(func() { _ = cli.Close() })

	ctx := context.Background()
	start := time.Now()
	_, err := cli.GenerateJSON(ctx, "p")
	require.NoError(t, err)
	_, err = cli.GenerateJSON(ctx, "p")
	require.NoError(t, err)
	firstTwo := time.Since(start)

	// Third call should incur ~>=500ms delay at 2 rps.
	start3 := time.Now()
	_, err = cli.GenerateJSON(ctx, "p")
	require.NoError(t, err)
	third := time.Since(start3)

	require.Less(t, firstTwo, 100*time.Millisecond, "first two should be near-instant")
	require.GreaterOrEqual(t, third, 450*time.Millisecond, "third call should be throttled")
}

func TestRate_Disabled_PassesThrough(t *testing.T) {
	cli := RateLimit(0, 0)(&fastClient{})
	t.Cleanup(func() { _ = cli.Close() })

	start := time.Now()
	for i := 0; i < 5; i++ {
		_, err := cli.GenerateJSON(context.Background(), "p")
		require.NoError(t, err)
	}
	require.Less(t, time.Since(start), 100*time.Millisecond, "disabled limiter must not throttle")
}

func TestRate_AcquireHonorsContextCancel(t *testing.T) {
	// Drain the single burst token, then a canceled context must unblock Acquire.
	cli := RateLimit(0.1, 1)(&fastClient{})
	t.Cleanup(func() { _ = cli.Close() })

	_, err := cli.GenerateJSON(context.Background(), "p")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = cli.GenerateJSON(ctx, "p")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
