package pipeline

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"go.uber.org/multierr"

	"github.com/matzehuels/toparity/pkg/errors"
	"github.com/matzehuels/toparity/pkg/observability"
)

const gba = `HOA: v1
name: "GFa & GFb"
States: 1
Start: 0
AP: 2 "a" "b"
Acceptance: 2 Inf(0)&Inf(1)
--BODY--
State: 0
[0&1] 0 {0 1}
[0&!1] 0 {0}
[!0&1] 0 {1}
[!0&!1] 0
--END--
`

const buchi = `HOA: v1
States: 1
Start: 0
AP: 1 "a"
Acceptance: 1 Inf(0)
--BODY--
State: 0
[0] 0 {0}
[!0] 0
--END--
`

const universal = `HOA: v1
States: 2
Start: 0&1
AP: 1 "a"
Acceptance: 1 Inf(0)
--BODY--
State: 0
[0] 0 {0}
State: 1
[t] 1
--END--
`

// irrelevant has a set on every edge, which cleanup removes.
const irrelevant = `HOA: v1
States: 1
Start: 0
AP: 1 "a"
Acceptance: 2 Inf(0)&Inf(1)
--BODY--
State: 0
[0] 0 {0 1}
[!0] 0 {1}
--END--
`

// complementary carries exactly one of its two sets on every edge.
const complementary = `HOA: v1
States: 1
Start: 0
AP: 1 "a"
Acceptance: 2 Fin(0)&Inf(1)
--BODY--
State: 0
[0] 0 {0}
[!0] 0 {1}
--END--
`

// memCache is an in-memory cache that counts operations.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

type recordingHooks struct {
	observability.NoopTransformHooks
	observability.NoopCacheHooks
	mu                     sync.Mutex
	transforms, hits, miss int
}

func (h *recordingHooks) OnTransformComplete(context.Context, observability.TransformStats, time.Duration, error) {
	h.mu.Lock()
	h.transforms++
	h.mu.Unlock()
}

func (h *recordingHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	h.hits++
	h.mu.Unlock()
}

func (h *recordingHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	h.miss++
	h.mu.Unlock()
}

func newTestRunner(c *memCache, hooks *recordingHooks) *Runner {
	logger := log.New(io.Discard)
	var h *Hooks
	if hooks != nil {
		h = &Hooks{Transform: hooks, Cache: hooks}
	}
	return NewRunner(c, nil, h, logger)
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options should be valid: %v", err)
	}
	if opts.InputFormat != FormatHOA || len(opts.Formats) != 1 || opts.Formats[0] != FormatHOA {
		t.Errorf("defaults not applied: %+v", opts)
	}
	if opts.MaxSets != DefaultMaxSets || opts.Scale != DefaultScale || opts.Logger == nil {
		t.Errorf("defaults not applied: %+v", opts)
	}

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"input format", Options{InputFormat: "xml"}, errors.ErrCodeInvalidFormat},
		{"output format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"duplicate format", Options{Formats: []string{"hoa", "hoa"}}, errors.ErrCodeInvalidFormat},
		{"negative states", Options{MaxStates: -1}, errors.ErrCodeInvalidOption},
		{"too many sets", Options{MaxSets: 40}, errors.ErrCodeInvalidOption},
		{"scale", Options{Scale: -1}, errors.ErrCodeInvalidOption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("got %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{gba, FormatHOA},
		{"  \n{\"states\": []}", FormatJSON},
		{"", FormatHOA},
	}
	for _, tt := range tests {
		if got := DetectFormat([]byte(tt.in)); got != tt.want {
			t.Errorf("DetectFormat(%.10q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestConvert(t *testing.T) {
	r := newTestRunner(newMemCache(), nil)
	res, err := r.Convert(context.Background(), []byte(gba), Options{
		Formats:     []string{"hoa", "json", "dot"},
		PrettyPrint: true,
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if res.ID == "" {
		t.Error("result should carry an id")
	}
	if res.Automaton == nil || !res.Automaton.Acceptance().IsParity() {
		t.Fatal("result should be a parity automaton")
	}
	s := res.Stats
	if s.InputStates != 1 || s.InputEdges != 4 || s.InputSets != 2 {
		t.Errorf("input stats = %+v", s)
	}
	if s.Priorities != 6 || s.Passthrough {
		t.Errorf("output stats = %+v", s)
	}
	if s.OutputStates != res.Automaton.NumStates() {
		t.Errorf("OutputStates = %d, automaton has %d", s.OutputStates, res.Automaton.NumStates())
	}

	hoaOut := string(res.Artifacts["hoa"])
	for _, want := range []string{"HOA: v1", "Acceptance: 6", "parity max even 6", "--BODY--"} {
		if !strings.Contains(hoaOut, want) {
			t.Errorf("hoa artifact lacks %q:\n%s", want, hoaOut)
		}
	}
	if !strings.Contains(string(res.Artifacts["json"]), `"acceptance"`) {
		t.Error("json artifact lacks acceptance")
	}
	if !strings.HasPrefix(string(res.Artifacts["dot"]), "digraph") {
		t.Error("dot artifact should be a digraph")
	}
}

func TestConvertAutoFormat(t *testing.T) {
	r := newTestRunner(newMemCache(), nil)
	hoaRes, err := r.Convert(context.Background(), []byte(gba), Options{InputFormat: FormatAuto, Formats: []string{"json"}})
	if err != nil {
		t.Fatalf("Convert hoa: %v", err)
	}
	jsonRes, err := r.Convert(context.Background(), hoaRes.Artifacts["json"], Options{InputFormat: FormatAuto})
	if err != nil {
		t.Fatalf("Convert json: %v", err)
	}
	if !jsonRes.Stats.Passthrough {
		t.Error("converting a parity automaton again should pass through")
	}
	if jsonRes.Stats.InputStates != hoaRes.Stats.OutputStates {
		t.Errorf("json round trip: %d states, want %d", jsonRes.Stats.InputStates, hoaRes.Stats.OutputStates)
	}
}

func TestConvertPassthrough(t *testing.T) {
	r := newTestRunner(newMemCache(), nil)
	res, err := r.Convert(context.Background(), []byte(buchi), Options{})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !res.Stats.Passthrough {
		t.Error("a Buchi input is parity and should pass through")
	}
	if res.Stats.OutputStates != 1 || res.Stats.Priorities != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func TestConvertCleanup(t *testing.T) {
	r := newTestRunner(newMemCache(), nil)
	res, err := r.Convert(context.Background(), []byte(irrelevant), Options{Cleanup: true})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.Stats.InputSets != 2 || res.Stats.CleanedSets != 1 {
		t.Errorf("sets: input %d, cleaned %d; want 2, 1", res.Stats.InputSets, res.Stats.CleanedSets)
	}
	// One set left makes a Büchi automaton, which passes through.
	if res.Stats.StateBound != 1 {
		t.Errorf("state bound = %d, want 1", res.Stats.StateBound)
	}
}

func TestConvertSimplify(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		opts        Options
		wantCleaned int
	}{
		{"off", complementary, Options{}, 2},
		{"cleanup keeps complementary sets", complementary, Options{Cleanup: true}, 2},
		{"simplify drops complementary set", complementary, Options{Simplify: true}, 1},
		{"simplify includes cleanup", irrelevant, Options{Simplify: true}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRunner(newMemCache(), nil)
			res, err := r.Convert(context.Background(), []byte(tt.input), tt.opts)
			if err != nil {
				t.Fatalf("Convert: %v", err)
			}
			if res.Stats.CleanedSets != tt.wantCleaned {
				t.Errorf("cleaned sets = %d, want %d", res.Stats.CleanedSets, tt.wantCleaned)
			}
		})
	}
}

func TestConvertErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  Options
		code  errors.Code
	}{
		{"syntax", "HOA: v1\nStates: x\n", Options{}, errors.ErrCodeInvalidInput},
		{"json", "{not json", Options{InputFormat: "json"}, errors.ErrCodeInvalidInput},
		{"universal", universal, Options{}, errors.ErrCodeUnsupportedInput},
		{"max sets", gba, Options{MaxSets: 1}, errors.ErrCodeLimitExceeded},
		{"max states", gba, Options{MaxStates: 1}, errors.ErrCodeLimitExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRunner(newMemCache(), nil)
			_, err := r.Convert(context.Background(), []byte(tt.input), tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("got %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestConvertCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := newTestRunner(newMemCache(), nil)
	_, err := r.Convert(ctx, []byte(gba), Options{})
	if !errors.Is(err, errors.ErrCodeCanceled) {
		t.Errorf("got %v, want CANCELED", err)
	}
}

func TestConvertCaching(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	hooks := &recordingHooks{}
	r := newTestRunner(c, hooks)
	opts := Options{Formats: []string{"hoa"}}

	first, err := r.Convert(ctx, []byte(gba), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit {
		t.Error("first conversion cannot be a cache hit")
	}
	if c.sets != 1 {
		t.Fatalf("cache writes = %d, want 1", c.sets)
	}

	second, err := r.Convert(ctx, []byte(gba), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit || second.Automaton != nil {
		t.Error("second conversion should be served from the cache")
	}
	if string(second.Artifacts["hoa"]) != string(first.Artifacts["hoa"]) {
		t.Error("cached artifact differs")
	}
	if second.Stats.OutputStates != first.Stats.OutputStates {
		t.Error("cached stats differ")
	}
	if second.ID == first.ID {
		t.Error("every conversion gets its own id")
	}

	refreshed, err := r.Convert(ctx, []byte(gba), Options{Formats: []string{"hoa"}, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheHit {
		t.Error("Refresh should bypass the cache")
	}

	if _, err := r.Convert(ctx, []byte(gba), Options{Formats: []string{"hoa"}, PrettyPrint: true}); err != nil {
		t.Fatal(err)
	}

	if hooks.hits != 1 || hooks.miss != 2 || hooks.transforms != 3 {
		t.Errorf("hooks: hits %d, misses %d, transforms %d; want 1, 2, 3", hooks.hits, hooks.miss, hooks.transforms)
	}
}

func TestConvertAll(t *testing.T) {
	r := newTestRunner(newMemCache(), nil)
	inputs := []Input{
		{Name: "gba.hoa", Data: []byte(gba)},
		{Name: "bad.hoa", Data: []byte("HOA: v2\n")},
		{Name: "buchi.hoa", Data: []byte(buchi)},
		{Name: "univ.hoa", Data: []byte(universal)},
	}
	results, err := r.ConvertAll(context.Background(), inputs, Options{}, 2)
	if err == nil {
		t.Fatal("expected combined error")
	}
	for _, name := range []string{"bad.hoa", "univ.hoa"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q should name %s", err, name)
		}
	}
	if len(results) != len(inputs) {
		t.Fatalf("got %d results, want %d", len(results), len(inputs))
	}
	if results[0] == nil || results[2] == nil {
		t.Error("successful inputs should have results")
	}
	if results[1] != nil || results[3] != nil {
		t.Error("failed inputs should have nil results")
	}
}

func TestConvertExamples(t *testing.T) {
	paths, err := filepath.Glob("../../examples/automata/*.hoa")
	if err != nil || len(paths) == 0 {
		t.Fatalf("no example automata: %v", err)
	}
	r := newTestRunner(newMemCache(), nil)
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			res, err := r.Convert(context.Background(), data, Options{Formats: []string{FormatHOA, FormatDOT}})
			if strings.HasPrefix(filepath.Base(path), "universal") {
				if !errors.Is(err, errors.ErrCodeUnsupportedInput) {
					t.Errorf("got %v, want unsupported input", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Convert: %v", err)
			}
			in, err := Parse(data, FormatHOA)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			isParity := in.Acceptance().IsParity()
			if res.Stats.Passthrough != isParity {
				t.Errorf("passthrough = %v for input %v", res.Stats.Passthrough, in.Acceptance())
			}
			want := "parity max even"
			if isParity {
				want = "Acceptance: " + in.Acceptance().String()
			}
			if !strings.Contains(string(res.Artifacts[FormatHOA]), want) {
				t.Errorf("output lacks %q:\n%s", want, res.Artifacts[FormatHOA])
			}
		})
	}
}

// failingCache is a memCache whose Close fails.
type failingCache struct {
	*memCache
	err error
}

func (c failingCache) Close() error { return c.err }

// closingHooks are hooks holding a resource.
type closingHooks struct {
	observability.NoopTransformHooks
	err    error
	closed bool
}

func (h *closingHooks) Close() error {
	h.closed = true
	return h.err
}

func TestRunnerClose(t *testing.T) {
	errCache := stderrors.New("cache close failed")
	errHooks := stderrors.New("hooks close failed")
	tests := []struct {
		name      string
		cacheErr  error
		hooksErr  error
		wantCount int
	}{
		{"clean", nil, nil, 0},
		{"cache fails", errCache, nil, 1},
		{"hooks fail", nil, errHooks, 1},
		{"both fail", errCache, errHooks, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hooks := &closingHooks{err: tt.hooksErr}
			r := NewRunner(failingCache{newMemCache(), tt.cacheErr}, nil,
				&Hooks{Transform: hooks}, log.New(io.Discard))

			err := r.Close()

			if !hooks.closed {
				t.Error("hooks not closed")
			}
			if got := len(multierr.Errors(err)); got != tt.wantCount {
				t.Fatalf("Close = %v, want %d errors", err, tt.wantCount)
			}
			for _, want := range []error{tt.cacheErr, tt.hooksErr} {
				if want != nil && !stderrors.Is(err, want) {
					t.Errorf("Close = %v, want it to wrap %v", err, want)
				}
			}
		})
	}
}
