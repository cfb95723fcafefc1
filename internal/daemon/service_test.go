package daemon

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/pvmdash/internal/model"
	"github.com/theirongolddev/pvmdash/internal/pipeline"
)

// fakeSource serves summaries[i] on the i-th poll, repeating the last one.
type fakeSource struct {
	summaries []model.KPISummary
	polls     int
	failOn    int // 1-based poll whose reload fails; 0 never
}

func (f *fakeSource) Reload() (*pipeline.LoadResult, error) {
	f.polls++
	if f.polls == f.failOn {
		return nil, errors.New("file vanished")
	}
	return &pipeline.LoadResult{}, nil
}

func (f *fakeSource) Resolve(sel model.Selection) (model.Selection, error) {
	if sel.Region == "" {
		sel.Region = "EU"
	}
	return sel, nil
}

func (f *fakeSource) Summary(model.Selection) (model.KPISummary, error) {
	i := min(f.polls, len(f.summaries)) - 1
	return f.summaries[i], nil
}

func TestDiff(t *testing.T) {
	prev := Snapshot{Rows: 10, Profit: 1000, RevenueVariance: 50, CostVariance: -20, PVMImpact: 12.5}
	curr := Snapshot{Rows: 12, Profit: 1250, RevenueVariance: 40, CostVariance: -20, PVMImpact: 15.1}

	d := diff(prev, curr)
	if d.Rows != 2 || d.Profit != 250 || d.RevenueVariance != -10 || d.CostVariance != 0 {
		t.Fatalf("delta = %+v", d)
	}
	if math.Abs(d.PVMImpact-2.6) > 1e-9 {
		t.Fatalf("PVMImpact delta = %.4f, want 2.6", d.PVMImpact)
	}
	if d.IsZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
	if !diff(curr, curr).IsZero() {
		t.Fatal("self diff not zero")
	}
}

func TestBrokerRingBuffer(t *testing.T) {
	b := newBroker(2)
	for range 3 {
		b.emit(EventSnapshot, time.Now(), Snapshot{}, Delta{})
	}

	got := b.recent()
	if len(got) != 2 {
		t.Fatalf("events len = %d, want 2", len(got))
	}
	if got[0].ID != 2 || got[1].ID != 3 {
		t.Fatalf("ring holds IDs [%d, %d], want [2, 3]", got[0].ID, got[1].ID)
	}
}

func TestBrokerSubscribe(t *testing.T) {
	b := newBroker(10)
	feed, detach := b.subscribe()

	b.emit(EventKPIDelta, time.Now(), Snapshot{Rows: 1}, Delta{Rows: 1})
	select {
	case ev := <-feed:
		if ev.Type != EventKPIDelta || ev.Snapshot.Rows != 1 {
			t.Fatalf("event = %+v", ev)
		}
	default:
		t.Fatal("subscriber got nothing")
	}

	detach()
	if _, subs := b.counts(); subs != 0 {
		t.Fatalf("subscribers after detach = %d", subs)
	}
}

func TestPollPublishesOnlyChanges(t *testing.T) {
	src := &fakeSource{summaries: []model.KPISummary{
		{Rows: 3, TotalProfit: 100},
		{Rows: 3, TotalProfit: 100},
		{Rows: 4, TotalProfit: 130},
	}}
	s := New(src, Config{})

	s.Poll()
	s.Poll()
	s.Poll()

	events := s.events.recent()
	if len(events) != 2 {
		t.Fatalf("events = %d, want snapshot + one delta", len(events))
	}
	if events[0].Type != EventSnapshot || events[1].Type != EventKPIDelta {
		t.Fatalf("event types = %q, %q", events[0].Type, events[1].Type)
	}
	if events[1].Delta.Profit != 30 || events[1].Delta.Rows != 1 {
		t.Fatalf("delta = %+v", events[1].Delta)
	}
	if st := s.Status(); st.PollCount != 3 {
		t.Fatalf("PollCount = %d, want 3", st.PollCount)
	}
}

func TestPollFailureKeepsSnapshot(t *testing.T) {
	src := &fakeSource{failOn: 2, summaries: []model.KPISummary{{Rows: 5, TotalProfit: 42}}}
	s := New(src, Config{})

	s.Poll()
	s.Poll()

	st := s.Status()
	if st.LastError == "" {
		t.Fatal("LastError empty after failed poll")
	}
	if st.Summary.Profit != 42 || st.Summary.Rows != 5 {
		t.Fatalf("summary = %+v, want previous snapshot", st.Summary)
	}
	if st.Selection.Region != "EU" {
		t.Fatalf("resolved region = %q, want EU", st.Selection.Region)
	}

	s.Poll()
	if st := s.Status(); st.LastError != "" {
		t.Fatalf("LastError = %q after recovery", st.LastError)
	}
}

func TestStatusEndpoint(t *testing.T) {
	src := &fakeSource{summaries: []model.KPISummary{{Rows: 2, TotalProfit: -7.5}}}
	s := New(src, Config{DataPath: "records.csv"})
	s.Poll()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d", rec.Code)
	}

	var st Status
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.DataPath != "records.csv" || st.Summary.Profit != -7.5 || st.EventCount != 1 {
		t.Fatalf("status = %+v", st)
	}
}

func TestHealthz(t *testing.T) {
	s := New(&fakeSource{}, Config{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestPIDFileClaim(t *testing.T) {
	p := PIDFile(filepath.Join(t.TempDir(), "run", "pvmdashd.pid"))

	if _, err := p.Read(); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Read on missing file: %v", err)
	}
	if err := p.Claim(); err != nil {
		t.Fatalf("Claim: %v", err)
	}
	pid, err := p.Read()
	if err != nil || pid != os.Getpid() {
		t.Fatalf("Read = %d, %v; want %d", pid, err, os.Getpid())
	}
	if err := p.Claim(); err == nil {
		t.Fatal("second Claim by a live process succeeded")
	}

	p.Release()
	if _, err := p.Read(); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Read after Release: %v", err)
	}
}
