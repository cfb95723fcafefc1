package pipeline

import (
	"log/slog"
	"sync"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/theirongolddev/pvmdash/internal/config"
	"github.com/theirongolddev/pvmdash/internal/model"
)

// Dashboard answers filter, summary, scenario and forecast queries against
// the cached table. Results are memoized by a structural hash of their
// arguments and dropped whenever the cache swaps in a new table.
type Dashboard struct {
	cache    *Cache
	scenario config.ScenarioConfig
	axis     TimeAxis

	mu        sync.Mutex
	gen       uint64
	filtered  map[uint64][]model.Record
	scenarios map[uint64][]model.ScenarioPoint
	forecasts map[uint64]model.Forecast
}

// NewDashboard wires a dashboard to cache using the scenario bounds and
// forecast axis from cfg.
func NewDashboard(cache *Cache, cfg config.Config) (*Dashboard, error) {
	axis, err := ParseTimeAxis(cfg.Forecast.TimeAxis)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{cache: cache, scenario: cfg.Scenario, axis: axis}
	d.resetLocked(0)
	return d, nil
}

// Table returns the cached table, loading it on first use.
func (d *Dashboard) Table() (*Table, error) {
	lr, err := d.cache.Get()
	if err != nil {
		return nil, err
	}
	d.sync()
	return lr.Table, nil
}

// Reload re-reads the input. On failure the previous table and memos stay.
func (d *Dashboard) Reload() (*LoadResult, error) {
	lr, err := d.cache.Reload()
	if err != nil {
		return nil, err
	}
	d.sync()
	return lr, nil
}

// Axis is the time axis used for forecasts.
func (d *Dashboard) Axis() TimeAxis { return d.axis }

// ScenarioConfig is the bounds configuration applied to scenario params.
func (d *Dashboard) ScenarioConfig() config.ScenarioConfig { return d.scenario }

// Options lists the filter values of the whole table.
func (d *Dashboard) Options() (FilterOptions, error) {
	t, err := d.Table()
	if err != nil {
		return FilterOptions{}, err
	}
	return Options(t.records), nil
}

// Resolve fills empty selection fields with the first value of each dimension.
func (d *Dashboard) Resolve(sel model.Selection) (model.Selection, error) {
	t, err := d.Table()
	if err != nil {
		return sel, err
	}
	return Complete(t.records, sel), nil
}

// Filtered returns the records matching sel.
func (d *Dashboard) Filtered(sel model.Selection) ([]model.Record, error) {
	t, err := d.Table()
	if err != nil {
		return nil, err
	}

	key, err := hashKey(sel)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	cached, ok := d.filtered[key]
	d.mu.Unlock()
	if ok {
		return cloneRecords(cached), nil
	}

	recs, err := Filter(t.records, sel)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	d.filtered[key] = recs
	d.mu.Unlock()
	return cloneRecords(recs), nil
}

// Summary computes the headline KPIs for sel.
func (d *Dashboard) Summary(sel model.Selection) (model.KPISummary, error) {
	recs, err := d.Filtered(sel)
	if err != nil {
		return model.KPISummary{}, err
	}
	return Summarize(recs, sel)
}

// Scenario validates p against the configured bounds and simulates it on sel.
func (d *Dashboard) Scenario(sel model.Selection, p Params) ([]model.ScenarioPoint, error) {
	if err := p.Validate(d.scenario); err != nil {
		return nil, err
	}
	recs, err := d.Filtered(sel)
	if err != nil {
		return nil, err
	}

	key, err := hashKey(struct {
		Sel    model.Selection
		Params Params
	}{sel, p})
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	cached, ok := d.scenarios[key]
	d.mu.Unlock()
	if ok {
		return append([]model.ScenarioPoint(nil), cached...), nil
	}

	points, err := Simulate(recs, p)
	if err != nil {
		return nil, err
	}
	if len(p.Unapplied()) > 0 {
		slog.Debug("scenario ratios accepted but not applied", "ratios", p.Unapplied())
	}
	d.mu.Lock()
	d.scenarios[key] = points
	d.mu.Unlock()
	return append([]model.ScenarioPoint(nil), points...), nil
}

// Forecast fits the named KPI on sel and extrapolates k months.
func (d *Dashboard) Forecast(sel model.Selection, kpiName string, k int) (model.Forecast, error) {
	kpi, err := LookupKPI(kpiName)
	if err != nil {
		return model.Forecast{}, err
	}
	recs, err := d.Filtered(sel)
	if err != nil {
		return model.Forecast{}, err
	}

	key, err := hashKey(struct {
		Sel    model.Selection
		Metric string
		K      int
		Axis   string
	}{sel, kpi.Name, k, string(d.axis)})
	if err != nil {
		return model.Forecast{}, err
	}

	d.mu.Lock()
	cached, ok := d.forecasts[key]
	d.mu.Unlock()
	if ok {
		return cloneForecast(cached), nil
	}

	fc, err := Forecast(Series(recs, kpi), k, d.axis, kpi.Name)
	if err != nil {
		return model.Forecast{}, err
	}
	d.mu.Lock()
	d.forecasts[key] = fc
	d.mu.Unlock()
	return cloneForecast(fc), nil
}

// MemoSizes reports how many filter, scenario and forecast results are memoized.
func (d *Dashboard) MemoSizes() (filtered, scenarios, forecasts int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.filtered), len(d.scenarios), len(d.forecasts)
}

// sync drops every memo when the cache generation moved.
func (d *Dashboard) sync() {
	gen := d.cache.Generation()
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		d.resetLocked(gen)
	}
}

func (d *Dashboard) resetLocked(gen uint64) {
	d.gen = gen
	d.filtered = make(map[uint64][]model.Record)
	d.scenarios = make(map[uint64][]model.ScenarioPoint)
	d.forecasts = make(map[uint64]model.Forecast)
}

func hashKey(v any) (uint64, error) {
	return hashstructure.Hash(v, hashstructure.FormatV2, nil)
}

func cloneRecords(r []model.Record) []model.Record {
	return append([]model.Record(nil), r...)
}

func cloneForecast(f model.Forecast) model.Forecast {
	f.Points = append([]model.ForecastPoint(nil), f.Points...)
	return f
}
