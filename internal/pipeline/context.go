// Package pipeline threads a dataset snapshot and the active KPI/peer-group
// selection through the analysis functions, memoizing the year-month index
// under a key derived from everything it depends on.
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/KaramelBytes/milkbench-cli/internal/analysis"
	"github.com/KaramelBytes/milkbench-cli/internal/kpi"
	"github.com/KaramelBytes/milkbench-cli/internal/record"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	// ErrNoDataset is returned when a view is requested before a dataset is set.
	ErrNoDataset = errors.New("no dataset loaded")
	// ErrNoEntity is returned when the focal entity has no rows for the KPI.
	ErrNoEntity = errors.New("entity has no data for the selected KPI")
	// ErrNoTank is returned by processor views when no tank dataset is set.
	ErrNoTank = errors.New("no tank dataset loaded")
)

// Dataset is an immutable snapshot of raw observations. Every snapshot gets
// a fresh ID, so replacing the data can never hit a cached index.
type Dataset struct {
	ID       string
	Name     string
	LoadedAt time.Time
	rows     []record.RawObservation
}

// NewDataset snapshots rows; later changes to the caller's slice are not seen.
func NewDataset(name string, rows []record.RawObservation) *Dataset {
	cp := make([]record.RawObservation, len(rows))
	copy(cp, rows)
	return &Dataset{ID: uuid.NewString(), Name: name, LoadedAt: time.Now(), rows: cp}
}

// Rows returns the snapshot. Callers must treat it as read-only.
func (d *Dataset) Rows() []record.RawObservation {
	if d == nil {
		return nil
	}
	return d.rows
}

// Len is the number of raw rows in the snapshot.
func (d *Dataset) Len() int { return len(d.Rows()) }

// Selection is the user-controlled part of the cache key.
type Selection struct {
	KPI    string
	Filter record.Filter
}

type viewKey struct {
	dataset string
	kpi     string
	filter  string
	decimal rune
}

// View is the memoized per-selection state: canonical rows, aggregated cells
// and the year-month index built from them.
type View struct {
	Key     string
	KPI     string
	Rows    []record.Row
	Cells   []analysis.Cell
	Index   analysis.Index
	Dropped int
}

// Context replaces the dashboard's ambient globals: the dataset snapshot, the
// optional processor tank snapshot, the selection and the index cache.
type Context struct {
	dataset *Dataset
	tank    *Dataset
	sel     Selection
	opt     record.Options
	cache   map[viewKey]*View
	builds  int

	lactationYears int
	minMonths      int
	histMonths     int
}

// Option configures a Context.
type Option func(*Context)

// WithParseOptions sets how numeric fields are parsed.
func WithParseOptions(opt record.Options) Option { return func(c *Context) { c.opt = opt } }

// WithTank attaches a processor bulk-tank dataset.
func WithTank(ds *Dataset) Option { return func(c *Context) { c.tank = ds } }

// WithLactationYears sets how many lactation years are offered and how many
// months with data make a year established.
func WithLactationYears(n, minMonths int) Option {
	return func(c *Context) {
		if n > 0 {
			c.lactationYears = n
		}
		if minMonths > 0 {
			c.minMonths = minMonths
		}
	}
}

// WithHistogramMonths sets the default trailing window of histograms.
func WithHistogramMonths(n int) Option {
	return func(c *Context) {
		if n > 0 {
			c.histMonths = n
		}
	}
}

// New creates a Context over ds with the given selection.
func New(ds *Dataset, sel Selection, opts ...Option) *Context {
	c := &Context{
		dataset:        ds,
		sel:            sel,
		cache:          map[viewKey]*View{},
		lactationYears: 3,
		minMonths:      4,
		histMonths:     12,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Selection returns the active selection.
func (c *Context) Selection() Selection { return c.sel }

// SetKPI switches the KPI. The next View call resolves to a different key.
func (c *Context) SetKPI(k string) { c.sel.KPI = k }

// SetFilter switches the peer group.
func (c *Context) SetFilter(f record.Filter) { c.sel.Filter = f }

// SetDataset swaps the snapshot and drops cached views of the old one.
func (c *Context) SetDataset(ds *Dataset) {
	c.dataset = ds
	c.prune()
}

// Builds reports how many views were built (cache misses) so far.
func (c *Context) Builds() int { return c.builds }

func (c *Context) key() viewKey {
	id := ""
	if c.dataset != nil {
		id = c.dataset.ID
	}
	return viewKey{dataset: id, kpi: kpi.Canonical(c.sel.KPI), filter: c.sel.Filter.Signature(), decimal: c.opt.DecimalSeparator}
}

func (k viewKey) String() string {
	return fmt.Sprintf("%s|%s|%s|dec=%q", k.dataset, k.kpi, k.filter, k.decimal)
}

// View returns the index for the current selection, building it on a miss.
// The cache key covers dataset, KPI, filter and parse options, so a view can
// only be reused when none of them changed.
func (c *Context) View() (*View, error) {
	if c.dataset == nil {
		return nil, ErrNoDataset
	}
	k := c.key()
	if v, ok := c.cache[k]; ok {
		return v, nil
	}
	raw := c.sel.Filter.Apply(c.dataset.Rows())
	rows := record.Normalize(raw, k.kpi, c.opt)
	cells := analysis.Aggregate(rows, k.kpi)
	v := &View{
		Key:   k.String(),
		KPI:   k.kpi,
		Rows:  rows,
		Cells: cells,
		Index: analysis.BuildIndex(cells),
	}
	if k.kpi != kpi.Ratio {
		v.Dropped = record.CountMatching(raw, k.kpi) - len(rows)
	}
	c.cache[k] = v
	c.builds++
	log.Debug().
		Str("dataset", c.dataset.Name).
		Str("kpi", k.kpi).
		Str("filter", k.filter).
		Int("rows", len(rows)).
		Int("dropped", v.Dropped).
		Int("cells", len(cells)).
		Int("months", len(v.Index)).
		Msg("built year-month index")
	return v, nil
}

func (c *Context) prune() {
	id := ""
	if c.dataset != nil {
		id = c.dataset.ID
	}
	for k := range c.cache {
		if k.dataset != id {
			delete(c.cache, k)
		}
	}
}

// tankRows normalizes the tank snapshot for the current KPI and province.
// The processor field of the filter does not apply: a tank file belongs to
// one processor by construction.
func (c *Context) tankRows() ([]record.Row, error) {
	if c.tank == nil {
		return nil, ErrNoTank
	}
	f := record.Filter{Province: c.sel.Filter.Province}
	return record.Normalize(f.Apply(c.tank.Rows()), kpi.Canonical(c.sel.KPI), c.opt), nil
}
