package logbook

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/autom8ter/logbook/errors"
	"github.com/autom8ter/logbook/util"
	"github.com/autom8ter/machine/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Config configures a DB
type Config struct {
	// Path is the journal file backing the collection
	Path string `json:"path" validate:"required"`
	// SearchFields are the record fields eligible for full text search
	SearchFields []string `json:"search_fields,omitempty"`
	// LogLevel adjusts the embedded logger (debug, info, warn, error)
	LogLevel string `json:"log_level,omitempty"`
	// Logger overrides the embedded logger
	Logger *zap.Logger `json:"-"`
}

// LoadConfig reads a Config from a json or yaml file
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, errors.NotFound, "failed to read config: %s", path)
	}
	jsonData, err := util.YAMLToJSON(data)
	if err != nil {
		return cfg, errors.Wrap(err, errors.Validation, "failed to parse config: %s", path)
	}
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return cfg, errors.Wrap(err, errors.Validation, "failed to parse config: %s", path)
	}
	return cfg, nil
}

// DB is an embedded, read only document database backed by a journal
// file. Queries re-read the journal, so results always reflect the
// file's current contents; nothing is cached between calls.
type DB struct {
	ctx     context.Context
	cancel  context.CancelFunc
	config  Config
	logger  *zap.Logger
	machine machine.Machine
	watcher *fsnotify.Watcher
}

// Open opens the database backed by the journal at cfg.Path. The
// journal must already exist; Open fails fast on a missing file rather
// than failing every query.
func Open(cfg Config) (*DB, error) {
	if err := util.ValidateStruct(&cfg); err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfg.Path); err != nil {
		return nil, errors.Wrap(err, errors.NotFound, "journal not found: %s", cfg.Path)
	}
	logger := cfg.Logger
	if logger == nil {
		var err error
		logger, err = NewLogger(cfg.LogLevel, map[string]any{"journal": cfg.Path})
		if err != nil {
			return nil, errors.Wrap(err, errors.Internal, "failed to build logger")
		}
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.Internal, "failed to start journal watcher")
	}
	// watch the parent directory: appenders and editors often replace
	// the file, which silently drops a watch held on the file itself
	if err := watcher.Add(filepath.Dir(cfg.Path)); err != nil {
		_ = watcher.Close()
		return nil, errors.Wrap(err, errors.Internal, "failed to watch journal directory")
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &DB{
		ctx:     ctx,
		cancel:  cancel,
		config:  cfg,
		logger:  logger,
		machine: machine.New(),
		watcher: watcher,
	}
	d.machine.Go(ctx, d.forwardJournalEvents)
	return d, nil
}

// Config returns the immutable configuration the DB was opened with
func (d *DB) Config() Config {
	return d.config
}

// Find loads the journal and returns the records matching the filter
// document, optionally sorted and projected per opts. A nil or empty
// filter matches every record in journal order.
func (d *DB) Find(ctx context.Context, filter *Document, opts *FindOptions) (Documents, error) {
	if opts != nil {
		if err := util.ValidateStruct(opts); err != nil {
			return nil, err
		}
	}
	documents, err := ReadJournal(d.config.Path)
	if err != nil {
		return nil, err
	}
	// an empty collection yields an empty result for every query shape
	if len(documents) == 0 {
		return Documents{}, nil
	}
	query, err := ClassifyQuery(filter, documents.Fields())
	if err != nil {
		return nil, err
	}
	results, err := d.evaluate(documents, query)
	if err != nil {
		return nil, err
	}
	if opts != nil {
		OrderByDocs(results, opts.OrderBy)
		if len(opts.Select) > 0 {
			for _, document := range results {
				if err := document.Select(opts.Select); err != nil {
					return nil, err
				}
			}
		}
	}
	d.logger.Debug("evaluated query",
		zap.String("kind", string(query.Kind)),
		zap.Int("loaded", len(documents)),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// Get returns the record with the given identity
func (d *DB) Get(ctx context.Context, id int64) (*Document, error) {
	documents, err := ReadJournal(d.config.Path)
	if err != nil {
		return nil, err
	}
	document, ok := lo.Find[*Document](documents, func(t *Document) bool {
		return t.ID() == id
	})
	if !ok {
		return nil, errors.New(errors.NotFound, "record '%d' not found", id)
	}
	return document, nil
}

// Aggregate filters records with the filter document, groups them by the
// query's group by fields and applies its reductions per group. Each
// result document carries the group's field values plus one value per
// aggregate. Without group by fields a single document is returned.
func (d *DB) Aggregate(ctx context.Context, filter *Document, query AggregateQuery) (Documents, error) {
	if err := util.ValidateStruct(&query); err != nil {
		return nil, err
	}
	documents, err := d.Find(ctx, filter, nil)
	if err != nil {
		return nil, err
	}
	if len(query.GroupBy) == 0 {
		document, err := ApplyAggregates(documents, query.Aggregates...)
		if err != nil {
			return nil, err
		}
		return Documents{document}, nil
	}
	var results Documents
	for _, group := range groupDocs(documents, query.GroupBy) {
		document, err := ApplyAggregates(group, query.Aggregates...)
		if err != nil {
			return nil, err
		}
		for _, field := range query.GroupBy {
			if err := document.Set(field, group[0].Get(field)); err != nil {
				return nil, err
			}
		}
		results = append(results, document)
	}
	// list the first group by field last so it dominates the ordering
	var orderBys []OrderBy
	for i := len(query.GroupBy) - 1; i >= 0; i-- {
		orderBys = append(orderBys, OrderBy{Field: query.GroupBy[i], Direction: OrderByDirectionAsc})
	}
	OrderByDocs(results, orderBys)
	return results, nil
}

// Stats summarizes a journal and the records it holds
type Stats struct {
	// Records is the number of live records in the journal
	Records int `json:"records"`
	// Fields maps each field path to the number of records carrying it
	Fields map[string]int `json:"fields"`
	// MinID is the smallest identity value present
	MinID int64 `json:"min_id"`
	// MaxID is the largest identity value present
	MaxID int64 `json:"max_id"`
	// JournalBytes is the size of the backing file
	JournalBytes int64 `json:"journal_bytes"`
	// SearchFields are the configured full text fields
	SearchFields []string `json:"search_fields,omitempty"`
}

// Stats loads the journal and summarizes it
func (d *DB) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Fields: map[string]int{}, SearchFields: d.config.SearchFields}
	info, err := os.Stat(d.config.Path)
	if err != nil {
		return stats, errors.Wrap(err, errors.NotFound, "journal not found: %s", d.config.Path)
	}
	stats.JournalBytes = info.Size()
	documents, err := ReadJournal(d.config.Path)
	if err != nil {
		return stats, err
	}
	stats.Records = len(documents)
	for _, document := range documents {
		for _, path := range document.FieldPaths() {
			stats.Fields[path]++
		}
	}
	if len(documents) > 0 {
		reduced, err := ApplyAggregates(documents,
			Aggregate{Function: AggregateMin, Field: IDField, Alias: "min_id"},
			Aggregate{Function: AggregateMax, Field: IDField, Alias: "max_id"},
		)
		if err != nil {
			return stats, err
		}
		stats.MinID = int64(reduced.GetFloat("min_id"))
		stats.MaxID = int64(reduced.GetFloat("max_id"))
	}
	return stats, nil
}

// Close stops the journal watcher and waits for active subscriptions
// and background routines to unwind. Watch callers must cancel their
// contexts before Close returns.
func (d *DB) Close(ctx context.Context) error {
	d.cancel()
	err := d.machine.Wait()
	if werr := d.watcher.Close(); werr != nil && err == nil {
		err = werr
	}
	_ = d.logger.Sync()
	return errors.Wrap(err, errors.Internal, "failed to close database")
}

func (d *DB) evaluate(documents Documents, query *Query) (Documents, error) {
	switch query.Kind {
	case QueryKindMatchAll:
		return documents, nil
	case QueryKindText:
		return searchDocs(documents, d.config.SearchFields, query.Search), nil
	case QueryKindSet:
		return foldSetQuery(documents, query.SetOp, query.Wheres)
	case QueryKindField:
		return intersectFieldFilters(documents, query.Wheres)
	default:
		return nil, errors.New(errors.Internal, "unhandled query kind: '%s'", query.Kind)
	}
}

// filterDocs applies a single field filter across the whole collection,
// preserving record order.
func filterDocs(documents Documents, w Where) (Documents, error) {
	var err error
	results := documents.Filter(func(document *Document, i int) bool {
		if err != nil {
			return false
		}
		var pass bool
		pass, err = document.Where([]Where{w})
		return err == nil && pass
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// intersectFieldFilters runs each field filter over the full collection
// and intersects the per-filter results by identity.
func intersectFieldFilters(documents Documents, wheres []Where) (Documents, error) {
	var results Documents
	for i, w := range wheres {
		filtered, err := filterDocs(documents, w)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			results = filtered
			continue
		}
		results = results.Intersect(filtered)
	}
	return results, nil
}

// foldSetQuery folds each field filter result into the accumulator,
// union for or, intersection for and. The first and fold seeds the
// accumulator as-is.
func foldSetQuery(documents Documents, op SetOp, wheres []Where) (Documents, error) {
	results := Documents{}
	for i, w := range wheres {
		filtered, err := filterDocs(documents, w)
		if err != nil {
			return nil, err
		}
		switch op {
		case SetOpOr:
			results = results.Union(filtered)
		case SetOpAnd:
			if i == 0 {
				results = filtered
			} else {
				results = results.Intersect(filtered)
			}
		default:
			return nil, errors.New(errors.Internal, "unhandled set operator: '%s'", op)
		}
	}
	return results, nil
}
