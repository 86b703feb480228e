package services

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"time"

	"github.com/dmitrijs2005/invoicekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/invoicekeeper/internal/client/worker"
	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/invoicesrc"
	"github.com/dmitrijs2005/invoicekeeper/internal/logging"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// LocalStore is the durable invoice table the repository caches into.
type LocalStore interface {
	GetAll(ctx context.Context) ([]models.Invoice, error)
	DeleteAll(ctx context.Context) error
	ReplaceAll(ctx context.Context, list []models.Invoice) error
}

// InvoiceRepository decides between the local cache and the remote source.
type InvoiceRepository interface {
	// Read returns the cached invoices, or fetches and caches them when the
	// store is empty or every read must reload.
	Read(ctx context.Context) ([]models.Invoice, error)
	// ForceRefresh always fetches. It reports true once the store holds the
	// fetched set and leaves the store untouched on failure.
	ForceRefresh(ctx context.Context) (bool, error)
	// Cached returns the store contents without contacting the source.
	Cached(ctx context.Context) ([]models.Invoice, error)
	// ReadAsync and RefreshAsync run Read and ForceRefresh in the background.
	// The returned channel yields one Result and is then closed.
	ReadAsync(ctx context.Context) <-chan Result
	RefreshAsync(ctx context.Context) <-chan Result
	// Status reports the persisted mode and the last successful sync.
	Status(ctx context.Context) (SyncStatus, error)
	Close()
}

// Result is delivered exactly once on the channels returned by ReadAsync
// and RefreshAsync.
type Result struct {
	Invoices  []models.Invoice
	Refreshed bool
	Err       error
}

// SyncStatus summarises the last successful synchronisation.
type SyncStatus struct {
	MockMode   bool
	LastSyncAt time.Time // zero when nothing has been synced in this mode
	Count      int       // invoices received by the last sync
	Digest     string
	Stored     int // rows currently in the local store
}

// RepositoryOptions tune an InvoiceRepository.
type RepositoryOptions struct {
	// UseMock selects the simulated backend. It also enables the
	// always-reload policy because the simulated data changes per call.
	UseMock      bool
	FetchTimeout time.Duration
	Logger       logging.Logger
	QueueSize    int
}

type invoiceRepository struct {
	store  LocalStore
	meta   metadata.Repository
	source invoicesrc.Source
	queue  *worker.Queue
	log    logging.Logger

	useMock      bool
	alwaysReload bool
	fetchTimeout time.Duration
	now          func() time.Time
}

// NewInvoiceRepository wires the repository and runs the mode-switch check
// before returning: when the persisted mode differs from opts.UseMock the
// store is emptied and the new mode recorded. A storage failure during the
// check is returned.
func NewInvoiceRepository(
	ctx context.Context,
	store LocalStore,
	meta metadata.Repository,
	source invoicesrc.Source,
	opts RepositoryOptions,
) (InvoiceRepository, error) {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 16
	}

	r := &invoiceRepository{
		store:        store,
		meta:         meta,
		source:       source,
		queue:        worker.New(opts.QueueSize),
		log:          opts.Logger.With("component", "invoice_repository"),
		useMock:      opts.UseMock,
		alwaysReload: opts.UseMock,
		fetchTimeout: opts.FetchTimeout,
		now:          time.Now,
	}

	if err := r.queue.Do(ctx, r.checkMode); err != nil {
		r.queue.Close()
		return nil, err
	}
	return r, nil
}

func (r *invoiceRepository) checkMode(ctx context.Context) error {
	last, err := metadata.GetBool(ctx, r.meta, common.LastModeWasMockKey, false)
	if err != nil {
		return common.NewStorageError("read mode flag", err)
	}
	if last == r.useMock {
		return nil
	}

	r.log.Warn(ctx, "backend mode changed, clearing local cache", "was_mock", last, "now_mock", r.useMock)

	if err := r.store.DeleteAll(ctx); err != nil {
		return common.NewStorageError("clear on mode switch", err)
	}
	if err := r.meta.Delete(ctx, common.LastSyncAtKey, common.LastSyncCountKey, common.LastSyncDigestKey); err != nil {
		return common.NewStorageError("clear sync status", err)
	}
	if err := metadata.SetBool(ctx, r.meta, common.LastModeWasMockKey, r.useMock); err != nil {
		return common.NewStorageError("write mode flag", err)
	}
	return nil
}

// Cached reads the local store on the worker. A failure is a storage error.
func (r *invoiceRepository) Cached(ctx context.Context) ([]models.Invoice, error) {
	var list []models.Invoice
	err := r.queue.Do(ctx, func(ctx context.Context) error {
		var err error
		list, err = r.store.GetAll(ctx)
		if err != nil {
			return common.NewStorageError("read", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Read serves the cache when it holds rows and the repository is not in
// always-reload mode. Otherwise it fetches and replaces the store.
//
// When the fetch fails with a fetch error and a non-empty cache was read
// first, the stale rows are returned with a nil error. Storage errors, and
// fetch errors with nothing cached, are returned as is.
func (r *invoiceRepository) Read(ctx context.Context) ([]models.Invoice, error) {
	cached, err := r.Cached(ctx)
	if err != nil {
		return nil, err
	}

	if !r.alwaysReload && len(cached) > 0 {
		r.log.Debug(ctx, "serving invoices from local cache", "count", len(cached))
		return cached, nil
	}

	fetched, err := r.fetchAndReplace(ctx)
	if err == nil {
		return fetched, nil
	}
	if !errors.Is(err, common.ErrFetch) {
		return nil, err
	}
	if len(cached) > 0 {
		r.log.Warn(ctx, "fetch failed, serving stale cache",
			"count", len(cached), "kind", common.FetchKindOf(err).String(), "error", err)
		return cached, nil
	}
	return nil, err
}

// ForceRefresh fetches regardless of the cache. It reports true only after
// the fetched set has replaced the store; on any error the store keeps its
// previous contents.
func (r *invoiceRepository) ForceRefresh(ctx context.Context) (bool, error) {
	if _, err := r.fetchAndReplace(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// fetchAndReplace fetches off the worker and queues only the replace. Each
// call logs under its own sync_id.
func (r *invoiceRepository) fetchAndReplace(ctx context.Context) ([]models.Invoice, error) {
	log := r.log.With("sync_id", uuid.NewString())
	log.Info(ctx, "fetching invoices from remote source")

	fctx := ctx
	if r.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(ctx, r.fetchTimeout)
		defer cancel()
	}

	started := r.now()
	fetched, err := r.source.FetchAll(fctx)
	if err != nil {
		ferr := common.AsFetchError(err)
		log.Warn(ctx, "remote fetch failed", "kind", common.FetchKindOf(ferr).String(), "error", err)
		return nil, ferr
	}
	if fetched == nil {
		fetched = []models.Invoice{}
	}

	err = r.queue.Do(ctx, func(ctx context.Context) error {
		if err := r.store.ReplaceAll(ctx, fetched); err != nil {
			return common.NewStorageError("replace", err)
		}
		return r.recordSync(ctx, fetched, started)
	})
	if err != nil {
		log.Error(ctx, "failed to store fetched invoices", "error", err)
		return nil, err
	}

	log.Info(ctx, "local cache replaced", "count", len(fetched), "took", r.now().Sub(started).String())
	return models.CloneAll(fetched), nil
}

// recordSync runs on the worker inside the replace job.
func (r *invoiceRepository) recordSync(ctx context.Context, list []models.Invoice, at time.Time) error {
	if err := metadata.SetTime(ctx, r.meta, common.LastSyncAtKey, at); err != nil {
		return common.NewStorageError("record sync time", err)
	}
	if err := metadata.SetInt(ctx, r.meta, common.LastSyncCountKey, len(list)); err != nil {
		return common.NewStorageError("record sync count", err)
	}
	if err := metadata.SetString(ctx, r.meta, common.LastSyncDigestKey, Digest(list)); err != nil {
		return common.NewStorageError("record sync digest", err)
	}
	return nil
}

// ReadAsync runs Read on its own goroutine. It cannot run as a worker job
// because Read itself queues work on the worker.
func (r *invoiceRepository) ReadAsync(ctx context.Context) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		list, err := r.Read(ctx)
		out <- Result{Invoices: list, Err: err}
	}()
	return out
}

// RefreshAsync is the background form of ForceRefresh.
func (r *invoiceRepository) RefreshAsync(ctx context.Context) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		ok, err := r.ForceRefresh(ctx)
		out <- Result{Refreshed: ok, Err: err}
	}()
	return out
}

// Status gathers every field in one worker job, so it never observes a
// half-applied replace.
func (r *invoiceRepository) Status(ctx context.Context) (SyncStatus, error) {
	var st SyncStatus
	err := r.queue.Do(ctx, func(ctx context.Context) error {
		var err error
		if st.MockMode, err = metadata.GetBool(ctx, r.meta, common.LastModeWasMockKey, r.useMock); err != nil {
			return common.NewStorageError("status", err)
		}
		if st.LastSyncAt, err = metadata.GetTime(ctx, r.meta, common.LastSyncAtKey); err != nil {
			return common.NewStorageError("status", err)
		}
		if st.Count, err = metadata.GetInt(ctx, r.meta, common.LastSyncCountKey); err != nil {
			return common.NewStorageError("status", err)
		}
		if st.Digest, err = metadata.GetString(ctx, r.meta, common.LastSyncDigestKey); err != nil {
			return common.NewStorageError("status", err)
		}
		list, err := r.store.GetAll(ctx)
		if err != nil {
			return common.NewStorageError("status", err)
		}
		st.Stored = len(list)
		return nil
	})
	return st, err
}

// Close stops the worker after draining queued work. Later calls fail with
// common.ErrRepositoryClosed.
func (r *invoiceRepository) Close() {
	r.queue.Close()
}

// Digest fingerprints an invoice set with BLAKE2b-256. Equal sets in equal
// order produce equal digests.
func Digest(list []models.Invoice) string {
	h, _ := blake2b.New256(nil)
	var buf [8]byte
	for _, inv := range list {
		h.Write([]byte(inv.Status))
		h.Write([]byte{0})
		h.Write([]byte(inv.Amount.String()))
		h.Write([]byte{0})
		if inv.Date != nil {
			binary.BigEndian.PutUint64(buf[:], uint64(inv.Date.EpochDays()))
			h.Write([]byte{1})
			h.Write(buf[:])
		} else {
			h.Write([]byte{0})
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
