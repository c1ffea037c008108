package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/psharma/finledger/pkg/models"
	"github.com/psharma/finledger/pkg/store"
)

// Bucket keys. These are part of the durable format: changing them orphans
// previously saved data.
const (
	BucketLoans       = "finance.loans"
	BucketAssets      = "finance.assets"
	BucketLiabilities = "finance.liabilities"
)

// Store is the single source of truth for the three collections. Every state
// transition goes through the reducer under the store's lock, so readers
// observe mutations in dispatch order. After each transition the affected
// collection is handed to a per-bucket writer, which persists it in the
// background without blocking the caller.
type Store struct {
	bucket store.Bucket
	log    zerolog.Logger

	mu    sync.RWMutex
	state State

	loanWriter      *bucketWriter
	assetWriter     *bucketWriter
	liabilityWriter *bucketWriter
}

// New creates a Store backed by the given bucket. The store starts in the
// loading state; call Initialize to hydrate it.
func New(bucket store.Bucket, log zerolog.Logger) *Store {
	log = log.With().Str("component", "ledger").Logger()
	return &Store{
		bucket:          bucket,
		log:             log,
		state:           State{IsLoading: true},
		loanWriter:      newBucketWriter(BucketLoans, bucket, log),
		assetWriter:     newBucketWriter(BucketAssets, bucket, log),
		liabilityWriter: newBucketWriter(BucketLiabilities, bucket, log),
	}
}

// Initialize performs the one-time load from storage. The three buckets are
// read concurrently; a bucket that was never written yields an empty
// collection. Any other read error is logged and that collection stays empty,
// so a partial failure degrades rather than aborts. The loading flag is
// cleared in every outcome.
func (s *Store) Initialize(ctx context.Context) {
	var (
		loans       []models.Loan
		assets      []models.Asset
		liabilities []models.Liability
	)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		readBucket(ctx, s, BucketLoans, &loans)
	}()
	go func() {
		defer wg.Done()
		readBucket(ctx, s, BucketAssets, &assets)
	}()
	go func() {
		defer wg.Done()
		readBucket(ctx, s, BucketLiabilities, &liabilities)
	}()
	wg.Wait()

	s.mu.Lock()
	s.state = reduce(s.state, action{typ: actionSetData, data: &State{
		Loans:       loans,
		Assets:      assets,
		Liabilities: liabilities,
	}})
	s.mu.Unlock()

	s.log.Info().
		Int("loans", len(loans)).
		Int("assets", len(assets)).
		Int("liabilities", len(liabilities)).
		Msg("ledger initialized")
}

func readBucket[T any](ctx context.Context, s *Store, key string, out *[]T) {
	raw, err := s.bucket.Read(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("bucket", key).Msg("failed to load bucket")
		return
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.log.Error().Err(err).Str("bucket", key).Msg("failed to decode bucket")
	}
}

// Snapshot returns a deep copy of the current state. Callers may hold and
// read it freely; it never changes under them.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Loans:       cloneLoans(s.state.Loans),
		Assets:      cloneAssets(s.state.Assets),
		Liabilities: cloneLiabilities(s.state.Liabilities),
		IsLoading:   s.state.IsLoading,
	}
}

// apply runs one reducer transition and enqueues the affected collection for
// persistence. Both serialization and the enqueue happen under the lock, so
// the writer queue receives collection versions in mutation order even when
// mutations race; enqueue never touches storage, so holding the lock across
// it is cheap.
func (s *Store) apply(a action, w *bucketWriter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = reduce(s.state, a)
	var (
		payload []byte
		err     error
	)
	switch w {
	case s.loanWriter:
		payload, err = json.Marshal(s.state.Loans)
	case s.assetWriter:
		payload, err = json.Marshal(s.state.Assets)
	case s.liabilityWriter:
		payload, err = json.Marshal(s.state.Liabilities)
	}
	if err != nil {
		s.log.Error().Err(err).Str("bucket", w.key).Msg("failed to serialize collection")
		return
	}
	w.enqueue(payload)
}

// AddLoan validates the loan, assigns identity and timestamps, and appends it.
func (s *Store) AddLoan(loan models.Loan) (models.Loan, error) {
	loan.ID = uuid.NewString()
	now := time.Now().UTC()
	loan.CreatedAt = now
	loan.UpdatedAt = now
	if err := loan.Validate(); err != nil {
		return models.Loan{}, err
	}
	s.apply(action{typ: actionAddLoan, loan: &loan}, s.loanWriter)
	return loan, nil
}

// UpdateLoan replaces the loan with the same id. An id that matches nothing
// is a silent no-op; the caller is expected to pass an existing id.
func (s *Store) UpdateLoan(loan models.Loan) error {
	if err := loan.Validate(); err != nil {
		return err
	}
	loan.UpdatedAt = time.Now().UTC()
	s.apply(action{typ: actionUpdateLoan, loan: &loan}, s.loanWriter)
	return nil
}

// DeleteLoan removes the loan with the given id. Deleting an absent id is a
// harmless no-op.
func (s *Store) DeleteLoan(id string) {
	s.apply(action{typ: actionDeleteLoan, id: id}, s.loanWriter)
}

// PayEMI records one installment payment. It only applies to an active EMI
// loan with installments remaining; the payment that reaches the full
// duration closes the loan. Anything else is a silent no-op.
func (s *Store) PayEMI(id string) {
	s.apply(action{typ: actionPayEMI, id: id, now: time.Now().UTC()}, s.loanWriter)
}

// AddAsset validates the asset, assigns identity and timestamps, and appends it.
func (s *Store) AddAsset(asset models.Asset) (models.Asset, error) {
	asset.ID = uuid.NewString()
	now := time.Now().UTC()
	asset.CreatedAt = now
	asset.UpdatedAt = now
	if err := asset.Validate(); err != nil {
		return models.Asset{}, err
	}
	s.apply(action{typ: actionAddAsset, asset: &asset}, s.assetWriter)
	return asset, nil
}

// UpdateAsset replaces the asset with the same id; unknown ids are a no-op.
func (s *Store) UpdateAsset(asset models.Asset) error {
	if err := asset.Validate(); err != nil {
		return err
	}
	asset.UpdatedAt = time.Now().UTC()
	s.apply(action{typ: actionUpdateAsset, asset: &asset}, s.assetWriter)
	return nil
}

// DeleteAsset removes the asset with the given id.
func (s *Store) DeleteAsset(id string) {
	s.apply(action{typ: actionDeleteAsset, id: id}, s.assetWriter)
}

// AddLiability validates the liability, assigns identity and timestamps, and
// appends it.
func (s *Store) AddLiability(liability models.Liability) (models.Liability, error) {
	liability.ID = uuid.NewString()
	now := time.Now().UTC()
	liability.CreatedAt = now
	liability.UpdatedAt = now
	if err := liability.Validate(); err != nil {
		return models.Liability{}, err
	}
	s.apply(action{typ: actionAddLiability, liability: &liability}, s.liabilityWriter)
	return liability, nil
}

// UpdateLiability replaces the liability with the same id; unknown ids are a
// no-op.
func (s *Store) UpdateLiability(liability models.Liability) error {
	if err := liability.Validate(); err != nil {
		return err
	}
	liability.UpdatedAt = time.Now().UTC()
	s.apply(action{typ: actionUpdateLiability, liability: &liability}, s.liabilityWriter)
	return nil
}

// DeleteLiability removes the liability with the given id.
func (s *Store) DeleteLiability(id string) {
	s.apply(action{typ: actionDeleteLiability, id: id}, s.liabilityWriter)
}

// ToggleLiabilityStatus flips paid and unpaid on the liability with the given
// id and refreshes its updated timestamp.
func (s *Store) ToggleLiabilityStatus(id string) {
	s.apply(action{typ: actionToggleLiability, id: id, now: time.Now().UTC()}, s.liabilityWriter)
}

// Flush blocks until every enqueued persistence write has settled. Mainly
// for shutdown and tests; normal operation never waits on storage.
func (s *Store) Flush() {
	s.loanWriter.flush()
	s.assetWriter.flush()
	s.liabilityWriter.flush()
}

// Close flushes pending writes and stops the background writers. The backing
// bucket is not closed; the caller owns it.
func (s *Store) Close() {
	s.loanWriter.close()
	s.assetWriter.close()
	s.liabilityWriter.close()
}
