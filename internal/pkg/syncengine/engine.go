package syncengine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/TuanPhamVN/CloudSentry/app/models"
	"github.com/TuanPhamVN/CloudSentry/app/repository"
	"github.com/TuanPhamVN/CloudSentry/internal/pkg/env"
	"github.com/TuanPhamVN/CloudSentry/internal/pkg/providers"
)

const defaultWorkerCount = 8
const defaultCallTimeout = 10 * time.Second

// Engine reconciles provider accounts with their upstream state. Each due
// account is synced independently on a bounded worker pool; writes for one
// account are serialized while different accounts proceed concurrently.
type Engine struct {
	factory     *repository.Factory
	registry    *providers.Registry
	workers     int
	callTimeout time.Duration
	stats       StatsSink
	locks       sync.Map // account ID -> *sync.Mutex
}

// Result aggregates one sweep. A single account's failure never aborts the
// sweep; it is reported here instead.
type Result struct {
	Succeeded int
	Failed    int
	Errors    []error
}

// NewEngine creates a sync engine. The worker count is read from
// SYNC_WORKER_COUNT and bounds concurrent outbound provider calls.
func NewEngine(factory *repository.Factory, registry *providers.Registry, stats StatsSink) *Engine {
	workers := defaultWorkerCount
	if v, err := strconv.Atoi(env.GetEnv("SYNC_WORKER_COUNT", "")); err == nil && v > 0 {
		workers = v
	}

	return &Engine{
		factory:     factory,
		registry:    registry,
		workers:     workers,
		callTimeout: defaultCallTimeout,
		stats:       stats,
	}
}

// SyncDueAccounts sweeps all active accounts whose refresh interval has
// elapsed. Auth-failed accounts are skipped until their credential is
// rotated.
func (e *Engine) SyncDueAccounts(ctx context.Context, now time.Time) Result {
	repos := e.factory.GetRepositories()

	accounts, err := repos.Account.ListActive()
	if err != nil {
		log.Errorf("[SyncEngine] Failed to list accounts: %v", err)
		return Result{Errors: []error{err}}
	}

	due := make([]models.ProviderAccount, 0, len(accounts))
	for _, acc := range accounts {
		if acc.AuthFailed {
			continue
		}
		if acc.DueAt(now) {
			due = append(due, acc)
		}
	}

	if len(due) == 0 {
		return Result{}
	}

	sweepID := uuid.NewString()
	log.Infof("[SyncEngine] Sweep %s: %d due accounts (%d workers)", sweepID, len(due), e.workers)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		res Result
	)
	sem := make(chan struct{}, e.workers)

	for i := range due {
		acc := due[i]

		select {
		case <-ctx.Done():
			mu.Lock()
			res.Failed++
			res.Errors = append(res.Errors, fmt.Errorf("account %d: %w", acc.ID, ctx.Err()))
			mu.Unlock()
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			if err := e.SyncAccount(ctx, &acc, now); err != nil {
				log.Errorf("[SyncEngine] Account %d (%s/%s) sync failed: %v", acc.ID, acc.Provider, acc.Email, err)
				mu.Lock()
				res.Failed++
				res.Errors = append(res.Errors, fmt.Errorf("account %d: %w", acc.ID, err))
				mu.Unlock()
				return
			}

			mu.Lock()
			res.Succeeded++
			mu.Unlock()
		}()
	}

	wg.Wait()
	log.Infof("[SyncEngine] Sweep %s finished: %d succeeded, %d failed", sweepID, res.Succeeded, res.Failed)

	if e.stats != nil {
		e.stats.RecordSweep(res, now)
	}
	return res
}

// SyncAccount fetches balance and inventory for one account and commits both
// in a single transaction. On any fetch error the stored state, including
// last_synced_at, is left untouched so the account stays due.
func (e *Engine) SyncAccount(ctx context.Context, acc *models.ProviderAccount, now time.Time) error {
	lock := e.lockFor(acc.ID)
	lock.Lock()
	defer lock.Unlock()

	adapter, err := e.registry.Get(acc.Provider)
	if err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	balance, err := adapter.FetchBalance(callCtx, acc.Credential)
	if err != nil {
		return e.handleFetchError(acc, err)
	}

	inventory, err := adapter.FetchInventory(callCtx, acc.Credential)
	if err != nil {
		return e.handleFetchError(acc, err)
	}

	resources := make([]models.ManagedResource, 0, len(inventory))
	for _, res := range inventory {
		resources = append(resources, models.ManagedResource{
			ProviderAccountID: acc.ID,
			ExternalID:        res.ExternalID,
			Name:              res.Name,
			Kind:              res.Kind,
			Status:            res.Status,
			Address:           res.Address,
			Location:          res.Location,
			Expiry:            res.Expiry,
			Metadata:          res.Metadata,
		})
	}

	// Balance update and resource replacement commit together or not at all
	err = e.factory.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Account.CommitSyncResult(acc.ID, balance.Amount, balance.Limit, now); err != nil {
			return err
		}
		return tx.Resource.ReplaceForAccount(acc.ID, resources)
	})
	if err != nil {
		return fmt.Errorf("commit sync for account %d: %w", acc.ID, err)
	}

	acc.Balance = balance.Amount
	acc.BalanceLimit = balance.Limit
	acc.LastSyncedAt = &now
	acc.AuthFailed = false
	return nil
}

// SyncAccountByID is the manual per-account trigger used by the control
// surface. It ignores the due check and the auth-failed flag.
func (e *Engine) SyncAccountByID(ctx context.Context, id uint, now time.Time) error {
	repos := e.factory.GetRepositories()
	acc, err := repos.Account.GetByID(id)
	if err != nil {
		return err
	}
	return e.SyncAccount(ctx, acc, now)
}

func (e *Engine) handleFetchError(acc *models.ProviderAccount, err error) error {
	var authErr *providers.AuthError
	if errors.As(err, &authErr) {
		// Permanent until the credential is rotated; flag the account so the
		// sweep stops busy-retrying it.
		repos := e.factory.GetRepositories()
		if markErr := repos.Account.MarkAuthFailed(acc.ID, true); markErr != nil {
			log.Errorf("[SyncEngine] Failed to flag auth failure for account %d: %v", acc.ID, markErr)
		}
		acc.AuthFailed = true
	}
	return err
}

func (e *Engine) lockFor(accountID uint) *sync.Mutex {
	lock, _ := e.locks.LoadOrStore(accountID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
