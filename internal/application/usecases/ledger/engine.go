package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vaultcoin/ledgercore/internal/application/dtos"
	"github.com/vaultcoin/ledgercore/internal/application/ports"
	"github.com/vaultcoin/ledgercore/internal/domain/entities"
	"github.com/vaultcoin/ledgercore/internal/domain/errors"
	"github.com/vaultcoin/ledgercore/internal/domain/events"
	"github.com/vaultcoin/ledgercore/internal/domain/valueobjects"
)

// Engine drives TOP_UP, BONUS, and SPEND to completion, each as a single
// store-level transaction running the procedure in §4.3: lock, gate,
// auto-onboard, row-lock, balance check, insert, mutate, complete, append
// to the outbox.
type Engine struct {
	lockRepo        ports.LockRepository
	assetTypeRepo   ports.AssetTypeRepository
	walletRepo      ports.WalletRepository
	transactionRepo ports.TransactionRepository
	ledgerEntryRepo ports.LedgerEntryRepository
	outboxRepo      ports.OutboxRepository
	uow             ports.UnitOfWork
}

// NewEngine wires the Ledger Engine's dependencies.
func NewEngine(
	lockRepo ports.LockRepository,
	assetTypeRepo ports.AssetTypeRepository,
	walletRepo ports.WalletRepository,
	transactionRepo ports.TransactionRepository,
	ledgerEntryRepo ports.LedgerEntryRepository,
	outboxRepo ports.OutboxRepository,
	uow ports.UnitOfWork,
) *Engine {
	return &Engine{
		lockRepo:        lockRepo,
		assetTypeRepo:   assetTypeRepo,
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		ledgerEntryRepo: ledgerEntryRepo,
		outboxRepo:      outboxRepo,
		uow:             uow,
	}
}

// operation is the internal, symmetric shape every command (TopUp, Bonus,
// Spend) reduces to before reaching execute (§4.3's execute signature).
type operation struct {
	fromUser       uuid.UUID
	toUser         uuid.UUID
	ownerUser      uuid.UUID
	assetTypeID    int32
	amount         valueobjects.Amount
	kind           entities.TransactionKind
	idempotencyKey string
	metadata       map[string]interface{}
}

// TopUp issues value from the system account into a user's wallet.
func (e *Engine) TopUp(ctx context.Context, cmd dtos.TopUpCommand) (*entities.Transaction, error) {
	userID, assetTypeID, amount, err := e.resolveCommandArgs(ctx, cmd.UserID, cmd.AssetType, cmd.Amount)
	if err != nil {
		return nil, err
	}
	return e.execute(ctx, operation{
		fromUser:       entities.SystemUserID,
		toUser:         userID,
		ownerUser:      userID,
		assetTypeID:    assetTypeID,
		amount:         amount,
		kind:           entities.KindTopUp,
		idempotencyKey: cmd.IdempotencyKey,
		metadata:       cmd.Metadata,
	})
}

// Bonus issues a promotional value grant; identical flow to TopUp, distinct
// only in the recorded Transaction.kind (§4.3 Operation kinds).
func (e *Engine) Bonus(ctx context.Context, cmd dtos.BonusCommand) (*entities.Transaction, error) {
	userID, assetTypeID, amount, err := e.resolveCommandArgs(ctx, cmd.UserID, cmd.AssetType, cmd.Amount)
	if err != nil {
		return nil, err
	}
	return e.execute(ctx, operation{
		fromUser:       entities.SystemUserID,
		toUser:         userID,
		ownerUser:      userID,
		assetTypeID:    assetTypeID,
		amount:         amount,
		kind:           entities.KindBonus,
		idempotencyKey: cmd.IdempotencyKey,
		metadata:       cmd.Metadata,
	})
}

// Spend retires value from a user's wallet back to the system account.
func (e *Engine) Spend(ctx context.Context, cmd dtos.SpendCommand) (*entities.Transaction, error) {
	userID, assetTypeID, amount, err := e.resolveCommandArgs(ctx, cmd.UserID, cmd.AssetType, cmd.Amount)
	if err != nil {
		return nil, err
	}
	return e.execute(ctx, operation{
		fromUser:       userID,
		toUser:         entities.SystemUserID,
		ownerUser:      userID,
		assetTypeID:    assetTypeID,
		amount:         amount,
		kind:           entities.KindSpend,
		idempotencyKey: cmd.IdempotencyKey,
		metadata:       cmd.Metadata,
	})
}

func (e *Engine) resolveCommandArgs(ctx context.Context, rawUserID, assetIdentifier, rawAmount string) (uuid.UUID, int32, valueobjects.Amount, error) {
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return uuid.UUID{}, 0, valueobjects.Amount{}, errors.NewInvalidArgument("user_id", "must be a valid UUID")
	}
	if userID == entities.SystemUserID {
		return uuid.UUID{}, 0, valueobjects.Amount{}, errors.NewInvalidArgument("user_id", "cannot be the system account")
	}

	asset, err := e.assetTypeRepo.FindByIdentifier(ctx, assetIdentifier)
	if err != nil {
		return uuid.UUID{}, 0, valueobjects.Amount{}, fmt.Errorf("failed to resolve asset type: %w", err)
	}

	amount, err := valueobjects.NewAmount(rawAmount)
	if err != nil {
		return uuid.UUID{}, 0, valueobjects.Amount{}, errors.NewInvalidArgument("amount", err.Error())
	}
	if !amount.IsPositive() {
		return uuid.UUID{}, 0, valueobjects.Amount{}, errors.NewInvalidArgument("amount", "must be strictly positive")
	}

	return userID, asset.ID(), amount, nil
}

// execute runs the full §4.3 procedure inside one store transaction.
func (e *Engine) execute(ctx context.Context, op operation) (*entities.Transaction, error) {
	if op.fromUser == op.toUser {
		return nil, errors.NewInvalidArgument("fromUser/toUser", "must be distinct parties")
	}

	result, err := e.uow.ExecuteWithResult(ctx, func(txCtx context.Context) (interface{}, error) {
		// Step 2: acquire the advisory lock derived from {fromUser, toUser, assetId}.
		key := deriveAdvisoryKey(op.fromUser, op.toUser, op.assetTypeID)
		if err := e.lockRepo.AcquireAdvisoryLock(txCtx, key); err != nil {
			return nil, errors.NewTransient("AcquireAdvisoryLock", err)
		}

		// Step 3: Idempotency Gate.
		existing, err := e.transactionRepo.FindByIdempotencyKey(txCtx, op.idempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("failed to check idempotency key: %w", err)
		}
		if existing != nil {
			if existing.IsCompleted() {
				return existing, nil
			}
			return nil, errors.NewIdempotencyConflict(op.idempotencyKey, string(existing.Status()))
		}

		// Step 4: auto-onboard both wallets in ascending user_id order.
		first, second := lockWalletsAscending(op.fromUser, op.toUser)
		if err := e.walletRepo.EnsureExists(txCtx, first, op.assetTypeID); err != nil {
			return nil, fmt.Errorf("failed to auto-onboard wallet for %s: %w", first, err)
		}
		if err := e.walletRepo.EnsureExists(txCtx, second, op.assetTypeID); err != nil {
			return nil, fmt.Errorf("failed to auto-onboard wallet for %s: %w", second, err)
		}

		// Step 5: exclusive row locks, same ascending order.
		lockedFirst, err := e.walletRepo.LockForUpdate(txCtx, first, op.assetTypeID)
		if err != nil {
			return nil, fmt.Errorf("failed to lock wallet for %s: %w", first, err)
		}
		lockedSecond, err := e.walletRepo.LockForUpdate(txCtx, second, op.assetTypeID)
		if err != nil {
			return nil, fmt.Errorf("failed to lock wallet for %s: %w", second, err)
		}

		fromWallet, toWallet := lockedFirst, lockedSecond
		if fromWallet.UserID() != op.fromUser {
			fromWallet, toWallet = lockedSecond, lockedFirst
		}

		// Step 6: balance check, performed by Wallet.Debit itself (I1).
		if err := fromWallet.Debit(op.amount); err != nil {
			return nil, err
		}

		// Step 7: insert the PENDING Transaction row.
		tx, err := entities.NewTransaction(op.idempotencyKey, op.kind, op.ownerUser, op.assetTypeID, op.amount, op.metadata)
		if err != nil {
			return nil, err
		}
		if err := e.transactionRepo.Insert(txCtx, tx); err != nil {
			return nil, err
		}

		// Step 8: persist the DEBIT side.
		if err := e.walletRepo.Save(txCtx, fromWallet); err != nil {
			return nil, fmt.Errorf("failed to save debited wallet: %w", err)
		}
		debitEntry := entities.NewLedgerEntry(tx.ID(), fromWallet.ID(), entities.SideDebit, op.amount, fromWallet.Balance())
		if err := e.ledgerEntryRepo.Insert(txCtx, debitEntry); err != nil {
			return nil, fmt.Errorf("failed to insert debit ledger entry: %w", err)
		}

		// Step 9: credit the destination, persist the CREDIT side.
		toWallet.Credit(op.amount)
		if err := e.walletRepo.Save(txCtx, toWallet); err != nil {
			return nil, fmt.Errorf("failed to save credited wallet: %w", err)
		}
		creditEntry := entities.NewLedgerEntry(tx.ID(), toWallet.ID(), entities.SideCredit, op.amount, toWallet.Balance())
		if err := e.ledgerEntryRepo.Insert(txCtx, creditEntry); err != nil {
			return nil, fmt.Errorf("failed to insert credit ledger entry: %w", err)
		}

		// Step 10: COMPLETED.
		completed, err := e.transactionRepo.MarkCompleted(txCtx, tx.ID())
		if err != nil {
			return nil, fmt.Errorf("failed to mark transaction completed: %w", err)
		}

		// Step 11: append to the outbox, in the same store transaction.
		if err := e.appendOutboxEvents(txCtx, completed, debitEntry, creditEntry); err != nil {
			return nil, fmt.Errorf("failed to append outbox events: %w", err)
		}

		return completed, nil
	})
	if err != nil {
		return nil, err
	}

	tx, _ := result.(*entities.Transaction)
	return tx, nil
}

func (e *Engine) appendOutboxEvents(ctx context.Context, tx *entities.Transaction, debit, credit *entities.LedgerEntry) error {
	completedEvent := events.NewTransactionCompleted(tx.ID(), tx.UserID(), tx.AssetTypeID(), string(tx.Kind()), tx.Amount(), *tx.ProcessedAt())
	if err := e.outboxRepo.Save(ctx, completedEvent); err != nil {
		return err
	}

	debitEvent := events.NewWalletDebited(debit.WalletID(), tx.ID(), debit.Amount(), debit.BalanceAfter())
	if err := e.outboxRepo.Save(ctx, debitEvent); err != nil {
		return err
	}

	creditEvent := events.NewWalletCredited(credit.WalletID(), tx.ID(), credit.Amount(), credit.BalanceAfter())
	return e.outboxRepo.Save(ctx, creditEvent)
}
