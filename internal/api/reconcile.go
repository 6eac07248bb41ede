package api

import (
	"context"

	"wallet-ledger-go/internal/apperrors"
	"wallet-ledger-go/internal/models"
	"wallet-ledger-go/internal/store"

	"go.uber.org/zap"
)

// ReconcileWallet verifies that every account balance equals its initial
// balance plus the signed sum of its transactions, and that the wallet equals
// its initial balance plus the current balance of every account.
func (s *LedgerService) ReconcileWallet(ctx context.Context, userId string) (models.Reconciliation, error) {
	const op = "LedgerService.ReconcileWallet"

	zap.L().Info("Reconciling wallet", zap.String("user_id", userId))

	var report models.Reconciliation
	err := s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		wallet, err := repos.Wallets.FindByUserId(ctx, userId)
		if err != nil {
			return missing(err, func(err error) *apperrors.Error {
				return apperrors.NewInternal(op, MsgWalletNotFound, err)
			})
		}

		accounts, err := repos.BankAccounts.FindManyByWalletId(ctx, wallet.Id)
		if err != nil {
			return err
		}

		report = models.Reconciliation{
			WalletId: wallet.Id,
			Accounts: make([]models.AccountReconciliation, 0, len(accounts)),
		}

		expectedWallet := wallet.InitialBalance()
		for _, account := range accounts {
			sum, err := repos.Transactions.SumEffectByAccount(ctx, account.Id)
			if err != nil {
				return err
			}

			expected := account.InitialBalance().Increase(sum)
			report.Accounts = append(report.Accounts, models.AccountReconciliation{
				AccountId:  account.Id,
				Expected:   expected.Display(),
				Actual:     account.CurrentBalance().Display(),
				Consistent: expected.Equal(account.CurrentBalance()),
			})
			expectedWallet = expectedWallet.Add(account.CurrentBalance())
		}

		report.Expected = expectedWallet.Display()
		report.Actual = wallet.CurrentBalance().Display()
		report.Consistent = expectedWallet.Equal(wallet.CurrentBalance())
		return nil
	})
	if err != nil {
		return models.Reconciliation{}, fail(op, err, zap.String("user_id", userId))
	}

	consistent := report.Consistent
	for _, account := range report.Accounts {
		if !account.Consistent {
			consistent = false
			zap.L().Error("Bank account reconciliation failed",
				zap.String("user_id", userId),
				zap.String("bank_account_id", account.AccountId),
				zap.String("current_balance", account.Actual),
				zap.String("calculated_balance", account.Expected))
		}
	}
	if !report.Consistent {
		zap.L().Error("Wallet reconciliation failed",
			zap.String("user_id", userId),
			zap.String("wallet_id", report.WalletId),
			zap.String("current_balance", report.Actual),
			zap.String("calculated_balance", report.Expected))
	}
	if !consistent {
		return report, apperrors.NewInternal(op, MsgBalanceMismatch, nil)
	}

	zap.L().Info("Wallet reconciliation successful",
		zap.String("user_id", userId),
		zap.String("balance", report.Actual))
	return report, nil
}
