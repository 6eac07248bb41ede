/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletView is the caller-facing rendering of a wallet
type WalletView struct {
	Id             string          `json:"id"`
	InitialBalance string          `json:"initialBalance"`
	CurrentBalance string          `json:"currentBalance"`
	Balance        decimal.Decimal `json:"balance"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func NewWalletView(w *Wallet) WalletView {
	return WalletView{
		Id:             w.Id,
		InitialBalance: w.InitialBalance().Display(),
		CurrentBalance: w.CurrentBalance().Display(),
		Balance:        w.CurrentBalance().ToDecimal(),
		UpdatedAt:      w.UpdatedAt,
	}
}

// BankAccountView is the caller-facing rendering of a bank account
type BankAccountView struct {
	Id             string          `json:"id"`
	BankName       string          `json:"bankName"`
	AccountName    string          `json:"accountName"`
	InitialBalance string          `json:"initialBalance"`
	CurrentBalance string          `json:"currentBalance"`
	Balance        decimal.Decimal `json:"balance"`
	Disabled       bool            `json:"disabled"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func NewBankAccountView(b *BankAccount) BankAccountView {
	return BankAccountView{
		Id:             b.Id,
		BankName:       b.BankName,
		AccountName:    b.AccountName,
		InitialBalance: b.InitialBalance().Display(),
		CurrentBalance: b.CurrentBalance().Display(),
		Balance:        b.CurrentBalance().ToDecimal(),
		Disabled:       b.IsDisabled(),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

type CategoryView struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	ColorCode string `json:"colorCode"`
}

func NewCategoryView(c Category) CategoryView {
	return CategoryView{Id: c.Id, Name: c.Name, ColorCode: c.ColorCode}
}

// TransactionRecord represents a transaction in an account's history
type TransactionRecord struct {
	Id                    string          `json:"id"`
	BankAccountId         string          `json:"bankAccountId"`
	Type                  TransactionType `json:"type"`
	Amount                string          `json:"amount"`
	Description           string          `json:"description"`
	Category              CategoryView    `json:"category"`
	IsFromDisabledAccount bool            `json:"isFromDisabledAccount,omitempty"`
	CreatedAt             time.Time       `json:"createdAt"`
}

func NewTransactionRecord(t *Transaction) TransactionRecord {
	return TransactionRecord{
		Id:            t.Id,
		BankAccountId: t.BankAccountId,
		Type:          t.Type,
		Amount:        t.Amount.Display(),
		Description:   t.Description,
		Category:      NewCategoryView(t.Category),
		CreatedAt:     t.CreatedAt,
	}
}

// AccountsOverview is the wallet with every account it owns
type AccountsOverview struct {
	Wallet   WalletView        `json:"wallet"`
	Accounts []BankAccountView `json:"accounts"`
}

type Pagination struct {
	Page          int  `json:"page"`
	Limit         int  `json:"limit"`
	Total         int  `json:"total"`
	HasMoreAfter  bool `json:"hasMoreAfter"`
	HasMoreBefore bool `json:"hasMoreBefore"`
}

type AccountTransactionsPage struct {
	Account      BankAccountView     `json:"account"`
	Transactions []TransactionRecord `json:"transactions"`
	Pagination   Pagination          `json:"pagination"`
}

// UserSummary is the monthly overview for a user
type UserSummary struct {
	Month              int                 `json:"month"`
	Year               int                 `json:"year"`
	TotalIncome        string              `json:"totalIncome"`
	TotalOutcome       string              `json:"totalOutcome"`
	Balance            string              `json:"balance"`
	Wallet             WalletView          `json:"wallet"`
	Accounts           []BankAccountView   `json:"accounts"`
	LatestTransactions []TransactionRecord `json:"latestTransactions"`
}

type UserView struct {
	Id     string     `json:"id"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Wallet WalletView `json:"wallet"`
}

// MessageResult is returned by operations that only report an outcome
type MessageResult struct {
	Message string `json:"message"`
}

// AccountReconciliation compares an account's stored balance with its history
type AccountReconciliation struct {
	AccountId  string `json:"accountId"`
	Expected   string `json:"expected"`
	Actual     string `json:"actual"`
	Consistent bool   `json:"consistent"`
}

// Reconciliation is the outcome of checking a wallet against its accounts
type Reconciliation struct {
	WalletId   string                  `json:"walletId"`
	Expected   string                  `json:"expected"`
	Actual     string                  `json:"actual"`
	Consistent bool                    `json:"consistent"`
	Accounts   []AccountReconciliation `json:"accounts"`
}
