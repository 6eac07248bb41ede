package models

import (
	"errors"
	"strings"
	"time"

	"wallet-ledger-go/internal/money"
)

var ErrAccountDisabled = errors.New("bank account is disabled")

// User represents a user in the system
type User struct {
	Entity
	Name         string
	Email        string
	PasswordHash string
	Salt         string
}

func NewUser(name, email, passwordHash, salt string, now time.Time) *User {
	return &User{
		Entity:       NewEntity(now),
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		Salt:         salt,
	}
}

func (u *User) ChangePassword(passwordHash, salt string, now time.Time) {
	u.PasswordHash = passwordHash
	u.Salt = salt
	u.touch(now)
}

// Wallet is the per-user aggregate balance. Its current balance moves with
// every transaction recorded against any of the user's bank accounts.
// Version is zero until the wallet is first persisted.
type Wallet struct {
	Entity
	UserId         string
	Version        int64
	initialBalance money.Money
	currentBalance money.Money
}

func NewWallet(userId string, initial money.Money, now time.Time) *Wallet {
	return &Wallet{
		Entity:         NewEntity(now),
		UserId:         userId,
		initialBalance: initial,
		currentBalance: initial,
	}
}

// RestoreWallet rebuilds a wallet from persisted state.
func RestoreWallet(entity Entity, userId string, initial, current money.Money, version int64) *Wallet {
	return &Wallet{
		Entity:         entity,
		UserId:         userId,
		Version:        version,
		initialBalance: initial,
		currentBalance: current,
	}
}

func (w *Wallet) InitialBalance() money.Money { return w.initialBalance }
func (w *Wallet) CurrentBalance() money.Money { return w.currentBalance }

func (w *Wallet) IncreaseBalance(cents int64, now time.Time) {
	w.currentBalance = w.currentBalance.Increase(cents)
	w.touch(now)
}

func (w *Wallet) DecreaseBalance(cents int64, now time.Time) {
	w.currentBalance = w.currentBalance.Decrease(cents)
	w.touch(now)
}

// ApplyEffect moves the balance by a signed delta.
func (w *Wallet) ApplyEffect(delta int64, now time.Time) {
	if delta >= 0 {
		w.IncreaseBalance(delta, now)
		return
	}
	w.DecreaseBalance(-delta, now)
}

// BankAccount is a sub-ledger of a wallet. A disabled account keeps its
// balance frozen: it can be read but never mutated or renamed.
type BankAccount struct {
	Entity
	WalletId       string
	BankName       string
	AccountName    string
	Version        int64
	DeletedAt      *time.Time
	initialBalance money.Money
	currentBalance money.Money
}

func NewBankAccount(walletId, bankName, accountName string, initial money.Money, now time.Time) *BankAccount {
	return &BankAccount{
		Entity:         NewEntity(now),
		WalletId:       walletId,
		BankName:       strings.TrimSpace(bankName),
		AccountName:    strings.TrimSpace(accountName),
		initialBalance: initial,
		currentBalance: initial,
	}
}

func RestoreBankAccount(entity Entity, walletId, bankName, accountName string, initial, current money.Money, version int64, deletedAt *time.Time) *BankAccount {
	return &BankAccount{
		Entity:         entity,
		WalletId:       walletId,
		BankName:       bankName,
		AccountName:    accountName,
		Version:        version,
		DeletedAt:      deletedAt,
		initialBalance: initial,
		currentBalance: current,
	}
}

func (b *BankAccount) InitialBalance() money.Money { return b.initialBalance }
func (b *BankAccount) CurrentBalance() money.Money { return b.currentBalance }

func (b *BankAccount) IsDisabled() bool {
	return b.DeletedAt != nil
}

func (b *BankAccount) IncreaseBalance(cents int64, now time.Time) error {
	if b.IsDisabled() {
		return ErrAccountDisabled
	}
	b.currentBalance = b.currentBalance.Increase(cents)
	b.touch(now)
	return nil
}

func (b *BankAccount) DecreaseBalance(cents int64, now time.Time) error {
	if b.IsDisabled() {
		return ErrAccountDisabled
	}
	b.currentBalance = b.currentBalance.Decrease(cents)
	b.touch(now)
	return nil
}

func (b *BankAccount) ApplyEffect(delta int64, now time.Time) error {
	if delta >= 0 {
		return b.IncreaseBalance(delta, now)
	}
	return b.DecreaseBalance(-delta, now)
}

// Rename updates whichever names are given. Blank values are ignored.
func (b *BankAccount) Rename(bankName, accountName *string, now time.Time) error {
	if b.IsDisabled() {
		return ErrAccountDisabled
	}
	if bankName != nil && strings.TrimSpace(*bankName) != "" {
		b.BankName = strings.TrimSpace(*bankName)
	}
	if accountName != nil && strings.TrimSpace(*accountName) != "" {
		b.AccountName = strings.TrimSpace(*accountName)
	}
	b.touch(now)
	return nil
}

// Disable stamps DeletedAt once; later calls keep the original timestamp.
func (b *BankAccount) Disable(now time.Time) {
	if b.IsDisabled() {
		return
	}
	ts := now.UTC()
	b.DeletedAt = &ts
	b.touch(now)
}

type Category struct {
	Entity
	UserId    string
	Name      string
	ColorCode string
	DeletedAt *time.Time
}

func NewCategory(userId, name, colorCode string, now time.Time) *Category {
	return &Category{
		Entity:    NewEntity(now),
		UserId:    userId,
		Name:      strings.TrimSpace(name),
		ColorCode: colorCode,
	}
}

func (c *Category) Rename(name string, now time.Time) {
	c.Name = strings.TrimSpace(name)
	c.touch(now)
}

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeOutcome TransactionType = "outcome"
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeOutcome
}

// Effect returns the signed balance movement of amount under this type.
func (t TransactionType) Effect(amount money.Money) int64 {
	if t == TransactionTypeIncome {
		return amount.Cents()
	}
	return -amount.Cents()
}

// Transaction is a single income or outcome movement on a bank account.
// Amount is never negative; the direction comes from Type.
type Transaction struct {
	Entity
	BankAccountId string
	Amount        money.Money
	Type          TransactionType
	Description   string
	Category      Category
	DeletedAt     *time.Time
}

func NewTransaction(bankAccountId string, amount money.Money, txType TransactionType, description string, category Category, now time.Time) *Transaction {
	return &Transaction{
		Entity:        NewEntity(now),
		BankAccountId: bankAccountId,
		Amount:        amount,
		Type:          txType,
		Description:   strings.TrimSpace(description),
		Category:      category,
	}
}

func (t *Transaction) Effect() int64 {
	return t.Type.Effect(t.Amount)
}

// Revise replaces the mutable fields in one step.
func (t *Transaction) Revise(amount money.Money, txType TransactionType, description string, category Category, now time.Time) {
	t.Amount = amount
	t.Type = txType
	t.Description = strings.TrimSpace(description)
	t.Category = category
	t.touch(now)
}
