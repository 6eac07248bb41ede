package api

import (
	"errors"
	"strings"
	"unicode/utf8"

	"wallet-ledger-go/internal/apperrors"
	"wallet-ledger-go/internal/models"

	"github.com/go-playground/validator/v10"
)

const (
	minPasswordLength = 6
	MsgPasswordShort  = "Password must be at least 6 characters long"
	MsgInvalidRequest = "Invalid request data"
)

var validate = validator.New()

type RegisterBankAccountRequest struct {
	UserId      string `validate:"required"`
	BankName    string `validate:"required,max=100"`
	AccountName string `validate:"required,max=100"`
	Amount      string `validate:"required"`
}

type UpdateBankAccountRequest struct {
	UserId        string  `validate:"required"`
	BankAccountId string  `validate:"required"`
	BankName      *string `validate:"omitempty,max=100"`
	AccountName   *string `validate:"omitempty,max=100"`
}

type CreateTransactionRequest struct {
	UserId        string                 `validate:"required"`
	BankAccountId string                 `validate:"required"`
	CategoryId    string                 `validate:"required"`
	Amount        string                 `validate:"required"`
	Type          models.TransactionType `validate:"required,oneof=income outcome"`
	Description   string                 `validate:"max=255"`
}

// UpdateTransactionRequest carries only the fields being changed.
type UpdateTransactionRequest struct {
	UserId        string                  `validate:"required"`
	TransactionId string                  `validate:"required"`
	Amount        *string                 `validate:"omitempty"`
	Type          *models.TransactionType `validate:"omitempty,oneof=income outcome"`
	Description   *string                 `validate:"omitempty,max=255"`
	CategoryId    *string                 `validate:"omitempty"`
}

type AccountTransactionsRequest struct {
	UserId        string `validate:"required"`
	BankAccountId string `validate:"required"`
	Page          int    `validate:"gte=0"`
	Limit         int    `validate:"gte=0"`
	Month         int    `validate:"min=1,max=12"`
	Year          int    `validate:"min=1970,max=9999"`
}

type UserSummaryRequest struct {
	UserId string `validate:"required"`
	Month  int    `validate:"min=1,max=12"`
	Year   int    `validate:"min=1970,max=9999"`
}

type CreateCategoryRequest struct {
	UserId    string `validate:"required"`
	Name      string `validate:"required,max=50"`
	ColorCode string `validate:"required,hexcolor"`
}

type UpdateCategoryRequest struct {
	UserId     string `validate:"required"`
	CategoryId string `validate:"required"`
	Name       string `validate:"required,max=50"`
}

type CreateUserRequest struct {
	Name           string `validate:"required,max=100"`
	Email          string `validate:"required,email"`
	Password       string `validate:"required"`
	InitialBalance string
}

type AuthenticateRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// validateRequest runs the struct tags on req and reports every failing
// field in a single Validation error.
func validateRequest(op string, req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return apperrors.NewInternal(op, "unable to validate request", err)
	}

	details := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		details = append(details, fe.Field()+": "+fieldErrorMsg(fe))
	}
	return apperrors.Wrap(apperrors.Validation, op, MsgInvalidRequest+": "+strings.Join(details, "; "), err)
}

func fieldErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "hexcolor":
		return "Invalid color code"
	case "oneof":
		return "Value must be one of " + fe.Param()
	case "min":
		return "Value is too small"
	case "max":
		return "Value is too long"
	case "gte":
		return "Value must be greater than or equal to " + fe.Param()
	default:
		return "Invalid value"
	}
}

func validatePassword(op, password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return apperrors.NewValidation(op, MsgPasswordShort)
	}
	return nil
}
