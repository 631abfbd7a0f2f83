package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/tallyspace/tallyspace/internal/core/domain"
)

var validAccountTypes = map[domain.AccountType]bool{
	domain.BankAccount:       true,
	domain.InvestmentAccount: true,
	domain.Cash:              true,
	domain.Liabilities:       true,
	domain.Expense:           true,
	domain.Revenue:           true,
	domain.Assets:            true,
}

var validActivityTypes = map[domain.ActivityType]bool{
	domain.ActivityRevenue:    true,
	domain.ActivityExpense:    true,
	domain.ActivityInvestment: true,
	domain.ActivityNeutral:    true,
}

// RegisterCustomValidators installs the enum validators referenced by the
// request DTO binding tags. Must run before the router starts serving.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine type")
	}

	if err := v.RegisterValidation("accounttype", func(fl validator.FieldLevel) bool {
		return validAccountTypes[domain.AccountType(fl.Field().String())]
	}); err != nil {
		return fmt.Errorf("register accounttype validator: %w", err)
	}

	if err := v.RegisterValidation("activitytype", func(fl validator.FieldLevel) bool {
		return validActivityTypes[domain.ActivityType(fl.Field().String())]
	}); err != nil {
		return fmt.Errorf("register activitytype validator: %w", err)
	}

	return nil
}
