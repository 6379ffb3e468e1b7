package middleware

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/wms-platform/materials-service/internal/domain"
)

var validateOnce sync.Once

// InitValidator registers custom validators on Gin's binding engine
func InitValidator() {
	validateOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		_ = v.RegisterValidation("txtype", validateTransactionType)
		_ = v.RegisterValidation("warehousetype", validateWarehouseType)
		_ = v.RegisterValidation("decision", validateDecision)
		_ = v.RegisterValidation("money", validateMoney)

		// Use JSON tag names for error messages
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return fld.Name
			}
			return name
		})
	})
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return domain.TransactionType(fl.Field().String()).IsValid()
}

func validateWarehouseType(fl validator.FieldLevel) bool {
	return domain.WarehouseType(fl.Field().String()).IsValid()
}

func validateDecision(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "APPROVE" || value == "REJECT"
}

// validateMoney accepts decimal strings like "12.50"
func validateMoney(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	d, err := decimal.NewFromString(value)
	return err == nil && !d.IsNegative()
}
