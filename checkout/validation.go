package checkout

import (
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/junaidrashid-git/modelstore-api/models"
)

var validate = validator.New()

// ValidationErrors maps a shipping form field to its message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + v[f]
	}
	return "checkout: invalid shipping info (" + strings.Join(parts, "; ") + ")"
}

var paymentMethods = map[string]bool{
	models.PaymentCreditCard: true,
	models.PaymentDebitCard:  true,
	models.PaymentPayPal:     true,
	models.PaymentTransfer:   true,
}

// Validate trims every field and checks the shipping form. It returns the
// normalized info, or ValidationErrors when any field is rejected. An empty
// payment method defaults to credit card.
func Validate(info models.ShippingInfo) (models.ShippingInfo, error) {
	info.Name = strings.TrimSpace(info.Name)
	info.Email = strings.TrimSpace(info.Email)
	info.Phone = strings.TrimSpace(info.Phone)
	info.Address = strings.TrimSpace(info.Address)
	info.City = strings.TrimSpace(info.City)
	info.ZipCode = strings.TrimSpace(info.ZipCode)
	info.PaymentMethod = strings.TrimSpace(info.PaymentMethod)
	if info.PaymentMethod == "" {
		info.PaymentMethod = models.PaymentCreditCard
	}

	errs := ValidationErrors{}
	required := []struct {
		field, value, message string
	}{
		{"name", info.Name, "Nombre requerido"},
		{"email", info.Email, "Email requerido"},
		{"phone", info.Phone, "Teléfono requerido"},
		{"address", info.Address, "Dirección requerida"},
		{"city", info.City, "Ciudad requerida"},
		{"zipCode", info.ZipCode, "Código postal requerido"},
	}
	for _, r := range required {
		if r.value == "" {
			errs[r.field] = r.message
		}
	}
	if _, missing := errs["email"]; !missing && validate.Var(info.Email, "email") != nil {
		errs["email"] = "Email inválido"
	}
	if !paymentMethods[info.PaymentMethod] {
		errs["paymentMethod"] = "Método de pago inválido"
	}

	if len(errs) > 0 {
		return info, errs
	}
	return info, nil
}
