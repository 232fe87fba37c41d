package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/izzah/storefront/pkg/enums"
	pkgerrors "github.com/izzah/storefront/pkg/errors"
)

func validForm() Form {
	return Form{
		Email:          "amna@example.com",
		FullName:       "Amna Tariq",
		Phone:          "0300 123-4567",
		Address:        "12 Mall Road",
		City:           "Lahore",
		Region:         "Punjab",
		Country:        "Pakistan",
		ShippingMethod: ShippingMethodStandard,
		PaymentMethod:  enums.PaymentMethodEasyPaisa,
	}
}

func TestValidateFormZeroValue(t *testing.T) {
	t.Parallel()

	errs := ValidateForm(Form{}, false)
	require.Len(t, errs, 6)
	assert.Equal(t, FieldFullName, errs.First())
	for _, field := range []string{FieldFullName, FieldPhone, FieldAddress, FieldCity, FieldRegion, FieldCountry} {
		assert.True(t, errs.Has(field), field)
	}
	assert.False(t, errs.Has(FieldEmail))
}

func TestValidateFormEasyPaisaNeedsProof(t *testing.T) {
	t.Parallel()

	errs := ValidateForm(validForm(), false)
	require.Len(t, errs, 1)
	assert.Equal(t, FieldBankTransferProof, errs.First())
	assert.Equal(t, MessageProofEasyPaisa, errs.Map()[FieldBankTransferProof])

	assert.Empty(t, ValidateForm(validForm(), true))
}

func TestValidateFormCashOnDeliveryProofMessage(t *testing.T) {
	t.Parallel()

	form := validForm()
	form.PaymentMethod = enums.PaymentMethodCashOnDelivery
	errs := ValidateForm(form, false)
	require.Len(t, errs, 1)
	assert.Equal(t, MessageProofCOD, errs.Map()[FieldBankTransferProof])
}

func TestValidateFormEmailAndPhone(t *testing.T) {
	t.Parallel()

	form := validForm()
	form.Email = "not-an-email"
	form.Phone = "12-34"
	errs := ValidateForm(form, true)
	require.Len(t, errs, 2)
	assert.Equal(t, FieldEmail, errs.First())
	assert.Equal(t, MessageInvalidEmail, errs.Map()[FieldEmail])
	assert.Equal(t, MessageInvalidPhone, errs.Map()[FieldPhone])
}

func TestValidateFormBlankAfterTrim(t *testing.T) {
	t.Parallel()

	form := validForm()
	form.City = "   "
	errs := ValidateForm(form, true)
	require.Len(t, errs, 1)
	assert.Equal(t, FieldCity, errs.First())
	assert.Equal(t, MessageRequired, errs[0].Message)
}

func TestValidPhone(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidPhone("(042) 123 4567"))
	assert.True(t, ValidPhone("1234567"))
	assert.False(t, ValidPhone("123456"))
	assert.False(t, ValidPhone("+92 300 1234567"))
}

func TestFieldErrorsErr(t *testing.T) {
	t.Parallel()

	assert.Nil(t, FieldErrors(nil).Err())

	err := ValidateForm(Form{}, false).Err()
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	details, ok := pkgerrors.As(err).Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, FieldFullName, details["first_field"])
	assert.Len(t, details["fields"], 6)
}

func TestFormPatchApply(t *testing.T) {
	t.Parallel()

	form := validForm()
	city := "Karachi"
	method := "cash on delivery"
	require.NoError(t, FormPatch{City: &city, PaymentMethod: &method}.apply(&form))
	assert.Equal(t, "Karachi", form.City)
	assert.Equal(t, enums.PaymentMethodCashOnDelivery, form.PaymentMethod)
	assert.Equal(t, "Amna Tariq", form.FullName)

	bad := "bitcoin"
	err := FormPatch{PaymentMethod: &bad}.apply(&form)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
