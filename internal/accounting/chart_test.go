package accounting

import (
	"errors"
	"testing"

	"scolaris/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	acct, err := Lookup(CodeCash)
	require.NoError(t, err)
	assert.Equal(t, "Caisse", acct.Name)
	assert.Equal(t, TypeAsset, acct.Type)
	assert.Equal(t, SideDebit, acct.NormalSide)

	acct, err = Lookup(CodeTuitionRevenue)
	require.NoError(t, err)
	assert.Equal(t, TypeRevenue, acct.Type)
	assert.Equal(t, SideCredit, acct.NormalSide)
}

func TestLookupUnknownCode(t *testing.T) {
	_, err := Lookup("9999")
	require.Error(t, err)

	var unknown *model.UnknownAccountError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "9999", unknown.Code)
}

func TestChargeAccountFor(t *testing.T) {
	cases := map[string]string{
		model.CategorySalaries:    CodeSalaries,
		model.CategoryUtilities:   CodeUtilities,
		model.CategorySupplies:    CodeSupplies,
		model.CategoryMaintenance: CodeMaintenance,
		model.CategoryOther:       CodeOther,
	}
	for category, want := range cases {
		code, err := ChargeAccountFor(category)
		require.NoError(t, err, category)
		assert.Equal(t, want, code)
	}
}

func TestChargeAccountForUnknownCategory(t *testing.T) {
	_, err := ChargeAccountFor("TRAVEL")
	require.Error(t, err)

	var unknown *model.UnknownAccountError
	assert.True(t, errors.As(err, &unknown))
}

func TestExists(t *testing.T) {
	assert.True(t, Exists(CodeReceivable))
	assert.False(t, Exists(""))
	assert.False(t, Exists("1234"))
}

func TestAllCoversChargeCategories(t *testing.T) {
	accts := All()
	require.Len(t, accts, 8)

	byCode := make(map[string]Account, len(accts))
	for _, a := range accts {
		byCode[a.Code] = a
	}
	for _, code := range []string{CodeSalaries, CodeUtilities, CodeSupplies, CodeMaintenance, CodeOther} {
		acct, ok := byCode[code]
		require.True(t, ok, code)
		assert.Equal(t, TypeCharge, acct.Type)
	}
}
