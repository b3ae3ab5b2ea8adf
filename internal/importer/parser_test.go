package importer_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/batchpos/internal/apperr"
	"github.com/MrJamesThe3rd/batchpos/internal/importer"
	"github.com/MrJamesThe3rd/batchpos/internal/money"
)

func TestParser_Comma(t *testing.T) {
	csv := `colorName,unitWeight,unitPrice,stockCount
Red,9,3000.00,50
Sky Blue,9.5,"3,250.50",12
`

	res, err := importer.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, res.Products, 2)

	assert.Equal(t, "Red", res.Products[0].ColorName)
	assert.True(t, decimal.NewFromInt(9).Equal(res.Products[0].UnitWeight))
	assert.Equal(t, money.Amount(300000), res.Products[0].UnitPrice)
	assert.Equal(t, 50, res.Products[0].StockCount)

	assert.Equal(t, "Sky Blue", res.Products[1].ColorName)
	assert.Equal(t, money.Amount(325050), res.Products[1].UnitPrice)
	assert.Equal(t, "UTF-8", res.Charset)
}

func TestParser_SemicolonWithPreamble(t *testing.T) {
	csv := `Lista de produtos;31-01-2026

Cor;Peso;Preço;Quantidade
Vermelho;9;1.234,56;5

Azul;;10,00;
`

	res, err := importer.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, res.Products, 2)

	assert.Equal(t, "Vermelho", res.Products[0].ColorName)
	assert.Equal(t, money.Amount(123456), res.Products[0].UnitPrice)
	assert.Equal(t, 5, res.Products[0].StockCount)

	assert.Equal(t, "Azul", res.Products[1].ColorName)
	assert.Equal(t, money.Amount(1000), res.Products[1].UnitPrice)
	assert.True(t, res.Products[1].UnitWeight.IsZero())
	assert.Zero(t, res.Products[1].StockCount)
}

func TestParser_Windows1252(t *testing.T) {
	utf8 := "Cor;Preço\nAçaí;3,00\n"

	latin1, err := charmap.Windows1252.NewEncoder().String(utf8)
	require.NoError(t, err)

	res, err := importer.NewParser().Parse(strings.NewReader(latin1))
	require.NoError(t, err)
	require.Len(t, res.Products, 1)

	assert.Equal(t, "Açaí", res.Products[0].ColorName)
	assert.Equal(t, money.Amount(300), res.Products[0].UnitPrice)
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name      string
		csv       string
		wantField string
		wantRow   string
	}{
		{
			name:      "NoHeader",
			csv:       "name,amount\nRed,10\n",
			wantField: "file",
		},
		{
			name:      "OnlyHeader",
			csv:       "colorName,unitPrice\n",
			wantField: "file",
		},
		{
			name:      "BadPrice",
			csv:       "colorName,unitPrice\nRed,10\nBlue,ten\n",
			wantField: "unitPrice",
			wantRow:   "row 3",
		},
		{
			name:      "TooManyDecimals",
			csv:       "colorName,unitPrice\nRed,10.005\n",
			wantField: "unitPrice",
			wantRow:   "row 2",
		},
		{
			name:      "MissingColor",
			csv:       "colorName;unitPrice\n;10\n",
			wantField: "colorName",
			wantRow:   "row 2",
		},
		{
			name:      "FractionalStock",
			csv:       "colorName,unitPrice,stockCount\nRed,10,1.5\n",
			wantField: "stockCount",
			wantRow:   "row 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := importer.NewParser().Parse(strings.NewReader(tt.csv))
			assert.Nil(t, res)

			var vErr *apperr.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)

			if tt.wantRow != "" {
				assert.Contains(t, err.Error(), tt.wantRow)
			}
		})
	}
}
