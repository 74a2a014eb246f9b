package allocation

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func workers(ids ...int64) []ParticipantInput {
	parts := make([]ParticipantInput, len(ids))
	for i, id := range ids {
		parts[i] = ParticipantInput{WorkerID: id, Quantity: 1}
	}
	return parts
}

func TestValidate_DivisionSum(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		quantities []int64
		wantSum    int64
		wantErr    bool
	}{
		{name: "soma menor", total: 100, quantities: []int64{40, 40}, wantSum: 80, wantErr: true},
		{name: "soma exata", total: 100, quantities: []int64{40, 60}},
		{name: "soma maior", total: 100, quantities: []int64{60, 60}, wantSum: 120, wantErr: true},
		{name: "estouro de int64", total: 1, quantities: []int64{math.MaxInt64, math.MaxInt64, 3}, wantSum: math.MaxInt64, wantErr: true},
		{name: "estouro após soma parcial", total: 10, quantities: []int64{5, math.MaxInt64}, wantSum: math.MaxInt64, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := DayInput{Date: "2024-01-02", TotalQuantity: tt.total}
			for i, q := range tt.quantities {
				in.Divisions = append(in.Divisions, DivisionInput{Quantity: q, Participants: workers(int64(i + 1))})
			}

			err := Validate(in)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var mismatch *DivisionMismatchError
			require.ErrorAs(t, err, &mismatch)
			assert.Equal(t, tt.total, mismatch.Declared)
			assert.Equal(t, tt.wantSum, mismatch.Sum)
		})
	}
}

func TestValidate_Rejections(t *testing.T) {
	base := func() DayInput {
		return DayInput{
			Date:          "2024-01-02",
			TotalQuantity: 10,
			Divisions:     []DivisionInput{{Quantity: 10, Participants: workers(1, 2)}},
		}
	}

	tests := []struct {
		name   string
		mutate func(in *DayInput)
	}{
		{"data inválida", func(in *DayInput) { in.Date = "02/01/2024" }},
		{"total zero", func(in *DayInput) { in.TotalQuantity = 0; in.Divisions[0].Quantity = 0 }},
		{"total negativo", func(in *DayInput) { in.TotalQuantity = -5 }},
		{"sem divisões", func(in *DayInput) { in.Divisions = nil }},
		{"divisão sem quantidade", func(in *DayInput) { in.Divisions[0].Quantity = 0 }},
		{"divisão sem participantes", func(in *DayInput) { in.Divisions[0].Participants = nil }},
		{"diarista repetido", func(in *DayInput) { in.Divisions[0].Participants = workers(1, 1) }},
		{"diarista sem id", func(in *DayInput) { in.Divisions[0].Participants = workers(0) }},
		{"quantidade negativa", func(in *DayInput) {
			in.Divisions[0].Participants = []ParticipantInput{{WorkerID: 1, Quantity: -1}}
		}},
		{"quantidade acima da divisão", func(in *DayInput) {
			in.Divisions[0].Participants = []ParticipantInput{{WorkerID: 1, Quantity: math.MaxInt64}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base()
			tt.mutate(&in)

			var verr *ValidationError
			assert.ErrorAs(t, Validate(in), &verr)
		})
	}
}

func TestShare_ExactSplit(t *testing.T) {
	value := dec("10.00").Mul(decimal.NewFromInt(3))
	share := Share(value, 3)

	assert.True(t, dec("30.00").Equal(value))
	assert.True(t, dec("10.00").Equal(share))
	assert.True(t, value.Equal(share.Mul(decimal.NewFromInt(3))))
}

func TestShare_RemainderIsNotRedistributed(t *testing.T) {
	value := dec("10.00").Mul(decimal.NewFromInt(10))
	share := Share(value, 3)

	assert.Equal(t, "33.33", share.StringFixed(2))

	sum := share.Mul(decimal.NewFromInt(3))
	assert.Equal(t, "99.99", sum.StringFixed(2))
	assert.False(t, sum.Equal(value), "a diferença de arredondamento deve permanecer")
}

func TestShare_RoundsHalfUp(t *testing.T) {
	assert.Equal(t, "0.03", Share(dec("0.05"), 2).StringFixed(2))
	assert.Equal(t, "16.67", Share(dec("50.00"), 3).StringFixed(2))
	assert.Equal(t, "0.01", Share(dec("0.01"), 2).StringFixed(2))
}

func TestAllocate_SplitsByHeadcount(t *testing.T) {
	in := DayInput{
		Date:          "2024-01-02",
		TotalQuantity: 100,
		Divisions: []DivisionInput{{
			Quantity: 100,
			Participants: []ParticipantInput{
				{WorkerID: 1, Quantity: 80},
				{WorkerID: 2, Quantity: 20},
			},
		}},
	}

	plan, err := Allocate(dec("5.00"), in)
	require.NoError(t, err)

	require.Len(t, plan.Divisions, 1)
	assert.Equal(t, "500.00", plan.TotalValue.StringFixed(2))
	assert.Equal(t, "500.00", plan.Divisions[0].Value.StringFixed(2))
	// quantidades declaradas não ponderam o pagamento
	assert.Equal(t, "250.00", plan.Divisions[0].Share.StringFixed(2))
}

func TestAllocate_MultipleDivisions(t *testing.T) {
	in := DayInput{
		Date:          "2024-01-02",
		TotalQuantity: 70,
		Divisions: []DivisionInput{
			{Quantity: 30, Description: "manhã", Participants: workers(1, 2, 3)},
			{Quantity: 40, Description: "tarde", Participants: workers(3, 4)},
		},
	}

	plan, err := Allocate(dec("2.50"), in)
	require.NoError(t, err)

	assert.Equal(t, "175.00", plan.TotalValue.StringFixed(2))
	assert.Equal(t, "25.00", plan.Divisions[0].Share.StringFixed(2))
	assert.Equal(t, "50.00", plan.Divisions[1].Share.StringFixed(2))
	assert.Equal(t, []int64{1, 2, 3, 4}, plan.WorkerIDs())
}

func TestAllocate_RequiresUnitPrice(t *testing.T) {
	in := DayInput{
		Date:          "2024-01-02",
		TotalQuantity: 10,
		Divisions:     []DivisionInput{{Quantity: 10, Participants: workers(1)}},
	}

	_, err := Allocate(decimal.Zero, in)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "unit_price", verr.Field)
}

func TestAllocate_ImplicitDivision(t *testing.T) {
	in := DayInput{
		Date:          "2024-01-02",
		TotalQuantity: 100,
		Participants: []ParticipantInput{
			{WorkerID: 1, Quantity: 70},
			{WorkerID: 2, Quantity: 30},
		},
	}

	plan, err := Allocate(dec("5.00"), in)
	require.NoError(t, err)
	require.Len(t, plan.Divisions, 1)
	assert.Equal(t, int64(100), plan.Divisions[0].Quantity)
	assert.Equal(t, "250.00", plan.Divisions[0].Share.StringFixed(2))
	assert.Equal(t, []int64{1, 2}, plan.WorkerIDs())
}

func TestValidate_DivisionsAndParticipantsTogether(t *testing.T) {
	in := DayInput{
		Date:          "2024-01-02",
		TotalQuantity: 10,
		Divisions:     []DivisionInput{{Quantity: 10, Participants: workers(1)}},
		Participants:  workers(2),
	}

	var verr *ValidationError
	require.ErrorAs(t, Validate(in), &verr)
	assert.Equal(t, "participants", verr.Field)
}
