package config

import (
	"github.com/shopspring/decimal"

	"github.com/taxfile/taxfile/internal/domain"
)

// Default2024 returns the built-in 2024 tax-year configuration. It is the
// fallback when no YAML file is supplied; a configuration file with tuned
// values always wins. Amounts approximate the published 2024 tables and are
// data, not law.
func Default2024() domain.TaxYearConfig {
	unbounded := decimal.New(1, 12) // 10^12, effectively no upper bound

	brackets := func(pairs ...[2]float64) domain.BracketTable {
		bt := make(domain.BracketTable, 0, len(pairs)+1)
		for _, p := range pairs {
			bt = append(bt, domain.Bracket{
				UpTo: decimal.NewFromFloat(p[0]),
				Rate: decimal.NewFromFloat(p[1]),
			})
		}
		return append(bt, domain.Bracket{UpTo: unbounded, Rate: decimal.NewFromFloat(0.37)})
	}

	return domain.TaxYearConfig{
		Year: 2024,
		Federal: domain.FederalConfig{
			StandardDeduction: map[string]decimal.Decimal{
				"single":           decimal.NewFromInt(14600),
				"married_joint":    decimal.NewFromInt(29200),
				"married_separate": decimal.NewFromInt(14600),
				"head_household":   decimal.NewFromInt(21900),
				"qual_widow":       decimal.NewFromInt(29200),
			},
			Brackets: map[string]domain.BracketTable{
				"single": brackets(
					[2]float64{11600, 0.10}, [2]float64{47150, 0.12},
					[2]float64{100525, 0.22}, [2]float64{191950, 0.24},
					[2]float64{243725, 0.32}, [2]float64{609350, 0.35},
				),
				"married_joint": brackets(
					[2]float64{23200, 0.10}, [2]float64{94300, 0.12},
					[2]float64{201050, 0.22}, [2]float64{383900, 0.24},
					[2]float64{487450, 0.32}, [2]float64{731200, 0.35},
				),
				"married_separate": brackets(
					[2]float64{11600, 0.10}, [2]float64{47150, 0.12},
					[2]float64{100525, 0.22}, [2]float64{191950, 0.24},
					[2]float64{243725, 0.32}, [2]float64{365600, 0.35},
				),
				"head_household": brackets(
					[2]float64{16550, 0.10}, [2]float64{63100, 0.12},
					[2]float64{100500, 0.22}, [2]float64{191950, 0.24},
					[2]float64{243700, 0.32}, [2]float64{609350, 0.35},
				),
				"qual_widow": brackets(
					[2]float64{23200, 0.10}, [2]float64{94300, 0.12},
					[2]float64{201050, 0.22}, [2]float64{383900, 0.24},
					[2]float64{487450, 0.32}, [2]float64{731200, 0.35},
				),
			},
			StudentLoanInterestCap: decimal.NewFromInt(2500),
			ChildTaxCredit: domain.ChildTaxCreditConfig{
				PerChild: decimal.NewFromInt(2000),
				PhaseOutThreshold: map[string]decimal.Decimal{
					"single":           decimal.NewFromInt(200000),
					"married_joint":    decimal.NewFromInt(400000),
					"married_separate": decimal.NewFromInt(200000),
					"head_household":   decimal.NewFromInt(200000),
					"qual_widow":       decimal.NewFromInt(400000),
				},
				PhaseOutStep:          decimal.NewFromInt(50),
				RefundableCapPerChild: decimal.NewFromInt(1600),
				EarnedIncomeFloor:     decimal.NewFromInt(2500),
				RefundableRate:        decimal.NewFromFloat(0.15),
			},
			SSAThresholds: map[string]domain.SSAThresholds{
				"single":         {Base: decimal.NewFromInt(25000), Additional: decimal.NewFromInt(34000)},
				"head_household": {Base: decimal.NewFromInt(25000), Additional: decimal.NewFromInt(34000)},
				"married_joint":  {Base: decimal.NewFromInt(32000), Additional: decimal.NewFromInt(44000)},
				"qual_widow":     {Base: decimal.NewFromInt(32000), Additional: decimal.NewFromInt(44000)},
				// Married-separate filers short-circuit in the calculator;
				// zero thresholds keep the table total if that ever changes.
				"married_separate": {Base: decimal.Zero, Additional: decimal.Zero},
			},
		},
		State: domain.StateConfig{
			Brackets: domain.BracketTable{
				{UpTo: decimal.NewFromInt(20000), Rate: decimal.NewFromFloat(0.0140)},
				{UpTo: decimal.NewFromInt(35000), Rate: decimal.NewFromFloat(0.0175)},
				{UpTo: decimal.NewFromInt(40000), Rate: decimal.NewFromFloat(0.0350)},
				{UpTo: decimal.NewFromInt(75000), Rate: decimal.NewFromFloat(0.05525)},
				{UpTo: decimal.NewFromInt(500000), Rate: decimal.NewFromFloat(0.0637)},
				{UpTo: unbounded, Rate: decimal.NewFromFloat(0.0897)},
			},
			PersonalExemption:  decimal.NewFromInt(1000),
			DependentExemption: decimal.NewFromInt(1500),
			SeniorExemption:    decimal.NewFromInt(1000),
			BlindExemption:     decimal.NewFromInt(1000),
			VeteranExemption:   decimal.NewFromInt(6000),
			PensionExclusion: domain.PensionExclusionConfig{
				MinAge:        62,
				IncomeCeiling: decimal.NewFromInt(100000),
				MaxByStatus: map[string]decimal.Decimal{
					"single":           decimal.NewFromInt(75000),
					"married_joint":    decimal.NewFromInt(150000),
					"married_separate": decimal.NewFromInt(75000),
					"head_household":   decimal.NewFromInt(75000),
					"qual_widow":       decimal.NewFromInt(150000),
				},
			},
			RentEquivalenceFactor:    decimal.NewFromFloat(0.18),
			PropertyDeductionCap:     decimal.NewFromInt(15000),
			PropertyCredit:           decimal.NewFromInt(50),
			PropertyCreditRefundable: false,
			EITCRate:                 decimal.NewFromFloat(0.40),
		},
	}
}
