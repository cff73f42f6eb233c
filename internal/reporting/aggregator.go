package reporting

import (
	"math"

	"hfmetrics/pkg/contracts/domain"
)

// Aggregate reduces facility-month states into one MonthlyRate per
// axis month: denominator = included rows, numerator = included rows
// that reported, rate = numerator/denominator*100 rounded to two
// decimals. A month with a zero denominator carries a nil rate, which
// is distinct from a computed 0%.
func Aggregate(policy domain.Policy, states []domain.FacilityMonthState, axis []domain.YearMonth) []domain.MonthlyRate {
	position := make(map[int]int, len(axis))
	for i, p := range axis {
		position[p.Ordinal()] = i
	}

	denominator := make([]int, len(axis))
	numerator := make([]int, len(axis))
	for _, st := range states {
		if !st.Included {
			continue
		}
		i, ok := position[st.Period.Ordinal()]
		if !ok {
			continue
		}
		denominator[i]++
		if st.Reported {
			numerator[i]++
		}
	}

	rates := make([]domain.MonthlyRate, len(axis))
	for i, period := range axis {
		rate := domain.MonthlyRate{
			Policy:      policy,
			Period:      period,
			Denominator: denominator[i],
			Numerator:   numerator[i],
		}
		if denominator[i] > 0 {
			r := math.Round(float64(numerator[i])/float64(denominator[i])*100*100) / 100
			rate.Rate = &r
		}
		rates[i] = rate
	}
	return rates
}
