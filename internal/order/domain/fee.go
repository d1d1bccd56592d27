package domain

import "github.com/shopspring/decimal"

// FeeSchedule 配送费率：起步价加超出免费里程部分的每公里费率
type FeeSchedule struct {
	BaseFee  decimal.Decimal
	PerKmFee decimal.Decimal
	FreeKm   decimal.Decimal
}

// DefaultFeeSchedule 默认费率
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		BaseFee:  decimal.NewFromInt(2),
		PerKmFee: decimal.RequireFromString("0.5"),
		FreeKm:   decimal.NewFromInt(3),
	}
}

// Fee 按距离计费；自提不收配送费
func (s FeeSchedule) Fee(distanceKm float64, requireDelivery bool) decimal.Decimal {
	if !requireDelivery {
		return decimal.Zero
	}

	distance := decimal.NewFromFloat(distanceKm)
	billable := distance.Sub(s.FreeKm)
	if billable.IsNegative() {
		billable = decimal.Zero
	}
	return s.BaseFee.Add(billable.Mul(s.PerKmFee)).Round(2)
}
