package models

// periods per year, used to annualise daily figures
const (
	Daily   = 252
	Weekly  = 52
	Monthly = 12
	Yearly  = 1
)

const (
	AlignExact   = "exact"
	AlignMonthly = "monthly"
)
