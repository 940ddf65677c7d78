/*
fees.go - Commission and net-to-owner calculation

PURPOSE:
  Derives management fee, service fee, total commission, and net-to-owner
  for one period. Fees are computed on rent RECEIVED, never on rent due:
  commission is earned only on money actually collected.

RATE FALLBACK:
  Lease-level percentages win when set; otherwise the engine-wide defaults
  apply. Rates are percentages (10 means 10%) to match how the external
  platform records them.
*/
package billing

import "github.com/shopspring/decimal"

// FeeBreakdown is the commission slice of one ledger row.
type FeeBreakdown struct {
	ManagementPercent decimal.Decimal
	ServicePercent    decimal.Decimal
	ManagementFee     decimal.Decimal
	ServiceFee        decimal.Decimal
	TotalCommission   decimal.Decimal
	NetToOwner        decimal.Decimal
}

// ComputeFees derives the fee figures for one period's received amount.
// TotalCommission takes the absolute value so a misconfigured negative rate
// can never manufacture a negative "fee" that inflates the owner's net.
func ComputeFees(cfg FeeConfig, lease Lease, received, expenses decimal.Decimal) FeeBreakdown {
	managementPct := cfg.DefaultManagementPercent
	if lease.ManagementPercent != nil {
		managementPct = *lease.ManagementPercent
	}
	servicePct := cfg.DefaultServicePercent
	if lease.ServicePercent != nil {
		servicePct = *lease.ServicePercent
	}

	managementFee := received.Mul(managementPct).Div(hundred).Round(2)
	serviceFee := received.Mul(servicePct).Div(hundred).Round(2)
	commission := managementFee.Add(serviceFee).Abs()

	return FeeBreakdown{
		ManagementPercent: managementPct,
		ServicePercent:    servicePct,
		ManagementFee:     managementFee,
		ServiceFee:        serviceFee,
		TotalCommission:   commission,
		NetToOwner:        received.Sub(commission).Sub(expenses),
	}
}
