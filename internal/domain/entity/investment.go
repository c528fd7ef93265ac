package entity

import (
	"time"

	"github.com/google/uuid"
)

// InvestmentType is the kind of funding instrument between an investor and an artisan.
type InvestmentType string

const (
	InvestmentGrant           InvestmentType = "grant"
	InvestmentLoan            InvestmentType = "loan"
	InvestmentEquity          InvestmentType = "equity"
	InvestmentPreOrderFunding InvestmentType = "preorder_funding"
)

// IsValid checks if the InvestmentType is a valid value.
func (t InvestmentType) IsValid() bool {
	switch t {
	case InvestmentGrant, InvestmentLoan, InvestmentEquity, InvestmentPreOrderFunding:
		return true
	default:
		return false
	}
}

// InvestmentStatus is the lifecycle status of an investment.
type InvestmentStatus string

const (
	InvestmentProposed  InvestmentStatus = "proposed"
	InvestmentFunding   InvestmentStatus = "funding"
	InvestmentActive    InvestmentStatus = "active"
	InvestmentRepaid    InvestmentStatus = "repaid"
	InvestmentCancelled InvestmentStatus = "cancelled"
)

// Contribution is a single funding contribution appended to an investment.
type Contribution struct {
	UserID        uuid.UUID `json:"userId"`
	Amount        float64   `json:"amount"`
	ContributedAt time.Time `json:"contributedAt"`
}

// FundingProgress accumulates contributions by append-and-sum.
type FundingProgress struct {
	AmountRaised float64        `json:"amountRaised"`
	TargetAmount float64        `json:"targetAmount"`
	Contributors []Contribution `json:"contributors"`
}

// RepaymentEntry is a scheduled repayment installment.
type RepaymentEntry struct {
	DueDate time.Time  `json:"dueDate"`
	Amount  float64    `json:"amount"`
	Paid    bool       `json:"paid"`
	PaidAt  *time.Time `json:"paidAt,omitempty"`
}

// Repayment tracks installments against the investment principal.
type Repayment struct {
	Schedule         []RepaymentEntry `json:"schedule"`
	TotalPaid        float64          `json:"totalPaid"`
	RemainingBalance float64          `json:"remainingBalance"`
}

// Investment links one investor and one artisan through a funding instrument.
type Investment struct {
	ID         uuid.UUID      `json:"id"`
	InvestorID uuid.UUID      `json:"investorId"`
	ArtisanID  uuid.UUID      `json:"artisanId"`
	Type       InvestmentType `json:"type"`
	Principal  float64        `json:"principal"`
	Terms      string         `json:"terms"`

	FundingProgress FundingProgress `json:"fundingProgress"`
	Repayment       Repayment       `json:"repayment"`

	Status InvestmentStatus `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AddContribution appends a contributor record and accumulates the raised amount.
func (inv *Investment) AddContribution(userID uuid.UUID, amount float64, now time.Time) {
	inv.FundingProgress.Contributors = append(inv.FundingProgress.Contributors, Contribution{
		UserID:        userID,
		Amount:        amount,
		ContributedAt: now,
	})
	inv.FundingProgress.AmountRaised += amount
}

// RecordRepayment marks the schedule entry matching dueDate exactly as paid
// and recomputes TotalPaid and RemainingBalance. It reports whether a
// matching entry was found.
func (inv *Investment) RecordRepayment(dueDate time.Time, now time.Time) bool {
	matched := false
	for idx := range inv.Repayment.Schedule {
		entry := &inv.Repayment.Schedule[idx]
		if !entry.DueDate.Equal(dueDate) {
			continue
		}

		entry.Paid = true
		paidAt := now
		entry.PaidAt = &paidAt
		matched = true

		break
	}

	if !matched {
		return false
	}

	total := 0.0
	for _, entry := range inv.Repayment.Schedule {
		if entry.Paid {
			total += entry.Amount
		}
	}
	inv.Repayment.TotalPaid = total
	inv.Repayment.RemainingBalance = max(0, inv.Principal-total)

	return true
}
