package valueobject

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInstallmentNotFound     = errors.New("installment not found")
	ErrInstallmentAlreadyPaid  = errors.New("installment already paid")
)

// status is implemented by every lifecycle value object in this file.
type status interface {
	comparable
	String() string
}

func parseStatus[S status](kind, raw string, known []S) (S, error) {
	for _, s := range known {
		if s.String() == raw {
			return s, nil
		}
	}
	var zero S
	return zero, fmt.Errorf("invalid %s status: %q", kind, raw)
}

func transition[S status](kind string, from, to S, allowed map[S][]S) (S, error) {
	if !slices.Contains(allowed[from], to) {
		return from, fmt.Errorf("%w: %s %s -> %s", ErrInvalidStatusTransition, kind, from.String(), to.String())
	}
	return to, nil
}

// ApplicationStatus is the underwriting stage of a farm loan application:
//
//	SUBMITTED -> UNDER_REVIEW -> APPROVED -> SCHEDULED
//	                          \-> REJECTED
type ApplicationStatus struct{ value string }

var (
	ApplicationStatusSubmitted   = ApplicationStatus{"SUBMITTED"}
	ApplicationStatusUnderReview = ApplicationStatus{"UNDER_REVIEW"}
	ApplicationStatusApproved    = ApplicationStatus{"APPROVED"}
	ApplicationStatusRejected    = ApplicationStatus{"REJECTED"}
	ApplicationStatusScheduled   = ApplicationStatus{"SCHEDULED"}
)

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusSubmitted:   {ApplicationStatusUnderReview},
	ApplicationStatusUnderReview: {ApplicationStatusApproved, ApplicationStatusRejected},
	ApplicationStatusApproved:    {ApplicationStatusScheduled},
}

func NewApplicationStatus(s string) (ApplicationStatus, error) {
	return parseStatus("application", s, []ApplicationStatus{
		ApplicationStatusSubmitted, ApplicationStatusUnderReview, ApplicationStatusApproved,
		ApplicationStatusRejected, ApplicationStatusScheduled,
	})
}

func (s ApplicationStatus) String() string { return s.value }
func (s ApplicationStatus) IsZero() bool { return s.value == "" }
func (s ApplicationStatus) Equal(other ApplicationStatus) bool { return s == other }

// IsFinal reports whether no further transition is possible.
func (s ApplicationStatus) IsFinal() bool { return len(applicationTransitions[s]) == 0 }

// TransitionTo returns next, or ErrInvalidStatusTransition when the move is
// not on the lifecycle graph.
func (s ApplicationStatus) TransitionTo(next ApplicationStatus) (ApplicationStatus, error) {
	return transition("application", s, next, applicationTransitions)
}

// LoanStatus is the servicing state of a booked loan. ACTIVE and DELINQUENT
// alternate with the overdue state of the schedule; PAID_OFF is terminal.
type LoanStatus struct{ value string }

var (
	LoanStatusActive     = LoanStatus{"ACTIVE"}
	LoanStatusDelinquent = LoanStatus{"DELINQUENT"}
	LoanStatusPaidOff    = LoanStatus{"PAID_OFF"}
)

var loanTransitions = map[LoanStatus][]LoanStatus{
	LoanStatusActive:     {LoanStatusDelinquent, LoanStatusPaidOff},
	LoanStatusDelinquent: {LoanStatusActive, LoanStatusPaidOff},
}

func NewLoanStatus(s string) (LoanStatus, error) {
	return parseStatus("loan", s, []LoanStatus{LoanStatusActive, LoanStatusDelinquent, LoanStatusPaidOff})
}

func (s LoanStatus) String() string { return s.value }
func (s LoanStatus) IsZero() bool { return s.value == "" }
func (s LoanStatus) Equal(other LoanStatus) bool { return s == other }

// IsOpen reports whether the loan still has installments to collect.
func (s LoanStatus) IsOpen() bool { return s == LoanStatusActive || s == LoanStatusDelinquent }

func (s LoanStatus) TransitionTo(next LoanStatus) (LoanStatus, error) {
	return transition("loan", s, next, loanTransitions)
}

// InstallmentStatus is the repayment state of one scheduled installment.
// PAID is terminal; OVERDUE installments may still be paid.
type InstallmentStatus struct{ value string }

var (
	InstallmentStatusPending = InstallmentStatus{"PENDING"}
	InstallmentStatusPaid    = InstallmentStatus{"PAID"}
	InstallmentStatusOverdue = InstallmentStatus{"OVERDUE"}
)

var installmentTransitions = map[InstallmentStatus][]InstallmentStatus{
	InstallmentStatusPending: {InstallmentStatusOverdue, InstallmentStatusPaid},
	InstallmentStatusOverdue: {InstallmentStatusPaid},
}

func NewInstallmentStatus(s string) (InstallmentStatus, error) {
	return parseStatus("installment", s, []InstallmentStatus{
		InstallmentStatusPending, InstallmentStatusPaid, InstallmentStatusOverdue,
	})
}

func (s InstallmentStatus) String() string { return s.value }
func (s InstallmentStatus) IsZero() bool { return s.value == "" }
func (s InstallmentStatus) Equal(other InstallmentStatus) bool { return s == other }
func (s InstallmentStatus) IsPaid() bool { return s == InstallmentStatusPaid }

func (s InstallmentStatus) TransitionTo(next InstallmentStatus) (InstallmentStatus, error) {
	return transition("installment", s, next, installmentTransitions)
}
