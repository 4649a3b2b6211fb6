package audithook

// Action constants for audit events.
const (
	// Billing actions
	ActionBillIssued     = "bill.issued"
	ActionBillReplaced   = "bill.replaced"
	ActionBillPaid       = "bill.paid"
	ActionPaymentApplied = "payment.applied"

	// Meter actions
	ActionMeterAllocated = "meter.allocated"

	// Account actions
	ActionAccountCreated = "account.created"
	ActionAccountDeleted = "account.deleted"

	// Registry actions
	ActionCompanyCreated = "company.created"
	ActionCompanyUpdated = "company.updated"
	ActionCompanyDeleted = "company.deleted"

	// Federation actions
	ActionPartitionSkipped = "partition.skipped"
)

// Resource constants for audit events.
const (
	ResourceBill      = "bill"
	ResourcePayment   = "payment"
	ResourceMeter     = "meter"
	ResourceAccount   = "account"
	ResourceCompany   = "company"
	ResourcePartition = "partition"
)

// Category constants for audit events.
const (
	CategoryBilling    = "billing"
	CategoryPayment    = "payment"
	CategoryMetering   = "metering"
	CategoryAccount    = "account"
	CategoryRegistry   = "registry"
	CategoryFederation = "federation"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
