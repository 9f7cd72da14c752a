package domain

const (
	// ZERO_ADDRESS is never a valid caller or recipient
	ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

	// REGISTRY_ACCOUNT is the reserved internal account that purchase and
	// fulfilment funds pass through and that rental income is deposited to
	REGISTRY_ACCOUNT = "0x0000000000000000000000000000000000000001"

	// INSURANCE_FUND_ACCOUNT is the reserved internal account holding the
	// shared insurance fund
	INSURANCE_FUND_ACCOUNT = "0x0000000000000000000000000000000000000002"

	// BPS_DENOMINATOR is the basis-point divisor for fee and quorum rates
	BPS_DENOMINATOR = 10_000
)
