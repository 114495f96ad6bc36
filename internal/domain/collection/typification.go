package collection

// TypificationCode classifies the outcome of a collection interaction.
// Codes are tenant-configurable; the constants below are the conventional
// payment-outcome set.
type TypificationCode string

const (
	// TypificationFullPayment - customer paid the full outstanding amount (Pago Completo)
	TypificationFullPayment TypificationCode = "PC"
	// TypificationPartialPayment - customer paid part of the outstanding amount (Pago Parcial)
	TypificationPartialPayment TypificationCode = "PP"
	// TypificationPaymentCommitment - customer committed to a payment (Promesa Total)
	TypificationPaymentCommitment TypificationCode = "PT"
	// TypificationPartialCommitment - customer committed to a partial payment (Promesa Parcial)
	TypificationPartialCommitment TypificationCode = "PPT"
)

// TypificationPolicy decides whether a typification code counts as a payment
// outcome, i.e. whether a management carrying that code should feed its
// reported amount into the allocation engine.
type TypificationPolicy interface {
	AppliesPaymentToSchedule(code TypificationCode) bool
}

// FixedTypificationPolicy qualifies a fixed set of codes.
type FixedTypificationPolicy struct {
	codes map[TypificationCode]struct{}
}

// NewFixedTypificationPolicy builds a policy from an explicit code set.
func NewFixedTypificationPolicy(codes ...TypificationCode) *FixedTypificationPolicy {
	set := make(map[TypificationCode]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return &FixedTypificationPolicy{codes: set}
}

// NewDefaultTypificationPolicy returns the policy with the conventional
// payment-outcome codes.
func NewDefaultTypificationPolicy() *FixedTypificationPolicy {
	return NewFixedTypificationPolicy(
		TypificationFullPayment,
		TypificationPartialPayment,
		TypificationPaymentCommitment,
		TypificationPartialCommitment,
	)
}

// AppliesPaymentToSchedule implements TypificationPolicy.
func (p *FixedTypificationPolicy) AppliesPaymentToSchedule(code TypificationCode) bool {
	_, ok := p.codes[code]
	return ok
}

// Codes returns the qualifying codes, useful for diagnostics.
func (p *FixedTypificationPolicy) Codes() []TypificationCode {
	out := make([]TypificationCode, 0, len(p.codes))
	for c := range p.codes {
		out = append(out, c)
	}
	return out
}
